package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/settler/internal/transaction"
)

func TestAllowedTransitions(t *testing.T) {
	allowed := AllowedTransitions()

	// settled can only be disputed
	assert.Equal(t, []TxState{StateDisputed}, allowed[StateSettled])

	// disputed can be resolved back to settled or charged back
	assert.Contains(t, allowed[StateDisputed], StateSettled)
	assert.Contains(t, allowed[StateDisputed], StateChargedBack)
	assert.Len(t, allowed[StateDisputed], 2)

	// charged_back is terminal
	assert.Empty(t, allowed[StateChargedBack])
}

func TestTransitionRejectionCodes(t *testing.T) {
	tests := []struct {
		name string
		from TxState
		to   TxState
		code RejectionCode
	}{
		{"dispute of a disputed transaction", StateDisputed, StateDisputed, RejectAlreadyDisputed},
		{"resolve of a settled transaction", StateSettled, StateSettled, RejectNotDisputed},
		{"chargeback of a settled transaction", StateSettled, StateChargedBack, RejectNotDisputed},
		{"dispute of a charged-back transaction", StateChargedBack, StateDisputed, RejectFinalized},
		{"resolve of a charged-back transaction", StateChargedBack, StateSettled, RejectFinalized},
		{"chargeback of a charged-back transaction", StateChargedBack, StateChargedBack, RejectFinalized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			held := &heldTransaction{
				txID:     1,
				clientID: 1,
				kind:     transaction.KindDeposit,
				amount:   decimal.New(10, 0),
				state:    tt.from,
			}

			err := held.transition(tt.to, 1)
			require.Error(t, err)
			var rej *RejectionError
			require.ErrorAs(t, err, &rej)
			assert.Equal(t, tt.code, rej.Code)
			assert.Equal(t, tt.from, held.state, "failed transition must not move the state")
		})
	}
}

func TestTransitionLifecycle(t *testing.T) {
	held := &heldTransaction{txID: 1, clientID: 1, kind: transaction.KindDeposit, state: StateSettled}

	require.NoError(t, held.transition(StateDisputed, 1))
	require.NoError(t, held.transition(StateSettled, 1))
	require.NoError(t, held.transition(StateDisputed, 1))
	require.NoError(t, held.transition(StateChargedBack, 1))
	assert.Equal(t, StateChargedBack, held.state)
}
