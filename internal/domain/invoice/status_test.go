package invoice

import (
	"errors"
	"testing"

	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	t.Run("rejected can be cancelled", func(t *testing.T) {
		next, err := Transition(StatusRejected, EventCancel)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, next)
	})

	for _, from := range []Status{StatusApproved, StatusCancelled} {
		t.Run(string(from)+" cannot be cancelled", func(t *testing.T) {
			next, err := Transition(from, EventCancel)
			require.Error(t, err)
			assert.Equal(t, from, next)
			assert.True(t, errors.Is(err, ErrCannotBeCancelled))
			assert.Equal(t, "Invoice cannot be cancelled in status: "+string(from), err.Error())
		})
	}

	t.Run("unknown event", func(t *testing.T) {
		_, err := Transition(StatusRejected, Event("APPROVE"))
		require.Error(t, err)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_STATE", de.Code)
	})
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusRejected, EventCancel))
	assert.False(t, CanTransition(StatusApproved, EventCancel))
	assert.False(t, CanTransition(StatusCancelled, EventCancel))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("REJECTED")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, s)
	assert.False(t, s.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	_, err = ParseStatus("PENDING")
	assert.Error(t, err)
}
