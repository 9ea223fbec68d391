package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancellationRequestFlow(t *testing.T) {
	saleID := uuid.New()
	requester := uuid.New()
	manager := uuid.New()

	t.Run("approve then finalize", func(t *testing.T) {
		req, err := NewCancellationRequest(saleID, "customer no-show", requester)
		require.NoError(t, err)
		assert.Equal(t, CancellationPending, req.State)
		assert.True(t, req.State.IsActive())

		require.NoError(t, req.Approve(manager))
		assert.Equal(t, CancellationApproved, req.State)
		assert.Equal(t, manager, *req.ApprovedBy)

		require.NoError(t, req.MarkCancelled())
		assert.Equal(t, CancellationCancelled, req.State)
		assert.True(t, req.State.IsTerminal())
		assert.NotNil(t, req.CancelledAt)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		req, err := NewCancellationRequest(saleID, "wrong booking", requester)
		require.NoError(t, err)

		assert.Error(t, req.Reject(manager, ""))
		require.NoError(t, req.Reject(manager, "sale already travelled"))
		assert.Equal(t, CancellationRejected, req.State)
		assert.True(t, req.State.IsTerminal())
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		req, err := NewCancellationRequest(saleID, "duplicate", requester)
		require.NoError(t, err)
		require.NoError(t, req.Approve(manager))
		assert.Error(t, req.Approve(manager))
	})

	t.Run("cannot finalize without approval", func(t *testing.T) {
		req, err := NewCancellationRequest(saleID, "pending one", requester)
		require.NoError(t, err)
		assert.Error(t, req.MarkCancelled())
	})

	t.Run("rejects empty reason", func(t *testing.T) {
		_, err := NewCancellationRequest(saleID, "", requester)
		assert.Error(t, err)
	})
}
