package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusCaseInsensitive(t *testing.T) {
	for _, in := range []string{"shipped", "Shipped", "SHIPPED", "  shipped  "} {
		st, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, StatusShipped, st)
	}
}

func TestParseStatusUnknown(t *testing.T) {
	_, err := ParseStatus("teleported")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestIsFailureClass(t *testing.T) {
	for _, st := range []OrderStatus{StatusCancelled, StatusReturned, StatusRefunded, StatusFailed, StatusDeclined} {
		assert.True(t, st.IsFailureClass(), st)
	}
	for _, st := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCompleted} {
		assert.False(t, st.IsFailureClass(), st)
	}
}

func TestHappyPathIndex(t *testing.T) {
	assert.Equal(t, 0, StatusPending.HappyPathIndex())
	assert.Equal(t, 3, StatusOutForDelivery.HappyPathIndex())
	assert.Equal(t, 5, StatusCompleted.HappyPathIndex())
	assert.Equal(t, -1, StatusCancelled.HappyPathIndex())
	assert.Equal(t, -1, StatusFailed.HappyPathIndex())
}

func TestCancellable(t *testing.T) {
	assert.True(t, StatusPending.Cancellable())
	assert.True(t, StatusProcessing.Cancellable())
	assert.False(t, StatusShipped.Cancellable())
	assert.False(t, StatusCancelled.Cancellable())
}
