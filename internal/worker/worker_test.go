package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

func TestAnalyticsCountersAccumulate(t *testing.T) {
	w := NewAnalyticsWorker(nil)

	err := w.handleCheckoutCompleted(context.Background(), &models.CheckoutCompletedEvent{
		OrderID:     1,
		SessionID:   "s1",
		Currency:    "USD",
		TotalItems:  3,
		TotalAmount: "547.00",
		Items: []models.CartItemData{
			{ProductID: "1", Amount: 2},
			{ProductID: "2", Amount: 1},
		},
	})
	require.NoError(t, err)

	err = w.handleCheckoutCompleted(context.Background(), &models.CheckoutCompletedEvent{
		OrderID:     2,
		SessionID:   "s2",
		Currency:    "USD",
		TotalItems:  1,
		TotalAmount: "149.00",
		Items:       []models.CartItemData{{ProductID: "3", Amount: 1}},
	})
	require.NoError(t, err)

	snap := w.Snapshot()
	assert.Equal(t, 2, snap.Checkouts)
	assert.Equal(t, 2, snap.UnitsSold["1"])
	assert.Equal(t, 1, snap.UnitsSold["3"])
	assert.Equal(t, "696.00", snap.Revenue["USD"])
}

func TestAnalyticsTracksFailedContacts(t *testing.T) {
	w := NewAnalyticsWorker(nil)

	require.NoError(t, w.handleContactSubmitted(context.Background(), &models.ContactSubmittedEvent{
		SessionID: "s1",
		Delivered: true,
	}))
	require.NoError(t, w.handleContactSubmitted(context.Background(), &models.ContactSubmittedEvent{
		SessionID: "s2",
		Delivered: false,
	}))

	snap := w.Snapshot()
	assert.Equal(t, 2, snap.Contacts)
	assert.Equal(t, 1, snap.ContactsFailed)
}

func TestAnalyticsIgnoresUnparsableTotals(t *testing.T) {
	w := NewAnalyticsWorker(nil)

	require.NoError(t, w.handleCheckoutCompleted(context.Background(), &models.CheckoutCompletedEvent{
		OrderID:     3,
		Currency:    "EUR",
		TotalAmount: "not-a-number",
	}))

	snap := w.Snapshot()
	assert.Equal(t, 1, snap.Checkouts)
	assert.Empty(t, snap.Revenue)
}
