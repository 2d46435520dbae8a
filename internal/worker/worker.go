package worker

import (
	"context"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/naturburst/naturburst.com-sub000/internal/broker"
	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// AnalyticsWorker consumes storefront events and keeps running sales
// counters. The counters are process-local: they answer "what happened
// since this instance started", not durable reporting.
type AnalyticsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler

	mu             sync.Mutex
	checkouts      int
	unitsSold      map[string]int
	revenue        map[string]decimal.Decimal
	contacts       int
	contactsFailed int
	catalogReloads int
}

// AnalyticsSnapshot is a point-in-time copy of the worker's counters.
type AnalyticsSnapshot struct {
	Checkouts      int               `json:"checkouts"`
	UnitsSold      map[string]int    `json:"units_sold"`
	Revenue        map[string]string `json:"revenue"`
	Contacts       int               `json:"contacts"`
	ContactsFailed int               `json:"contacts_failed"`
	CatalogReloads int               `json:"catalog_reloads"`
}

// NewAnalyticsWorker creates a new analytics worker
func NewAnalyticsWorker(consumer *broker.Consumer) *AnalyticsWorker {
	w := &AnalyticsWorker{
		consumer:  consumer,
		unitsSold: make(map[string]int),
		revenue:   make(map[string]decimal.Decimal),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnCheckoutCompleted(w.handleCheckoutCompleted)
	eventHandler.OnContactSubmitted(w.handleContactSubmitted)
	eventHandler.OnCatalogReloaded(w.handleCatalogReloaded)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AnalyticsWorker) Start(ctx context.Context) error {
	log.Println("Starting analytics worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AnalyticsWorker) Stop() error {
	log.Println("Stopping analytics worker...")
	return w.consumer.Close()
}

// Snapshot returns a copy of the current counters.
func (w *AnalyticsWorker) Snapshot() AnalyticsSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	units := make(map[string]int, len(w.unitsSold))
	for id, n := range w.unitsSold {
		units[id] = n
	}
	revenue := make(map[string]string, len(w.revenue))
	for cur, total := range w.revenue {
		revenue[cur] = total.StringFixed(2)
	}

	return AnalyticsSnapshot{
		Checkouts:      w.checkouts,
		UnitsSold:      units,
		Revenue:        revenue,
		Contacts:       w.contacts,
		ContactsFailed: w.contactsFailed,
		CatalogReloads: w.catalogReloads,
	}
}

func (w *AnalyticsWorker) handleCheckoutCompleted(_ context.Context, event *models.CheckoutCompletedEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.checkouts++
	for _, item := range event.Items {
		w.unitsSold[item.ProductID] += item.Amount
	}
	if total, err := decimal.NewFromString(event.TotalAmount); err == nil {
		w.revenue[event.Currency] = w.revenue[event.Currency].Add(total)
	}

	log.Printf("Checkout settled: order=%d items=%d total=%s %s",
		event.OrderID, event.TotalItems, event.TotalAmount, event.Currency)
	return nil
}

func (w *AnalyticsWorker) handleContactSubmitted(_ context.Context, event *models.ContactSubmittedEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.contacts++
	if !event.Delivered {
		w.contactsFailed++
	}

	log.Printf("Contact relayed: session=%s delivered=%t", event.SessionID, event.Delivered)
	return nil
}

func (w *AnalyticsWorker) handleCatalogReloaded(_ context.Context, event *models.CatalogReloadedEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.catalogReloads++

	log.Printf("Catalog reloaded: source=%s products=%d", event.Source, event.ProductCount)
	return nil
}
