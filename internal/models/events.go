package models

import "time"

// Event types
const (
	EventTypeCheckoutCompleted = "CHECKOUT_COMPLETED"
	EventTypeContactSubmitted  = "CONTACT_SUBMITTED"
	EventTypeCatalogReloaded   = "CATALOG_RELOADED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckoutCompletedEvent published when a simulated checkout settles
type CheckoutCompletedEvent struct {
	BaseEvent
	OrderID     int64          `json:"order_id"`
	SessionID   string         `json:"session_id"`
	Currency    string         `json:"currency"`
	TotalItems  int            `json:"total_items"`
	TotalAmount string         `json:"total_amount"`
	Items       []CartItemData `json:"items"`
}

// ContactSubmittedEvent published after a contact form is relayed
type ContactSubmittedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Delivered bool   `json:"delivered"`
}

// CatalogReloadedEvent published when the catalog is replaced
type CatalogReloadedEvent struct {
	BaseEvent
	Source       string `json:"source"`
	ProductCount int    `json:"product_count"`
}

// CartItemData represents line data carried in events
type CartItemData struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Amount    int    `json:"amount"`
}
