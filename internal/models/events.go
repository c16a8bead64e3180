package models

import "time"

// Event types published to the event stream
const (
	EventTypeSessionStarted = "SessionStarted"
	EventTypeSessionEnded   = "SessionEnded"
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderDeleted   = "OrderDeleted"
)

// BaseEvent contains common event fields
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionStartedEvent is published when a sale session opens
type SessionStartedEvent struct {
	BaseEvent
	SessionID      int64 `json:"session_id"`
	StartedBy      int64 `json:"started_by"`
	InventoryCount int   `json:"inventory_count"`
}

// SessionEndedEvent is published when a sale session closes
type SessionEndedEvent struct {
	BaseEvent
	SessionID  int64   `json:"session_id"`
	EndedBy    int64   `json:"ended_by"`
	OrderCount int     `json:"order_count"`
	TotalSales float64 `json:"total_sales"`
}

// OrderItemData is the event-stream shape of an order line
type OrderItemData struct {
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Size       string  `json:"size"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

// OrderCreatedEvent is published after an order is persisted
type OrderCreatedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	SessionID     int64           `json:"session_id"`
	OrderNumber   int             `json:"order_number"`
	TotalAmount   float64         `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	CreatedBy     int64           `json:"created_by"`
	Items         []OrderItemData `json:"items"`
}

// OrderDeletedEvent is published after an order is removed
type OrderDeletedEvent struct {
	BaseEvent
	OrderID     int64   `json:"order_id"`
	SessionID   int64   `json:"session_id"`
	OrderNumber int     `json:"order_number"`
	TotalAmount float64 `json:"total_amount"`
	DeletedBy   int64   `json:"deleted_by"`
}
