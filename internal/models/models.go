package models

import (
	"sort"
	"time"
)

// AuthorizedUser is a staff member allowed to operate the bot
type AuthorizedUser struct {
	TelegramID int64     `db:"telegram_id" json:"telegram_id"`
	Username   *string   `db:"username" json:"username,omitempty"`
	FullName   *string   `db:"full_name" json:"full_name,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DisplayName returns the best human-readable label for a user
func (u *AuthorizedUser) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	if u.Username != nil && *u.Username != "" {
		return "@" + *u.Username
	}
	return ""
}

// MenuItem is one orderable entry (name + size variant)
type MenuItem struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Size         string    `db:"size" json:"size"`
	Price        float64   `db:"price" json:"price"`
	Active       bool      `db:"active" json:"active"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SaleSession is one open-to-close trading window
type SaleSession struct {
	ID         int64      `db:"id" json:"id"`
	StartedBy  int64      `db:"started_by" json:"started_by"`
	StartedAt  time.Time  `db:"started_at" json:"started_at"`
	Status     string     `db:"status" json:"status"`
	EndedAt    *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	TotalSales float64    `db:"total_sales" json:"total_sales"`
}

// Session statuses
const (
	SessionStatusActive = "active"
	SessionStatusEnded  = "ended"
)

// InventoryLog is one starting-inventory entry for a session.
// Item names are free text, independent of the menu.
type InventoryLog struct {
	ID        int64     `db:"id" json:"id"`
	SessionID int64     `db:"session_id" json:"session_id"`
	ItemName  string    `db:"item_name" json:"item_name"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CostPrice *float64  `db:"cost_price" json:"cost_price,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Order is a submitted sale, numbered sequentially within its session
type Order struct {
	ID            int64     `db:"id" json:"id"`
	SessionID     int64     `db:"session_id" json:"session_id"`
	OrderNumber   int       `db:"order_number" json:"order_number"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	CreatedBy     int64     `db:"created_by" json:"created_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// OrderItem is one line of an order, snapshotting the menu item at sale time
type OrderItem struct {
	ID         int64   `db:"id" json:"id"`
	OrderID    int64   `db:"order_id" json:"order_id"`
	MenuItemID int64   `db:"menu_item_id" json:"menu_item_id"`
	Name       string  `db:"name" json:"name"`
	Size       string  `db:"size" json:"size"`
	UnitPrice  float64 `db:"unit_price" json:"unit_price"`
	Quantity   int     `db:"quantity" json:"quantity"`
}

// Payment method labels
const (
	PaymentMethodCash   = "cash"
	PaymentMethodPayNow = "paynow"
)

// CartLine is one in-progress order line. Prices are snapshots: menu edits
// after the line was added do not change it.
type CartLine struct {
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Size       string  `json:"size"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

// Cart maps menu item ID to an in-progress line. Ephemeral, never persisted.
type Cart map[int64]*CartLine

// Total recomputes the cart total from current lines
func (c Cart) Total() float64 {
	var total float64
	for _, line := range c {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// Lines returns cart lines in a stable display order
func (c Cart) Lines() []*CartLine {
	lines := make([]*CartLine, 0, len(c))
	for _, line := range c {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].Size < lines[j].Size
	})
	return lines
}
