package util

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pos-bot/internal/models"
)

var businessTZ = time.UTC

// SetTimezone sets the timezone used for user-facing timestamps
func SetTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	businessTZ = loc
	return nil
}

// FormatCurrency formats a dollar amount, e.g. "$12.50"
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatFullDatetime formats a timestamp in the business timezone,
// e.g. "18 Oct 2025, 02:30 PM"
func FormatFullDatetime(t time.Time) string {
	return t.In(businessTZ).Format("02 Jan 2006, 03:04 PM")
}

// Now returns the current time in the business timezone
func Now() time.Time {
	return time.Now().In(businessTZ)
}

// FormatMenuItem renders one menu item, e.g. "Matcha (Reg) - $4.50"
func FormatMenuItem(item *models.MenuItem) string {
	return fmt.Sprintf("%s (%s) - %s", item.Name, item.Size, FormatCurrency(item.Price))
}

// FormatMenuList renders the full menu as a numbered list
func FormatMenuList(items []models.MenuItem) string {
	if len(items) == 0 {
		return "No menu items found."
	}

	lines := []string{"📋 *Current Menu:*", ""}
	for i := range items {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, FormatMenuItem(&items[i])))
	}
	return strings.Join(lines, "\n")
}

// FormatCart renders the in-progress cart with a running subtotal
func FormatCart(cart models.Cart) string {
	if len(cart) == 0 {
		return "🛒 *Cart is empty*"
	}

	lines := []string{"🛒 *Current Cart:*", ""}
	for _, line := range cart.Lines() {
		lineTotal := line.UnitPrice * float64(line.Quantity)
		lines = append(lines, fmt.Sprintf("• %s (%s) x%d = %s",
			line.Name, line.Size, line.Quantity, FormatCurrency(lineTotal)))
	}
	lines = append(lines, "", "*Subtotal:* "+FormatCurrency(cart.Total()))
	return strings.Join(lines, "\n")
}

// FormatOrderItems renders the lines of a submitted order
func FormatOrderItems(items []models.OrderItem) string {
	lines := make([]string, 0, len(items))
	for i := range items {
		item := &items[i]
		lineTotal := item.UnitPrice * float64(item.Quantity)
		lines = append(lines, fmt.Sprintf("• %s (%s) x%d = %s",
			item.Name, item.Size, item.Quantity, FormatCurrency(lineTotal)))
	}
	return strings.Join(lines, "\n")
}

// FormatOrderSummary renders a full order detail view
func FormatOrderSummary(order *models.Order, items []models.OrderItem) string {
	return strings.Join([]string{
		fmt.Sprintf("📝 *Order #%d*", order.OrderNumber),
		"",
		FormatOrderItems(items),
		"",
		"*Total:* " + FormatCurrency(order.TotalAmount),
		"*Payment:* " + TitleWord(order.PaymentMethod),
	}, "\n")
}

// FormatSessionSummary renders the end-of-session report.
// itemsSold maps "Name (Size)" to total quantity sold.
func FormatSessionSummary(session *models.SaleSession, orderCount int, itemsSold map[string]int) string {
	lines := []string{
		"📊 *Session Summary*",
		"",
		fmt.Sprintf("*Total Orders:* %d", orderCount),
		"*Total Revenue:* " + FormatCurrency(session.TotalSales),
	}

	if len(itemsSold) > 0 {
		names := make([]string, 0, len(itemsSold))
		for name := range itemsSold {
			names = append(names, name)
		}
		sort.Strings(names)

		lines = append(lines, "", "*Items Sold:*")
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("• %s: %d", name, itemsSold[name]))
		}
	}

	return strings.Join(lines, "\n")
}

// FormatInventoryList renders logged starting inventory
func FormatInventoryList(entries []models.InventoryLog) string {
	if len(entries) == 0 {
		return "No inventory logged."
	}

	lines := []string{"📦 *Starting Inventory:*", ""}
	for i := range entries {
		entry := &entries[i]
		line := fmt.Sprintf("• %s: %d", entry.ItemName, entry.Quantity)
		if entry.CostPrice != nil {
			line += " @ " + FormatCurrency(*entry.CostPrice)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// TitleWord uppercases the first letter of a single lowercase word, e.g.
// the payment method labels
func TitleWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

// FormatUserDisplayName renders a user label, falling back to the raw ID
func FormatUserDisplayName(telegramID int64, fullName *string) string {
	if fullName != nil && *fullName != "" {
		return *fullName
	}
	return fmt.Sprintf("User ID %d", telegramID)
}
