package util

import (
	"testing"
	"time"

	"pos-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0.00", FormatCurrency(0))
	assert.Equal(t, "$4.50", FormatCurrency(4.5))
	assert.Equal(t, "$11.00", FormatCurrency(11))
	assert.Equal(t, "$2.50", FormatCurrency(2.499999999))
}

func TestFormatFullDatetime(t *testing.T) {
	require.NoError(t, SetTimezone("Asia/Singapore"))
	t.Cleanup(func() { businessTZ = time.UTC })

	// 06:30 UTC is 14:30 in Singapore
	ts := time.Date(2025, 10, 18, 6, 30, 0, 0, time.UTC)
	assert.Equal(t, "18 Oct 2025, 02:30 PM", FormatFullDatetime(ts))
}

func TestSetTimezoneRejectsUnknown(t *testing.T) {
	assert.Error(t, SetTimezone("Nowhere/Nonexistent"))
}

func TestFormatCart(t *testing.T) {
	cart := models.Cart{
		1: {MenuItemID: 1, Name: "Matcha", Size: "Reg", UnitPrice: 4.50, Quantity: 2},
		2: {MenuItemID: 2, Name: "Coffee", Size: "Large", UnitPrice: 2.00, Quantity: 1},
	}

	out := FormatCart(cart)
	assert.Contains(t, out, "Matcha (Reg) x2 = $9.00")
	assert.Contains(t, out, "Coffee (Large) x1 = $2.00")
	assert.Contains(t, out, "$11.00")
}

func TestFormatCartEmpty(t *testing.T) {
	assert.Contains(t, FormatCart(models.Cart{}), "empty")
}

func TestFormatSessionSummary(t *testing.T) {
	session := &models.SaleSession{TotalSales: 42.50}
	itemsSold := map[string]int{
		"Tea (Small)": 3,
		"Tea (Large)": 1,
	}

	out := FormatSessionSummary(session, 4, itemsSold)
	assert.Contains(t, out, "*Total Orders:* 4")
	assert.Contains(t, out, "$42.50")
	assert.Contains(t, out, "Tea (Small): 3")
	assert.Contains(t, out, "Tea (Large): 1")
}

func TestFormatInventoryList(t *testing.T) {
	price := 2.50
	entries := []models.InventoryLog{
		{ItemName: "Milk", Quantity: 10, CostPrice: &price},
		{ItemName: "Cups", Quantity: 200},
	}

	out := FormatInventoryList(entries)
	assert.Contains(t, out, "Milk: 10 @ $2.50")
	assert.Contains(t, out, "Cups: 200")
}

func TestFormatUserDisplayName(t *testing.T) {
	name := "Alice Tan"
	assert.Equal(t, "Alice Tan", FormatUserDisplayName(123, &name))
	assert.Equal(t, "User ID 123", FormatUserDisplayName(123, nil))

	empty := ""
	assert.Equal(t, "User ID 123", FormatUserDisplayName(123, &empty))
}
