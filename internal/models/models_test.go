package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotal(t *testing.T) {
	cart := Cart{
		1: {MenuItemID: 1, Name: "Tea", Size: "Small", UnitPrice: 3.00, Quantity: 2},
		2: {MenuItemID: 2, Name: "Tea", Size: "Large", UnitPrice: 4.50, Quantity: 1},
	}

	assert.InDelta(t, 10.50, cart.Total(), 0.0001)
	assert.Zero(t, Cart{}.Total())
}

func TestCartLinesStableOrder(t *testing.T) {
	cart := Cart{
		3: {MenuItemID: 3, Name: "Tea", Size: "Small", Quantity: 1},
		1: {MenuItemID: 1, Name: "Coffee", Size: "Reg", Quantity: 1},
		2: {MenuItemID: 2, Name: "Tea", Size: "Large", Quantity: 1},
	}

	lines := cart.Lines()
	assert.Equal(t, "Coffee", lines[0].Name)
	assert.Equal(t, "Large", lines[1].Size)
	assert.Equal(t, "Small", lines[2].Size)
}

func TestUserDisplayName(t *testing.T) {
	full := "Alice Tan"
	username := "alicet"

	u := &AuthorizedUser{TelegramID: 1, FullName: &full, Username: &username}
	assert.Equal(t, "Alice Tan", u.DisplayName())

	u = &AuthorizedUser{TelegramID: 1, Username: &username}
	assert.Equal(t, "@alicet", u.DisplayName())

	u = &AuthorizedUser{TelegramID: 1}
	assert.Equal(t, "", u.DisplayName())
}
