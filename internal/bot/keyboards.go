package bot

import (
	"fmt"

	"pos-bot/internal/models"
	"pos-bot/internal/telegram"
	"pos-bot/internal/util"
)

func btn(text, callback string) telegram.InlineKeyboardButton {
	return telegram.InlineKeyboardButton{Text: text, CallbackData: callback}
}

func kb(rows ...[]telegram.InlineKeyboardButton) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func controlPanelKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("🟢 Start Session", "start_session")},
		[]telegram.InlineKeyboardButton{btn("📊 View Past Sales", "view_sales")},
		[]telegram.InlineKeyboardButton{btn("📦 View Past Inventory", "view_inventory")},
		[]telegram.InlineKeyboardButton{btn("📋 Manage Menu", "manage_menu")},
		[]telegram.InlineKeyboardButton{btn("👥 Manage Users", "manage_users")},
	)
}

func salesDashboardKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("➕ New Order", "new_order")},
		[]telegram.InlineKeyboardButton{btn("📝 View Orders", "view_orders")},
		[]telegram.InlineKeyboardButton{btn("🔴 End Session", "end_session")},
	)
}

func startSessionKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("📦 Log Inventory", "start_adding_inventory")},
		[]telegram.InlineKeyboardButton{btn("⏭ Skip Inventory", "skip_inventory")},
		[]telegram.InlineKeyboardButton{btn("❌ Cancel", "cancel_session_start")},
	)
}

func cancelSessionStartKeyboard() *telegram.InlineKeyboardMarkup {
	return kb([]telegram.InlineKeyboardButton{btn("❌ Cancel", "cancel_session_start")})
}

func inventoryPriceKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("⏭ Skip Price", "skip_inventory_price")},
		[]telegram.InlineKeyboardButton{btn("❌ Cancel", "cancel_session_start")},
	)
}

func sessionRetryKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("🔄 Retry", "add_another_inventory:no")},
		[]telegram.InlineKeyboardButton{btn("❌ Cancel", "cancel_session_start")},
	)
}

func inventoryMoreKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{
			btn("✅ Yes", "add_another_inventory:yes"),
			btn("❌ No", "add_another_inventory:no"),
		},
	)
}

// menuItemsKeyboard lays out orderable items two per row, marking
// quantities already in the cart
func menuItemsKeyboard(items []models.MenuItem, cart models.Cart) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton

	for i := 0; i < len(items); i += 2 {
		var row []telegram.InlineKeyboardButton
		for j := i; j < i+2 && j < len(items); j++ {
			item := &items[j]
			label := fmt.Sprintf("%s %s %s", item.Name, item.Size, util.FormatCurrency(item.Price))
			if cart != nil {
				if line, ok := cart[item.ID]; ok {
					label += fmt.Sprintf(" (%d)", line.Quantity)
				}
			}
			row = append(row, btn(label, fmt.Sprintf("add_item:%d", item.ID)))
		}
		rows = append(rows, row)
	}

	rows = append(rows, []telegram.InlineKeyboardButton{
		btn("🗑 Clear Cart", "clear_cart"),
		btn("✅ Confirm", "confirm_cart"),
	})
	rows = append(rows, []telegram.InlineKeyboardButton{btn("❌ Cancel", "cancel_order")})

	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func paymentMethodKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{
			btn("💵 Cash", "payment:"+models.PaymentMethodCash),
			btn("📱 PayNow", "payment:"+models.PaymentMethodPayNow),
		},
		[]telegram.InlineKeyboardButton{btn("❌ Cancel", "cancel_payment")},
	)
}

func ordersListKeyboard(orders []models.Order, page, totalPages int) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton

	for i := range orders {
		order := &orders[i]
		label := fmt.Sprintf("Order #%d - %s", order.OrderNumber, util.FormatCurrency(order.TotalAmount))
		rows = append(rows, []telegram.InlineKeyboardButton{
			btn(label, fmt.Sprintf("view_order:%d", order.ID)),
		})
	}

	if totalPages > 1 {
		var nav []telegram.InlineKeyboardButton
		if page > 0 {
			nav = append(nav, btn("⬅️ Previous", fmt.Sprintf("orders_page:%d", page-1)))
		}
		if page < totalPages-1 {
			nav = append(nav, btn("Next ➡️", fmt.Sprintf("orders_page:%d", page+1)))
		}
		if len(nav) > 0 {
			rows = append(rows, nav)
		}
	}

	rows = append(rows, []telegram.InlineKeyboardButton{btn("🔙 Back to Dashboard", "back_to_dashboard")})
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func orderDetailKeyboard(orderID int64) *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("🗑 Delete Order", fmt.Sprintf("delete_order:%d", orderID))},
		[]telegram.InlineKeyboardButton{btn("🔙 Back to Orders", "view_orders")},
	)
}

func confirmDeleteOrderKeyboard(orderID int64) *telegram.InlineKeyboardMarkup {
	return kb([]telegram.InlineKeyboardButton{
		btn("✅ Yes, Delete", fmt.Sprintf("confirm_delete:%d", orderID)),
		btn("❌ No, Cancel", fmt.Sprintf("view_order:%d", orderID)),
	})
}

func confirmEndSessionKeyboard() *telegram.InlineKeyboardMarkup {
	return kb([]telegram.InlineKeyboardButton{
		btn("✅ Yes, End Session", "confirm_end_session"),
		btn("❌ No, Go Back", "back_to_dashboard"),
	})
}

func menuManagementKeyboard(items []models.MenuItem) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton

	for i := range items {
		item := &items[i]
		rows = append(rows, []telegram.InlineKeyboardButton{
			btn(util.FormatMenuItem(item), fmt.Sprintf("edit_menu_item:%d", item.ID)),
		})
	}

	rows = append(rows, []telegram.InlineKeyboardButton{btn("➕ Add New Item", "add_menu_item")})
	rows = append(rows, []telegram.InlineKeyboardButton{btn("🔙 Back to Control Panel", "control_panel")})
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func hasSizesKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{
			btn("✅ Yes", "has_multiple_sizes:yes"),
			btn("❌ No", "has_multiple_sizes:no"),
		},
		[]telegram.InlineKeyboardButton{btn("🔙 Cancel", "cancel_menu_setup")},
	)
}

func addMoreSizesKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{
			btn("✅ Yes", "add_more_sizes:yes"),
			btn("❌ No", "add_more_sizes:no"),
		},
		[]telegram.InlineKeyboardButton{btn("🔙 Cancel", "cancel_menu_setup")},
	)
}

func cancelMenuSetupKeyboard() *telegram.InlineKeyboardMarkup {
	return kb([]telegram.InlineKeyboardButton{btn("❌ Cancel", "cancel_menu_setup")})
}

func menuItemAddedKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("➕ Add Another Item", "add_menu_item")},
		[]telegram.InlineKeyboardButton{btn("📋 View Menu", "manage_menu")},
		[]telegram.InlineKeyboardButton{btn("🔙 Back to Control Panel", "control_panel")},
	)
}

func editMenuItemKeyboard(itemID int64) *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("📝 Edit Name", fmt.Sprintf("edit_name:%d", itemID))},
		[]telegram.InlineKeyboardButton{btn("📏 Edit Size", fmt.Sprintf("edit_size:%d", itemID))},
		[]telegram.InlineKeyboardButton{btn("💰 Edit Price", fmt.Sprintf("edit_price:%d", itemID))},
		[]telegram.InlineKeyboardButton{btn("🗑 Delete Item", fmt.Sprintf("confirm_delete_menu_item:%d", itemID))},
		[]telegram.InlineKeyboardButton{btn("🔙 Back to Menu", "manage_menu")},
	)
}

func confirmDeleteMenuItemKeyboard(itemID int64) *telegram.InlineKeyboardMarkup {
	return kb([]telegram.InlineKeyboardButton{
		btn("✅ Yes, Delete", fmt.Sprintf("delete_menu_item:%d", itemID)),
		btn("❌ Cancel", fmt.Sprintf("edit_menu_item:%d", itemID)),
	})
}

func backToMenuKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("📋 Back to Menu", "manage_menu")},
		[]telegram.InlineKeyboardButton{btn("🔙 Back to Control Panel", "control_panel")},
	)
}

func backButton() *telegram.InlineKeyboardMarkup {
	return kb([]telegram.InlineKeyboardButton{btn("🔙 Back to Control Panel", "control_panel")})
}

func paginationKeyboard(page, totalPages int, prefix string) *telegram.InlineKeyboardMarkup {
	var nav []telegram.InlineKeyboardButton

	if page > 0 {
		nav = append(nav, btn("⬅️ Previous", fmt.Sprintf("%s:%d", prefix, page-1)))
	}
	nav = append(nav, btn(fmt.Sprintf("%d/%d", page+1, totalPages), "noop"))
	if page < totalPages-1 {
		nav = append(nav, btn("Next ➡️", fmt.Sprintf("%s:%d", prefix, page+1)))
	}

	return kb(nav, []telegram.InlineKeyboardButton{btn("🔙 Back", "control_panel")})
}

func userManagementKeyboard(users []models.AuthorizedUser) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton

	for i := range users {
		user := &users[i]
		label := util.FormatUserDisplayName(user.TelegramID, user.FullName)
		rows = append(rows, []telegram.InlineKeyboardButton{
			btn(label, fmt.Sprintf("delete_user:%d", user.TelegramID)),
		})
	}

	rows = append(rows, []telegram.InlineKeyboardButton{btn("➕ Add User", "add_user")})
	rows = append(rows, []telegram.InlineKeyboardButton{btn("🔙 Back to Control Panel", "control_panel")})
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func addUserKeyboard() *telegram.InlineKeyboardMarkup {
	return kb([]telegram.InlineKeyboardButton{btn("❌ Cancel", "cancel_user_mgmt")})
}

func confirmAddUserKeyboard(telegramID int64) *telegram.InlineKeyboardMarkup {
	return kb([]telegram.InlineKeyboardButton{
		btn("✅ Confirm", fmt.Sprintf("confirm_add_user:%d", telegramID)),
		btn("❌ Cancel", "cancel_user_mgmt"),
	})
}

func confirmDeleteUserKeyboard(telegramID int64) *telegram.InlineKeyboardMarkup {
	return kb([]telegram.InlineKeyboardButton{
		btn("✅ Yes, Remove", fmt.Sprintf("confirm_delete_user:%d", telegramID)),
		btn("❌ Cancel", "cancel_user_mgmt"),
	})
}
