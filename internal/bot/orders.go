package bot

import (
	"context"
	"fmt"
	"strconv"

	"pos-bot/internal/models"
	"pos-bot/internal/telegram"
	"pos-bot/internal/util"

	"go.uber.org/zap"
)

// handleViewOrders pages through the active session's orders. The payload,
// when present, is the requested page number.
func (b *Bot) handleViewOrders(ctx context.Context, req *Request) error {
	session, err := b.store.GetActiveSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return b.respond(ctx, req, "ℹ️ No active session.", controlPanelKeyboard())
	}

	page := 0
	if req.Payload != "" {
		if p, err := strconv.Atoi(req.Payload); err == nil && p >= 0 {
			page = p
		}
	}

	count, err := b.store.CountOrdersBySession(ctx, session.ID)
	if err != nil {
		return err
	}
	if count == 0 {
		return b.respond(ctx, req, "📝 No orders yet.", salesDashboardKeyboard())
	}

	totalPages := (count + b.ordersPerPage - 1) / b.ordersPerPage
	if page >= totalPages {
		page = totalPages - 1
	}

	orders, err := b.store.ListOrdersBySession(ctx, session.ID, b.ordersPerPage, page*b.ordersPerPage)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("📝 *Orders* (%d total)\n\nTap an order to view it.", count)
	return b.respond(ctx, req, text, ordersListKeyboard(orders, page, totalPages))
}

func (b *Bot) handleViewOrderDetail(ctx context.Context, req *Request) error {
	orderID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", req.Payload, err)
	}

	order, err := b.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return b.respond(ctx, req, "⚠️ Order not found.", salesDashboardKeyboard())
	}

	items, err := b.store.GetOrderItems(ctx, orderID)
	if err != nil {
		return err
	}

	return b.respond(ctx, req, util.FormatOrderSummary(order, items), orderDetailKeyboard(orderID))
}

func (b *Bot) handleDeleteOrder(ctx context.Context, req *Request) error {
	orderID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", req.Payload, err)
	}

	order, err := b.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return b.respond(ctx, req, "⚠️ Order not found.", salesDashboardKeyboard())
	}

	text := fmt.Sprintf("🗑 Delete *Order #%d* (%s)?\n\nThe session total will be reduced.",
		order.OrderNumber, util.FormatCurrency(order.TotalAmount))
	return b.respond(ctx, req, text, confirmDeleteOrderKeyboard(orderID))
}

func (b *Bot) handleConfirmDeleteOrder(ctx context.Context, req *Request) error {
	orderID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", req.Payload, err)
	}

	order, err := b.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return b.respond(ctx, req, "⚠️ Order not found.", salesDashboardKeyboard())
	}

	if err := b.store.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	util.OrdersDeletedTotal.Inc()

	if b.events != nil {
		event := &models.OrderDeletedEvent{
			OrderID:     order.ID,
			SessionID:   order.SessionID,
			OrderNumber: order.OrderNumber,
			TotalAmount: order.TotalAmount,
			DeletedBy:   req.UserID,
		}
		if err := b.events.PublishOrderDeleted(ctx, event); err != nil {
			b.logger.Warn("Failed to publish order deleted event",
				zap.Int64("order_id", order.ID),
				zap.Error(err))
		}
	}

	text := fmt.Sprintf("🗑 Order #%d deleted.", order.OrderNumber)
	return b.respond(ctx, req, text, orderDeletedKeyboard())
}

func orderDeletedKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("📝 View Orders", "view_orders")},
		[]telegram.InlineKeyboardButton{btn("🔙 Back to Dashboard", "back_to_dashboard")},
	)
}
