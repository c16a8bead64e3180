package bot

import (
	"context"
	"fmt"
	"strconv"

	"pos-bot/internal/convstate"
	"pos-bot/internal/models"
	"pos-bot/internal/telegram"
	"pos-bot/internal/util"

	"go.uber.org/zap"
)

func (b *Bot) handleNewOrder(ctx context.Context, req *Request) error {
	session, err := b.store.GetActiveSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return b.respond(ctx, req, "ℹ️ No active session. Start one first.", controlPanelKeyboard())
	}

	items, err := b.catalog.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return b.respond(ctx, req,
			"⚠️ The menu is empty. Add menu items before taking orders.",
			salesDashboardKeyboard())
	}

	state := &convstate.State{
		Flow:          convstate.FlowCart,
		Cart:          models.Cart{},
		CartSessionID: session.ID,
	}
	b.states.Set(req.UserID, state)
	return b.renderCartScreen(ctx, req, state)
}

func (b *Bot) renderCartScreen(ctx context.Context, req *Request, state *convstate.State) error {
	items, err := b.catalog.ListActive(ctx)
	if err != nil {
		return err
	}
	return b.respond(ctx, req, util.FormatCart(state.Cart), menuItemsKeyboard(items, state.Cart))
}

// cartState returns the caller's in-progress cart, or nil after replying
// with a stale-tap notice
func (b *Bot) cartState(ctx context.Context, req *Request) (*convstate.State, error) {
	state := b.states.Get(req.UserID)
	if state == nil || state.Flow != convstate.FlowCart {
		return nil, b.respond(ctx, req,
			"ℹ️ This order has expired. Start a new one.", salesDashboardKeyboard())
	}
	return state, nil
}

// handleAddItemToCart adds one unit of the tapped item, snapshotting its
// name, size and price so later menu edits cannot change the line
func (b *Bot) handleAddItemToCart(ctx context.Context, req *Request) error {
	state, err := b.cartState(ctx, req)
	if state == nil {
		return err
	}

	itemID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid menu item id %q: %w", req.Payload, err)
	}

	if line, ok := state.Cart[itemID]; ok {
		line.Quantity++
	} else {
		item, err := b.catalog.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return b.renderCartScreen(ctx, req, state)
		}
		state.Cart[itemID] = &models.CartLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			Size:       item.Size,
			UnitPrice:  item.Price,
			Quantity:   1,
		}
	}

	b.states.Set(req.UserID, state)
	return b.renderCartScreen(ctx, req, state)
}

func (b *Bot) handleClearCart(ctx context.Context, req *Request) error {
	state, err := b.cartState(ctx, req)
	if state == nil {
		return err
	}
	state.Cart = models.Cart{}
	b.states.Set(req.UserID, state)
	return b.renderCartScreen(ctx, req, state)
}

func (b *Bot) handleConfirmCart(ctx context.Context, req *Request) error {
	state, err := b.cartState(ctx, req)
	if state == nil {
		return err
	}
	if len(state.Cart) == 0 {
		items, err := b.catalog.ListActive(ctx)
		if err != nil {
			return err
		}
		return b.respond(ctx, req,
			"🛒 The cart is empty. Add at least one item first.",
			menuItemsKeyboard(items, state.Cart))
	}

	text := util.FormatCart(state.Cart) + "\n\nSelect payment method:"
	return b.respond(ctx, req, text, paymentMethodKeyboard())
}

// handlePayment submits the order. The total is recomputed from the cart
// lines at submission time, and the session is re-checked in case it was
// ended while the cart sat open.
func (b *Bot) handlePayment(ctx context.Context, req *Request) error {
	state, err := b.cartState(ctx, req)
	if state == nil {
		return err
	}
	if len(state.Cart) == 0 {
		return b.renderCartScreen(ctx, req, state)
	}

	method := req.Payload
	if method != models.PaymentMethodCash && method != models.PaymentMethodPayNow {
		return fmt.Errorf("unknown payment method %q", method)
	}

	session, err := b.store.GetActiveSession(ctx)
	if err != nil {
		return err
	}
	if session == nil || session.ID != state.CartSessionID {
		b.states.Clear(req.UserID)
		return b.respond(ctx, req,
			"⚠️ The session has ended. This order was not submitted.", controlPanelKeyboard())
	}

	lines := state.Cart.Lines()
	total := state.Cart.Total()

	orderCtx, span := util.StartSpan(ctx, "store.CreateOrder")
	order, err := b.store.CreateOrder(orderCtx, state.CartSessionID, lines, total, method, req.UserID)
	span.End()
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("store").Inc()
		b.logger.Error("Failed to create order",
			zap.Int64("session_id", state.CartSessionID),
			zap.Int64("user_id", req.UserID),
			zap.Error(err))
		return b.respond(ctx, req,
			"❌ Failed to submit the order. Please try again.", paymentMethodKeyboard())
	}

	b.states.Clear(req.UserID)
	util.OrdersCreatedTotal.Inc()
	b.publishOrderCreated(ctx, order, lines)

	text := fmt.Sprintf("✅ *Order #%d submitted!*\n\n%s\n\n*Total:* %s\n*Payment:* %s",
		order.OrderNumber,
		util.FormatCart(toCart(lines)),
		util.FormatCurrency(order.TotalAmount),
		util.TitleWord(method))
	return b.respond(ctx, req, text, orderSubmittedKeyboard())
}

func toCart(lines []*models.CartLine) models.Cart {
	cart := make(models.Cart, len(lines))
	for _, line := range lines {
		cart[line.MenuItemID] = line
	}
	return cart
}

func (b *Bot) publishOrderCreated(ctx context.Context, order *models.Order, lines []*models.CartLine) {
	if b.events == nil {
		return
	}

	items := make([]models.OrderItemData, len(lines))
	for i, line := range lines {
		items[i] = models.OrderItemData{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Size:       line.Size,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		}
	}

	event := &models.OrderCreatedEvent{
		OrderID:       order.ID,
		SessionID:     order.SessionID,
		OrderNumber:   order.OrderNumber,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		CreatedBy:     order.CreatedBy,
		Items:         items,
	}
	if err := b.events.PublishOrderCreated(ctx, event); err != nil {
		b.logger.Warn("Failed to publish order created event",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
}

func (b *Bot) handleCancelOrder(ctx context.Context, req *Request) error {
	b.states.Clear(req.UserID)
	return b.handleBackToDashboard(ctx, req)
}

func (b *Bot) handleCancelPayment(ctx context.Context, req *Request) error {
	state, err := b.cartState(ctx, req)
	if state == nil {
		return err
	}
	return b.renderCartScreen(ctx, req, state)
}

func orderSubmittedKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("➕ New Order", "new_order")},
		[]telegram.InlineKeyboardButton{btn("🔙 Back to Dashboard", "back_to_dashboard")},
	)
}
