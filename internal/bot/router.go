package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pos-bot/internal/convstate"
	"pos-bot/internal/dedup"
	"pos-bot/internal/telegram"
	"pos-bot/internal/util"

	"go.uber.org/zap"
)

const (
	accessDeniedNotice   = "⛔ You are not authorized to use this bot.\n\nPlease contact the administrator to get access."
	genericFailureNotice = "❌ Something went wrong. Please try again."
)

// Request carries one admitted user action through a handler
type Request struct {
	UserID     int64
	ChatID     int64
	MessageID  int64  // message the tapped keyboard is attached to
	CallbackID string // empty for free-text input
	Payload    string // part after ":" in the callback pattern
	Text       string // message text for free-text input
}

// HandlerFunc handles one admitted, authorized action
type HandlerFunc func(ctx context.Context, req *Request) error

type route struct {
	prefix  string
	handler HandlerFunc
}

// Options tunes the bot
type Options struct {
	OrdersPerPage   int
	SessionsPerPage int
	StateIdleTTL    time.Duration
}

// Bot routes inbound chat actions through the dedup and authorization
// pipeline into the flow handlers.
type Bot struct {
	store     Store
	catalog   Catalog
	transport Transport
	events    Events
	states    *convstate.Store
	admitter  *dedup.Admitter
	logger    *zap.Logger

	ordersPerPage   int
	sessionsPerPage int

	routes []route
}

// New creates a Bot with every callback pattern registered
func New(store Store, catalog Catalog, transport Transport, events Events, opts Options) *Bot {
	if opts.OrdersPerPage <= 0 {
		opts.OrdersPerPage = 5
	}
	if opts.SessionsPerPage <= 0 {
		opts.SessionsPerPage = 10
	}

	b := &Bot{
		store:           store,
		catalog:         catalog,
		transport:       transport,
		events:          events,
		states:          convstate.New(opts.StateIdleTTL),
		admitter:        dedup.NewAdmitter(dedup.DefaultCapacity),
		logger:          util.GetLogger(),
		ordersPerPage:   opts.OrdersPerPage,
		sessionsPerPage: opts.SessionsPerPage,
	}

	// Session start / inventory flow
	b.handle("start_session", b.handleStartSession)
	b.handle("start_adding_inventory", b.handleStartAddingInventory)
	b.handle("skip_inventory", b.handleSkipInventory)
	b.handle("skip_inventory_price", b.handleSkipInventoryPrice)
	b.handle("add_another_inventory", b.handleAddAnotherInventory)
	b.handle("cancel_session_start", b.handleCancelSessionStart)

	// Control panel
	b.handle("control_panel", b.handleControlPanel)
	b.handle("view_sales", b.handleViewPastSales)
	b.handle("view_inventory", b.handleViewPastInventory)

	// Menu management
	b.handle("manage_menu", b.handleManageMenu)
	b.handle("add_menu_item", b.handleAddMenuItem)
	b.handle("has_multiple_sizes", b.handleHasSizes)
	b.handle("add_more_sizes", b.handleAddMoreSizes)
	b.handle("cancel_menu_setup", b.handleCancelMenuSetup)
	b.handle("edit_menu_item", b.handleEditMenuItem)
	b.handle("edit_name", b.handleEditName)
	b.handle("edit_size", b.handleEditSize)
	b.handle("edit_price", b.handleEditPrice)
	b.handle("confirm_delete_menu_item", b.handleConfirmDeleteMenuItem)
	b.handle("delete_menu_item", b.handleDeleteMenuItem)

	// Sales dashboard and cart
	b.handle("join_session", b.handleBackToDashboard)
	b.handle("refresh_dashboard", b.handleBackToDashboard)
	b.handle("back_to_dashboard", b.handleBackToDashboard)
	b.handle("new_order", b.handleNewOrder)
	b.handle("add_item", b.handleAddItemToCart)
	b.handle("clear_cart", b.handleClearCart)
	b.handle("confirm_cart", b.handleConfirmCart)
	b.handle("payment", b.handlePayment)
	b.handle("cancel_order", b.handleCancelOrder)
	b.handle("cancel_payment", b.handleCancelPayment)
	b.handle("end_session", b.handleEndSession)
	b.handle("confirm_end_session", b.handleConfirmEndSession)

	// Order management
	b.handle("view_orders", b.handleViewOrders)
	b.handle("orders_page", b.handleViewOrders)
	b.handle("view_order", b.handleViewOrderDetail)
	b.handle("delete_order", b.handleDeleteOrder)
	b.handle("confirm_delete", b.handleConfirmDeleteOrder)

	// User management
	b.handle("manage_users", b.handleManageUsers)
	b.handle("add_user", b.handleAddUser)
	b.handle("confirm_add_user", b.handleConfirmAddUser)
	b.handle("delete_user", b.handleDeleteUser)
	b.handle("confirm_delete_user", b.handleConfirmDeleteUser)
	b.handle("cancel_user_mgmt", b.handleCancelUserMgmt)

	b.handle("noop", func(ctx context.Context, req *Request) error { return nil })

	return b
}

func (b *Bot) handle(prefix string, handler HandlerFunc) {
	b.routes = append(b.routes, route{prefix: prefix, handler: handler})
}

// Dispatch processes one inbound update end to end: dedup admission,
// authorization, routing, guaranteed busy-flag release. Safe for
// concurrent callers; actions of a single user are serialized by the
// admitter.
func (b *Bot) Dispatch(ctx context.Context, update *telegram.Update) {
	req, deliveryID, ok := extractRequest(update)
	if !ok {
		return
	}

	switch b.admitter.Admit(deliveryID, req.UserID) {
	case dedup.Duplicate:
		util.ActionsDroppedTotal.WithLabelValues("duplicate").Inc()
		return
	case dedup.Busy:
		util.ActionsDroppedTotal.WithLabelValues("busy").Inc()
		return
	}
	util.ActionsAdmittedTotal.Inc()

	// The busy flag must clear on every exit path, panics included
	defer b.admitter.Release(req.UserID)

	start := time.Now()
	defer func() {
		util.ActionHandlingLatency.Observe(time.Since(start).Seconds())

		if r := recover(); r != nil {
			util.ActionPanicsTotal.Inc()
			b.logger.Error("Panic in action handler",
				zap.Int64("user_id", req.UserID),
				zap.Any("panic", r))
			b.notifyFailure(ctx, req)
		}
	}()

	ctx, span := util.StartSpan(ctx, "bot.Dispatch")
	defer span.End()

	if !b.authorize(ctx, req, update) {
		return
	}

	if req.CallbackID != "" {
		// Acknowledge the tap so the client stops its spinner; the edited
		// message is the real response
		if err := b.transport.AnswerCallback(ctx, req.CallbackID, ""); err != nil {
			b.logger.Warn("Failed to answer callback", zap.Error(err))
		}
		b.dispatchCallback(ctx, req, update.CallbackQuery.Data)
		return
	}

	b.dispatchText(ctx, req)
}

func extractRequest(update *telegram.Update) (*Request, string, bool) {
	if cq := update.CallbackQuery; cq != nil && cq.Message != nil {
		return &Request{
			UserID:     cq.From.ID,
			ChatID:     cq.Message.Chat.ID,
			MessageID:  cq.Message.MessageID,
			CallbackID: cq.ID,
		}, cq.ID, true
	}

	if msg := update.Message; msg != nil && msg.From != nil && !msg.From.IsBot {
		return &Request{
			UserID: msg.From.ID,
			ChatID: msg.Chat.ID,
			Text:   msg.Text,
		}, fmt.Sprintf("update-%d", update.UpdateID), true
	}

	return nil, "", false
}

// authorize runs the authorization gate: unauthorized callers get the
// fixed denial notice and never reach flow logic. On success the caller's
// profile is refreshed best-effort.
func (b *Bot) authorize(ctx context.Context, req *Request, update *telegram.Update) bool {
	allowed, err := b.store.IsAuthorized(ctx, req.UserID)
	if err != nil {
		b.logger.Error("Authorization check failed",
			zap.Int64("user_id", req.UserID),
			zap.Error(err))
		allowed = false
	}

	if !allowed {
		util.ActionsDeniedTotal.Inc()
		if req.CallbackID != "" {
			_ = b.transport.AnswerCallback(ctx, req.CallbackID, accessDeniedNotice)
		} else {
			_ = b.transport.SendMessage(ctx, req.ChatID, accessDeniedNotice, nil)
		}
		return false
	}

	username, fullName := callerProfile(update)
	if err := b.store.UpsertUserInfo(ctx, req.UserID, username, fullName); err != nil {
		b.logger.Warn("Failed to refresh user info",
			zap.Int64("user_id", req.UserID),
			zap.Error(err))
	}
	return true
}

func callerProfile(update *telegram.Update) (username, fullName string) {
	if cq := update.CallbackQuery; cq != nil {
		return cq.From.Username, cq.From.FullName()
	}
	if msg := update.Message; msg != nil && msg.From != nil {
		return msg.From.Username, msg.From.FullName()
	}
	return "", ""
}

func (b *Bot) dispatchCallback(ctx context.Context, req *Request, data string) {
	prefix := data
	if i := strings.Index(data, ":"); i >= 0 {
		prefix = data[:i]
		req.Payload = data[i+1:]
	}

	for _, r := range b.routes {
		if r.prefix != prefix {
			continue
		}
		if err := r.handler(ctx, req); err != nil {
			b.logger.Error("Callback handler failed",
				zap.String("pattern", prefix),
				zap.Int64("user_id", req.UserID),
				zap.Error(err))
			b.notifyFailure(ctx, req)
		}
		return
	}

	b.logger.Warn("Unknown callback pattern", zap.String("data", data))
}

// dispatchText routes free-text input to the flow awaiting it. Text with
// no flow listening is ignored, not an error.
func (b *Bot) dispatchText(ctx context.Context, req *Request) {
	text := strings.TrimSpace(req.Text)

	if strings.HasPrefix(text, "/") {
		b.dispatchCommand(ctx, req, text)
		return
	}

	state := b.states.Get(req.UserID)
	if state == nil || !state.Step.AwaitsText() {
		return
	}

	var err error
	switch state.Flow {
	case convstate.FlowInventory:
		err = b.handleInventoryText(ctx, req, state)
	case convstate.FlowMenu:
		err = b.handleMenuText(ctx, req, state)
	case convstate.FlowUserAuth:
		err = b.handleUserText(ctx, req, state)
	}

	if err != nil {
		b.logger.Error("Text handler failed",
			zap.String("flow", state.Flow.String()),
			zap.Int64("user_id", req.UserID),
			zap.Error(err))
		b.notifyFailure(ctx, req)
	}
}

func (b *Bot) dispatchCommand(ctx context.Context, req *Request, text string) {
	cmd := text
	if i := strings.IndexAny(cmd, " @"); i >= 0 {
		cmd = cmd[:i]
	}

	var err error
	switch cmd {
	case "/start", "/resume":
		err = b.handleStart(ctx, req)
	case "/cancel":
		err = b.handleCancelCommand(ctx, req)
	case "/skip":
		err = b.handleSkipCommand(ctx, req)
	default:
		return
	}

	if err != nil {
		b.logger.Error("Command handler failed",
			zap.String("command", cmd),
			zap.Int64("user_id", req.UserID),
			zap.Error(err))
		b.notifyFailure(ctx, req)
	}
}

// respond edits the message a button was tapped on, or sends a new
// message when the action came in as text
func (b *Bot) respond(ctx context.Context, req *Request, text string, keyboard *telegram.InlineKeyboardMarkup) error {
	if req.CallbackID != "" && req.MessageID != 0 {
		return b.transport.EditMessage(ctx, req.ChatID, req.MessageID, text, keyboard)
	}
	return b.transport.SendMessage(ctx, req.ChatID, text, keyboard)
}

func (b *Bot) notifyFailure(ctx context.Context, req *Request) {
	if err := b.transport.SendMessage(ctx, req.ChatID, genericFailureNotice, nil); err != nil {
		b.logger.Warn("Failed to send failure notice", zap.Error(err))
	}
}
