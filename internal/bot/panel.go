package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pos-bot/internal/convstate"
	"pos-bot/internal/models"
	"pos-bot/internal/telegram"
	"pos-bot/internal/util"

	"go.uber.org/zap"
)

const welcomeNotice = "👋 *Welcome!*\n\nUse the control panel below to run the store."

// handleStart serves /start and /resume: straight to the dashboard when a
// session is open, otherwise the control panel
func (b *Bot) handleStart(ctx context.Context, req *Request) error {
	session, err := b.store.GetActiveSession(ctx)
	if err != nil {
		return err
	}
	if session != nil {
		return b.renderDashboard(ctx, req, session)
	}
	return b.respond(ctx, req, welcomeNotice, controlPanelKeyboard())
}

func (b *Bot) handleControlPanel(ctx context.Context, req *Request) error {
	b.states.Clear(req.UserID)
	return b.respond(ctx, req, "🏠 *Control Panel*", controlPanelKeyboard())
}

// renderDashboard shows the live session view: order count, running total
// and the order actions
func (b *Bot) renderDashboard(ctx context.Context, req *Request, session *models.SaleSession) error {
	orderCount, err := b.store.CountOrdersBySession(ctx, session.ID)
	if err != nil {
		return err
	}

	text := strings.Join([]string{
		"📊 *Sales Dashboard*",
		"",
		"*Started:* " + util.FormatFullDatetime(session.StartedAt),
		fmt.Sprintf("*Orders:* %d", orderCount),
		"*Total Sales:* " + util.FormatCurrency(session.TotalSales),
	}, "\n")

	return b.respond(ctx, req, text, salesDashboardKeyboard())
}

func (b *Bot) handleBackToDashboard(ctx context.Context, req *Request) error {
	session, err := b.store.GetActiveSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return b.respond(ctx, req, "ℹ️ No active session.", controlPanelKeyboard())
	}
	return b.renderDashboard(ctx, req, session)
}

// handleViewPastSales pages through ended sessions, newest first. One row
// beyond the page is fetched to know whether a next page exists.
func (b *Bot) handleViewPastSales(ctx context.Context, req *Request) error {
	page := 0
	if req.Payload != "" {
		if p, err := strconv.Atoi(req.Payload); err == nil && p >= 0 {
			page = p
		}
	}

	sessions, err := b.store.ListPastSessions(ctx, b.sessionsPerPage+1, page*b.sessionsPerPage)
	if err != nil {
		return err
	}

	hasNext := len(sessions) > b.sessionsPerPage
	if hasNext {
		sessions = sessions[:b.sessionsPerPage]
	}

	if len(sessions) == 0 {
		return b.respond(ctx, req, "📊 No past sessions found.", backButton())
	}

	lines := []string{"📊 *Past Sales*", ""}
	for i := range sessions {
		session := &sessions[i]
		orderCount, err := b.store.CountOrdersBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("• %s\n  %d orders, %s",
			util.FormatFullDatetime(session.StartedAt),
			orderCount,
			util.FormatCurrency(session.TotalSales)))
	}

	totalPages := page + 1
	if hasNext {
		totalPages = page + 2
	}
	return b.respond(ctx, req, strings.Join(lines, "\n"),
		paginationKeyboard(page, totalPages, "view_sales"))
}

// handleViewPastInventory shows the starting inventory logged for the most
// recently ended session
func (b *Bot) handleViewPastInventory(ctx context.Context, req *Request) error {
	session, err := b.store.GetLastEndedSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return b.respond(ctx, req, "📦 No past sessions found.", backButton())
	}

	entries, err := b.store.ListInventoryBySession(ctx, session.ID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("📦 *Inventory for session of %s*\n\n%s",
		util.FormatFullDatetime(session.StartedAt),
		util.FormatInventoryList(entries))
	return b.respond(ctx, req, text, backButton())
}

func (b *Bot) handleEndSession(ctx context.Context, req *Request) error {
	session, err := b.store.GetActiveSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return b.respond(ctx, req, "ℹ️ No active session to end.", controlPanelKeyboard())
	}

	orderCount, err := b.store.CountOrdersBySession(ctx, session.ID)
	if err != nil {
		return err
	}

	text := strings.Join([]string{
		"🔴 *End this session?*",
		"",
		"*Time:* " + util.FormatFullDatetime(util.Now()),
		fmt.Sprintf("*Orders:* %d", orderCount),
		"*Total Sales:* " + util.FormatCurrency(session.TotalSales),
	}, "\n")
	return b.respond(ctx, req, text, confirmEndSessionKeyboard())
}

// handleConfirmEndSession closes the active session and reports the
// summary with per-item sold quantities aggregated across all orders
func (b *Bot) handleConfirmEndSession(ctx context.Context, req *Request) error {
	session, err := b.store.GetActiveSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return b.respond(ctx, req, "ℹ️ No active session to end.", controlPanelKeyboard())
	}

	orderCount, err := b.store.CountOrdersBySession(ctx, session.ID)
	if err != nil {
		return err
	}

	itemsSold, err := b.aggregateItemsSold(ctx, session.ID, orderCount)
	if err != nil {
		return err
	}

	if err := b.store.EndSession(ctx, session.ID); err != nil {
		return err
	}
	b.states.Clear(req.UserID)
	util.SessionsEndedTotal.Inc()

	if b.events != nil {
		event := &models.SessionEndedEvent{
			SessionID:  session.ID,
			EndedBy:    req.UserID,
			OrderCount: orderCount,
			TotalSales: session.TotalSales,
		}
		if err := b.events.PublishSessionEnded(ctx, event); err != nil {
			b.logger.Warn("Failed to publish session ended event",
				zap.Int64("session_id", session.ID),
				zap.Error(err))
		}
	}

	text := "🔴 *Session Ended*\n\n" + util.FormatSessionSummary(session, orderCount, itemsSold)
	return b.respond(ctx, req, text, backButton())
}

func (b *Bot) aggregateItemsSold(ctx context.Context, sessionID int64, orderCount int) (map[string]int, error) {
	itemsSold := make(map[string]int)
	if orderCount == 0 {
		return itemsSold, nil
	}

	orders, err := b.store.ListOrdersBySession(ctx, sessionID, orderCount, 0)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := b.store.GetOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		for j := range items {
			key := fmt.Sprintf("%s (%s)", items[j].Name, items[j].Size)
			itemsSold[key] += items[j].Quantity
		}
	}
	return itemsSold, nil
}

// handleCancelCommand aborts whatever flow is in progress
func (b *Bot) handleCancelCommand(ctx context.Context, req *Request) error {
	b.states.Clear(req.UserID)
	return b.respond(ctx, req, "❌ Operation cancelled.", controlPanelKeyboard())
}

// handleSkipCommand is the text twin of the skip buttons: at the cost
// price prompt it skips the price, at the item name prompt it finishes
// inventory entry with whatever was logged so far
func (b *Bot) handleSkipCommand(ctx context.Context, req *Request) error {
	state := b.states.Get(req.UserID)
	if state == nil || state.Flow != convstate.FlowInventory {
		return nil
	}

	switch state.Step {
	case convstate.StepInventoryCostPrice:
		return b.commitInventoryEntry(ctx, req, state, nil)
	case convstate.StepInventoryItemName:
		return b.finalizeSessionStart(ctx, req, state.Inventory.Entries)
	}
	return nil
}

func dashboardShortcutKeyboard() *telegram.InlineKeyboardMarkup {
	return kb(
		[]telegram.InlineKeyboardButton{btn("📊 Go to Dashboard", "join_session")},
		[]telegram.InlineKeyboardButton{btn("🔙 Back", "control_panel")},
	)
}
