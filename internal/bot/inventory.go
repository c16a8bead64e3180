package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pos-bot/internal/convstate"
	"pos-bot/internal/models"
	"pos-bot/internal/util"

	"go.uber.org/zap"
)

func (b *Bot) handleStartSession(ctx context.Context, req *Request) error {
	session, err := b.store.GetActiveSession(ctx)
	if err != nil {
		return err
	}
	if session != nil {
		text := "⚠️ A session is already active (started " +
			util.FormatFullDatetime(session.StartedAt) + ")."
		return b.respond(ctx, req, text, dashboardShortcutKeyboard())
	}

	text := "🟢 *Start New Session*\n\nWould you like to log starting inventory first?"
	return b.respond(ctx, req, text, startSessionKeyboard())
}

func (b *Bot) handleStartAddingInventory(ctx context.Context, req *Request) error {
	b.states.Set(req.UserID, &convstate.State{
		Flow:      convstate.FlowInventory,
		Step:      convstate.StepInventoryItemName,
		Inventory: &convstate.InventoryDraft{},
	})

	text := "📦 *Log Starting Inventory*\n\nSend the name of the first item.\n\nSend /skip to finish and start the session."
	return b.respond(ctx, req, text, cancelSessionStartKeyboard())
}

// handleInventoryText consumes the name, quantity and cost price prompts
// in order. Invalid input re-prompts without advancing the step.
func (b *Bot) handleInventoryText(ctx context.Context, req *Request, state *convstate.State) error {
	text := strings.TrimSpace(req.Text)

	switch state.Step {
	case convstate.StepInventoryItemName:
		if text == "" {
			return b.respond(ctx, req, "⚠️ Please send an item name.", nil)
		}
		state.Inventory.Current = convstate.InventoryEntry{ItemName: text}
		state.Step = convstate.StepInventoryQuantity
		b.states.Set(req.UserID, state)
		return b.respond(ctx, req, fmt.Sprintf("How many units of *%s*?", text), nil)

	case convstate.StepInventoryQuantity:
		qty, err := strconv.Atoi(text)
		if err != nil || qty <= 0 {
			return b.respond(ctx, req, "⚠️ Please send a whole number greater than zero.", nil)
		}
		state.Inventory.Current.Quantity = qty
		state.Step = convstate.StepInventoryCostPrice
		b.states.Set(req.UserID, state)
		prompt := fmt.Sprintf("What is the cost price per unit of *%s*?",
			state.Inventory.Current.ItemName)
		return b.respond(ctx, req, prompt, inventoryPriceKeyboard())

	case convstate.StepInventoryCostPrice:
		price, err := strconv.ParseFloat(text, 64)
		if err != nil || price < 0 {
			return b.respond(ctx, req, "⚠️ Please send a valid price, e.g. 2.50.", nil)
		}
		return b.commitInventoryEntry(ctx, req, state, &price)
	}

	return nil
}

func (b *Bot) handleSkipInventoryPrice(ctx context.Context, req *Request) error {
	state := b.states.Get(req.UserID)
	if state == nil || state.Step != convstate.StepInventoryCostPrice {
		return b.respond(ctx, req, "ℹ️ Nothing to skip right now.", controlPanelKeyboard())
	}
	return b.commitInventoryEntry(ctx, req, state, nil)
}

// commitInventoryEntry appends the in-progress entry to the draft and
// asks whether to log another item
func (b *Bot) commitInventoryEntry(ctx context.Context, req *Request, state *convstate.State, costPrice *float64) error {
	entry := state.Inventory.Current
	entry.CostPrice = costPrice
	state.Inventory.Entries = append(state.Inventory.Entries, entry)
	state.Inventory.Current = convstate.InventoryEntry{}
	state.Step = convstate.StepInventoryAddMore
	b.states.Set(req.UserID, state)

	text := formatDraftInventory(state.Inventory.Entries) + "\n\nAdd another item?"
	return b.respond(ctx, req, text, inventoryMoreKeyboard())
}

func formatDraftInventory(entries []convstate.InventoryEntry) string {
	logs := make([]models.InventoryLog, len(entries))
	for i, e := range entries {
		logs[i] = models.InventoryLog{
			ItemName:  e.ItemName,
			Quantity:  e.Quantity,
			CostPrice: e.CostPrice,
		}
	}
	return util.FormatInventoryList(logs)
}

func (b *Bot) handleAddAnotherInventory(ctx context.Context, req *Request) error {
	state := b.states.Get(req.UserID)
	if state == nil || state.Flow != convstate.FlowInventory {
		return b.respond(ctx, req, "ℹ️ No inventory entry in progress.", controlPanelKeyboard())
	}

	if req.Payload == "yes" {
		state.Step = convstate.StepInventoryItemName
		b.states.Set(req.UserID, state)
		return b.respond(ctx, req, "Send the name of the next item.", cancelSessionStartKeyboard())
	}
	return b.finalizeSessionStart(ctx, req, state.Inventory.Entries)
}

func (b *Bot) handleSkipInventory(ctx context.Context, req *Request) error {
	// A drafted inventory may still be around after a failed finalize.
	// Skipping must not discard it.
	var entries []convstate.InventoryEntry
	if state := b.states.Get(req.UserID); state != nil && state.Flow == convstate.FlowInventory && state.Inventory != nil {
		entries = state.Inventory.Entries
	}
	return b.finalizeSessionStart(ctx, req, entries)
}

func (b *Bot) handleCancelSessionStart(ctx context.Context, req *Request) error {
	b.states.Clear(req.UserID)
	return b.respond(ctx, req, "❌ Session start cancelled.", controlPanelKeyboard())
}

// finalizeSessionStart creates the session and then persists the drafted
// inventory. The session comes first: inventory rows need its ID, and a
// failed creation keeps the draft so the operator can retry.
func (b *Bot) finalizeSessionStart(ctx context.Context, req *Request, entries []convstate.InventoryEntry) error {
	session, err := b.store.CreateSession(ctx, req.UserID)
	if err != nil {
		b.logger.Error("Failed to create session",
			zap.Int64("user_id", req.UserID),
			zap.Error(err))
		keyboard := startSessionKeyboard()
		if len(entries) > 0 {
			keyboard = sessionRetryKeyboard()
		}
		return b.respond(ctx, req, "❌ Failed to start the session. Please try again.", keyboard)
	}

	logged := 0
	for _, entry := range entries {
		if _, err := b.store.AddInventoryLog(ctx, session.ID, entry.ItemName, entry.Quantity, entry.CostPrice); err != nil {
			b.logger.Error("Failed to log inventory entry",
				zap.Int64("session_id", session.ID),
				zap.String("item_name", entry.ItemName),
				zap.Error(err))
			continue
		}
		logged++
		util.InventoryEntriesTotal.Inc()
	}

	b.states.Clear(req.UserID)
	util.SessionsStartedTotal.Inc()

	if b.events != nil {
		event := &models.SessionStartedEvent{
			SessionID:      session.ID,
			StartedBy:      req.UserID,
			InventoryCount: logged,
		}
		if err := b.events.PublishSessionStarted(ctx, event); err != nil {
			b.logger.Warn("Failed to publish session started event",
				zap.Int64("session_id", session.ID),
				zap.Error(err))
		}
	}

	lines := []string{
		"🟢 *Session Started!*",
		"",
		"*Started:* " + util.FormatFullDatetime(session.StartedAt),
	}
	if logged > 0 {
		lines = append(lines, fmt.Sprintf("*Inventory items logged:* %d", logged))
	}
	return b.respond(ctx, req, strings.Join(lines, "\n"), salesDashboardKeyboard())
}
