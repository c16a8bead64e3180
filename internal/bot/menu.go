package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pos-bot/internal/convstate"
	"pos-bot/internal/service"
	"pos-bot/internal/util"
)

const defaultSize = "Reg"

func (b *Bot) handleManageMenu(ctx context.Context, req *Request) error {
	b.states.Clear(req.UserID)

	items, err := b.catalog.ListActive(ctx)
	if err != nil {
		return err
	}

	text := "📋 *Manage Menu*\n\nTap an item to edit it."
	if len(items) == 0 {
		text = "📋 *Manage Menu*\n\nNo menu items yet. Add your first item below."
	}
	return b.respond(ctx, req, text, menuManagementKeyboard(items))
}

func (b *Bot) handleAddMenuItem(ctx context.Context, req *Request) error {
	b.states.Set(req.UserID, &convstate.State{
		Flow: convstate.FlowMenu,
		Step: convstate.StepMenuName,
		Menu: &convstate.MenuDraft{},
	})
	return b.respond(ctx, req, "➕ *Add Menu Item*\n\nSend the item name.", cancelMenuSetupKeyboard())
}

// handleMenuText consumes every free-text prompt of the menu flows: item
// entry (name, price, size labels, size prices) and the single-field edit
// sub-flows
func (b *Bot) handleMenuText(ctx context.Context, req *Request, state *convstate.State) error {
	text := strings.TrimSpace(req.Text)

	switch state.Step {
	case convstate.StepMenuName:
		if text == "" {
			return b.respond(ctx, req, "⚠️ Please send an item name.", nil)
		}
		state.Menu.Name = text
		state.Step = convstate.StepMenuHasSizes
		b.states.Set(req.UserID, state)
		return b.respond(ctx, req,
			fmt.Sprintf("Does *%s* come in multiple sizes?", text), hasSizesKeyboard())

	case convstate.StepMenuPrice:
		price, ok := parsePrice(text)
		if !ok {
			return b.respond(ctx, req, "⚠️ Please send a price greater than zero, e.g. 4.50.", nil)
		}
		item, err := b.catalog.Add(ctx, state.Menu.Name, defaultSize, price)
		if err != nil {
			return err
		}
		b.states.Clear(req.UserID)
		return b.respond(ctx, req,
			"✅ Added: "+util.FormatMenuItem(item), menuItemAddedKeyboard())

	case convstate.StepMenuSize:
		if text == "" {
			return b.respond(ctx, req, "⚠️ Please send a size label, e.g. Small.", nil)
		}
		state.Menu.CurrentSize = text
		state.Step = convstate.StepMenuSizePrice
		b.states.Set(req.UserID, state)
		return b.respond(ctx, req,
			fmt.Sprintf("Price for *%s (%s)*?", state.Menu.Name, text), nil)

	case convstate.StepMenuSizePrice:
		price, ok := parsePrice(text)
		if !ok {
			return b.respond(ctx, req, "⚠️ Please send a price greater than zero, e.g. 4.50.", nil)
		}
		state.Menu.Sizes = append(state.Menu.Sizes, convstate.SizeDraft{
			Label: state.Menu.CurrentSize,
			Price: price,
		})
		state.Menu.CurrentSize = ""
		state.Step = convstate.StepMenuAddMoreSizes
		b.states.Set(req.UserID, state)

		lines := []string{fmt.Sprintf("*%s* sizes so far:", state.Menu.Name), ""}
		for _, s := range state.Menu.Sizes {
			lines = append(lines, fmt.Sprintf("• %s - %s", s.Label, util.FormatCurrency(s.Price)))
		}
		lines = append(lines, "", "Add another size?")
		return b.respond(ctx, req, strings.Join(lines, "\n"), addMoreSizesKeyboard())

	case convstate.StepMenuEditName:
		if text == "" {
			return b.respond(ctx, req, "⚠️ Please send a name.", nil)
		}
		return b.applyMenuEdit(ctx, req, state, func(id int64) error {
			return b.catalog.UpdateName(ctx, id, text)
		})

	case convstate.StepMenuEditSize:
		if text == "" {
			return b.respond(ctx, req, "⚠️ Please send a size label.", nil)
		}
		return b.applyMenuEdit(ctx, req, state, func(id int64) error {
			return b.catalog.UpdateSize(ctx, id, text)
		})

	case convstate.StepMenuEditPrice:
		price, ok := parsePrice(text)
		if !ok {
			return b.respond(ctx, req, "⚠️ Please send a price greater than zero, e.g. 4.50.", nil)
		}
		return b.applyMenuEdit(ctx, req, state, func(id int64) error {
			return b.catalog.UpdatePrice(ctx, id, price)
		})
	}

	return nil
}

func parsePrice(text string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.TrimPrefix(text, "$"), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

func (b *Bot) applyMenuEdit(ctx context.Context, req *Request, state *convstate.State, update func(id int64) error) error {
	itemID := state.Menu.EditItemID

	before, err := b.catalog.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if before == nil {
		b.states.Clear(req.UserID)
		return b.respond(ctx, req, "⚠️ Item not found.", backToMenuKeyboard())
	}
	was := util.FormatMenuItem(before)

	if err := update(itemID); err != nil {
		return err
	}
	b.states.Clear(req.UserID)

	after, err := b.catalog.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("✅ *Updated*\n\nWas: %s\nNow: %s", was, util.FormatMenuItem(after))
	return b.respond(ctx, req, text, editMenuItemKeyboard(itemID))
}

func (b *Bot) handleHasSizes(ctx context.Context, req *Request) error {
	state := b.states.Get(req.UserID)
	if state == nil || state.Flow != convstate.FlowMenu || state.Menu.Name == "" {
		return b.respond(ctx, req, "ℹ️ No menu item in progress.", backToMenuKeyboard())
	}

	if req.Payload == "yes" {
		state.Step = convstate.StepMenuSize
		b.states.Set(req.UserID, state)
		return b.respond(ctx, req,
			fmt.Sprintf("Send the first size of *%s*, e.g. Small.", state.Menu.Name),
			cancelMenuSetupKeyboard())
	}

	state.Step = convstate.StepMenuPrice
	b.states.Set(req.UserID, state)
	return b.respond(ctx, req,
		fmt.Sprintf("What is the price of *%s*?", state.Menu.Name),
		cancelMenuSetupKeyboard())
}

// handleAddMoreSizes either loops back for another size label or persists
// the accumulated sizes as one variant per row
func (b *Bot) handleAddMoreSizes(ctx context.Context, req *Request) error {
	state := b.states.Get(req.UserID)
	if state == nil || state.Flow != convstate.FlowMenu || len(state.Menu.Sizes) == 0 {
		return b.respond(ctx, req, "ℹ️ No menu item in progress.", backToMenuKeyboard())
	}

	if req.Payload == "yes" {
		state.Step = convstate.StepMenuSize
		b.states.Set(req.UserID, state)
		return b.respond(ctx, req,
			fmt.Sprintf("Send the next size of *%s*.", state.Menu.Name),
			cancelMenuSetupKeyboard())
	}

	sizes := make([]service.SizeEntry, len(state.Menu.Sizes))
	for i, s := range state.Menu.Sizes {
		sizes[i] = service.SizeEntry{Label: s.Label, Price: s.Price}
	}

	added, failed := b.catalog.AddSizes(ctx, state.Menu.Name, sizes)
	b.states.Clear(req.UserID)

	text := fmt.Sprintf("✅ Added %d size(s) of *%s*.", added, state.Menu.Name)
	if failed > 0 {
		text += fmt.Sprintf("\n⚠️ %d size(s) failed to save.", failed)
	}
	return b.respond(ctx, req, text, menuItemAddedKeyboard())
}

func (b *Bot) handleCancelMenuSetup(ctx context.Context, req *Request) error {
	b.states.Clear(req.UserID)
	return b.handleManageMenu(ctx, req)
}

func (b *Bot) handleEditMenuItem(ctx context.Context, req *Request) error {
	b.states.Clear(req.UserID)

	itemID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid menu item id %q: %w", req.Payload, err)
	}

	item, err := b.catalog.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return b.respond(ctx, req, "⚠️ Item not found.", backToMenuKeyboard())
	}

	text := "✏️ *Edit Item*\n\n" + util.FormatMenuItem(item)
	return b.respond(ctx, req, text, editMenuItemKeyboard(itemID))
}

func (b *Bot) handleEditName(ctx context.Context, req *Request) error {
	return b.startMenuEdit(ctx, req, convstate.StepMenuEditName, "Send the new name.")
}

func (b *Bot) handleEditSize(ctx context.Context, req *Request) error {
	return b.startMenuEdit(ctx, req, convstate.StepMenuEditSize, "Send the new size label.")
}

func (b *Bot) handleEditPrice(ctx context.Context, req *Request) error {
	return b.startMenuEdit(ctx, req, convstate.StepMenuEditPrice, "Send the new price.")
}

func (b *Bot) startMenuEdit(ctx context.Context, req *Request, step convstate.Step, prompt string) error {
	itemID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid menu item id %q: %w", req.Payload, err)
	}

	item, err := b.catalog.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return b.respond(ctx, req, "⚠️ Item not found.", backToMenuKeyboard())
	}

	b.states.Set(req.UserID, &convstate.State{
		Flow: convstate.FlowMenu,
		Step: step,
		Menu: &convstate.MenuDraft{EditItemID: itemID},
	})

	text := util.FormatMenuItem(item) + "\n\n" + prompt
	return b.respond(ctx, req, text, cancelMenuSetupKeyboard())
}

func (b *Bot) handleConfirmDeleteMenuItem(ctx context.Context, req *Request) error {
	itemID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid menu item id %q: %w", req.Payload, err)
	}

	item, err := b.catalog.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return b.respond(ctx, req, "⚠️ Item not found.", backToMenuKeyboard())
	}

	text := "🗑 Remove *" + util.FormatMenuItem(item) + "* from the menu?\n\nPast orders keep their copy of it."
	return b.respond(ctx, req, text, confirmDeleteMenuItemKeyboard(itemID))
}

func (b *Bot) handleDeleteMenuItem(ctx context.Context, req *Request) error {
	itemID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid menu item id %q: %w", req.Payload, err)
	}

	if err := b.catalog.SoftDelete(ctx, itemID); err != nil {
		return err
	}
	return b.handleManageMenu(ctx, req)
}
