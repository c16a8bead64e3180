package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pos-bot/internal/convstate"
	"pos-bot/internal/util"

	"go.uber.org/zap"
)

func (b *Bot) handleManageUsers(ctx context.Context, req *Request) error {
	b.states.Clear(req.UserID)
	return b.renderUserList(ctx, req, "")
}

func (b *Bot) renderUserList(ctx context.Context, req *Request, notice string) error {
	users, err := b.store.ListAuthorizedUsers(ctx)
	if err != nil {
		return err
	}

	text := "👥 *Authorized Users*\n\nTap a user to remove them."
	if notice != "" {
		text = notice + "\n\n" + text
	}
	return b.respond(ctx, req, text, userManagementKeyboard(users))
}

func (b *Bot) handleAddUser(ctx context.Context, req *Request) error {
	b.states.Set(req.UserID, &convstate.State{
		Flow: convstate.FlowUserAuth,
		Step: convstate.StepUserAwaitingID,
	})
	return b.respond(ctx, req,
		"➕ *Add User*\n\nSend the numeric Telegram user ID to authorize.", addUserKeyboard())
}

// handleUserText consumes the user ID prompt. The candidate's profile is
// looked up best-effort; an invisible profile does not block authorization,
// the name just fills in on their first action.
func (b *Bot) handleUserText(ctx context.Context, req *Request, state *convstate.State) error {
	if state.Step != convstate.StepUserAwaitingID {
		return nil
	}

	telegramID, err := strconv.ParseInt(strings.TrimSpace(req.Text), 10, 64)
	if err != nil || telegramID <= 0 {
		return b.respond(ctx, req,
			"⚠️ Please send a numeric Telegram user ID.", addUserKeyboard())
	}

	existing, err := b.store.GetUser(ctx, telegramID)
	if err != nil {
		return err
	}
	if existing != nil {
		return b.respond(ctx, req,
			fmt.Sprintf("ℹ️ %s is already authorized. Send another ID.",
				util.FormatUserDisplayName(existing.TelegramID, existing.FullName)),
			addUserKeyboard())
	}

	pending := &convstate.PendingUser{TelegramID: telegramID}
	lines := []string{"Add this user?", "", fmt.Sprintf("*ID:* %d", telegramID)}

	chat, err := b.transport.GetChat(ctx, telegramID)
	if err != nil {
		b.logger.Warn("Failed to look up candidate profile",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		lines = append(lines, "",
			"_Profile not visible yet; the name fills in on their first action._")
	} else {
		if name := chat.FullName(); name != "" {
			pending.FullName = &name
			lines = append(lines, "*Name:* "+name)
		}
		if chat.Username != "" {
			username := chat.Username
			pending.Username = &username
			lines = append(lines, "*Username:* @"+username)
		}
	}

	state.Step = convstate.StepUserAwaitingConfirm
	state.PendingUser = pending
	b.states.Set(req.UserID, state)

	return b.respond(ctx, req, strings.Join(lines, "\n"), confirmAddUserKeyboard(telegramID))
}

func (b *Bot) handleConfirmAddUser(ctx context.Context, req *Request) error {
	state := b.states.Get(req.UserID)
	if state == nil || state.Flow != convstate.FlowUserAuth || state.PendingUser == nil {
		return b.renderUserList(ctx, req, "ℹ️ Nothing pending.")
	}

	pending := state.PendingUser
	if payload, err := strconv.ParseInt(req.Payload, 10, 64); err != nil || payload != pending.TelegramID {
		return b.renderUserList(ctx, req, "ℹ️ That confirmation is no longer valid.")
	}

	if err := b.store.AddAuthorizedUser(ctx, pending.TelegramID, pending.Username, pending.FullName); err != nil {
		return err
	}
	b.states.Clear(req.UserID)

	notice := fmt.Sprintf("✅ Authorized %s.",
		util.FormatUserDisplayName(pending.TelegramID, pending.FullName))
	return b.renderUserList(ctx, req, notice)
}

func (b *Bot) handleDeleteUser(ctx context.Context, req *Request) error {
	telegramID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram id %q: %w", req.Payload, err)
	}

	user, err := b.store.GetUser(ctx, telegramID)
	if err != nil {
		return err
	}
	if user == nil {
		return b.renderUserList(ctx, req, "⚠️ User not found.")
	}

	if telegramID == req.UserID {
		return b.renderUserList(ctx, req, "⚠️ You cannot remove yourself.")
	}

	text := fmt.Sprintf("🗑 Remove *%s* from authorized users?",
		util.FormatUserDisplayName(user.TelegramID, user.FullName))
	return b.respond(ctx, req, text, confirmDeleteUserKeyboard(telegramID))
}

func (b *Bot) handleConfirmDeleteUser(ctx context.Context, req *Request) error {
	telegramID, err := strconv.ParseInt(req.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram id %q: %w", req.Payload, err)
	}

	if telegramID == req.UserID {
		return b.renderUserList(ctx, req, "⚠️ You cannot remove yourself.")
	}

	if err := b.store.DeleteAuthorizedUser(ctx, telegramID); err != nil {
		return err
	}
	return b.renderUserList(ctx, req, "✅ User removed.")
}

func (b *Bot) handleCancelUserMgmt(ctx context.Context, req *Request) error {
	b.states.Clear(req.UserID)
	return b.renderUserList(ctx, req, "")
}
