package moderator

import (
	"context"
	"fmt"

	"nuclight.org/unicode-detector-bot/app/metrics"
	e "nuclight.org/unicode-detector-bot/pkg/entities"
	"nuclight.org/unicode-detector-bot/pkg/logger"
	"nuclight.org/unicode-detector-bot/pkg/script"
)

// Handler is the moderation state machine. A message from a user whose display name
// contains non-Latin script or emoji flags the user and posts a prompt with action
// buttons for administrators. A button press, checked against the live rights of the
// presser, enforces the action, rewrites the prompt into an audit record and clears
// the flag. Every terminal transition clears the flag, there is no retry.
//
// Handler keeps no state of its own, events may be handled concurrently. Two events of
// the same user racing between the ledger check and the ledger update may produce a
// duplicate prompt or an early clear, which is accepted.
type Handler struct {
	// Log is a logger
	Log logger.Logger

	// Platform is the chat platform client
	Platform Platform

	// Ledger is the store of flagged users and chat settings
	Ledger Ledger

	// Members resolves roles and rights of chat members
	Members MemberResolver
}

type Platform interface {
	Administrators(ctx context.Context, chatID int64) ([]e.ChatMember, error)
	SendMessage(ctx context.Context, msg e.OutgoingMessage) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	BanMember(ctx context.Context, chatID, userID int64) error
	UnbanMember(ctx context.Context, chatID, userID int64) error
	RestrictMember(ctx context.Context, chatID, userID int64, perms e.Permissions) error
}

type Ledger interface {
	IsFlagged(ctx context.Context, chatID, userID int64) (bool, error)
	SetFlagged(ctx context.Context, chatID, userID int64) error
	ClearFlagged(ctx context.Context, chatID, userID int64) (bool, error)
	Setting(ctx context.Context, chatID int64) (e.Setting, error)
	SetSetting(ctx context.Context, chatID int64, setting e.Setting) error
}

type MemberResolver interface {
	// Member never fails, an unresolvable member has no role and no capabilities.
	Member(ctx context.Context, chatID, userID int64) e.ChatMember
}

// HandleMessage evaluates the sender of a group message. It returns an error only when
// the ledger is unavailable or the prompt could not be posted.
func (h *Handler) HandleMessage(ctx context.Context, msg e.Message) error {
	chatID, user := msg.ChatID, msg.Sender
	log := h.Log.With("tg_chat_id", chatID, "tg_user_id", user.ID)

	setting, err := h.Ledger.Setting(ctx, chatID)
	if err != nil {
		return fmt.Errorf("getting chat setting: %w", err)
	}

	if !setting.Enabled() {
		log.Debug("detector is off in chat")
		return nil
	}

	name := user.DisplayName()
	flagged := script.IsFlagged(name)

	alreadyFlagged, err := h.Ledger.IsFlagged(ctx, chatID, user.ID)
	if err != nil {
		return fmt.Errorf("checking ledger: %w", err)
	}

	if alreadyFlagged {
		if flagged {
			log.Debug("user is already flagged")
			return nil
		}

		existed, err := h.Ledger.ClearFlagged(ctx, chatID, user.ID)
		if err != nil {
			return fmt.Errorf("clearing flag: %w", err)
		}

		if existed {
			metrics.RecordFlag(metrics.FlagEventCleared)
		}
		log.Info("name is clean now, flag removed", "existed", existed)
		return nil
	}

	if name != "" && !flagged {
		return nil
	}

	if h.Members.Member(ctx, chatID, user.ID).IsAdmin() {
		return nil
	}

	if name == "" {
		_, err = h.Platform.SendMessage(ctx, e.OutgoingMessage{
			ChatID: chatID,
			Text:   namelessText(user),
		})
		if err != nil {
			return fmt.Errorf("sending nameless notice: %w", err)
		}

		metrics.RecordFlag(metrics.FlagEventNameless)
		log.Info("user without a name detected")
		return nil
	}

	err = h.Ledger.SetFlagged(ctx, chatID, user.ID)
	if err != nil {
		return fmt.Errorf("setting flag: %w", err)
	}

	err = h.postPrompt(ctx, chatID, user)
	if err != nil {
		// a flag must not outlive a prompt that was never shown
		if _, clearErr := h.Ledger.ClearFlagged(ctx, chatID, user.ID); clearErr != nil {
			log.Error("rolling back flag", "error", clearErr)
		}
		return fmt.Errorf("posting prompt: %w", err)
	}

	metrics.RecordFlag(metrics.FlagEventFlagged)
	log.Info("user flagged", "name", name)
	return nil
}

func (h *Handler) postPrompt(ctx context.Context, chatID int64, user e.User) error {
	admins, err := h.Platform.Administrators(ctx, chatID)
	if err != nil {
		h.Log.Warn("listing administrators, posting prompt without tags", "tg_chat_id", chatID, "error", err)
		admins = nil
	}

	messageID, err := h.Platform.SendMessage(ctx, e.OutgoingMessage{
		ChatID:  chatID,
		Text:    promptText(user, admins),
		Buttons: promptButtons(user.ID),
	})
	if err != nil {
		return err
	}

	h.Log.Debug("prompt posted", "tg_chat_id", chatID, "tg_message_id", messageID)
	return nil
}
