package moderator

import (
	"context"
	"errors"
	"fmt"

	"nuclight.org/unicode-detector-bot/app/metrics"
	e "nuclight.org/unicode-detector-bot/pkg/entities"
)

// requiredCapabilities per action. Dismissing without a penalty is an override and
// needs more than enforcing.
var requiredCapabilities = map[e.ActionKind]e.Capabilities{
	e.ActionKindKick:    {CanRestrictMembers: true},
	e.ActionKindBan:     {CanRestrictMembers: true},
	e.ActionKindMute:    {CanRestrictMembers: true},
	e.ActionKindDismiss: {CanRestrictMembers: true, CanDeleteMessages: true},
}

// HandleCallback handles a press of a prompt button. Rejected presses leave the ledger
// and the prompt untouched. Accepted presses always clear the flag of the target, even
// when enforcement fails.
func (h *Handler) HandleCallback(ctx context.Context, cb e.Callback) error {
	log := h.Log.With("tg_chat_id", cb.ChatID, "tg_message_id", cb.MessageID, "tg_presser_id", cb.From.ID)

	action, err := e.ParseCallbackAction(cb.Data)
	if err != nil {
		h.answer(ctx, cb, msgInvalidButton, true)
		return fmt.Errorf("decoding callback: %w", err)
	}

	log = log.With("action", action.Kind, "tg_user_id", action.TargetUserID)
	log.Info("action button pressed")

	presser := h.Members.Member(ctx, cb.ChatID, cb.From.ID)
	if !presser.IsAdmin() || !presser.Capabilities.Allows(requiredCapabilities[action.Kind]) {
		log.Warn("action rejected", "status", presser.Status)
		metrics.RecordAction(string(action.Kind), metrics.ActionStatusRejected)
		h.answer(ctx, cb, msgNotEnoughPermissions, true)
		return nil
	}

	target := h.Members.Member(ctx, cb.ChatID, action.TargetUserID).User

	var unbanErr *unbanError

	err = h.enforce(ctx, cb.ChatID, action)
	switch {
	case errors.As(err, &unbanErr):
		log.Error("kicked user stays banned", "error", unbanErr.err)
		metrics.RecordAction(string(action.Kind), metrics.ActionStatusFailed)
		h.answer(ctx, cb, msgStillBanned, true)
		h.edit(ctx, cb, stillBannedText(target, cb.From, unbanErr.err))
	case err != nil:
		log.Warn("enforcing action", "error", err)
		metrics.RecordAction(string(action.Kind), metrics.ActionStatusFailed)
		h.answer(ctx, cb, texts[action.Kind].failure, false)
		h.edit(ctx, cb, failureText(action.Kind, err))
	default:
		log.Info("action enforced")
		metrics.RecordAction(string(action.Kind), metrics.ActionStatusOK)
		h.answer(ctx, cb, texts[action.Kind].answer, false)
		h.edit(ctx, cb, auditText(target, cb.From, action.Kind))
	}

	existed, err := h.Ledger.ClearFlagged(ctx, cb.ChatID, action.TargetUserID)
	if err != nil {
		return fmt.Errorf("clearing flag: %w", err)
	}

	if existed {
		metrics.RecordFlag(metrics.FlagEventCleared)
	}
	log.Info("prompt resolved, flag removed", "existed", existed)
	return nil
}

// unbanError means the ban of a kick went through but lifting it did not, the user
// is banned until someone unbans them by hand.
type unbanError struct {
	err error
}

func (u *unbanError) Error() string {
	return "lifting ban after kick: " + u.err.Error()
}

func (u *unbanError) Unwrap() error {
	return u.err
}

func (h *Handler) enforce(ctx context.Context, chatID int64, action e.CallbackAction) error {
	userID := action.TargetUserID

	switch action.Kind {
	case e.ActionKindKick:
		if err := h.Platform.BanMember(ctx, chatID, userID); err != nil {
			return err
		}
		// lifting the ban right away lets the user rejoin
		if err := h.Platform.UnbanMember(ctx, chatID, userID); err != nil {
			return &unbanError{err: err}
		}
		return nil
	case e.ActionKindBan:
		return h.Platform.BanMember(ctx, chatID, userID)
	case e.ActionKindMute:
		return h.Platform.RestrictMember(ctx, chatID, userID, e.MutedPermissions)
	case e.ActionKindDismiss:
		return nil
	default:
		return fmt.Errorf("unknown action kind: %s", action.Kind)
	}
}

func (h *Handler) answer(ctx context.Context, cb e.Callback, text string, alert bool) {
	err := h.Platform.AnswerCallback(ctx, cb.ID, text, alert)
	if err != nil {
		h.Log.Warn("answering callback", "tg_chat_id", cb.ChatID, "error", err)
	}
}

func (h *Handler) edit(ctx context.Context, cb e.Callback, text string) {
	err := h.Platform.EditMessage(ctx, cb.ChatID, cb.MessageID, text)
	if err != nil {
		h.Log.Warn("editing prompt", "tg_chat_id", cb.ChatID, "tg_message_id", cb.MessageID, "error", err)
	}
}
