package moderator

import (
	"context"
	"fmt"
	"strings"

	e "nuclight.org/unicode-detector-bot/pkg/entities"
)

var detectorCommandCapabilities = e.Capabilities{
	CanRestrictMembers: true,
	CanChangeInfo:      true,
}

// HandleDetectorCommand shows or toggles moderation of a chat, args is the text after
// the command.
func (h *Handler) HandleDetectorCommand(ctx context.Context, msg e.Message, args string) error {
	log := h.Log.With("tg_chat_id", msg.ChatID, "tg_user_id", msg.Sender.ID)

	if msg.Private {
		return h.reply(ctx, msg, msgGroupsOnly)
	}

	caller := h.Members.Member(ctx, msg.ChatID, msg.Sender.ID)
	if !caller.IsAdmin() || !caller.Capabilities.Allows(detectorCommandCapabilities) {
		log.Warn("detector command rejected", "status", caller.Status)
		return h.reply(ctx, msg, msgNotEnoughPermissions)
	}

	fields := strings.Fields(args)
	if len(fields) == 0 {
		setting, err := h.Ledger.Setting(ctx, msg.ChatID)
		if err != nil {
			return fmt.Errorf("getting chat setting: %w", err)
		}
		return h.reply(ctx, msg, settingText(setting))
	}

	var (
		setting e.Setting
		text    string
	)

	switch strings.ToLower(fields[0]) {
	case "on", "yes", "true":
		setting, text = e.SettingOn, msgTurnedOn
	case "off", "no", "false":
		setting, text = e.SettingOff, msgTurnedOff
	default:
		return h.reply(ctx, msg, msgDetectorUsage)
	}

	err := h.Ledger.SetSetting(ctx, msg.ChatID, setting)
	if err != nil {
		return fmt.Errorf("setting chat setting: %w", err)
	}

	log.Info("detector toggled", "setting", setting)
	return h.reply(ctx, msg, text)
}

func (h *Handler) reply(ctx context.Context, msg e.Message, text string) error {
	_, err := h.Platform.SendMessage(ctx, e.OutgoingMessage{
		ChatID:           msg.ChatID,
		Text:             text,
		ReplyToMessageID: msg.ID,
	})
	if err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	return nil
}
