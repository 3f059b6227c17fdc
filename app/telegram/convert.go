package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	e "nuclight.org/unicode-detector-bot/pkg/entities"
)

type updateKind string

const (
	updateKindMessage  updateKind = "message"
	updateKindCommand  updateKind = "command"
	updateKindCallback updateKind = "callback"
	updateKindIgnored  updateKind = "ignored"
)

// knownCommands are handled by the bot, any other command is an ordinary message.
var knownCommands = map[string]bool{
	"detector": true,
	"start":    true,
	"help":     true,
	"ping":     true,
}

// classify decides which path an update takes. Only known commands addressed to this
// bot take the command path, everything else a member posts is evaluated.
func classify(update tgbotapi.Update, botUserName string) updateKind {
	if cb := update.CallbackQuery; cb != nil {
		if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
			return updateKindIgnored
		}
		if !e.IsCallbackAction(cb.Data) {
			return updateKindIgnored
		}
		return updateKindCallback
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.From.IsBot {
		return updateKindIgnored
	}

	if msg.IsCommand() && knownCommands[msg.Command()] && addressedTo(msg, botUserName) {
		return updateKindCommand
	}

	if msg.Chat.IsPrivate() {
		return updateKindIgnored
	}

	if msg.LeftChatMember != nil || len(msg.NewChatMembers) > 0 {
		return updateKindIgnored
	}

	return updateKindMessage
}

func addressedTo(msg *tgbotapi.Message, botUserName string) bool {
	withAt := msg.CommandWithAt()
	idx := strings.IndexByte(withAt, '@')
	if idx < 0 {
		return true
	}
	return strings.EqualFold(withAt[idx+1:], botUserName)
}

func toUser(u *tgbotapi.User) e.User {
	if u == nil {
		return e.User{}
	}

	return e.User{
		ID:        u.ID,
		FirstName: e.OptionalString(u.FirstName),
		LastName:  e.OptionalString(u.LastName),
		UserName:  u.UserName,
		IsBot:     u.IsBot,
	}
}

func toMessage(msg *tgbotapi.Message) e.Message {
	return e.Message{
		ID:        msg.MessageID,
		ChatID:    msg.Chat.ID,
		ChatTitle: msg.Chat.Title,
		Private:   msg.Chat.IsPrivate(),
		Sender:    toUser(msg.From),
		Text:      msg.Text,
	}
}

func toCallback(cb *tgbotapi.CallbackQuery) e.Callback {
	return e.Callback{
		ID:        cb.ID,
		From:      toUser(cb.From),
		ChatID:    cb.Message.Chat.ID,
		MessageID: cb.Message.MessageID,
		Data:      cb.Data,
	}
}

func toChatMember(m tgbotapi.ChatMember) e.ChatMember {
	return e.ChatMember{
		User:   toUser(m.User),
		Status: e.MemberStatus(m.Status),
		Capabilities: e.Capabilities{
			CanRestrictMembers: m.CanRestrictMembers,
			CanDeleteMessages:  m.CanDeleteMessages,
			CanChangeInfo:      m.CanChangeInfo,
		},
	}
}

func toChatPermissions(p e.Permissions) *tgbotapi.ChatPermissions {
	return &tgbotapi.ChatPermissions{
		CanSendMessages:       p.CanSendMessages,
		CanSendMediaMessages:  p.CanSendMediaMessages,
		CanSendPolls:          p.CanSendPolls,
		CanSendOtherMessages:  p.CanSendOtherMessages,
		CanAddWebPagePreviews: p.CanAddWebPagePreviews,
		CanChangeInfo:         p.CanChangeInfo,
		CanInviteUsers:        p.CanInviteUsers,
		CanPinMessages:        p.CanPinMessages,
	}
}

func toKeyboard(rows [][]e.Button) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))

	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(buttons...))
	}

	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}
