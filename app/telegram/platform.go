package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	e "nuclight.org/unicode-detector-bot/pkg/entities"
)

func (c *Client) ChatMember(_ context.Context, chatID, userID int64) (e.ChatMember, error) {
	conf := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	}

	member, err := c.bot.GetChatMember(conf)
	if err != nil {
		return e.ChatMember{}, fmt.Errorf("getting chat member: %w", err)
	}

	return toChatMember(member), nil
}

func (c *Client) Administrators(_ context.Context, chatID int64) ([]e.ChatMember, error) {
	conf := tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	}

	admins, err := c.bot.GetChatAdministrators(conf)
	if err != nil {
		return nil, fmt.Errorf("getting chat administrators: %w", err)
	}

	members := make([]e.ChatMember, 0, len(admins))
	for _, admin := range admins {
		members = append(members, toChatMember(admin))
	}

	return members, nil
}

// SendMessage sends an HTML message and returns its id.
func (c *Client) SendMessage(_ context.Context, msg e.OutgoingMessage) (int, error) {
	conf := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	conf.ParseMode = tgbotapi.ModeHTML
	conf.DisableWebPagePreview = true
	conf.ReplyToMessageID = msg.ReplyToMessageID

	if len(msg.Buttons) > 0 {
		conf.ReplyMarkup = toKeyboard(msg.Buttons)
	}

	sent, err := c.bot.Send(conf)
	if err != nil {
		return 0, err
	}

	return sent.MessageID, nil
}

// EditMessage replaces the text of a message, the inline keyboard is dropped.
func (c *Client) EditMessage(_ context.Context, chatID int64, messageID int, text string) error {
	conf := tgbotapi.NewEditMessageText(chatID, messageID, text)
	conf.ParseMode = tgbotapi.ModeHTML
	conf.DisableWebPagePreview = true

	_, err := c.bot.Request(conf)
	return err
}

func (c *Client) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	conf := tgbotapi.NewCallback(callbackID, text)
	conf.ShowAlert = alert

	_, err := c.bot.Request(conf)
	return err
}

func (c *Client) BanMember(_ context.Context, chatID, userID int64) error {
	conf := tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
	}

	_, err := c.bot.Request(conf)
	return err
}

func (c *Client) UnbanMember(_ context.Context, chatID, userID int64) error {
	conf := tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		OnlyIfBanned:     true,
	}

	_, err := c.bot.Request(conf)
	return err
}

func (c *Client) RestrictMember(_ context.Context, chatID, userID int64, perms e.Permissions) error {
	conf := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		Permissions:      toChatPermissions(perms),
	}

	_, err := c.bot.Request(conf)
	return err
}
