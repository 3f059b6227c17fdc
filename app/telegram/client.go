package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"nuclight.org/unicode-detector-bot/app/metrics"
	e "nuclight.org/unicode-detector-bot/pkg/entities"
	"nuclight.org/unicode-detector-bot/pkg/logger"
)

const (
	msgAlive = "I'm alive!"
	msgHello = "Hi there! I'm the one who removes all unicode users from your chat, if you give me a chance!\n" +
		"Check /help to see how."
	msgHelp = "Just add me to your chat with ban user permission and toggle /detector on | off !"
	msgAdd  = "Add me to your chat!"
)

type Moderator interface {
	HandleMessage(ctx context.Context, msg e.Message) error
	HandleCallback(ctx context.Context, cb e.Callback) error
	HandleDetectorCommand(ctx context.Context, msg e.Message, args string) error
}

type Client struct {
	Log        logger.Logger
	APIToken   string
	WorkersNum int
	Moderator  Moderator

	bot *tgbotapi.BotAPI
	wg  sync.WaitGroup
}

func (c *Client) Start(ctx context.Context) (err error) {
	if c.WorkersNum == 0 {
		return fmt.Errorf("workers number must be greater than 0")
	}

	log := c.Log

	c.bot, err = tgbotapi.NewBotAPI(c.APIToken)
	if err != nil {
		return fmt.Errorf("creating bot api: %w", err)
	}

	log.Info("bot api created", "username", c.bot.Self.UserName)

	updatesConf := tgbotapi.NewUpdate(0)
	updatesConf.Timeout = 60
	updatesConf.AllowedUpdates = []string{"message", "callback_query"}

	updatesChan := c.bot.GetUpdatesChan(updatesConf)

	for i := 0; i < c.WorkersNum; i++ {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.handleUpdatesFromChan(ctx, updatesChan)
		}()
	}

	return nil
}

// Wait stops polling and blocks until every worker has returned. The context passed
// to Start must be cancelled first.
func (c *Client) Wait() {
	c.bot.StopReceivingUpdates()
	c.wg.Wait()
}

func (c *Client) handleUpdatesFromChan(ctx context.Context, updatesChan tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updatesChan:
			if !ok {
				return
			}

			err := c.handleUpdate(ctx, update)
			if err != nil {
				c.Log.Error("handling update", "tg_update_id", update.UpdateID, "error", err)
				sentry.CaptureException(err)
			}
		}
	}
}

func (c *Client) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	log := c.Log.With("tg_update_id", update.UpdateID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic", "error", r)
			sentry.CurrentHub().Recover(r)
		}
	}()

	kind := classify(update, c.bot.Self.UserName)
	metrics.RecordUpdate(string(kind))

	switch kind {
	case updateKindCallback:
		cb := toCallback(update.CallbackQuery)
		log.Info(
			"callback received",
			"tg_chat_id", cb.ChatID,
			"tg_message_id", cb.MessageID,
			"tg_user_id", cb.From.ID,
			"data", cb.Data,
		)

		err := c.Moderator.HandleCallback(ctx, cb)
		if err != nil {
			return fmt.Errorf("handling callback: %w", err)
		}
		return nil

	case updateKindCommand:
		err := c.handleCommand(ctx, update.Message)
		if err != nil {
			return fmt.Errorf("handling command %q: %w", update.Message.Command(), err)
		}
		return nil

	case updateKindMessage:
		msg := toMessage(update.Message)
		log.Debug(
			"new message",
			"tg_message_id", msg.ID,
			"tg_user_id", msg.Sender.ID,
			"tg_user_nick", msg.Sender.UserName,
			"tg_user_first_name", update.Message.From.FirstName,
			"tg_user_last_name", update.Message.From.LastName,
			"tg_chat_id", msg.ChatID,
			"tg_chat_title", msg.ChatTitle,
		)

		err := c.Moderator.HandleMessage(ctx, msg)
		if err != nil {
			return fmt.Errorf("handling message: %w", err)
		}
		return nil

	default:
		log.Debug("update ignored")
		return nil
	}
}

func (c *Client) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	msg := toMessage(message)
	command := message.Command()

	c.Log.Info("command received", "command", command, "tg_chat_id", msg.ChatID, "tg_user_id", msg.Sender.ID)

	switch command {
	case "detector":
		return c.Moderator.HandleDetectorCommand(ctx, msg, message.CommandArguments())
	case "start":
		return c.start(ctx, msg)
	case "help":
		return c.reply(ctx, msg, msgHelp, nil)
	case "ping":
		return c.ping(ctx, msg)
	default:
		return nil
	}
}

func (c *Client) start(ctx context.Context, msg e.Message) error {
	if !msg.Private {
		return c.reply(ctx, msg, msgAlive, nil)
	}

	buttons := [][]e.Button{{{
		Text: msgAdd,
		URL:  fmt.Sprintf("https://t.me/%s?startgroup=true", c.bot.Self.UserName),
	}}}

	return c.reply(ctx, msg, msgHello, buttons)
}

func (c *Client) ping(ctx context.Context, msg e.Message) error {
	started := time.Now()

	id, err := c.SendMessage(ctx, e.OutgoingMessage{
		ChatID:           msg.ChatID,
		Text:             "Pinging ...",
		ReplyToMessageID: msg.ID,
	})
	if err != nil {
		return fmt.Errorf("sending ping: %w", err)
	}

	elapsed := float64(time.Since(started).Microseconds()) / 1000
	return c.EditMessage(ctx, msg.ChatID, id, fmt.Sprintf("<b>Pong!</b>\n%.3f ms", elapsed))
}

func (c *Client) reply(ctx context.Context, msg e.Message, text string, buttons [][]e.Button) error {
	_, err := c.SendMessage(ctx, e.OutgoingMessage{
		ChatID:           msg.ChatID,
		Text:             text,
		ReplyToMessageID: msg.ID,
		Buttons:          buttons,
	})
	return err
}
