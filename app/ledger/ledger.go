// Package ledger keeps track of flagged users and the moderation toggle of every chat.
//
// All state lives in an external Store, nothing is cached between calls, so several
// bot instances can share one ledger. Every operation is a single atomic store call.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	e "nuclight.org/unicode-detector-bot/pkg/entities"
)

// Store is a key-value store with set support.
type Store interface {
	// Get returns the value of key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error

	AddToSet(ctx context.Context, key, member string) error
	// RemoveFromSet returns whether member was present.
	RemoveFromSet(ctx context.Context, key, member string) (bool, error)
	IsMember(ctx context.Context, key, member string) (bool, error)
}

// Stored values are shared with deployments of the previous bot, keep them as is.
const (
	settingOn  = "True"
	settingOff = "False"
)

var ErrInvalidSetting = errors.New("invalid setting")

type Ledger struct {
	Store Store
}

func New(store Store) *Ledger {
	return &Ledger{Store: store}
}

// IsFlagged reports whether user is currently flagged in chat.
func (l *Ledger) IsFlagged(ctx context.Context, chatID, userID int64) (bool, error) {
	ok, err := l.Store.IsMember(ctx, flagsKey(chatID), formatID(userID))
	if err != nil {
		return false, fmt.Errorf("checking flag: %w", err)
	}
	return ok, nil
}

// SetFlagged marks user as flagged in chat. Repeated calls have no further effect.
func (l *Ledger) SetFlagged(ctx context.Context, chatID, userID int64) error {
	err := l.Store.AddToSet(ctx, flagsKey(chatID), formatID(userID))
	if err != nil {
		return fmt.Errorf("adding flag: %w", err)
	}
	return nil
}

// ClearFlagged removes the flag of user in chat and reports whether one existed.
func (l *Ledger) ClearFlagged(ctx context.Context, chatID, userID int64) (bool, error) {
	existed, err := l.Store.RemoveFromSet(ctx, flagsKey(chatID), formatID(userID))
	if err != nil {
		return false, fmt.Errorf("removing flag: %w", err)
	}
	return existed, nil
}

// Setting returns the moderation toggle of chat. Unrecognised stored values read as unset.
func (l *Ledger) Setting(ctx context.Context, chatID int64) (e.Setting, error) {
	value, ok, err := l.Store.Get(ctx, settingKey(chatID))
	if err != nil {
		return e.SettingUnset, fmt.Errorf("getting setting: %w", err)
	}

	if !ok {
		return e.SettingUnset, nil
	}

	switch value {
	case settingOn:
		return e.SettingOn, nil
	case settingOff:
		return e.SettingOff, nil
	default:
		return e.SettingUnset, nil
	}
}

// SetSetting stores the moderation toggle of chat, only on and off can be stored.
func (l *Ledger) SetSetting(ctx context.Context, chatID int64, setting e.Setting) error {
	var value string
	switch setting {
	case e.SettingOn:
		value = settingOn
	case e.SettingOff:
		value = settingOff
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSetting, setting)
	}

	err := l.Store.Set(ctx, settingKey(chatID), value)
	if err != nil {
		return fmt.Errorf("storing setting: %w", err)
	}
	return nil
}

func settingKey(chatID int64) string {
	return "Chat_" + formatID(chatID)
}

func flagsKey(chatID int64) string {
	return "User_" + formatID(chatID)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
