package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type ActionKind string

const (
	// ActionKindKick removes a user from the chat once, the user is able to rejoin
	ActionKindKick ActionKind = "kick"

	// ActionKindBan removes a user from the chat permanently
	ActionKindBan ActionKind = "ban"

	// ActionKindMute revokes messaging rights of a user
	ActionKindMute ActionKind = "mute"

	// ActionKindDismiss resolves a prompt without any penalty
	ActionKindDismiss ActionKind = "dismiss"
)

// Button payloads already sent to live chats carry these tokens, they must not change.
var wireTokens = map[ActionKind]string{
	ActionKindKick:    "kick",
	ActionKindBan:     "ban",
	ActionKindMute:    "mute",
	ActionKindDismiss: "oke",
}

const (
	payloadPrefix    = "action_"
	payloadSeparator = "="
)

// ErrMalformedPayload is wrapped by every PayloadError.
var ErrMalformedPayload = errors.New("malformed callback payload")

// PayloadError is returned when a button payload can not be decoded.
type PayloadError struct {
	Payload string
	Reason  string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedPayload, e.Payload, e.Reason)
}

func (e *PayloadError) Unwrap() error {
	return ErrMalformedPayload
}

// CallbackAction is an enforcement request decoded from a prompt button.
// The chat is not part of the payload, it is taken from the message the button belongs to.
type CallbackAction struct {
	Kind         ActionKind
	TargetUserID int64
}

// Encode renders the action as a button payload of the form action_=<token>=<user id>.
func (a CallbackAction) Encode() string {
	return payloadPrefix + payloadSeparator + wireTokens[a.Kind] + payloadSeparator + strconv.FormatInt(a.TargetUserID, 10)
}

// IsCallbackAction reports whether data looks like a moderation button payload.
func IsCallbackAction(data string) bool {
	return strings.HasPrefix(data, payloadPrefix)
}

// ParseCallbackAction strictly decodes a button payload.
func ParseCallbackAction(data string) (CallbackAction, error) {
	parts := strings.Split(data, payloadSeparator)
	if len(parts) != 3 {
		return CallbackAction{}, &PayloadError{Payload: data, Reason: fmt.Sprintf("expected 3 fields, got %d", len(parts))}
	}

	if parts[0] != payloadPrefix {
		return CallbackAction{}, &PayloadError{Payload: data, Reason: "unexpected prefix"}
	}

	kind, ok := kindFromToken(parts[1])
	if !ok {
		return CallbackAction{}, &PayloadError{Payload: data, Reason: fmt.Sprintf("unknown action %q", parts[1])}
	}

	userID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || userID <= 0 {
		return CallbackAction{}, &PayloadError{Payload: data, Reason: fmt.Sprintf("invalid user id %q", parts[2])}
	}

	return CallbackAction{Kind: kind, TargetUserID: userID}, nil
}

func kindFromToken(token string) (ActionKind, bool) {
	for kind, t := range wireTokens {
		if t == token {
			return kind, true
		}
	}
	return "", false
}
