package permissions

import (
	"context"

	e "nuclight.org/unicode-detector-bot/pkg/entities"
	"nuclight.org/unicode-detector-bot/pkg/logger"
)

type MemberFetcher interface {
	ChatMember(ctx context.Context, chatID, userID int64) (e.ChatMember, error)
}

// ownerCapabilities are implied for the chat owner, the platform does not report them.
var ownerCapabilities = e.Capabilities{
	CanRestrictMembers: true,
	CanDeleteMessages:  true,
	CanChangeInfo:      true,
}

// Resolver looks up live administrative rights. Nothing is cached, rights may change
// between a prompt being posted and a button being pressed.
type Resolver struct {
	Log     logger.Logger
	Members MemberFetcher
}

// Member returns the role and rights of user in chat. Any lookup error yields a member
// with unknown status and no capabilities.
func (r *Resolver) Member(ctx context.Context, chatID, userID int64) e.ChatMember {
	member, err := r.Members.ChatMember(ctx, chatID, userID)
	if err != nil {
		r.Log.Warn("resolving chat member", "tg_chat_id", chatID, "tg_user_id", userID, "error", err)
		return e.ChatMember{User: e.User{ID: userID}}
	}

	switch member.Status {
	case e.MemberStatusCreator:
		member.Capabilities = ownerCapabilities
	case e.MemberStatusAdministrator:
	default:
		member.Capabilities = e.Capabilities{}
	}

	return member
}

// CapabilitiesOf returns the rights of user in chat, empty when they can not be determined.
func (r *Resolver) CapabilitiesOf(ctx context.Context, chatID, userID int64) e.Capabilities {
	return r.Member(ctx, chatID, userID).Capabilities
}
