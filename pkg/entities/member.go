package entities

import "strconv"

// User is a chat participant as seen by the moderator. Name parts are optional,
// nil means the platform did not provide the part at all.
type User struct {
	ID        int64
	FirstName *string
	LastName  *string
	UserName  string
	IsBot     bool
}

// DisplayName returns first and last name concatenated without a separator,
// missing parts are treated as empty.
func (u User) DisplayName() string {
	return deref(u.FirstName) + deref(u.LastName)
}

// Label is a human readable name for mentions, it falls back to the username
// and then to the numeric id.
func (u User) Label() string {
	first, last := deref(u.FirstName), deref(u.LastName)

	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	case u.UserName != "":
		return "@" + u.UserName
	default:
		return strconv.FormatInt(u.ID, 10)
	}
}

// OptionalString converts an empty string into an absent value.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type MemberStatus string

const (
	MemberStatusCreator       MemberStatus = "creator"
	MemberStatusAdministrator MemberStatus = "administrator"
	MemberStatusMember        MemberStatus = "member"
	MemberStatusRestricted    MemberStatus = "restricted"
	MemberStatusLeft          MemberStatus = "left"
	MemberStatusKicked        MemberStatus = "kicked"
	MemberStatusUnknown       MemberStatus = ""
)

// ChatMember is a user together with their role and rights in a specific chat.
type ChatMember struct {
	User         User
	Status       MemberStatus
	Capabilities Capabilities
}

// IsAdmin reports whether the member is the chat owner or an administrator.
func (m ChatMember) IsAdmin() bool {
	return m.Status == MemberStatusCreator || m.Status == MemberStatusAdministrator
}

// Capabilities is the set of administrative rights relevant for moderation.
// The zero value grants nothing.
type Capabilities struct {
	CanRestrictMembers bool
	CanDeleteMessages  bool
	CanChangeInfo      bool
}

// Allows reports whether every right set in required is also present in c.
func (c Capabilities) Allows(required Capabilities) bool {
	if required.CanRestrictMembers && !c.CanRestrictMembers {
		return false
	}
	if required.CanDeleteMessages && !c.CanDeleteMessages {
		return false
	}
	if required.CanChangeInfo && !c.CanChangeInfo {
		return false
	}
	return true
}

// Permissions are the granular messaging rights applied when restricting a member.
type Permissions struct {
	CanSendMessages       bool
	CanSendMediaMessages  bool
	CanSendPolls          bool
	CanSendOtherMessages  bool
	CanAddWebPagePreviews bool
	CanChangeInfo         bool
	CanInviteUsers        bool
	CanPinMessages        bool
}

// MutedPermissions revokes every messaging right but keeps the ability to invite users.
var MutedPermissions = Permissions{
	CanInviteUsers: true,
}
