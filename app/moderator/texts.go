package moderator

import (
	"fmt"
	"html"
	"strings"

	e "nuclight.org/unicode-detector-bot/pkg/entities"
)

const (
	msgNotEnoughPermissions = "You don't have enough permissions!"
	msgInvalidButton        = "This button is no longer valid."
	msgGroupsOnly           = "This command works only on supergroups!"
	msgTurnedOn             = "Turned on."
	msgTurnedOff            = "Turned off."
	msgDetectorUsage        = "Try with on and off to toggle!"
	msgStillBanned          = "Kicked, but the user is still banned! Unban them manually."
)

type actionTexts struct {
	button  string
	answer  string
	audit   string
	failure string
}

var texts = map[e.ActionKind]actionTexts{
	e.ActionKindKick: {
		button:  "Kick",
		answer:  "Kicked Successfully!",
		audit:   "Kicked!",
		failure: "Failed to Kick",
	},
	e.ActionKindBan: {
		button:  "Ban",
		answer:  "Successfully Banned!",
		audit:   "Banned!",
		failure: "Failed to Ban",
	},
	e.ActionKindMute: {
		button:  "Mute",
		answer:  "Muted!",
		audit:   "Muted!",
		failure: "Failed to Mute",
	},
	e.ActionKindDismiss: {
		button:  "Solved!",
		answer:  "Solved!",
		audit:   "Solved!",
		failure: "Failed to Solve",
	},
}

func mention(u e.User) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, u.ID, html.EscapeString(u.Label()))
}

// invisible mention, notifies the user without cluttering the text
func tag(u e.User) string {
	return fmt.Sprintf("<a href=\"tg://user?id=%d\">\u200b</a>", u.ID)
}

func promptText(user e.User, admins []e.ChatMember) string {
	var sb strings.Builder
	for _, admin := range admins {
		if admin.User.IsBot {
			continue
		}
		sb.WriteString(tag(admin.User))
	}
	sb.WriteString("User ")
	sb.WriteString(mention(user))
	sb.WriteString(" is detected as a Unicode user !!")
	return sb.String()
}

func namelessText(user e.User) string {
	return "User " + mention(user) + " detected without a name!!"
}

func promptButtons(userID int64) [][]e.Button {
	button := func(kind e.ActionKind) e.Button {
		return e.Button{
			Text: texts[kind].button,
			Data: e.CallbackAction{Kind: kind, TargetUserID: userID}.Encode(),
		}
	}

	return [][]e.Button{
		{button(e.ActionKindKick), button(e.ActionKindBan)},
		{button(e.ActionKindMute), button(e.ActionKindDismiss)},
	}
}

func auditText(target, presser e.User, kind e.ActionKind) string {
	return fmt.Sprintf(
		"<b>Action:</b>\n%s was having unicode letters in the name!\n<b>Status:</b> Action Taken by %s !\n<b>Action:</b> %s",
		mention(target), mention(presser), texts[kind].audit,
	)
}

func stillBannedText(target, presser e.User, err error) string {
	return fmt.Sprintf(
		"<b>Action:</b>\n%s was having unicode letters in the name!\n<b>Status:</b> Action Taken by %s !\n"+
			"<b>Action:</b> Banned! Failed to lift the ban, unban manually.\n<b>Error:</b>\n<code>%s</code>",
		mention(target), mention(presser), html.EscapeString(err.Error()),
	)
}

func failureText(kind e.ActionKind, err error) string {
	return fmt.Sprintf("%s\n<b>Error:</b>\n<code>%s</code>", texts[kind].failure, html.EscapeString(err.Error()))
}

func settingText(s e.Setting) string {
	return fmt.Sprintf("This group's current setting is: <code>%s</code>\n%s", s, msgDetectorUsage)
}
