package entities

// Message is an incoming chat message.
type Message struct {
	ID        int
	ChatID    int64
	ChatTitle string
	Private   bool
	Sender    User
	Text      string
}

// Callback is a press of an inline button attached to MessageID.
type Callback struct {
	ID        string
	From      User
	ChatID    int64
	MessageID int
	Data      string
}

// OutgoingMessage is a message the bot sends. Text is HTML formatted.
type OutgoingMessage struct {
	ChatID           int64
	Text             string
	ReplyToMessageID int
	Buttons          [][]Button
}

// Button is an inline keyboard button, either Data or URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}
