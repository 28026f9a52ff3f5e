package core

import "time"

const (
	AppName       = "GradeBot"
	AppVersion    = "0.1.0"
	RepositoryURL = "https://github.com/sandevgo/gradebot"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is a recorded conversation entry for a single user.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Button is one inline action rendered under a reply. Data is the callback
// payload delivered back to the router when pressed.
type Button struct {
	Label string
	Data  string
}

// Reply is the transport-neutral answer to one incoming message or callback.
// Text is Markdown.
type Reply struct {
	Text    string
	Buttons [][]Button
}

func TextReply(text string) Reply {
	return Reply{Text: text}
}
