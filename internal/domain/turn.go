package domain

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a drafting conversation. Turns are immutable
// once appended to a session and their order is conversation chronology.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"content"`
}
