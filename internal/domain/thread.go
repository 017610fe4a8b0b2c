package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Thread is a persistent conversation context.
type Thread struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
}

// maxDerivedTitleLen bounds the title derived from a thread's first message.
const maxDerivedTitleLen = 30

// DeriveTitle produces a thread title from the first user message.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= maxDerivedTitleLen {
		return content
	}
	return string(runes[:maxDerivedTitleLen]) + "..."
}

// Message is a single turn in a thread. Immutable once written except for
// bulk removal via the store.
type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"threadId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
