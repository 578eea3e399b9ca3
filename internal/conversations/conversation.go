// Package conversations implements the conversation log domain for Sofia.
// Every analysis exchange appends rows here so the companion chat UI can
// replay what Sofia told the user. Rows are append-only; this pipeline never
// edits or deletes them.
package conversations

import (
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one stored conversation entry. AnalysisID links the
// message to the analysis that produced it; nil for free-form chat messages.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	UserRef    string     `json:"user_ref"`
	AnalysisID *uuid.UUID `json:"analysis_id"`
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AppendCommand carries the data needed to append a conversation message.
type AppendCommand struct {
	UserRef    string     `json:"user_ref"`
	AnalysisID *uuid.UUID `json:"analysis_id,omitempty"`
	Role       string     `json:"role"`
	Content    string     `json:"content"`
}
