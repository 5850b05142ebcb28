package models

import (
	"time"

	"github.com/google/uuid"
)

// Flow types supported by a session. Branching sessions advance by answer
// destinations; selection sessions accumulate answers and resolve a terminal
// solution from a pre-declared combination; linear sessions just play in
// order_index order.
const (
	FlowTypeBranching = "branching"
	FlowTypeSelection = "selection"
	FlowTypeLinear    = "linear"
)

// Session represents the structure of an authored session in the database.
// A session is one complete unit of interactive video content.
type Session struct {
	ID          uuid.UUID `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"` // Nullable TEXT
	FlowType    string    `json:"flow_type"`
	IsPublished *bool     `json:"is_published,omitempty"` // Nullable BOOLEAN
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
