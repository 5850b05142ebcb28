package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lead represents the structure of a captured lead in the database.
// Leads are produced when a viewer submits a form solution; Fields holds the
// submitted form values keyed by field name.
type Lead struct {
	ID         uuid.UUID       `json:"id,omitempty"`
	SessionID  uuid.UUID       `json:"session_id"`
	SolutionID *uuid.UUID      `json:"solution_id,omitempty"` // Nullable foreign key
	Name       *string         `json:"name,omitempty"`
	Email      *string         `json:"email,omitempty"`
	Phone      *string         `json:"phone,omitempty"`
	Fields     json.RawMessage `json:"fields,omitempty"` // Nullable JSONB
	CreatedAt  time.Time       `json:"created_at"`
}
