package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Solution categories. The category selects which payload fields are
// meaningful.
const (
	SolutionCategoryForm  = 1
	SolutionCategoryEmail = 2
	SolutionCategoryLink  = 3
	SolutionCategoryVideo = 4
)

// Solution represents the structure of a terminal solution in the database:
// the outcome a viewer reaches at the end of a flow.
type Solution struct {
	ID           uuid.UUID       `json:"id,omitempty"`
	SessionID    uuid.UUID       `json:"session_id"`
	CategoryID   int             `json:"category_id"`
	Name         string          `json:"name"`
	FormSchema   json.RawMessage `json:"form_schema,omitempty"` // Nullable JSONB, category=form
	EmailTo      *string         `json:"email_to,omitempty"`    // category=email
	EmailSubject *string         `json:"email_subject,omitempty"`
	EmailBody    *string         `json:"email_body,omitempty"`
	URL          *string         `json:"url,omitempty"`      // category=link
	VideoID      *uuid.UUID      `json:"video_id,omitempty"` // category=video
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Validate checks that the category is known and its payload is present.
func (s *Solution) Validate() error {
	switch s.CategoryID {
	case SolutionCategoryForm:
		if len(s.FormSchema) == 0 {
			return fmt.Errorf("form solution %s missing form_schema", s.ID)
		}
	case SolutionCategoryEmail:
		if s.EmailTo == nil || *s.EmailTo == "" {
			return fmt.Errorf("email solution %s missing email_to", s.ID)
		}
	case SolutionCategoryLink:
		if s.URL == nil || *s.URL == "" {
			return fmt.Errorf("link solution %s missing url", s.ID)
		}
	case SolutionCategoryVideo:
		if s.VideoID == nil {
			return fmt.Errorf("video solution %s missing video_id", s.ID)
		}
	default:
		return fmt.Errorf("solution %s has unknown category %d", s.ID, s.CategoryID)
	}
	return nil
}
