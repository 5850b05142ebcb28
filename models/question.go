package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Question represents the structure of a question in the database.
// One video owns zero or more questions; current flows only exercise
// zero-or-one.
type Question struct {
	ID           uuid.UUID `json:"id,omitempty"`
	VideoID      uuid.UUID `json:"video_id"`
	QuestionText string    `json:"question_text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks the row shape at the deserialization boundary.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return fmt.Errorf("question row missing id")
	}
	if q.VideoID == uuid.Nil {
		return fmt.Errorf("question %s missing video_id", q.ID)
	}
	return nil
}
