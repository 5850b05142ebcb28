package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnswerCombination represents one complete, pre-declared path through a
// selection-based flow: a set of answers (one per question along the path)
// mapped to a terminal solution.
type AnswerCombination struct {
	ID                 uuid.UUID           `json:"id,omitempty"`
	SessionID          uuid.UUID           `json:"session_id"`
	SolutionID         uuid.UUID           `json:"solution_id"`
	CombinationAnswers []CombinationAnswer `json:"combination_answers,omitempty"` // Embedded join
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// CombinationAnswer represents one member answer of a combination.
type CombinationAnswer struct {
	ID            uuid.UUID `json:"id,omitempty"`
	CombinationID uuid.UUID `json:"combination_id"`
	AnswerID      uuid.UUID `json:"answer_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// AnswerIDs returns the member answer IDs of the combination.
func (c *AnswerCombination) AnswerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.CombinationAnswers))
	for _, ca := range c.CombinationAnswers {
		ids = append(ids, ca.AnswerID)
	}
	return ids
}

// Validate checks the row shape at the deserialization boundary.
func (c *AnswerCombination) Validate() error {
	if c.ID == uuid.Nil {
		return fmt.Errorf("answer combination row missing id")
	}
	if c.SessionID == uuid.Nil {
		return fmt.Errorf("answer combination %s missing session_id", c.ID)
	}
	if c.SolutionID == uuid.Nil {
		return fmt.Errorf("answer combination %s missing solution_id", c.ID)
	}
	return nil
}
