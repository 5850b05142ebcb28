package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Answer represents the structure of an answer in the database.
// DestinationVideoID, when set, makes this a branching answer: selecting it
// advances playback to that video. DestinationVideo is populated when the
// fetch embeds the referenced row.
type Answer struct {
	ID                 uuid.UUID  `json:"id,omitempty"`
	QuestionID         uuid.UUID  `json:"question_id"`
	AnswerText         string     `json:"answer_text"`
	DestinationVideoID *uuid.UUID `json:"destination_video_id,omitempty"` // Nullable foreign key
	DestinationVideo   *Video     `json:"destination_video,omitempty"`    // Embedded join, may be nil
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Validate checks the row shape at the deserialization boundary.
func (a *Answer) Validate() error {
	if a.ID == uuid.Nil {
		return fmt.Errorf("answer row missing id")
	}
	if a.QuestionID == uuid.Nil {
		return fmt.Errorf("answer %s missing question_id", a.ID)
	}
	return nil
}
