package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Video represents the structure of a video node in the database.
// Videos are created at authoring time and treated as immutable at viewing
// time. DestinationVideoID advances playback on natural end and is in
// practice mutually exclusive with branching by answer.
type Video struct {
	ID                 uuid.UUID  `json:"id,omitempty"`
	SessionID          uuid.UUID  `json:"session_id"`
	Title              string     `json:"title"`
	URL                string     `json:"url"`
	OrderIndex         int        `json:"order_index"`
	IsMain             bool       `json:"is_main"`
	DestinationVideoID *uuid.UUID `json:"destination_video_id,omitempty"` // Nullable foreign key
	FreezeAtEnd        bool       `json:"freeze_at_end"`
	NativeWidth        *int       `json:"native_width,omitempty"`  // Nullable INTEGER
	NativeHeight       *int       `json:"native_height,omitempty"` // Nullable INTEGER
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Validate checks the row shape at the deserialization boundary so malformed
// rows fail fast instead of propagating zero values into the graph builder.
func (v *Video) Validate() error {
	if v.ID == uuid.Nil {
		return fmt.Errorf("video row missing id")
	}
	if v.SessionID == uuid.Nil {
		return fmt.Errorf("video %s missing session_id", v.ID)
	}
	if v.Title == "" {
		return fmt.Errorf("video %s missing title", v.ID)
	}
	return nil
}
