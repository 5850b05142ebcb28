package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Link types for an overlay. When LinkType is absent the type is inferred
// from which target field is populated (URL wins).
const (
	LinkTypeURL   = "url"
	LinkTypeVideo = "video"
	LinkTypeForm  = "form"
)

// DefaultLinkDurationMS is the activation window length used when a link row
// carries no duration.
const DefaultLinkDurationMS = 3000

// VideoLink represents the structure of a clickable overlay in the database.
// PositionX/PositionY are percentage offsets (0-100) relative to the rendered
// video frame, not the native resolution.
type VideoLink struct {
	ID                 uuid.UUID  `json:"id,omitempty"`
	VideoID            uuid.UUID  `json:"video_id"`
	TimestampSeconds   float64    `json:"timestamp_seconds"`
	DurationMS         *int       `json:"duration_ms,omitempty"` // Nullable INTEGER
	Label              string     `json:"label"`
	LinkType           *string    `json:"link_type,omitempty"` // Nullable TEXT
	URL                *string    `json:"url,omitempty"`
	DestinationVideoID *uuid.UUID `json:"destination_video_id,omitempty"` // Nullable foreign key
	PositionX          float64    `json:"position_x"`
	PositionY          float64    `json:"position_y"`
	ImageURL           *string    `json:"image_url,omitempty"`
	ImageWidth         *float64   `json:"image_width,omitempty"`
	ImageHeight        *float64   `json:"image_height,omitempty"`
	HoverImageURL      *string    `json:"hover_image_url,omitempty"`
	HoverImageWidth    *float64   `json:"hover_image_width,omitempty"`
	HoverImageHeight   *float64   `json:"hover_image_height,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// EffectiveDurationMS returns the activation window length in milliseconds,
// falling back to the 3-second default when the row has none.
func (l *VideoLink) EffectiveDurationMS() int {
	if l.DurationMS != nil && *l.DurationMS > 0 {
		return *l.DurationMS
	}
	return DefaultLinkDurationMS
}

// EffectiveType returns the declared link type, or infers one from which
// target field is populated when the row predates the link_type column.
func (l *VideoLink) EffectiveType() string {
	if l.LinkType != nil && *l.LinkType != "" {
		return *l.LinkType
	}
	if l.URL != nil && *l.URL != "" {
		return LinkTypeURL
	}
	if l.DestinationVideoID != nil {
		return LinkTypeVideo
	}
	return LinkTypeForm
}

// Validate checks the row shape at the deserialization boundary.
func (l *VideoLink) Validate() error {
	if l.ID == uuid.Nil {
		return fmt.Errorf("video link row missing id")
	}
	if l.VideoID == uuid.Nil {
		return fmt.Errorf("video link %s missing video_id", l.ID)
	}
	if l.TimestampSeconds < 0 {
		return fmt.Errorf("video link %s has negative timestamp", l.ID)
	}
	if l.PositionX < 0 || l.PositionX > 100 || l.PositionY < 0 || l.PositionY > 100 {
		return fmt.Errorf("video link %s position out of percentage range", l.ID)
	}
	return nil
}
