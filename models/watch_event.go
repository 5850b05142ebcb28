package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchEvent represents one recorded stretch of playback in the database:
// a viewer watched SecondsWatched seconds of a video, possibly to completion.
type WatchEvent struct {
	ID             uuid.UUID `json:"id,omitempty"`
	SessionID      uuid.UUID `json:"session_id"`
	VideoID        uuid.UUID `json:"video_id"`
	ViewerID       string    `json:"viewer_id"`
	SecondsWatched float64   `json:"seconds_watched"`
	Completed      bool      `json:"completed"`
	CreatedAt      time.Time `json:"created_at"`
}

// VideoStats represents the aggregated watch-time row for one video.
// Maintained by the analytics aggregation jobs, never written from the
// request path.
type VideoStats struct {
	VideoID         uuid.UUID `json:"video_id"`
	SessionID       uuid.UUID `json:"session_id"`
	SecondsWatched  float64   `json:"seconds_watched"`
	ViewCount       int       `json:"view_count"`
	CompletionCount int       `json:"completion_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}
