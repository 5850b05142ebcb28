package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Onvitec/adminportal-onvitech-sub001/internal/store"
	"github.com/Onvitec/adminportal-onvitech-sub001/models"
)

// Aggregate reduces a video's watch events into one stats row. Every event
// counts as a view; SecondsWatched accumulates across events so a viewer who
// watched the same video twice contributes twice.
func Aggregate(videoID, sessionID uuid.UUID, events []models.WatchEvent) models.VideoStats {
	stats := models.VideoStats{
		VideoID:   videoID,
		SessionID: sessionID,
		UpdatedAt: time.Now(),
	}
	for _, ev := range events {
		stats.SecondsWatched += ev.SecondsWatched
		stats.ViewCount++
		if ev.Completed {
			stats.CompletionCount++
		}
	}
	return stats
}

// AggregateJob recomputes the stats row of one video from its full event
// history and upserts it. Runs on the worker pool, off the request path;
// failures are logged by the worker and the next watch event triggers a
// fresh run.
type AggregateJob struct {
	Store     *store.Store
	VideoID   uuid.UUID
	SessionID uuid.UUID
}

// ID identifies the job in worker logs.
func (j *AggregateJob) ID() string {
	return fmt.Sprintf("aggregate-video-%s", j.VideoID)
}

// Execute fetches the video's events, reduces them, and writes the stats row.
func (j *AggregateJob) Execute() error {
	events, err := j.Store.WatchEventsForVideo(j.VideoID)
	if err != nil {
		return err
	}
	return j.Store.UpsertVideoStats(Aggregate(j.VideoID, j.SessionID, events))
}

// SessionSummary is the watch-time rollup of a whole session.
type SessionSummary struct {
	SessionID       uuid.UUID           `json:"session_id"`
	SecondsWatched  float64             `json:"seconds_watched"`
	ViewCount       int                 `json:"view_count"`
	CompletionCount int                 `json:"completion_count"`
	Videos          []models.VideoStats `json:"videos"`
}

// Summarize rolls per-video stats up to session totals.
func Summarize(sessionID uuid.UUID, videoStats []models.VideoStats) SessionSummary {
	summary := SessionSummary{SessionID: sessionID, Videos: videoStats}
	if summary.Videos == nil {
		summary.Videos = []models.VideoStats{}
	}
	for _, vs := range videoStats {
		summary.SecondsWatched += vs.SecondsWatched
		summary.ViewCount += vs.ViewCount
		summary.CompletionCount += vs.CompletionCount
	}
	return summary
}
