package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Onvitec/adminportal-onvitech-sub001/internal/analytics"
	"github.com/Onvitec/adminportal-onvitech-sub001/models"
	"github.com/Onvitec/adminportal-onvitech-sub001/utils"
)

// RecordWatchEventRequest defines the expected request body for one playback
// stretch reported by the player.
type RecordWatchEventRequest struct {
	SessionID      string  `json:"session_id" validate:"required,uuid"`
	VideoID        string  `json:"video_id" validate:"required,uuid"`
	ViewerID       string  `json:"viewer_id" validate:"required"`
	SecondsWatched float64 `json:"seconds_watched" validate:"gte=0"`
	Completed      bool    `json:"completed"`
}

// RecordWatchEvent stores a watch event and queues a background job that
// re-aggregates the video's stats row. The request path only does the insert;
// aggregation failures are retried implicitly by the next event.
func (h *ApplicationHandler) RecordWatchEvent(c *fiber.Ctx) error {
	payload := new(RecordWatchEventRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse watch event JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	sessionID, _ := uuid.Parse(payload.SessionID)
	videoID, _ := uuid.Parse(payload.VideoID)

	ev := models.WatchEvent{
		SessionID:      sessionID,
		VideoID:        videoID,
		ViewerID:       payload.ViewerID,
		SecondsWatched: payload.SecondsWatched,
		Completed:      payload.Completed,
	}
	if err := h.Store.InsertWatchEvent(ev); err != nil {
		h.Logger.Errorf("Error recording watch event for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not record watch event: %v", err))
	}

	h.Dispatcher.Submit(&analytics.AggregateJob{
		Store:     h.Store,
		VideoID:   videoID,
		SessionID: sessionID,
	})

	return utils.RespondWithJSON(c, fiber.StatusAccepted, fiber.Map{
		"video_id": videoID,
	})
}

// GetVideoAnalytics retrieves the aggregated stats row of one video. A video
// with no events yet reports zeroed stats rather than 404.
func (h *ApplicationHandler) GetVideoAnalytics(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	stats, err := h.Store.StatsForVideo(videoID)
	if err != nil {
		h.Logger.Errorf("Error fetching stats for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve analytics: %v", err))
	}
	if stats == nil {
		stats = &models.VideoStats{VideoID: videoID}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, stats)
}

// GetSessionAnalytics rolls the per-video stats of a session up into one
// summary.
func (h *ApplicationHandler) GetSessionAnalytics(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	videoStats, err := h.Store.StatsForSession(sessionID)
	if err != nil {
		h.Logger.Errorf("Error fetching stats for session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve analytics: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, analytics.Summarize(sessionID, videoStats))
}
