package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Onvitec/adminportal-onvitech-sub001/models"
	"github.com/Onvitec/adminportal-onvitech-sub001/utils"
)

// CreateVideoRequest defines the expected request body for adding a video to
// a session. The URL is usually filled in later by the media upload endpoint.
type CreateVideoRequest struct {
	Title              string  `json:"title" validate:"required"`
	URL                string  `json:"url,omitempty"`
	OrderIndex         int     `json:"order_index"`
	IsMain             bool    `json:"is_main"`
	DestinationVideoID *string `json:"destination_video_id,omitempty"`
	FreezeAtEnd        bool    `json:"freeze_at_end"`
	NativeWidth        *int    `json:"native_width,omitempty"`
	NativeHeight       *int    `json:"native_height,omitempty"`
}

// CreateVideo adds a video node to a session.
func (h *ApplicationHandler) CreateVideo(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	payload := new(CreateVideoRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse video JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	now := time.Now()
	insert := map[string]interface{}{
		"session_id":    sessionID,
		"title":         payload.Title,
		"url":           payload.URL,
		"order_index":   payload.OrderIndex,
		"is_main":       payload.IsMain,
		"freeze_at_end": payload.FreezeAtEnd,
		"created_at":    now,
		"updated_at":    now,
	}
	if payload.DestinationVideoID != nil {
		destID, err := uuid.Parse(*payload.DestinationVideoID)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid 'destination_video_id' format")
		}
		insert["destination_video_id"] = destID
	}
	if payload.NativeWidth != nil {
		insert["native_width"] = *payload.NativeWidth
	}
	if payload.NativeHeight != nil {
		insert["native_height"] = *payload.NativeHeight
	}

	body, _, err := h.DB.From("videos").
		Insert(insert, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating video in session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create video: %v", err))
	}

	var results []models.Video
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process video creation response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to create video, no row returned")
	}

	h.Logger.Infof("Video created: %s in session %s", results[0].ID, sessionID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, results[0])
}

// ListVideos retrieves a session's videos in authoring order.
func (h *ApplicationHandler) ListVideos(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	videos, err := h.Store.VideosForSession(sessionID)
	if err != nil {
		h.Logger.Errorf("Error fetching videos for session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve videos: %v", err))
	}
	if videos == nil {
		videos = []models.Video{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, videos)
}

// GetVideo retrieves one video by ID.
func (h *ApplicationHandler) GetVideo(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	video, err := h.Store.VideoByID(videoID)
	if err != nil {
		h.Logger.Errorf("Error fetching video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve video: %v", err))
	}
	if video == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Video with ID %s not found", videoID))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, video)
}

// UpdateVideo partially updates a video.
func (h *ApplicationHandler) UpdateVideo(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	update := make(map[string]interface{})
	for _, field := range []string{"title", "url", "order_index", "is_main", "destination_video_id", "freeze_at_end", "native_width", "native_height"} {
		if val, exists := payload[field]; exists {
			update[field] = val
		}
	}
	update["updated_at"] = time.Now()

	body, _, err := h.DB.From("videos").
		Update(update, "representation", "").
		Eq("id", videoID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not update video: %v", err))
	}

	var results []models.Video
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process video update response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Video with ID %s not found", videoID))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, results[0])
}

// DeleteVideo deletes a video by ID. Answers pointing at it become dangling
// references, which the flow graph builder tolerates by omitting the edge.
func (h *ApplicationHandler) DeleteVideo(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	_, _, err = h.DB.From("videos").
		Delete("", "").
		Eq("id", videoID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete video: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": videoID})
}
