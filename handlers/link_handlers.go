package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Onvitec/adminportal-onvitech-sub001/internal/overlay"
	"github.com/Onvitec/adminportal-onvitech-sub001/models"
	"github.com/Onvitec/adminportal-onvitech-sub001/utils"
)

// CreateLinkRequest defines the expected request body for attaching an
// overlay link to a video.
type CreateLinkRequest struct {
	TimestampSeconds   float64  `json:"timestamp_seconds" validate:"gte=0"`
	DurationMS         *int     `json:"duration_ms,omitempty" validate:"omitempty,gt=0"`
	Label              string   `json:"label" validate:"required"`
	LinkType           *string  `json:"link_type,omitempty" validate:"omitempty,oneof=url video form"`
	URL                *string  `json:"url,omitempty" validate:"omitempty,url"`
	DestinationVideoID *string  `json:"destination_video_id,omitempty" validate:"omitempty,uuid"`
	PositionX          float64  `json:"position_x" validate:"gte=0,lte=100"`
	PositionY          float64  `json:"position_y" validate:"gte=0,lte=100"`
	ImageURL           *string  `json:"image_url,omitempty"`
	ImageWidth         *float64 `json:"image_width,omitempty"`
	ImageHeight        *float64 `json:"image_height,omitempty"`
	HoverImageURL      *string  `json:"hover_image_url,omitempty"`
	HoverImageWidth    *float64 `json:"hover_image_width,omitempty"`
	HoverImageHeight   *float64 `json:"hover_image_height,omitempty"`
}

// CreateLink attaches an overlay link to a video.
func (h *ApplicationHandler) CreateLink(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	payload := new(CreateLinkRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse link JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	now := time.Now()
	insert := map[string]interface{}{
		"video_id":          videoID,
		"timestamp_seconds": payload.TimestampSeconds,
		"label":             payload.Label,
		"position_x":        payload.PositionX,
		"position_y":        payload.PositionY,
		"created_at":        now,
		"updated_at":        now,
	}
	if payload.DurationMS != nil {
		insert["duration_ms"] = *payload.DurationMS
	}
	if payload.LinkType != nil {
		insert["link_type"] = *payload.LinkType
	}
	if payload.URL != nil {
		insert["url"] = *payload.URL
	}
	if payload.DestinationVideoID != nil {
		insert["destination_video_id"] = *payload.DestinationVideoID
	}
	if payload.ImageURL != nil {
		insert["image_url"] = *payload.ImageURL
	}
	if payload.ImageWidth != nil {
		insert["image_width"] = *payload.ImageWidth
	}
	if payload.ImageHeight != nil {
		insert["image_height"] = *payload.ImageHeight
	}
	if payload.HoverImageURL != nil {
		insert["hover_image_url"] = *payload.HoverImageURL
	}
	if payload.HoverImageWidth != nil {
		insert["hover_image_width"] = *payload.HoverImageWidth
	}
	if payload.HoverImageHeight != nil {
		insert["hover_image_height"] = *payload.HoverImageHeight
	}

	body, _, err := h.DB.From("video_links").
		Insert(insert, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating link on video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create link: %v", err))
	}

	var results []models.VideoLink
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process link creation response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to create link, no row returned")
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, results[0])
}

// ListLinks retrieves a video's overlay links ordered by activation time.
func (h *ApplicationHandler) ListLinks(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	links, err := h.Store.LinksForVideo(videoID)
	if err != nil {
		h.Logger.Errorf("Error fetching links for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve links: %v", err))
	}
	if links == nil {
		links = []models.VideoLink{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, links)
}

// activeLink is one active overlay plus its pixel placement when the caller
// supplied frame dimensions.
type activeLink struct {
	models.VideoLink
	EffectiveType string             `json:"effective_type"`
	Placement     *overlay.Placement `json:"placement,omitempty"`
}

// GetActiveLinks returns the overlay links active at playback position t
// (query parameter, seconds). The active set is recomputed from scratch per
// call, so the player can poll it on every progress tick and on seeks in
// either direction. When rendered_width/rendered_height are supplied,
// each link also carries its pixel placement, scaled against the video's
// native resolution.
func (h *ApplicationHandler) GetActiveLinks(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	t, err := strconv.ParseFloat(c.Query("t", ""), 64)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Query parameter 't' (playback seconds) is required")
	}

	links, err := h.Store.LinksForVideo(videoID)
	if err != nil {
		h.Logger.Errorf("Error fetching links for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve links: %v", err))
	}

	active := overlay.ActiveAt(t, links)

	var frame *overlay.Frame
	renderedW, errW := strconv.ParseFloat(c.Query("rendered_width", ""), 64)
	renderedH, errH := strconv.ParseFloat(c.Query("rendered_height", ""), 64)
	if errW == nil && errH == nil {
		f := overlay.Frame{RenderedWidth: renderedW, RenderedHeight: renderedH}
		if video, err := h.Store.VideoByID(videoID); err == nil && video != nil {
			if video.NativeWidth != nil {
				f.NativeWidth = float64(*video.NativeWidth)
			}
			if video.NativeHeight != nil {
				f.NativeHeight = float64(*video.NativeHeight)
			}
		}
		frame = &f
	}

	hovered := c.Query("hovered_link_id", "")
	out := make([]activeLink, 0, len(active))
	for _, l := range active {
		al := activeLink{VideoLink: l, EffectiveType: l.EffectiveType()}
		if frame != nil {
			p := overlay.Project(l, *frame, hovered == l.ID.String())
			al.Placement = &p
		}
		out = append(out, al)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"t":     t,
		"links": out,
	})
}

// UpdateLink partially updates an overlay link.
func (h *ApplicationHandler) UpdateLink(c *fiber.Ctx) error {
	linkID, err := uuid.Parse(c.Params("linkId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid link ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	update := make(map[string]interface{})
	for _, field := range []string{
		"timestamp_seconds", "duration_ms", "label", "link_type", "url",
		"destination_video_id", "position_x", "position_y",
		"image_url", "image_width", "image_height",
		"hover_image_url", "hover_image_width", "hover_image_height",
	} {
		if val, exists := payload[field]; exists {
			update[field] = val
		}
	}
	update["updated_at"] = time.Now()

	body, _, err := h.DB.From("video_links").
		Update(update, "representation", "").
		Eq("id", linkID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating link %s: %v", linkID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not update link: %v", err))
	}

	var results []models.VideoLink
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process link update response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Link with ID %s not found", linkID))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, results[0])
}

// DeleteLink deletes an overlay link by ID.
func (h *ApplicationHandler) DeleteLink(c *fiber.Ctx) error {
	linkID, err := uuid.Parse(c.Params("linkId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid link ID format")
	}

	_, _, err = h.DB.From("video_links").
		Delete("", "").
		Eq("id", linkID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting link %s: %v", linkID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete link: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": linkID})
}
