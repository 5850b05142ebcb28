package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"

	"github.com/Onvitec/adminportal-onvitech-sub001/utils"
)

// UploadVideoMedia receives a media file for an existing video, stores it in
// the Supabase storage bucket, and writes the resulting public URL back onto
// the video row. The portal never keeps media locally.
func (h *ApplicationHandler) UploadVideoMedia(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	video, err := h.Store.VideoByID(videoID)
	if err != nil {
		h.Logger.Errorf("Error fetching video %s before upload: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve video: %v", err))
	}
	if video == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Video with ID %s not found", videoID))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Error getting file: %v", err))
	}

	fileHandle, err := file.Open()
	if err != nil {
		h.Logger.Errorf("Error opening uploaded file for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error opening file: %v", err))
	}
	defer fileHandle.Close()

	contentType := file.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "video/mp4"
	}
	storagePath := fmt.Sprintf("%s/%s/%s", video.SessionID, videoID, file.Filename)

	_, err = h.DB.Storage.UploadFile(h.MediaBucket, storagePath, fileHandle, storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		h.Logger.Errorf("Error uploading media for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not upload media: %v", err))
	}

	publicURL := h.DB.Storage.GetPublicUrl(h.MediaBucket, storagePath).SignedURL

	_, _, err = h.DB.From("videos").
		Update(map[string]interface{}{
			"url":        publicURL,
			"updated_at": time.Now(),
		}, "minimal", "").
		Eq("id", videoID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error saving media URL for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not save media URL: %v", err))
	}

	h.Logger.Infof("Media uploaded for video %s to %s", videoID, storagePath)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"video_id":     videoID,
		"storage_path": storagePath,
		"url":          publicURL,
	})
}
