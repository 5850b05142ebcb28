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

// CreateQuestionRequest defines the expected request body for attaching a
// question to a video.
type CreateQuestionRequest struct {
	QuestionText string `json:"question_text" validate:"required"`
}

// CreateQuestion attaches a question to a video.
func (h *ApplicationHandler) CreateQuestion(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	payload := new(CreateQuestionRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse question JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	now := time.Now()
	body, _, err := h.DB.From("questions").
		Insert(map[string]interface{}{
			"video_id":      videoID,
			"question_text": payload.QuestionText,
			"created_at":    now,
			"updated_at":    now,
		}, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating question on video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create question: %v", err))
	}

	var results []models.Question
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process question creation response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to create question, no row returned")
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, results[0])
}

// ListQuestions retrieves the questions owned by a video.
func (h *ApplicationHandler) ListQuestions(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	questions, err := h.Store.QuestionsForVideos([]uuid.UUID{videoID})
	if err != nil {
		h.Logger.Errorf("Error fetching questions for video %s: %v", videoID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve questions: %v", err))
	}
	if questions == nil {
		questions = []models.Question{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, questions)
}

// UpdateQuestion updates a question's text.
func (h *ApplicationHandler) UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid question ID format")
	}

	payload := new(CreateQuestionRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	body, _, err := h.DB.From("questions").
		Update(map[string]interface{}{
			"question_text": payload.QuestionText,
			"updated_at":    time.Now(),
		}, "representation", "").
		Eq("id", questionID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating question %s: %v", questionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not update question: %v", err))
	}

	var results []models.Question
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process question update response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Question with ID %s not found", questionID))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, results[0])
}

// DeleteQuestion deletes a question by ID.
func (h *ApplicationHandler) DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid question ID format")
	}

	_, _, err = h.DB.From("questions").
		Delete("", "").
		Eq("id", questionID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting question %s: %v", questionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete question: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": questionID})
}
