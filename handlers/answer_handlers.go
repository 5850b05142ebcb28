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

// CreateAnswerRequest defines the expected request body for adding an answer
// to a question. DestinationVideoID makes the answer a branching answer.
type CreateAnswerRequest struct {
	AnswerText         string  `json:"answer_text" validate:"required"`
	DestinationVideoID *string `json:"destination_video_id,omitempty" validate:"omitempty,uuid"`
}

// CreateAnswer adds an answer to a question.
func (h *ApplicationHandler) CreateAnswer(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid question ID format")
	}

	payload := new(CreateAnswerRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse answer JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	now := time.Now()
	insert := map[string]interface{}{
		"question_id": questionID,
		"answer_text": payload.AnswerText,
		"created_at":  now,
		"updated_at":  now,
	}
	if payload.DestinationVideoID != nil {
		insert["destination_video_id"] = *payload.DestinationVideoID
	}

	body, _, err := h.DB.From("answers").
		Insert(insert, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating answer on question %s: %v", questionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create answer: %v", err))
	}

	var results []models.Answer
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process answer creation response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to create answer, no row returned")
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, results[0])
}

// ListAnswers retrieves the answers of a question.
func (h *ApplicationHandler) ListAnswers(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid question ID format")
	}

	answers, err := h.Store.AnswersForQuestions([]uuid.UUID{questionID})
	if err != nil {
		h.Logger.Errorf("Error fetching answers for question %s: %v", questionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve answers: %v", err))
	}
	if answers == nil {
		answers = []models.Answer{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, answers)
}

// UpdateAnswer partially updates an answer.
func (h *ApplicationHandler) UpdateAnswer(c *fiber.Ctx) error {
	answerID, err := uuid.Parse(c.Params("answerId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid answer ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	update := make(map[string]interface{})
	for _, field := range []string{"answer_text", "destination_video_id"} {
		if val, exists := payload[field]; exists {
			update[field] = val
		}
	}
	update["updated_at"] = time.Now()

	body, _, err := h.DB.From("answers").
		Update(update, "representation", "").
		Eq("id", answerID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating answer %s: %v", answerID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not update answer: %v", err))
	}

	var results []models.Answer
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process answer update response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Answer with ID %s not found", answerID))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, results[0])
}

// DeleteAnswer deletes an answer by ID.
func (h *ApplicationHandler) DeleteAnswer(c *fiber.Ctx) error {
	answerID, err := uuid.Parse(c.Params("answerId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid answer ID format")
	}

	_, _, err = h.DB.From("answers").
		Delete("", "").
		Eq("id", answerID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting answer %s: %v", answerID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete answer: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": answerID})
}
