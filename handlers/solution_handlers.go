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

// CreateSolutionRequest defines the expected request body for declaring a
// terminal solution. CategoryID selects which payload fields apply:
// 1=form (form_schema), 2=email (email_*), 3=link (url), 4=video (video_id).
type CreateSolutionRequest struct {
	Name         string          `json:"name" validate:"required"`
	CategoryID   int             `json:"category_id" validate:"required,min=1,max=4"`
	FormSchema   json.RawMessage `json:"form_schema,omitempty"`
	EmailTo      *string         `json:"email_to,omitempty" validate:"omitempty,email"`
	EmailSubject *string         `json:"email_subject,omitempty"`
	EmailBody    *string         `json:"email_body,omitempty"`
	URL          *string         `json:"url,omitempty" validate:"omitempty,url"`
	VideoID      *string         `json:"video_id,omitempty" validate:"omitempty,uuid"`
}

// CreateSolution declares a terminal solution in a session. The category
// payload is checked here so a half-specified solution never reaches a
// viewer.
func (h *ApplicationHandler) CreateSolution(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	payload := new(CreateSolutionRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse solution JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	candidate := models.Solution{
		ID:           uuid.New(), // placeholder for validation messages only
		SessionID:    sessionID,
		CategoryID:   payload.CategoryID,
		Name:         payload.Name,
		FormSchema:   payload.FormSchema,
		EmailTo:      payload.EmailTo,
		EmailSubject: payload.EmailSubject,
		EmailBody:    payload.EmailBody,
		URL:          payload.URL,
	}
	if payload.VideoID != nil {
		vid, err := uuid.Parse(*payload.VideoID)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid 'video_id' format")
		}
		candidate.VideoID = &vid
	}
	if err := candidate.Validate(); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	}

	now := time.Now()
	insert := map[string]interface{}{
		"session_id":  sessionID,
		"category_id": payload.CategoryID,
		"name":        payload.Name,
		"created_at":  now,
		"updated_at":  now,
	}
	if len(payload.FormSchema) > 0 {
		insert["form_schema"] = payload.FormSchema
	}
	if payload.EmailTo != nil {
		insert["email_to"] = *payload.EmailTo
	}
	if payload.EmailSubject != nil {
		insert["email_subject"] = *payload.EmailSubject
	}
	if payload.EmailBody != nil {
		insert["email_body"] = *payload.EmailBody
	}
	if payload.URL != nil {
		insert["url"] = *payload.URL
	}
	if candidate.VideoID != nil {
		insert["video_id"] = *candidate.VideoID
	}

	body, _, err := h.DB.From("solutions").
		Insert(insert, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating solution in session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create solution: %v", err))
	}

	var results []models.Solution
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process solution creation response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to create solution, no row returned")
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, results[0])
}

// ListSolutions retrieves a session's terminal solutions.
func (h *ApplicationHandler) ListSolutions(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	solutions, err := h.Store.SolutionsForSession(sessionID)
	if err != nil {
		h.Logger.Errorf("Error fetching solutions for session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve solutions: %v", err))
	}
	if solutions == nil {
		solutions = []models.Solution{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, solutions)
}

// DeleteSolution deletes a solution by ID. Combinations still referencing it
// will resolve to the named "solution not found" failure until re-authored.
func (h *ApplicationHandler) DeleteSolution(c *fiber.Ctx) error {
	solutionID, err := uuid.Parse(c.Params("solutionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid solution ID format")
	}

	_, _, err = h.DB.From("solutions").
		Delete("", "").
		Eq("id", solutionID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting solution %s: %v", solutionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete solution: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": solutionID})
}
