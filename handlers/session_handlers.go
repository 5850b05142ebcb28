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

// CreateSessionRequest defines the expected request body for creating a
// session.
type CreateSessionRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	FlowType    string  `json:"flow_type" validate:"required,oneof=branching selection linear"`
}

// CreateSession creates a new authoring session.
func (h *ApplicationHandler) CreateSession(c *fiber.Ctx) error {
	payload := new(CreateSessionRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse session JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	now := time.Now()
	insert := map[string]interface{}{
		"name":       payload.Name,
		"flow_type":  payload.FlowType,
		"created_at": now,
		"updated_at": now,
	}
	if payload.Description != nil {
		insert["description"] = *payload.Description
	}

	body, _, err := h.DB.From("sessions").
		Insert(insert, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating session: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create session: %v", err))
	}

	var results []models.Session
	if err := json.Unmarshal(body, &results); err != nil {
		h.Logger.Errorf("Error unmarshalling created session: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process session creation response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to create session, no row returned")
	}

	h.Logger.Infof("Session created: %s", results[0].ID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, results[0])
}

// ListSessions retrieves all authoring sessions, newest first.
func (h *ApplicationHandler) ListSessions(c *fiber.Ctx) error {
	body, _, err := h.DB.From("sessions").
		Select("*", "", false).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching sessions: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve sessions: %v", err))
	}

	var sessions []models.Session
	if err := json.Unmarshal(body, &sessions); err != nil {
		h.Logger.Errorf("Error unmarshalling sessions: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process sessions data")
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, sessions)
}

// GetSession retrieves one session by ID.
func (h *ApplicationHandler) GetSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	session, err := h.Store.SessionByID(sessionID)
	if err != nil {
		h.Logger.Errorf("Error fetching session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve session: %v", err))
	}
	if session == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, session)
}

// UpdateSession partially updates a session.
func (h *ApplicationHandler) UpdateSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	update := make(map[string]interface{})
	for _, field := range []string{"name", "description", "flow_type", "is_published"} {
		if val, exists := payload[field]; exists {
			update[field] = val
		}
	}
	update["updated_at"] = time.Now()

	body, _, err := h.DB.From("sessions").
		Update(update, "representation", "").
		Eq("id", sessionID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not update session: %v", err))
	}

	var results []models.Session
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process session update response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, results[0])
}

// DeleteSession deletes a session by ID. Child rows cascade on the database
// side.
func (h *ApplicationHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	_, _, err = h.DB.From("sessions").
		Delete("", "").
		Eq("id", sessionID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete session: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": sessionID})
}
