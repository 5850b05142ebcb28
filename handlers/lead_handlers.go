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

// CreateLeadRequest defines the expected request body for capturing a lead
// from a form solution.
type CreateLeadRequest struct {
	SolutionID *string         `json:"solution_id,omitempty" validate:"omitempty,uuid"`
	Name       *string         `json:"name,omitempty"`
	Email      *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string         `json:"phone,omitempty"`
	Fields     json.RawMessage `json:"fields,omitempty"`
}

// CreateLead captures a lead submitted through a form solution. This is the
// one viewer-facing write besides watch events, so it stays unauthenticated.
func (h *ApplicationHandler) CreateLead(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	payload := new(CreateLeadRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse lead JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}
	if payload.Name == nil && payload.Email == nil && payload.Phone == nil && len(payload.Fields) == 0 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Lead must carry at least one field")
	}

	insert := map[string]interface{}{
		"session_id": sessionID,
		"created_at": time.Now(),
	}
	if payload.SolutionID != nil {
		insert["solution_id"] = *payload.SolutionID
	}
	if payload.Name != nil {
		insert["name"] = *payload.Name
	}
	if payload.Email != nil {
		insert["email"] = *payload.Email
	}
	if payload.Phone != nil {
		insert["phone"] = *payload.Phone
	}
	if len(payload.Fields) > 0 {
		insert["fields"] = payload.Fields
	}

	body, _, err := h.DB.From("leads").
		Insert(insert, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error capturing lead in session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not capture lead: %v", err))
	}

	var results []models.Lead
	if err := json.Unmarshal(body, &results); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process lead creation response")
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to capture lead, no row returned")
	}

	h.Logger.Infof("Lead captured: %s in session %s", results[0].ID, sessionID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, results[0])
}

// ListLeads retrieves the leads captured in a session.
func (h *ApplicationHandler) ListLeads(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	body, _, err := h.DB.From("leads").
		Select("*", "", false).
		Eq("session_id", sessionID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching leads for session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve leads: %v", err))
	}

	var leads []models.Lead
	if err := json.Unmarshal(body, &leads); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process leads data")
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, leads)
}
