package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Onvitec/adminportal-onvitech-sub001/internal/combination"
	"github.com/Onvitec/adminportal-onvitech-sub001/models"
	"github.com/Onvitec/adminportal-onvitech-sub001/utils"
)

// CreateCombinationRequest defines the expected request body for declaring an
// answer combination: the full answer set of one path plus the terminal
// solution it resolves to.
type CreateCombinationRequest struct {
	SolutionID string   `json:"solution_id" validate:"required,uuid"`
	AnswerIDs  []string `json:"answer_ids" validate:"required,min=1,dive,uuid"`
}

// CreateCombination declares a combination for a selection-based session.
// A combination whose answer set (order-independent) matches one already
// declared in the session is rejected with 409: duplicates would make
// playback resolution ambiguous, and the authoring surface is where that
// gets caught.
func (h *ApplicationHandler) CreateCombination(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	payload := new(CreateCombinationRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse combination JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	answerIDs := make([]uuid.UUID, 0, len(payload.AnswerIDs))
	for _, s := range payload.AnswerIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid answer ID: %s", s))
		}
		answerIDs = append(answerIDs, id)
	}

	existing, err := h.Store.CombinationsForSession(sessionID)
	if err != nil {
		h.Logger.Errorf("Error fetching combinations for session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not check existing combinations: %v", err))
	}
	newKey := combination.Key(answerIDs)
	for i := range existing {
		if combination.Key(existing[i].AnswerIDs()) == newKey {
			return utils.RespondWithError(c, fiber.StatusConflict,
				"A combination with this exact answer set already exists in the session")
		}
	}

	now := time.Now()
	body, _, err := h.DB.From("answer_combinations").
		Insert(map[string]interface{}{
			"session_id":  sessionID,
			"solution_id": payload.SolutionID,
			"created_at":  now,
			"updated_at":  now,
		}, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating combination in session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create combination: %v", err))
	}

	var combos []models.AnswerCombination
	if err := json.Unmarshal(body, &combos); err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process combination creation response")
	}
	if len(combos) == 0 {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Failed to create combination, no row returned")
	}
	combo := combos[0]

	members := make([]map[string]interface{}, 0, len(answerIDs))
	for _, aid := range answerIDs {
		members = append(members, map[string]interface{}{
			"combination_id": combo.ID,
			"answer_id":      aid,
			"created_at":     now,
		})
	}
	_, _, err = h.DB.From("combination_answers").
		Insert(members, false, "", "representation", "").
		Execute()
	if err != nil {
		// Roll the parent row back so a half-written combination never
		// participates in resolution.
		h.Logger.Errorf("Error inserting combination answers for %s, rolling back: %v", combo.ID, err)
		_, _, _ = h.DB.From("answer_combinations").
			Delete("", "").
			Eq("id", combo.ID.String()).
			Execute()
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not store combination answers: %v", err))
	}

	for _, aid := range answerIDs {
		combo.CombinationAnswers = append(combo.CombinationAnswers, models.CombinationAnswer{
			CombinationID: combo.ID,
			AnswerID:      aid,
			CreatedAt:     now,
		})
	}

	h.Logger.Infof("Combination created: %s in session %s", combo.ID, sessionID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, combo)
}

// ListCombinations retrieves a session's declared combinations with their
// member answers embedded. The response also flags any duplicate answer sets
// that slipped into the data, since those make resolution first-match.
func (h *ApplicationHandler) ListCombinations(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	combos, err := h.Store.CombinationsForSession(sessionID)
	if err != nil {
		h.Logger.Errorf("Error fetching combinations for session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve combinations: %v", err))
	}
	if combos == nil {
		combos = []models.AnswerCombination{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"combinations":          combos,
		"duplicate_answer_sets": combination.Duplicates(combos),
	})
}

// DeleteCombination deletes a combination and its member rows.
func (h *ApplicationHandler) DeleteCombination(c *fiber.Ctx) error {
	comboID, err := uuid.Parse(c.Params("combinationId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid combination ID format")
	}

	_, _, err = h.DB.From("combination_answers").
		Delete("", "").
		Eq("combination_id", comboID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting combination answers for %s: %v", comboID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete combination answers: %v", err))
	}

	_, _, err = h.DB.From("answer_combinations").
		Delete("", "").
		Eq("id", comboID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting combination %s: %v", comboID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete combination: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": comboID})
}
