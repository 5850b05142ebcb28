package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Onvitec/adminportal-onvitech-sub001/internal/combination"
	"github.com/Onvitec/adminportal-onvitech-sub001/internal/flowgraph"
	"github.com/Onvitec/adminportal-onvitech-sub001/utils"
)

// GetSessionFlow builds and returns the session's flow graph: video,
// question, and answer nodes with layout positions, plus the directed edges
// between them. The rows are fetched from the Entity Store and joined in
// memory; the builder tolerates cycles and dangling destinations.
func (h *ApplicationHandler) GetSessionFlow(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	videos, err := h.Store.VideosForSession(sessionID)
	if err != nil {
		h.Logger.Errorf("Error fetching videos for flow of session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not load flow: %v", err))
	}

	videoIDs := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID)
	}

	questions, err := h.Store.QuestionsForVideos(videoIDs)
	if err != nil {
		h.Logger.Errorf("Error fetching questions for flow of session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not load flow: %v", err))
	}

	questionIDs := make([]uuid.UUID, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}

	answers, err := h.Store.AnswersForQuestions(questionIDs)
	if err != nil {
		h.Logger.Errorf("Error fetching answers for flow of session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not load flow: %v", err))
	}

	graph := flowgraph.Build(videos, questions, answers)
	return utils.RespondWithJSON(c, fiber.StatusOK, graph)
}

// ResolveSessionRequest carries the viewer's full selected answer set, one
// answer per question answered along the path.
type ResolveSessionRequest struct {
	AnswerIDs []string `json:"answer_ids" validate:"required,min=1,dive,uuid"`
}

// ResolveSession matches the selected answer set against the session's
// declared combinations and returns the matching terminal solution.
// Matching is exact set equality: a superset or subset of a declared
// combination is "no solution found". Both failure modes come back as 404
// with the user-facing message; nothing is mutated, the viewer goes back
// and changes answers.
func (h *ApplicationHandler) ResolveSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}

	payload := new(ResolveSessionRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse resolve JSON: %v", err))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	selected := make([]uuid.UUID, 0, len(payload.AnswerIDs))
	for _, s := range payload.AnswerIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid answer ID: %s", s))
		}
		selected = append(selected, id)
	}

	combos, err := h.Store.CombinationsForSession(sessionID)
	if err != nil {
		h.Logger.Errorf("Error fetching combinations for session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not load combinations: %v", err))
	}
	solutions, err := h.Store.SolutionsForSession(sessionID)
	if err != nil {
		h.Logger.Errorf("Error fetching solutions for session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not load solutions: %v", err))
	}

	solution, err := combination.Resolve(selected, combos, solutions)
	if err != nil {
		if errors.Is(err, combination.ErrNoCombinationMatch) || errors.Is(err, combination.ErrSolutionNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, err.Error())
		}
		h.Logger.Errorf("Error resolving session %s: %v", sessionID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not resolve: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, solution)
}
