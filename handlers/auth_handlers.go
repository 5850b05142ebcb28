package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Onvitec/adminportal-onvitech-sub001/utils"
)

// LoginRequest defines the expected request body for creator sign-in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login delegates credential verification to Supabase auth and returns the
// token pair the client presents on the authoring routes. Credential
// failures are a generic 401; the auth service's reason is logged, not
// leaked.
func (h *ApplicationHandler) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse login JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	resp, err := h.DB.Auth.SignInWithEmailPassword(payload.Email, payload.Password)
	if err != nil {
		h.Logger.WithField("error", err.Error()).Warn("sign-in rejected")
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"expires_in":    resp.ExpiresIn,
		"user": fiber.Map{
			"id":    resp.User.ID,
			"email": resp.User.Email,
		},
	})
}
