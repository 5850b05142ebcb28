package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/gotrue-go/types"
	supa "github.com/supabase-community/supabase-go"
)

// SessionContextKey is the locals key the authenticated session is stored
// under.
const SessionContextKey = "session_context"

// SessionContext is the explicit per-request identity of the signed-in
// creator. It is populated by RequireAuth and passed through locals; nothing
// reads ambient global user state.
type SessionContext struct {
	UserID      uuid.UUID
	Email       string
	AccessToken string
}

// SessionFromLocals returns the authenticated session of the request, or nil
// on unauthenticated routes.
func SessionFromLocals(c *fiber.Ctx) *SessionContext {
	sc, _ := c.Locals(SessionContextKey).(*SessionContext)
	return sc
}

func newSessionContext(user *types.UserResponse, token string) *SessionContext {
	return &SessionContext{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: token,
	}
}

// RequireAuth validates the Bearer token against Supabase auth and attaches
// the resulting SessionContext. Token verification is delegated entirely to
// the auth service; a rejected token is a 401, never a crash.
func RequireAuth(db *supa.Client, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authz, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Missing bearer token",
			})
		}
		token := strings.TrimPrefix(authz, "Bearer ")

		user, err := db.Auth.WithToken(token).GetUser()
		if err != nil {
			log.WithField("error", err.Error()).Warn("token rejected by auth service")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid or expired token",
			})
		}

		c.Locals(SessionContextKey, newSessionContext(user, token))
		return c.Next()
	}
}
