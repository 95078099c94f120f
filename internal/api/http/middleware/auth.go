package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/service/identity"
)

const LocalSession = "auth.session"

// AuthRequired validates a Bearer PASETO access token against the live Redis
// session and requires the admin flag. On success the *identity.Session is
// stored in c.Locals(LocalSession).
func AuthRequired(svc *identity.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}

		session, err := svc.VerifyAccess(c.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		if !session.IsAdmin {
			return fiber.ErrForbidden
		}

		c.Locals(LocalSession, session)
		return c.Next()
	}
}

// SessionFromFiber retrieves the authenticated session from Fiber locals.
func SessionFromFiber(c fiber.Ctx) (*identity.Session, bool) {
	v := c.Locals(LocalSession)
	s, ok := v.(*identity.Session)
	return s, ok && s != nil
}
