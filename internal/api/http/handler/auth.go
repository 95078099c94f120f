package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/api/http/middleware"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/identity"
)

type AuthHandler struct {
	svc *identity.Service
}

func NewAuthHandler(svc *identity.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// POST /auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "email and password are required")
	}

	session, token, err := h.svc.SignIn(c.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			return unauthorized(c)
		case errors.Is(err, identity.ErrNotAdmin):
			return forbidden(c)
		default:
			return internalError(c)
		}
	}

	return ok(c, fiber.Map{
		"token":   token,
		"session": session,
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	session, valid := middleware.SessionFromFiber(c)
	if !valid {
		return unauthorized(c)
	}
	if err := h.svc.SignOut(c.Context(), session.ID); err != nil {
		return internalError(c)
	}
	return noContent(c)
}

// GET /auth/session
func (h *AuthHandler) Session(c fiber.Ctx) error {
	session, valid := middleware.SessionFromFiber(c)
	if !valid {
		return unauthorized(c)
	}
	return ok(c, session)
}

// POST /auth/password-reset
func (h *AuthHandler) PasswordReset(c fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Email == "" {
		return badRequest(c, "email is required")
	}

	if err := h.svc.SendPasswordReset(c.Context(), body.Email); err != nil {
		return internalError(c)
	}
	// Same response whether or not the address is registered.
	return ok(c, fiber.Map{"message": "if the address is registered, a reset email has been sent"})
}
