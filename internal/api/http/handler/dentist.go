package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/directory"
)

type DentistHandler struct {
	svc *directory.Service
}

func NewDentistHandler(svc *directory.Service) *DentistHandler {
	return &DentistHandler{svc: svc}
}

// ---------------------------------------------------------------------------
// Dentist CRUD
// ---------------------------------------------------------------------------

// GET /dentists
func (h *DentistHandler) List(c fiber.Ctx) error {
	dentists, err := h.svc.ListDentists(c.Context())
	if err != nil {
		return mapDirectoryError(c, err)
	}
	return ok(c, fiber.Map{"dentists": dentists})
}

// POST /dentists
func (h *DentistHandler) Create(c fiber.Ctx) error {
	var req directory.CreateDentistRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	dentist, err := h.svc.CreateDentist(c.Context(), req)
	if err != nil {
		return mapDirectoryError(c, err)
	}
	return created(c, dentist)
}

// PATCH /dentists/:id
func (h *DentistHandler) Update(c fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return badRequest(c, "invalid dentist id")
	}

	var req directory.UpdateDentistRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	dentist, err := h.svc.UpdateDentist(c.Context(), id, req)
	if err != nil {
		return mapDirectoryError(c, err)
	}
	return ok(c, dentist)
}

// DELETE /dentists/:id
// Also removes the dentist's secretaries and their directory rows.
func (h *DentistHandler) Delete(c fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return badRequest(c, "invalid dentist id")
	}

	if err := h.svc.DeleteIdentity(c.Context(), model.RoleDentist, id); err != nil {
		return mapDirectoryError(c, err)
	}
	return noContent(c)
}

// ---------------------------------------------------------------------------
// Secretaries
// ---------------------------------------------------------------------------

// POST /secretaries
// The only path that creates login-capable credentials.
func (h *DentistHandler) CreateSecretary(c fiber.Ctx) error {
	var req directory.CreateSecretaryAccountRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	secretary, err := h.svc.CreateSecretaryAccount(c.Context(), req)
	if err != nil {
		return mapDirectoryError(c, err)
	}
	return created(c, secretary)
}

// PATCH /secretaries/:id
func (h *DentistHandler) UpdateSecretary(c fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return badRequest(c, "invalid secretary id")
	}

	var req directory.UpdateSecretaryRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	secretary, err := h.svc.UpdateSecretary(c.Context(), id, req)
	if err != nil {
		return mapDirectoryError(c, err)
	}
	return ok(c, secretary)
}

// DELETE /secretaries/:id
func (h *DentistHandler) DeleteSecretary(c fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return badRequest(c, "invalid secretary id")
	}

	if err := h.svc.DeleteIdentity(c.Context(), model.RoleSecretary, id); err != nil {
		return mapDirectoryError(c, err)
	}
	return noContent(c)
}
