package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/directory"
)

type PatientHandler struct {
	svc *directory.Service
}

func NewPatientHandler(svc *directory.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

// ---------------------------------------------------------------------------
// Helpers shared by the directory-backed handlers
// ---------------------------------------------------------------------------

func idParam(c fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err == nil && id > 0
}

func mapDirectoryError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, directory.ErrValidation),
		errors.Is(err, directory.ErrPasswordTooShort),
		errors.Is(err, directory.ErrPasswordMismatch),
		errors.Is(err, directory.ErrUnknownRole):
		return badRequest(c, err.Error())
	case errors.Is(err, directory.ErrRecordNotFound),
		errors.Is(err, directory.ErrDentistNotFound),
		errors.Is(err, directory.ErrDirectoryEntryNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, directory.ErrDirectoryWrite),
		errors.Is(err, directory.ErrCredentialProvision):
		return conflict(c, err.Error())
	default:
		return internalError(c)
	}
}

// ---------------------------------------------------------------------------
// Patient CRUD
// ---------------------------------------------------------------------------

// GET /patients
func (h *PatientHandler) List(c fiber.Ctx) error {
	patients, err := h.svc.ListPatients(c.Context())
	if err != nil {
		return mapDirectoryError(c, err)
	}
	return ok(c, fiber.Map{"patients": patients})
}

// POST /patients
func (h *PatientHandler) Create(c fiber.Ctx) error {
	var req directory.CreatePatientRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	patient, err := h.svc.CreatePatient(c.Context(), req)
	if err != nil {
		return mapDirectoryError(c, err)
	}
	return created(c, patient)
}

// PATCH /patients/:id
func (h *PatientHandler) Update(c fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return badRequest(c, "invalid patient id")
	}

	var req directory.UpdatePatientRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	patient, err := h.svc.UpdatePatient(c.Context(), id, req)
	if err != nil {
		return mapDirectoryError(c, err)
	}
	return ok(c, patient)
}

// DELETE /patients/:id
func (h *PatientHandler) Delete(c fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return badRequest(c, "invalid patient id")
	}

	if err := h.svc.DeleteIdentity(c.Context(), model.RolePatient, id); err != nil {
		return mapDirectoryError(c, err)
	}
	return noContent(c)
}
