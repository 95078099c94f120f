package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/service/availability"
)

const dateLayout = "2006-01-02"

type AvailabilityHandler struct {
	svc *availability.Service
}

func NewAvailabilityHandler(svc *availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

// GET /availability
// ?dentist_id= narrows the list to one dentist.
func (h *AvailabilityHandler) List(c fiber.Ctx) error {
	var q struct {
		DentistID uint `query:"dentist_id"`
	}
	_ = c.Bind().Query(&q)

	if q.DentistID > 0 {
		flags, err := h.svc.ListForDentist(c.Context(), q.DentistID)
		if err != nil {
			return internalError(c)
		}
		return ok(c, fiber.Map{"availability": flags})
	}

	flags, err := h.svc.List(c.Context())
	if err != nil {
		return internalError(c)
	}
	return ok(c, fiber.Map{"availability": flags})
}

// PUT /availability
// Upsert on (dentist_id, date); repeating a pair overwrites the flag.
func (h *AvailabilityHandler) Set(c fiber.Ctx) error {
	var body struct {
		DentistID   uint   `json:"dentist_id"`
		Date        string `json:"date"`
		IsAvailable bool   `json:"is_available"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.DentistID == 0 {
		return badRequest(c, "dentist_id is required")
	}

	date, err := time.Parse(dateLayout, body.Date)
	if err != nil {
		return badRequest(c, "date must be formatted as "+dateLayout)
	}

	flag, err := h.svc.Set(c.Context(), body.DentistID, date, body.IsAvailable)
	if err != nil {
		if errors.Is(err, availability.ErrDentistNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return ok(c, flag)
}
