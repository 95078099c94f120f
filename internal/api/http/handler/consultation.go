package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/service/consultation"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/report"
)

type ConsultationHandler struct {
	svc *consultation.Service
}

func NewConsultationHandler(svc *consultation.Service) *ConsultationHandler {
	return &ConsultationHandler{svc: svc}
}

func mapConsultationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, consultation.ErrInvalidStatus):
		return badRequest(c, err.Error())
	case errors.Is(err, consultation.ErrNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /consultations
// Supports ?status=, ?search= (patient name) and ?page=. Filtering happens
// over the full list; the page window is applied after.
func (h *ConsultationHandler) List(c fiber.Ctx) error {
	var q struct {
		Status string `query:"status"`
		Search string `query:"search"`
		Page   int    `query:"page"`
	}
	_ = c.Bind().Query(&q)

	consultations, err := h.svc.List(c.Context())
	if err != nil {
		return mapConsultationError(c, err)
	}

	filtered := report.FilterConsultations(consultations, q.Status, q.Search)
	page := q.Page
	if page < 1 {
		page = 1
	}

	return ok(c, fiber.Map{
		"consultations": report.Paginate(filtered, page),
		"total":         len(filtered),
		"page":          page,
		"per_page":      report.PageSize,
		"total_pages":   report.TotalPages(len(filtered)),
		"status_counts": report.DeriveStatusCounts(filtered),
	})
}

// PATCH /consultations/:id/status
func (h *ConsultationHandler) UpdateStatus(c fiber.Ctx) error {
	id, valid := idParam(c)
	if !valid {
		return badRequest(c, "invalid consultation id")
	}

	var body struct {
		Status          string  `json:"status"`
		RejectionReason *string `json:"rejection_reason"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Status == "" {
		return badRequest(c, "status is required")
	}

	updated, err := h.svc.UpdateStatus(c.Context(), id, body.Status, body.RejectionReason)
	if err != nil {
		return mapConsultationError(c, err)
	}
	return ok(c, updated)
}
