package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/service/consultation"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/report"
)

type ReportHandler struct {
	reports       *report.Service
	consultations *consultation.Service
}

func NewReportHandler(reports *report.Service, consultations *consultation.Service) *ReportHandler {
	return &ReportHandler{reports: reports, consultations: consultations}
}

// GET /reports/dashboard
func (h *ReportHandler) Dashboard(c fiber.Ctx) error {
	metrics, err := h.reports.Dashboard(c.Context())
	if err != nil {
		return internalError(c)
	}
	return ok(c, metrics)
}

// GET /reports/consultations
// One fetch, three derivations over the same list.
func (h *ReportHandler) ConsultationReport(c fiber.Ctx) error {
	consultations, err := h.consultations.List(c.Context())
	if err != nil {
		return internalError(c)
	}

	return ok(c, fiber.Map{
		"status_counts": report.DeriveStatusCounts(consultations),
		"monthly_trend": report.DeriveMonthlyTrend(consultations),
		"per_dentist":   report.DerivePerDentistStats(consultations),
	})
}
