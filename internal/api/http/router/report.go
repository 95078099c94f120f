package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/api/http/handler"
)

func (r *Router) registerReportRoutes(api fiber.Router, h *handler.ReportHandler, authRequired fiber.Handler) {
	reports := api.Group("/reports", authRequired)

	reports.Get("/dashboard", h.Dashboard)
	reports.Get("/consultations", h.ConsultationReport)
}
