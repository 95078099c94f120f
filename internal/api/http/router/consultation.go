package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/api/http/handler"
)

func (r *Router) registerConsultationRoutes(api fiber.Router, h *handler.ConsultationHandler, authRequired fiber.Handler) {
	consultations := api.Group("/consultations", authRequired)

	consultations.Get("/", h.List)
	consultations.Patch("/:id/status", h.UpdateStatus)
}
