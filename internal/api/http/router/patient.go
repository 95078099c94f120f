package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/api/http/handler"
)

func (r *Router) registerPatientRoutes(api fiber.Router, h *handler.PatientHandler, authRequired fiber.Handler) {
	patients := api.Group("/patients", authRequired)

	patients.Get("/", h.List)
	patients.Post("/", h.Create)
	patients.Patch("/:id", h.Update)
	patients.Delete("/:id", h.Delete)
}
