package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/api/http/handler"
)

func (r *Router) registerDentistRoutes(api fiber.Router, h *handler.DentistHandler, authRequired fiber.Handler) {
	dentists := api.Group("/dentists", authRequired)

	dentists.Get("/", h.List)
	dentists.Post("/", h.Create)
	dentists.Patch("/:id", h.Update)
	dentists.Delete("/:id", h.Delete)

	secretaries := api.Group("/secretaries", authRequired)

	secretaries.Post("/", h.CreateSecretary)
	secretaries.Patch("/:id", h.UpdateSecretary)
	secretaries.Delete("/:id", h.DeleteSecretary)
}
