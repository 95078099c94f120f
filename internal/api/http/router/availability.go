package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mvillanueva/dentaladmin_backend/internal/api/http/handler"
)

func (r *Router) registerAvailabilityRoutes(api fiber.Router, h *handler.AvailabilityHandler, authRequired fiber.Handler) {
	avail := api.Group("/availability", authRequired)

	avail.Get("/", h.List)
	avail.Put("/", h.Set)
}
