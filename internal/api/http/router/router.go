package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/mvillanueva/dentaladmin_backend/config"
	"github.com/mvillanueva/dentaladmin_backend/internal/api/http/handler"
	"github.com/mvillanueva/dentaladmin_backend/internal/api/http/middleware"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/availability"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/consultation"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/directory"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/identity"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/report"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Redis           *redis.Client
	IdentitySvc     *identity.Service
	DirectorySvc    *directory.Service
	ConsultationSvc *consultation.Service
	AvailabilitySvc *availability.Service
	ReportSvc       *report.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.IdentitySvc)

	authH := handler.NewAuthHandler(r.p.IdentitySvc)
	patientH := handler.NewPatientHandler(r.p.DirectorySvc)
	dentistH := handler.NewDentistHandler(r.p.DirectorySvc)
	consultationH := handler.NewConsultationHandler(r.p.ConsultationSvc)
	availabilityH := handler.NewAvailabilityHandler(r.p.AvailabilitySvc)
	reportH := handler.NewReportHandler(r.p.ReportSvc, r.p.ConsultationSvc)

	api := app.Group("/api/v1")

	r.registerAuthRoutes(api, authH, authRequired)
	r.registerPatientRoutes(api, patientH, authRequired)
	r.registerDentistRoutes(api, dentistH, authRequired)
	r.registerConsultationRoutes(api, consultationH, authRequired)
	r.registerAvailabilityRoutes(api, availabilityH, authRequired)
	r.registerReportRoutes(api, reportH, authRequired)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New())
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
