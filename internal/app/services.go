package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/mvillanueva/dentaladmin_backend/config"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/availability"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/consultation"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/directory"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/identity"
	"github.com/mvillanueva/dentaladmin_backend/internal/service/report"
	"github.com/mvillanueva/dentaladmin_backend/pkg/email"
	pasetotoken "github.com/mvillanueva/dentaladmin_backend/pkg/paseto"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideIdentityService,
		ProvideDirectoryService,
		ProvideConsultationService,
		ProvideAvailabilityService,
		ProvideReportService,
		ProvidePasetoManager,
	),
)

func ProvideIdentityService(
	db *gorm.DB,
	rdb *redis.Client,
	tokens *pasetotoken.Manager,
	emailClient *email.Client,
	cfg *config.Config,
) *identity.Service {
	return identity.New(db, rdb, tokens, emailClient, cfg)
}

func ProvideDirectoryService(db *gorm.DB, identitySvc *identity.Service, cfg *config.Config) *directory.Service {
	return directory.New(db, identitySvc, cfg.Authentication.MinPasswordLength)
}

func ProvideConsultationService(db *gorm.DB) *consultation.Service {
	return consultation.New(db)
}

func ProvideAvailabilityService(db *gorm.DB) *availability.Service {
	return availability.New(db)
}

func ProvideReportService(db *gorm.DB) *report.Service {
	return report.New(db)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
