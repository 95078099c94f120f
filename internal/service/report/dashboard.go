package report

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
)

// DashboardMetrics are the headline totals shown on the console landing page.
type DashboardMetrics struct {
	Patients             int64 `json:"patients"`
	Dentists             int64 `json:"dentists"`
	Secretaries          int64 `json:"secretaries"`
	Consultations        int64 `json:"consultations"`
	PendingConsultations int64 `json:"pending_consultations"`
}

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		logger: slog.Default().With("service", "report"),
	}
}

// Dashboard runs count-only queries; no row payloads are fetched.
func (s *Service) Dashboard(ctx context.Context) (*DashboardMetrics, error) {
	db := s.db.WithContext(ctx)
	var m DashboardMetrics

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&m.Patients, db.Model(&model.Patient{})},
		{&m.Dentists, db.Model(&model.Dentist{})},
		{&m.Secretaries, db.Model(&model.Secretary{})},
		{&m.Consultations, db.Model(&model.Consultation{})},
		{&m.PendingConsultations, db.Model(&model.Consultation{}).Where("status = ?", model.StatusPending)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}
	return &m, nil
}
