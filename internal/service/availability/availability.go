// Package availability manages per-dentist, per-date bookability flags.
package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
)

var ErrDentistNotFound = errors.New("dentist not found")

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		logger: slog.Default().With("service", "availability"),
	}
}

// List returns all availability flags with the dentist attached, earliest
// date first.
func (s *Service) List(ctx context.Context) ([]model.DentistAvailability, error) {
	var flags []model.DentistAvailability
	err := s.db.WithContext(ctx).
		Preload("Dentist").
		Order("date ASC, dentist_id ASC").
		Find(&flags).Error
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return flags, nil
}

// ListForDentist returns one dentist's flags, earliest date first.
func (s *Service) ListForDentist(ctx context.Context, dentistID uint) ([]model.DentistAvailability, error) {
	var flags []model.DentistAvailability
	err := s.db.WithContext(ctx).
		Where("dentist_id = ?", dentistID).
		Order("date ASC").
		Find(&flags).Error
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return flags, nil
}

// Set upserts the flag for (dentist, date). There is one row per pair; a
// second write for the same pair overwrites the flag, last write wins.
func (s *Service) Set(ctx context.Context, dentistID uint, date time.Time, available bool) (*model.DentistAvailability, error) {
	var dentist model.Dentist
	if err := s.db.WithContext(ctx).First(&dentist, dentistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrDentistNotFound, dentistID)
		}
		return nil, fmt.Errorf("load dentist: %w", err)
	}

	flag := model.DentistAvailability{
		DentistID:   dentistID,
		Date:        truncateToDay(date),
		IsAvailable: available,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dentist_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_available", "updated_at"}),
		}).
		Create(&flag).Error
	if err != nil {
		return nil, fmt.Errorf("upsert availability: %w", err)
	}

	s.logger.InfoContext(ctx, "availability set",
		"dentist_id", dentistID, "date", flag.Date.Format("2006-01-02"), "available", available)
	return &flag, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
