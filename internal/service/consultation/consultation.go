// Package consultation reads and moderates consultation requests. Records are
// created by the patient-facing booking flow; the console only lists them and
// moves them through the status lifecycle.
package consultation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
)

var (
	ErrNotFound      = errors.New("consultation not found")
	ErrInvalidStatus = errors.New("invalid consultation status")
)

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		logger: slog.Default().With("service", "consultation"),
	}
}

// List returns all consultations with patient and dentist attached, newest
// appointment first.
func (s *Service) List(ctx context.Context) ([]model.Consultation, error) {
	var consultations []model.Consultation
	err := s.db.WithContext(ctx).
		Preload("Patient").
		Preload("Dentist").
		Order("appointment_date DESC").
		Find(&consultations).Error
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	return consultations, nil
}

// UpdateStatus moves a consultation to the given status. Status input is
// case-insensitive and stored lowercase. A rejection reason is recorded when
// provided and cleared when the consultation leaves the rejected state.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string, rejectionReason *string) (*model.Consultation, error) {
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	status = strings.ToLower(status)

	var consultation model.Consultation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&consultation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrNotFound, id)
			}
			return fmt.Errorf("load consultation: %w", err)
		}

		updates := map[string]any{"status": status}
		switch {
		case rejectionReason != nil:
			updates["rejection_reason"] = *rejectionReason
		case status != model.StatusRejected:
			updates["rejection_reason"] = nil
		}

		if err := tx.Model(&consultation).Updates(updates).Error; err != nil {
			return fmt.Errorf("update consultation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "consultation status updated",
		"consultation_id", id, "status", status)
	return &consultation, nil
}
