package consultation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Patient{}, &model.Dentist{}, &model.Consultation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db), db
}

func seed(t *testing.T, db *gorm.DB) (model.Patient, model.Dentist) {
	t.Helper()
	patient := model.Patient{FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"}
	dentist := model.Dentist{Name: "Dr. Cruz", Email: "cruz@example.com"}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	if err := db.Create(&dentist).Error; err != nil {
		t.Fatalf("seed dentist: %v", err)
	}
	return patient, dentist
}

func TestListOrdersByAppointmentDateDesc(t *testing.T) {
	svc, db := newTestService(t)
	patient, dentist := seed(t, db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, offset := range []int{2, 0, 1} {
		c := model.Consultation{
			PatientID:       patient.ID,
			DentistID:       dentist.ID,
			Status:          model.StatusPending,
			AppointmentDate: base.AddDate(0, 0, offset),
		}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed consultation: %v", err)
		}
	}

	consultations, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(consultations) != 3 {
		t.Fatalf("consultations = %d, want 3", len(consultations))
	}
	for i := 1; i < len(consultations); i++ {
		if consultations[i].AppointmentDate.After(consultations[i-1].AppointmentDate) {
			t.Errorf("consultations not in descending appointment order at %d", i)
		}
	}
	if consultations[0].Patient == nil || consultations[0].Dentist == nil {
		t.Error("patient or dentist not preloaded")
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, db := newTestService(t)
	patient, dentist := seed(t, db)

	c := model.Consultation{
		PatientID:       patient.ID,
		DentistID:       dentist.ID,
		Status:          model.StatusPending,
		AppointmentDate: time.Now(),
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed consultation: %v", err)
	}

	// Case-insensitive input, stored lowercase.
	updated, err := svc.UpdateStatus(context.Background(), c.ID, "APPROVED", nil)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != model.StatusApproved {
		t.Errorf("status = %q, want %q", updated.Status, model.StatusApproved)
	}

	reason := "patient requested a different dentist"
	if _, err := svc.UpdateStatus(context.Background(), c.ID, model.StatusRejected, &reason); err != nil {
		t.Fatalf("UpdateStatus() rejected error = %v", err)
	}

	var reloaded model.Consultation
	if err := db.First(&reloaded, c.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.RejectionReason == nil || *reloaded.RejectionReason != reason {
		t.Errorf("rejection_reason = %v, want %q", reloaded.RejectionReason, reason)
	}

	// Leaving the rejected state clears the reason.
	if _, err := svc.UpdateStatus(context.Background(), c.ID, model.StatusApproved, nil); err != nil {
		t.Fatalf("UpdateStatus() approve error = %v", err)
	}
	if err := db.First(&reloaded, c.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.RejectionReason != nil {
		t.Errorf("rejection_reason = %v after re-approval, want nil", *reloaded.RejectionReason)
	}
}

func TestUpdateStatusInvalid(t *testing.T) {
	svc, db := newTestService(t)
	patient, dentist := seed(t, db)

	c := model.Consultation{
		PatientID: patient.ID, DentistID: dentist.ID,
		Status: model.StatusPending, AppointmentDate: time.Now(),
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed consultation: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), c.ID, "archived", nil); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("UpdateStatus() error = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), 999, model.StatusApproved, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus() error = %v, want ErrNotFound", err)
	}
}
