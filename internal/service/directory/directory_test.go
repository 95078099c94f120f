package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Account{},
		&model.DirectoryEntry{},
		&model.Patient{},
		&model.Dentist{},
		&model.Secretary{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fakeProvisioner struct {
	err      error
	signedUp []string
}

func (f *fakeProvisioner) SignUp(_ context.Context, email, _ string) (*model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.signedUp = append(f.signedUp, email)
	return &model.Account{ID: uuid.New(), Email: email}, nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *fakeProvisioner) {
	t.Helper()
	db := newTestDB(t)
	prov := &fakeProvisioner{}
	return New(db, prov, 6), db, prov
}

func countEntries(t *testing.T, db *gorm.DB, email string, role model.Role) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.DirectoryEntry{}).
		Where("email = ? AND role = ?", email, role).Count(&n).Error; err != nil {
		t.Fatalf("count directory entries: %v", err)
	}
	return n
}

func TestCreatePatientSyncsDirectory(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	patient, err := svc.CreatePatient(ctx, CreatePatientRequest{
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     "Ana.Reyes@Example.com",
		Age:       29,
	})
	if err != nil {
		t.Fatalf("CreatePatient() error = %v", err)
	}
	if patient.Email != "ana.reyes@example.com" {
		t.Errorf("email not normalized, got %q", patient.Email)
	}
	if got := countEntries(t, db, "ana.reyes@example.com", model.RolePatient); got != 1 {
		t.Errorf("directory entries = %d, want 1", got)
	}
}

func TestCreatePatientDuplicateEmailRollsBack(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	req := CreatePatientRequest{FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"}
	if _, err := svc.CreatePatient(ctx, req); err != nil {
		t.Fatalf("first CreatePatient() error = %v", err)
	}

	_, err := svc.CreatePatient(ctx, req)
	if !errors.Is(err, ErrDirectoryWrite) {
		t.Fatalf("second CreatePatient() error = %v, want ErrDirectoryWrite", err)
	}

	var patients int64
	db.Model(&model.Patient{}).Count(&patients)
	if patients != 1 {
		t.Errorf("patients = %d, want 1 after rollback", patients)
	}
}

func TestCreatePatientValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreatePatientRequest
	}{
		{"missing email", CreatePatientRequest{FirstName: "Ana", LastName: "Reyes"}},
		{"missing name", CreatePatientRequest{Email: "ana@example.com"}},
		{"bad phone", CreatePatientRequest{
			FirstName: "Ana", LastName: "Reyes",
			Email: "ana@example.com", ContactNo: "12345",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreatePatient(ctx, tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("CreatePatient() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdatePatientEmailRewritesDirectory(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	patient, err := svc.CreatePatient(ctx, CreatePatientRequest{
		FirstName: "Ana", LastName: "Reyes", Email: "old@example.com",
	})
	if err != nil {
		t.Fatalf("CreatePatient() error = %v", err)
	}

	newEmail := "new@example.com"
	updated, err := svc.UpdatePatient(ctx, patient.ID, UpdatePatientRequest{
		Email:         &newEmail,
		PreviousEmail: "old@example.com",
	})
	if err != nil {
		t.Fatalf("UpdatePatient() error = %v", err)
	}
	if updated.Email != newEmail {
		t.Errorf("patient email = %q, want %q", updated.Email, newEmail)
	}
	if got := countEntries(t, db, "old@example.com", model.RolePatient); got != 0 {
		t.Errorf("old email entries = %d, want 0", got)
	}
	if got := countEntries(t, db, newEmail, model.RolePatient); got != 1 {
		t.Errorf("new email entries = %d, want 1", got)
	}
}

func TestUpdatePatientMissingDirectoryEntry(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	patient, err := svc.CreatePatient(ctx, CreatePatientRequest{
		FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com",
	})
	if err != nil {
		t.Fatalf("CreatePatient() error = %v", err)
	}

	// Simulate a desynced index, then attempt an email change.
	if err := db.Where("email = ?", "ana@example.com").
		Delete(&model.DirectoryEntry{}).Error; err != nil {
		t.Fatalf("delete entry: %v", err)
	}

	newEmail := "new@example.com"
	_, err = svc.UpdatePatient(ctx, patient.ID, UpdatePatientRequest{Email: &newEmail})
	if !errors.Is(err, ErrDirectoryEntryNotFound) {
		t.Fatalf("UpdatePatient() error = %v, want ErrDirectoryEntryNotFound", err)
	}

	// Rollback must leave the patient untouched.
	var reloaded model.Patient
	if err := db.First(&reloaded, patient.ID).Error; err != nil {
		t.Fatalf("reload patient: %v", err)
	}
	if reloaded.Email != "ana@example.com" {
		t.Errorf("patient email = %q after failed update, want unchanged", reloaded.Email)
	}
}

func TestUpdatePatientPartial(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	patient, err := svc.CreatePatient(ctx, CreatePatientRequest{
		FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com", Age: 29,
	})
	if err != nil {
		t.Fatalf("CreatePatient() error = %v", err)
	}

	age := 30
	updated, err := svc.UpdatePatient(ctx, patient.ID, UpdatePatientRequest{Age: &age})
	if err != nil {
		t.Fatalf("UpdatePatient() error = %v", err)
	}
	if updated.Age != 30 {
		t.Errorf("age = %d, want 30", updated.Age)
	}
	if updated.FirstName != "Ana" || updated.Email != "ana@example.com" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestDeleteDentistCascadesSecretaries(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	dentist, err := svc.CreateDentist(ctx, CreateDentistRequest{
		Name: "Dr. Cruz", Email: "cruz@example.com",
	})
	if err != nil {
		t.Fatalf("CreateDentist() error = %v", err)
	}
	if _, err := svc.CreateSecretaryAccount(ctx, CreateSecretaryAccountRequest{
		Name: "Mia", Email: "mia@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
		DentistID: dentist.ID,
	}); err != nil {
		t.Fatalf("CreateSecretaryAccount() error = %v", err)
	}

	if err := svc.DeleteIdentity(ctx, model.RoleDentist, dentist.ID); err != nil {
		t.Fatalf("DeleteIdentity() error = %v", err)
	}

	var secretaries int64
	db.Model(&model.Secretary{}).Where("dentist_id = ?", dentist.ID).Count(&secretaries)
	if secretaries != 0 {
		t.Errorf("secretaries = %d after dentist delete, want 0", secretaries)
	}
	if got := countEntries(t, db, "cruz@example.com", model.RoleDentist); got != 0 {
		t.Errorf("dentist entries = %d, want 0", got)
	}
	if got := countEntries(t, db, "mia@example.com", model.RoleSecretary); got != 0 {
		t.Errorf("secretary entries = %d, want 0", got)
	}
}

func TestDeleteIdentityUnknownRole(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.DeleteIdentity(context.Background(), model.Role("janitor"), 1); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("DeleteIdentity() error = %v, want ErrUnknownRole", err)
	}
}

func TestDeleteIdentityNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.DeleteIdentity(context.Background(), model.RolePatient, 42); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("DeleteIdentity() error = %v, want ErrRecordNotFound", err)
	}
}

func TestCreateSecretaryAccount(t *testing.T) {
	svc, db, prov := newTestService(t)
	ctx := context.Background()

	dentist, err := svc.CreateDentist(ctx, CreateDentistRequest{
		Name: "Dr. Cruz", Email: "cruz@example.com",
	})
	if err != nil {
		t.Fatalf("CreateDentist() error = %v", err)
	}

	secretary, err := svc.CreateSecretaryAccount(ctx, CreateSecretaryAccountRequest{
		Name: "Mia", Email: "mia@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
		ContactNo: "+639171234567",
		DentistID: dentist.ID,
	})
	if err != nil {
		t.Fatalf("CreateSecretaryAccount() error = %v", err)
	}
	if secretary.AccountID == nil {
		t.Error("secretary has no linked account")
	}
	if secretary.DentistID != dentist.ID {
		t.Errorf("dentist_id = %d, want %d", secretary.DentistID, dentist.ID)
	}
	if len(prov.signedUp) != 1 || prov.signedUp[0] != "mia@example.com" {
		t.Errorf("provisioner sign-ups = %v", prov.signedUp)
	}
	if got := countEntries(t, db, "mia@example.com", model.RoleSecretary); got != 1 {
		t.Errorf("secretary entries = %d, want 1", got)
	}
}

func TestCreateSecretaryAccountValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	dentist, err := svc.CreateDentist(ctx, CreateDentistRequest{
		Name: "Dr. Cruz", Email: "cruz@example.com",
	})
	if err != nil {
		t.Fatalf("CreateDentist() error = %v", err)
	}

	tests := []struct {
		name    string
		req     CreateSecretaryAccountRequest
		wantErr error
	}{
		{
			name: "short password",
			req: CreateSecretaryAccountRequest{
				Name: "Mia", Email: "mia@example.com",
				Password: "abc", ConfirmPassword: "abc", DentistID: dentist.ID,
			},
			wantErr: ErrPasswordTooShort,
		},
		{
			name: "password mismatch",
			req: CreateSecretaryAccountRequest{
				Name: "Mia", Email: "mia@example.com",
				Password: "secret1", ConfirmPassword: "secret2", DentistID: dentist.ID,
			},
			wantErr: ErrPasswordMismatch,
		},
		{
			name: "missing dentist",
			req: CreateSecretaryAccountRequest{
				Name: "Mia", Email: "mia@example.com",
				Password: "secret1", ConfirmPassword: "secret1", DentistID: 999,
			},
			wantErr: ErrDentistNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateSecretaryAccount(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateSecretaryAccount() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateSecretaryAccountProvisionFailure(t *testing.T) {
	svc, db, prov := newTestService(t)
	ctx := context.Background()

	dentist, err := svc.CreateDentist(ctx, CreateDentistRequest{
		Name: "Dr. Cruz", Email: "cruz@example.com",
	})
	if err != nil {
		t.Fatalf("CreateDentist() error = %v", err)
	}

	prov.err = errors.New("smtp relay down")
	_, err = svc.CreateSecretaryAccount(ctx, CreateSecretaryAccountRequest{
		Name: "Mia", Email: "mia@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
		DentistID: dentist.ID,
	})
	if !errors.Is(err, ErrCredentialProvision) {
		t.Fatalf("CreateSecretaryAccount() error = %v, want ErrCredentialProvision", err)
	}
	if got := countEntries(t, db, "mia@example.com", model.RoleSecretary); got != 0 {
		t.Errorf("secretary entries = %d after failed provisioning, want 0", got)
	}
}

func TestListDentistsPreloadsSecretaries(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	dentist, err := svc.CreateDentist(ctx, CreateDentistRequest{
		Name: "Dr. Cruz", Email: "cruz@example.com",
	})
	if err != nil {
		t.Fatalf("CreateDentist() error = %v", err)
	}
	if _, err := svc.CreateSecretaryAccount(ctx, CreateSecretaryAccountRequest{
		Name: "Mia", Email: "mia@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
		DentistID: dentist.ID,
	}); err != nil {
		t.Fatalf("CreateSecretaryAccount() error = %v", err)
	}

	dentists, err := svc.ListDentists(ctx)
	if err != nil {
		t.Fatalf("ListDentists() error = %v", err)
	}
	if len(dentists) != 1 {
		t.Fatalf("dentists = %d, want 1", len(dentists))
	}
	if len(dentists[0].Secretaries) != 1 {
		t.Errorf("secretaries = %d, want 1", len(dentists[0].Secretaries))
	}
}
