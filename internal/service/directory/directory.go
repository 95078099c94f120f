// Package directory keeps the flat (email, role) directory table in lockstep
// with the authoritative patient, dentist and secretary tables. All writes to
// those tables go through this service so that every mutation updates both
// sides inside a single transaction.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"gorm.io/gorm"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
)

const (
	defaultPhoneRegion    = "PH"
	defaultMinPasswordLen = 6
)

// CredentialProvisioner issues login credentials for secretary accounts.
type CredentialProvisioner interface {
	SignUp(ctx context.Context, email, password string) (*model.Account, error)
}

type Service struct {
	db          *gorm.DB
	provisioner CredentialProvisioner
	logger      *slog.Logger
	minPassword int
	phoneRegion string
}

func New(db *gorm.DB, provisioner CredentialProvisioner, minPasswordLen int) *Service {
	if minPasswordLen <= 0 {
		minPasswordLen = defaultMinPasswordLen
	}
	return &Service{
		db:          db,
		provisioner: provisioner,
		logger:      slog.Default().With("service", "directory"),
		minPassword: minPasswordLen,
		phoneRegion: defaultPhoneRegion,
	}
}

type CreatePatientRequest struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Age       int        `json:"age"`
	BirthDate *time.Time `json:"birth_date"`
	Gender    string     `json:"gender"`
	ContactNo string     `json:"contact_no"`
}

// UpdatePatientRequest carries a partial patient update. Nil fields are left
// untouched. PreviousEmail locates the directory row when Email changes; when
// empty the patient's stored email is used.
type UpdatePatientRequest struct {
	FirstName     *string    `json:"first_name"`
	LastName      *string    `json:"last_name"`
	Email         *string    `json:"email"`
	PreviousEmail string     `json:"previous_email"`
	Age           *int       `json:"age"`
	BirthDate     *time.Time `json:"birth_date"`
	Gender        *string    `json:"gender"`
	ContactNo     *string    `json:"contact_no"`
}

type CreateDentistRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateDentistRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	PreviousEmail string  `json:"previous_email"`
}

type UpdateSecretaryRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	PreviousEmail string  `json:"previous_email"`
	ContactNo     *string `json:"contact_no"`
}

type CreateSecretaryAccountRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	ContactNo       string `json:"contact_no"`
	DentistID       uint   `json:"dentist_id"`
}

func (s *Service) ListPatients(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	if err := s.db.WithContext(ctx).Order("id").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// ListDentists returns all dentists with their secretaries preloaded.
func (s *Service) ListDentists(ctx context.Context) ([]model.Dentist, error) {
	var dentists []model.Dentist
	if err := s.db.WithContext(ctx).Preload("Secretaries").Order("id").Find(&dentists).Error; err != nil {
		return nil, fmt.Errorf("list dentists: %w", err)
	}
	return dentists, nil
}

func (s *Service) CreatePatient(ctx context.Context, req CreatePatientRequest) (*model.Patient, error) {
	req.Email = normalizeEmail(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: first name, last name and email are required", ErrValidation)
	}
	if err := s.validatePhone(req.ContactNo); err != nil {
		return nil, err
	}

	patient := model.Patient{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Age:       req.Age,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
		ContactNo: req.ContactNo,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Directory first: if the index row cannot be written the patient
		// must not exist either.
		if err := insertEntry(tx, req.Email, model.RolePatient); err != nil {
			return err
		}
		if err := tx.Create(&patient).Error; err != nil {
			return fmt.Errorf("create patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "patient created", "patient_id", patient.ID)
	return &patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id uint, req UpdatePatientRequest) (*model.Patient, error) {
	if req.Email != nil {
		*req.Email = normalizeEmail(*req.Email)
		if *req.Email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
		}
	}
	if req.ContactNo != nil {
		if err := s.validatePhone(*req.ContactNo); err != nil {
			return nil, err
		}
	}

	var patient model.Patient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&patient, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: patient %d", ErrRecordNotFound, id)
			}
			return fmt.Errorf("load patient: %w", err)
		}

		if req.Email != nil && *req.Email != patient.Email {
			prev := normalizeEmail(req.PreviousEmail)
			if prev == "" {
				prev = patient.Email
			}
			if err := rewriteEntry(tx, prev, *req.Email, model.RolePatient); err != nil {
				return err
			}
		}

		updates := map[string]any{}
		if req.FirstName != nil {
			updates["first_name"] = *req.FirstName
		}
		if req.LastName != nil {
			updates["last_name"] = *req.LastName
		}
		if req.Email != nil {
			updates["email"] = *req.Email
		}
		if req.Age != nil {
			updates["age"] = *req.Age
		}
		if req.BirthDate != nil {
			updates["birth_date"] = *req.BirthDate
		}
		if req.Gender != nil {
			updates["gender"] = *req.Gender
		}
		if req.ContactNo != nil {
			updates["contact_no"] = *req.ContactNo
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&patient).Updates(updates).Error; err != nil {
			return fmt.Errorf("update patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "patient updated", "patient_id", patient.ID)
	return &patient, nil
}

func (s *Service) CreateDentist(ctx context.Context, req CreateDentistRequest) (*model.Dentist, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}

	dentist := model.Dentist{Name: req.Name, Email: req.Email}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertEntry(tx, req.Email, model.RoleDentist); err != nil {
			return err
		}
		if err := tx.Create(&dentist).Error; err != nil {
			return fmt.Errorf("create dentist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "dentist created", "dentist_id", dentist.ID)
	return &dentist, nil
}

func (s *Service) UpdateDentist(ctx context.Context, id uint, req UpdateDentistRequest) (*model.Dentist, error) {
	if req.Email != nil {
		*req.Email = normalizeEmail(*req.Email)
		if *req.Email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
		}
	}

	var dentist model.Dentist
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dentist, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: dentist %d", ErrRecordNotFound, id)
			}
			return fmt.Errorf("load dentist: %w", err)
		}

		if req.Email != nil && *req.Email != dentist.Email {
			prev := normalizeEmail(req.PreviousEmail)
			if prev == "" {
				prev = dentist.Email
			}
			if err := rewriteEntry(tx, prev, *req.Email, model.RoleDentist); err != nil {
				return err
			}
		}

		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Email != nil {
			updates["email"] = *req.Email
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&dentist).Updates(updates).Error; err != nil {
			return fmt.Errorf("update dentist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "dentist updated", "dentist_id", dentist.ID)
	return &dentist, nil
}

func (s *Service) UpdateSecretary(ctx context.Context, id uint, req UpdateSecretaryRequest) (*model.Secretary, error) {
	if req.Email != nil {
		*req.Email = normalizeEmail(*req.Email)
		if *req.Email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
		}
	}
	if req.ContactNo != nil {
		if err := s.validatePhone(*req.ContactNo); err != nil {
			return nil, err
		}
	}

	var secretary model.Secretary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&secretary, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: secretary %d", ErrRecordNotFound, id)
			}
			return fmt.Errorf("load secretary: %w", err)
		}

		if req.Email != nil && *req.Email != secretary.Email {
			prev := normalizeEmail(req.PreviousEmail)
			if prev == "" {
				prev = secretary.Email
			}
			if err := rewriteEntry(tx, prev, *req.Email, model.RoleSecretary); err != nil {
				return err
			}
		}

		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Email != nil {
			updates["email"] = *req.Email
		}
		if req.ContactNo != nil {
			updates["contact_no"] = *req.ContactNo
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&secretary).Updates(updates).Error; err != nil {
			return fmt.Errorf("update secretary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "secretary updated", "secretary_id", secretary.ID)
	return &secretary, nil
}

// DeleteIdentity removes a role-table record together with its directory row.
// Deleting a dentist also removes that dentist's secretaries and their
// directory rows so the index never holds entries for vanished records.
func (s *Service) DeleteIdentity(ctx context.Context, role model.Role, id uint) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch role {
		case model.RolePatient:
			var patient model.Patient
			if err := tx.First(&patient, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: patient %d", ErrRecordNotFound, id)
				}
				return fmt.Errorf("load patient: %w", err)
			}
			if err := removeEntry(tx, patient.Email, model.RolePatient); err != nil {
				return err
			}
			if err := tx.Delete(&patient).Error; err != nil {
				return fmt.Errorf("delete patient: %w", err)
			}

		case model.RoleDentist:
			var dentist model.Dentist
			if err := tx.Preload("Secretaries").First(&dentist, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: dentist %d", ErrRecordNotFound, id)
				}
				return fmt.Errorf("load dentist: %w", err)
			}
			for _, sec := range dentist.Secretaries {
				if err := removeEntry(tx, sec.Email, model.RoleSecretary); err != nil {
					return err
				}
			}
			if len(dentist.Secretaries) > 0 {
				if err := tx.Where("dentist_id = ?", dentist.ID).Delete(&model.Secretary{}).Error; err != nil {
					return fmt.Errorf("delete secretaries: %w", err)
				}
			}
			if err := removeEntry(tx, dentist.Email, model.RoleDentist); err != nil {
				return err
			}
			if err := tx.Delete(&dentist).Error; err != nil {
				return fmt.Errorf("delete dentist: %w", err)
			}

		case model.RoleSecretary:
			var secretary model.Secretary
			if err := tx.First(&secretary, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: secretary %d", ErrRecordNotFound, id)
				}
				return fmt.Errorf("load secretary: %w", err)
			}
			if err := removeEntry(tx, secretary.Email, model.RoleSecretary); err != nil {
				return err
			}
			if err := tx.Delete(&secretary).Error; err != nil {
				return fmt.Errorf("delete secretary: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "identity deleted", "role", role, "id", id)
	return nil
}

// CreateSecretaryAccount provisions login credentials through the identity
// provider, then records the secretary and its directory row. Credential
// issuance happens before the transaction and is not rolled back if the
// record writes fail; a retry with the same email will surface the conflict.
func (s *Service) CreateSecretaryAccount(ctx context.Context, req CreateSecretaryAccountRequest) (*model.Secretary, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if len(req.Password) < s.minPassword {
		return nil, fmt.Errorf("%w: minimum %d characters", ErrPasswordTooShort, s.minPassword)
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if err := s.validatePhone(req.ContactNo); err != nil {
		return nil, err
	}

	var dentist model.Dentist
	if err := s.db.WithContext(ctx).First(&dentist, req.DentistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrDentistNotFound, req.DentistID)
		}
		return nil, fmt.Errorf("load dentist: %w", err)
	}

	account, err := s.provisioner.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialProvision, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: provider returned no account", ErrCredentialProvision)
	}

	secretary := model.Secretary{
		AccountID: &account.ID,
		DentistID: dentist.ID,
		Name:      req.Name,
		Email:     req.Email,
		ContactNo: req.ContactNo,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertEntry(tx, req.Email, model.RoleSecretary); err != nil {
			return err
		}
		if err := tx.Create(&secretary).Error; err != nil {
			return fmt.Errorf("create secretary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "secretary account created",
		"secretary_id", secretary.ID, "dentist_id", dentist.ID)
	return &secretary, nil
}

func (s *Service) validatePhone(no string) error {
	if no == "" {
		return nil
	}
	num, err := phonenumbers.Parse(no, s.phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidPhone)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func insertEntry(tx *gorm.DB, email string, role model.Role) error {
	entry := model.DirectoryEntry{Email: email, Role: role}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryWrite, err)
	}
	return nil
}

func rewriteEntry(tx *gorm.DB, prevEmail, newEmail string, role model.Role) error {
	res := tx.Model(&model.DirectoryEntry{}).
		Where("email = ? AND role = ?", prevEmail, role).
		Update("email", newEmail)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryWrite, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s (%s)", ErrDirectoryEntryNotFound, prevEmail, role)
	}
	return nil
}

func removeEntry(tx *gorm.DB, email string, role model.Role) error {
	if email == "" {
		return nil
	}
	if err := tx.Where("email = ? AND role = ?", email, role).
		Delete(&model.DirectoryEntry{}).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryWrite, err)
	}
	return nil
}
