package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies which entity table a directory entry mirrors.
type Role string

const (
	RolePatient   Role = "patient"
	RoleDentist   Role = "dentist"
	RoleSecretary Role = "secretary"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDentist, RoleSecretary:
		return true
	}
	return false
}

// Consultation statuses. Stored lowercase; comparisons are case-insensitive.
const (
	StatusPending           = "pending"
	StatusApproved          = "approved"
	StatusRejected          = "rejected"
	StatusPartiallyComplete = "partially complete"
	StatusComplete          = "complete"
	StatusFollowUp          = "follow-up"
)

// ValidStatus reports whether s is one of the known consultation statuses,
// ignoring case.
func ValidStatus(s string) bool {
	switch strings.ToLower(s) {
	case StatusPending, StatusApproved, StatusRejected,
		StatusPartiallyComplete, StatusComplete, StatusFollowUp:
		return true
	}
	return false
}

// Account is a credential record held by the identity provider. Directory-only
// identities (plain patients and dentists) have no account and cannot log in.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// DirectoryEntry is the flat (email, role) index row mirroring an
// authoritative role-table record. Rows are created, rewritten and removed
// only by the directory synchronizer, never directly.
type DirectoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"not null;uniqueIndex:idx_directory_email_role" json:"email"`
	Role      Role      `gorm:"not null;uniqueIndex:idx_directory_email_role" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (DirectoryEntry) TableName() string { return "directory_entries" }

type Patient struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	FirstName string     `gorm:"not null" json:"first_name"`
	LastName  string     `gorm:"not null" json:"last_name"`
	Email     string     `gorm:"not null;index" json:"email"`
	Age       int        `json:"age"`
	BirthDate *time.Time `json:"birth_date"`
	Gender    string     `json:"gender"`
	ContactNo string     `json:"contact_no"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Dentist struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Email       string      `gorm:"not null;index" json:"email"`
	Secretaries []Secretary `gorm:"foreignKey:DentistID" json:"secretaries,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Secretary belongs to exactly one dentist and is removed when that dentist
// is deleted. AccountID references the identity-provider credential issued
// during provisioning.
type Secretary struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AccountID *uuid.UUID `gorm:"type:uuid" json:"account_id,omitempty"`
	DentistID uint       `gorm:"not null;index" json:"dentist_id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"not null;index" json:"email"`
	ContactNo string     `json:"contact_no"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Secretary) TableName() string { return "secretaries" }

// Consultation is a scheduled patient-dentist encounter. Status is the only
// field the console mutates.
type Consultation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PatientID       uint      `gorm:"not null;index" json:"patient_id"`
	Patient         *Patient  `json:"patient,omitempty"`
	DentistID       uint      `gorm:"not null;index" json:"dentist_id"`
	Dentist         *Dentist  `json:"dentist,omitempty"`
	Status          string    `gorm:"not null;default:pending" json:"status"`
	AppointmentDate time.Time `gorm:"not null;index" json:"appointment_date"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DentistAvailability is a per-dentist, per-date bookability flag.
// Unique per (dentist_id, date); writes are upserts, last write wins.
type DentistAvailability struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DentistID   uint      `gorm:"not null;uniqueIndex:idx_availability_dentist_date" json:"dentist_id"`
	Dentist     *Dentist  `json:"dentist,omitempty"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:idx_availability_dentist_date" json:"date"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DentistAvailability) TableName() string { return "dentist_availabilities" }
