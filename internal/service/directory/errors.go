package directory

import "errors"

var (
	// ErrDirectoryWrite means the directory-table insert, rewrite or delete
	// failed; the paired entity write is rolled back.
	ErrDirectoryWrite = errors.New("directory write failed")

	// ErrDirectoryEntryNotFound means an email change could not locate the
	// directory row for the previous email and role.
	ErrDirectoryEntryNotFound = errors.New("directory entry not found")

	// ErrCredentialProvision means the identity provider rejected the
	// secretary sign-up or returned no usable account.
	ErrCredentialProvision = errors.New("credential provisioning failed")

	ErrValidation       = errors.New("validation failed")
	ErrRecordNotFound   = errors.New("record not found")
	ErrDentistNotFound  = errors.New("dentist not found")
	ErrUnknownRole      = errors.New("unknown role")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrInvalidPhone     = errors.New("invalid contact number for the configured region")
)
