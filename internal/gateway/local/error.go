package local

import (
	"errors"

	"credvault/internal/app/client/crypto"
)

var (
	ErrVaultLocked         = errors.New("vault is locked")
	ErrVaultExists         = errors.New("vault already exists")
	ErrVaultNotFound       = errors.New("vault not found")
	ErrVaultBusy           = errors.New("vault is open in another process")
	ErrServiceTypeExists   = errors.New("service type already exists")
	ErrServiceTypeNotFound = errors.New("service type not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidOldPassword  = errors.New("invalid old password")
	ErrEmptyPassword       = errors.New("password must not be empty")

	// ErrAuth is returned by UnlockVault for a wrong password.
	ErrAuth = crypto.ErrAuth
)
