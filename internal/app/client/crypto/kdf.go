// Package crypto seals the serialized vault with a key derived from the master password.
package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const (
	AlgArgon2id = "argon2id"
	AlgPBKDF2   = "pbkdf2-sha256"

	keyLength  = 32 // AES-256
	saltLength = 16
)

// KDF describes how the vault key is derived from the password.
// It is stored next to the ciphertext so old vaults stay readable when defaults change.
type KDF struct {
	Algorithm  string `json:"algorithm"`
	Time       uint32 `json:"time,omitempty"`
	MemoryKiB  uint32 `json:"memoryKiB,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
}

// DefaultKDF follows the RFC 9106 second recommended option for Argon2id.
func DefaultKDF() KDF {
	return KDF{
		Algorithm: AlgArgon2id,
		Time:      3,
		MemoryKiB: 64 * 1024,
		Threads:   4,
	}
}

// FastKDF is only meant for tests.
func FastKDF() KDF {
	return KDF{
		Algorithm: AlgArgon2id,
		Time:      1,
		MemoryKiB: 8,
		Threads:   1,
	}
}

func (k KDF) Validate() error {
	switch k.Algorithm {
	case AlgArgon2id:
		if k.Time == 0 || k.MemoryKiB == 0 || k.Threads == 0 {
			return fmt.Errorf("%w: argon2id needs time, memory and threads", ErrBadParams)
		}
	case AlgPBKDF2:
		if k.Iterations <= 0 {
			return fmt.Errorf("%w: pbkdf2 needs iterations", ErrBadParams)
		}
	default:
		return fmt.Errorf("%w: unsupported algorithm %q", ErrBadParams, k.Algorithm)
	}
	return nil
}

func (k KDF) derive(password, salt []byte) ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	switch k.Algorithm {
	case AlgPBKDF2:
		return pbkdf2.Key(password, salt, k.Iterations, keyLength, sha256.New), nil
	default:
		return argon2.IDKey(password, salt, k.Time, k.MemoryKiB, k.Threads, keyLength), nil
	}
}
