package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const envelopeVersion = 1

var (
	ErrAuth      = errors.New("invalid password")
	ErrBadParams = errors.New("invalid key derivation parameters")
	ErrCorrupt   = errors.New("vault blob is corrupt")
)

// Envelope is the persisted form of a sealed vault.
type Envelope struct {
	Version int    `json:"version"`
	KDF     KDF    `json:"kdf"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`
}

// Key is a derived vault key together with the salt and parameters it came from.
// It is held for the duration of an unlocked session so every save can re-seal
// without deriving again.
type Key struct {
	material []byte
	salt     []byte
	kdf      KDF
}

// NewKey derives a key for a fresh vault with a random salt.
func NewKey(password string, kdf KDF) (*Key, error) {
	salt, err := GenerateRandomBytes(saltLength)
	if err != nil {
		return nil, err
	}
	material, err := kdf.derive([]byte(password), salt)
	if err != nil {
		return nil, err
	}
	return &Key{material: material, salt: salt, kdf: kdf}, nil
}

// Seal encrypts plaintext with AES-256-GCM under a fresh nonce.
func (k *Key) Seal(plaintext []byte) ([]byte, error) {
	if k == nil || len(k.material) == 0 {
		return nil, errors.New("key is wiped")
	}
	gcm, err := newGCM(k.material)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	env := Envelope{
		Version: envelopeVersion,
		KDF:     k.kdf,
		Salt:    k.salt,
		Nonce:   nonce,
		Data:    gcm.Seal(nil, nonce, plaintext, nil),
	}
	blob, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return blob, nil
}

// Wipe zeroes the key material.
func (k *Key) Wipe() {
	if k == nil {
		return
	}
	ClearMemory(k.material)
	k.material = nil
}

// Open derives the key from password with the parameters stored in blob and
// decrypts it. A wrong password yields ErrAuth.
func Open(password string, blob []byte) (*Key, []byte, error) {
	var env Envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version != envelopeVersion {
		return nil, nil, fmt.Errorf("%w: unsupported envelope version %d", ErrCorrupt, env.Version)
	}

	material, err := env.KDF.derive([]byte(password), env.Salt)
	if err != nil {
		return nil, nil, err
	}
	gcm, err := newGCM(material)
	if err != nil {
		return nil, nil, err
	}
	if len(env.Nonce) != gcm.NonceSize() {
		return nil, nil, fmt.Errorf("%w: bad nonce size", ErrCorrupt)
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Data, nil)
	if err != nil {
		ClearMemory(material)
		return nil, nil, ErrAuth
	}
	return &Key{material: material, salt: env.Salt, kdf: env.KDF}, plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
