package services

import (
	cryptorand "crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/fastx/backend/internal/config"
)

// CredentialCodec hashes and verifies passwords and OTP secrets with argon2id.
// The work factor is fixed at construction from configuration.
type CredentialCodec struct {
	cfg config.Argon2Config
}

func NewCredentialCodec(cfg config.Argon2Config) *CredentialCodec {
	return &CredentialCodec{cfg: cfg}
}

// Hash derives a salted one-way hash of secret, encoded as "salt$hash".
func (c *CredentialCodec) Hash(secret string) (string, error) {
	salt := make([]byte, c.cfg.SaltLength)
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(secret), salt, c.cfg.Time, c.cfg.Memory, c.cfg.Threads, c.cfg.KeyLength)
	return base64.StdEncoding.EncodeToString(salt) + "$" + base64.StdEncoding.EncodeToString(hash), nil
}

// Verify reports whether secret matches hashed. Malformed input resolves to
// false so callers never see a verification fault as an error.
func (c *CredentialCodec) Verify(secret, hashed string) bool {
	parts := strings.Split(hashed, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(secret), salt, c.cfg.Time, c.cfg.Memory, c.cfg.Threads, c.cfg.KeyLength)
	return subtle.ConstantTimeCompare(hash, computed) == 1
}
