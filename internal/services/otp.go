package services

import (
	"context"
	"crypto/rand"
	"log"
	"math/big"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/fastx/backend/internal/config"
)

// OTPManager issues and checks the short-lived numeric codes mailed to users.
// Codes are stored hashed under otp:<email> and expire through redis key TTL;
// the manager never re-checks age itself.
type OTPManager struct {
	redis *redis.Client
	codec *CredentialCodec
	cfg   config.OTPConfig
}

func NewOTPManager(rdb *redis.Client, codec *CredentialCodec, cfg config.OTPConfig) *OTPManager {
	return &OTPManager{redis: rdb, codec: codec, cfg: cfg}
}

// Generate produces a fixed-length numeric code from a cryptographically
// strong source. The length is a deployment constant; verification depends on
// hashing the exact same representation.
func (m *OTPManager) Generate() (string, error) {
	const digits = "0123456789"

	var sb strings.Builder
	for i := 0; i < m.cfg.Length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(digits[n.Int64()])
	}

	return sb.String(), nil
}

// Store hashes code and writes the OTP record for email with the configured
// TTL. An existing record is overwritten; callers needing "exactly one live
// code" delete first.
func (m *OTPManager) Store(ctx context.Context, email, code string) error {
	hashed, err := m.codec.Hash(code)
	if err != nil {
		return err
	}

	return m.redis.Set(ctx, otpKey(email), hashed, m.cfg.TTL).Err()
}

// Verify reports whether code matches the live OTP record for email. An
// absent or expired record is a plain non-match, never a fault.
func (m *OTPManager) Verify(ctx context.Context, code, email string) bool {
	hashed, err := m.redis.Get(ctx, otpKey(email)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[OTP] lookup failed for %s: %v", email, err)
		}
		return false
	}

	return m.codec.Verify(code, hashed)
}

// Delete removes the OTP record for email. Idempotent; reports whether a
// record existed.
func (m *OTPManager) Delete(ctx context.Context, email string) bool {
	deleted, err := m.redis.Del(ctx, otpKey(email)).Result()
	if err != nil {
		log.Printf("[OTP] delete failed for %s: %v", email, err)
		return false
	}
	return deleted > 0
}

func otpKey(email string) string {
	return "otp:" + strings.ToLower(email)
}
