package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fastx/backend/internal/config"
)

// TokenPurpose names the operation a signed token is valid for. Each purpose
// has its own secret and expiry; purposes are never interchangeable.
type TokenPurpose string

const (
	TokenAccess  TokenPurpose = "access"
	TokenConfirm TokenPurpose = "confirm"
	TokenReset   TokenPurpose = "reset"
)

type purposeSpec struct {
	secret []byte
	expiry time.Duration
}

// TokenIssuer mints and validates purpose-scoped bearer tokens and keeps the
// logout blacklist in redis.
type TokenIssuer struct {
	redis        *redis.Client
	purposes     map[TokenPurpose]purposeSpec
	blacklistTTL time.Duration
}

func NewTokenIssuer(rdb *redis.Client, jwtCfg config.JWTConfig, blacklistTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		redis: rdb,
		purposes: map[TokenPurpose]purposeSpec{
			TokenAccess:  {secret: []byte(jwtCfg.AccessSecret), expiry: jwtCfg.AccessExpiry},
			TokenConfirm: {secret: []byte(jwtCfg.ConfirmSecret), expiry: jwtCfg.ConfirmExpiry},
			TokenReset:   {secret: []byte(jwtCfg.ResetSecret), expiry: jwtCfg.ResetExpiry},
		},
		blacklistTTL: blacklistTTL,
	}
}

// Issue signs a token for accountID under the given purpose. Access tokens
// additionally carry the account role and an issued-at claim. An unknown
// purpose is a programming-contract error, not a user-facing one.
func (t *TokenIssuer) Issue(accountID, role string, purpose TokenPurpose) (string, error) {
	spec, ok := t.purposes[purpose]
	if !ok {
		return "", fmt.Errorf("invalid token purpose: %q", purpose)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":  accountID,
		"exp": now.Add(spec.expiry).Unix(),
	}
	if purpose == TokenAccess {
		claims["role"] = role
		claims["iat"] = now.Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(spec.secret)
}

// Decode verifies tokenString against the purpose's secret and expiry and
// returns the subject account id. A token signed for one purpose never
// decodes under another.
func (t *TokenIssuer) Decode(tokenString string, purpose TokenPurpose) (string, error) {
	spec, ok := t.purposes[purpose]
	if !ok {
		return "", fmt.Errorf("invalid token purpose: %q", purpose)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return spec.secret, nil
	})
	if err != nil || !token.Valid {
		return "", NewError(KindInvalidCredential, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", NewError(KindInvalidCredential, "invalid token claims")
	}

	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", NewError(KindInvalidCredential, "invalid token claims")
	}

	return id, nil
}

// Role extracts the role claim of a decoded access token, if present.
func (t *TokenIssuer) Role(tokenString string) string {
	spec := t.purposes[TokenAccess]
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return spec.secret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if role, ok := claims["role"].(string); ok {
			return role
		}
	}
	return ""
}

// Blacklist records a raw bearer token as invalidated. Idempotent; the entry
// self-expires once the token would be unusable anyway.
func (t *TokenIssuer) Blacklist(ctx context.Context, token string) error {
	return t.redis.Set(ctx, blacklistKey(token), "1", t.blacklistTTL).Err()
}

// IsBlacklisted reports whether the token was invalidated by a logout.
func (t *TokenIssuer) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := t.redis.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}
