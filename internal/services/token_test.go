package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastx/backend/internal/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:  "access-secret",
		ConfirmSecret: "confirm-secret",
		ResetSecret:   "reset-secret",
		AccessExpiry:  24 * time.Hour,
		ConfirmExpiry: 10 * time.Minute,
		ResetExpiry:   7 * time.Minute,
	}
}

func newTokenIssuerMock(cfg config.JWTConfig) (*TokenIssuer, redismock.ClientMock) {
	rdb, mock := redismock.NewClientMock()
	return NewTokenIssuer(rdb, cfg, 24*time.Hour), mock
}

func TestTokenIssuer_IssueAndDecode(t *testing.T) {
	issuer, _ := newTokenIssuerMock(testJWTConfig())

	for _, purpose := range []TokenPurpose{TokenAccess, TokenConfirm, TokenReset} {
		t.Run(string(purpose), func(t *testing.T) {
			token, err := issuer.Issue("acct-1", "customer", purpose)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			id, err := issuer.Decode(token, purpose)
			require.NoError(t, err)
			assert.Equal(t, "acct-1", id)
		})
	}
}

func TestTokenIssuer_PurposeIsolation(t *testing.T) {
	issuer, _ := newTokenIssuerMock(testJWTConfig())

	confirm, err := issuer.Issue("acct-1", "customer", TokenConfirm)
	require.NoError(t, err)

	for _, wrong := range []TokenPurpose{TokenAccess, TokenReset} {
		t.Run("confirm token rejected as "+string(wrong), func(t *testing.T) {
			_, err := issuer.Decode(confirm, wrong)
			require.Error(t, err)

			var svcErr *Error
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, KindInvalidCredential, svcErr.Kind)
		})
	}
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.ConfirmExpiry = -time.Minute
	issuer, _ := newTokenIssuerMock(cfg)

	token, err := issuer.Issue("acct-1", "customer", TokenConfirm)
	require.NoError(t, err)

	_, err = issuer.Decode(token, TokenConfirm)
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindInvalidCredential, svcErr.Kind)
}

func TestTokenIssuer_UnknownPurpose(t *testing.T) {
	issuer, _ := newTokenIssuerMock(testJWTConfig())

	_, err := issuer.Issue("acct-1", "customer", TokenPurpose("session"))
	assert.Error(t, err)

	_, err = issuer.Decode("whatever", TokenPurpose("session"))
	assert.Error(t, err)
}

func TestTokenIssuer_Role(t *testing.T) {
	issuer, _ := newTokenIssuerMock(testJWTConfig())

	access, err := issuer.Issue("acct-1", "rider", TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "rider", issuer.Role(access))

	// Non-access tokens carry no role claim.
	confirm, err := issuer.Issue("acct-1", "rider", TokenConfirm)
	require.NoError(t, err)
	assert.Empty(t, issuer.Role(confirm))

	assert.Empty(t, issuer.Role("garbage"))
}

func TestTokenIssuer_Blacklist(t *testing.T) {
	issuer, mock := newTokenIssuerMock(testJWTConfig())
	ctx := context.Background()

	mock.ExpectSet("blacklist:tok-123", "1", 24*time.Hour).SetVal("OK")
	require.NoError(t, issuer.Blacklist(ctx, "tok-123"))

	mock.ExpectExists("blacklist:tok-123").SetVal(1)
	listed, err := issuer.IsBlacklisted(ctx, "tok-123")
	require.NoError(t, err)
	assert.True(t, listed)

	mock.ExpectExists("blacklist:tok-456").SetVal(0)
	listed, err = issuer.IsBlacklisted(ctx, "tok-456")
	require.NoError(t, err)
	assert.False(t, listed)

	// Logging out twice overwrites the same entry; no error either time.
	mock.ExpectSet("blacklist:tok-123", "1", 24*time.Hour).SetVal("OK")
	require.NoError(t, issuer.Blacklist(ctx, "tok-123"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
