package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastx/backend/internal/config"
	"github.com/fastx/backend/internal/models"
	"github.com/fastx/backend/internal/services"
)

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, code, email, event, name string) error { return nil }

type handlerFixture struct {
	handler *AuthHandler
	db      sqlmock.Sqlmock
	redis   redismock.ClientMock
	codec   *services.CredentialCodec
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	codec := services.NewCredentialCodec(config.Argon2Config{
		Time: 1, Memory: 64 * 1024, Threads: 4, KeyLength: 32, SaltLength: 16,
	})
	otp := services.NewOTPManager(rdb, codec, config.OTPConfig{Length: 4, TTL: 5 * time.Minute})
	tokens := services.NewTokenIssuer(rdb, config.JWTConfig{
		AccessSecret:  "access-secret",
		ConfirmSecret: "confirm-secret",
		ResetSecret:   "reset-secret",
		AccessExpiry:  time.Hour,
		ConfirmExpiry: 10 * time.Minute,
		ResetExpiry:   7 * time.Minute,
	}, 24*time.Hour)
	svc := services.NewAuthService(services.NewAccountStore(db), otp, tokens, codec, noopNotifier{}, 7)

	return &handlerFixture{
		handler: NewAuthHandler(svc),
		db:      dbMock,
		redis:   redisMock,
		codec:   codec,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"firstName": `},
		{"unknown field", `{"firstName":"Jane","surName":"Doe","email":"jane@x.com","phoneNumber":"+2348012345678","password":"password1","extra":true}`},
		{"trailing second object", `{"firstName":"Jane","surName":"Doe","email":"jane@x.com","phoneNumber":"+2348012345678","password":"password1"}{}`},
		{"missing email", `{"firstName":"Jane","surName":"Doe","phoneNumber":"+2348012345678","password":"password1"}`},
		{"bad email", `{"firstName":"Jane","surName":"Doe","email":"not-an-email","phoneNumber":"+2348012345678","password":"password1"}`},
		{"phone not e164", `{"firstName":"Jane","surName":"Doe","email":"jane@x.com","phoneNumber":"08012345678","password":"password1"}`},
		{"short password", `{"firstName":"Jane","surName":"Doe","email":"jane@x.com","phoneNumber":"+2348012345678","password":"short"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newHandlerFixture(t)

			rec := postJSON(t, f.handler.Register, "/api/v1/auth/register", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			// Rejected before any store or redis interaction.
			assert.NoError(t, f.db.ExpectationsWereMet())
			assert.NoError(t, f.redis.ExpectationsWereMet())
		})
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	f := newHandlerFixture(t)

	f.db.ExpectQuery("INSERT INTO accounts").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))
	f.redis.Regexp().ExpectSet("otp:jane@x.com", `.+\$.+`, 5*time.Minute).SetVal("OK")

	body := `{"firstName":"Jane","surName":"Doe","email":"jane@x.com","phoneNumber":"+2348012345678","password":"password1"}`
	rec := postJSON(t, f.handler.Register, "/api/v1/auth/register", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "jane@x.com", resp.User.Email)
	assert.False(t, resp.User.IsConfirmed)
}

func TestAuthHandler_Login(t *testing.T) {
	accountRow := func(f *handlerFixture, password string, attempts int) *sqlmock.Rows {
		hashed, err := f.codec.Hash(password)
		if err != nil {
			panic(err)
		}
		now := time.Now()
		return sqlmock.NewRows([]string{
			"id", "avatar", "first_name", "sur_name", "email", "address", "city",
			"phone_number", "password_hash", "role", "is_confirmed", "is_locked",
			"login_attempts", "lock_otp_hash", "reset_pending", "google_id",
			"last_login", "created_at", "updated_at",
		}).AddRow(
			"acct-1", "", "Jane", "Doe", "jane@x.com", "", "",
			"+2348012345678", hashed, models.RoleCustomer, true, false,
			attempts, "", false, "",
			nil, now, now,
		)
	}

	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.db.ExpectQuery("FROM accounts WHERE email").
			WithArgs("jane@x.com").WillReturnRows(accountRow(f, "password1", 0))
		f.db.ExpectExec("SET login_attempts = 0, last_login").
			WithArgs("acct-1").WillReturnResult(sqlmock.NewResult(0, 1))

		rec := postJSON(t, f.handler.Login, "/api/v1/auth/login",
			`{"email":"jane@x.com","password":"password1"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "acct-1", resp.User.ID)
	})

	t.Run("wrong password reports remaining attempts", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.db.ExpectQuery("FROM accounts WHERE email").
			WithArgs("jane@x.com").WillReturnRows(accountRow(f, "password1", 2))
		f.db.ExpectQuery(`login_attempts = login_attempts \+ 1`).
			WithArgs("acct-1").
			WillReturnRows(sqlmock.NewRows([]string{"login_attempts"}).AddRow(3))

		rec := postJSON(t, f.handler.Login, "/api/v1/auth/login",
			`{"email":"jane@x.com","password":"password2"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp services.Error
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 4, resp.RemainingAttempts)
		assert.Contains(t, resp.Message, "4 login attempts remaining")
	})

	t.Run("locked account maps to forbidden", func(t *testing.T) {
		f := newHandlerFixture(t)

		now := time.Now()
		rows := sqlmock.NewRows([]string{
			"id", "avatar", "first_name", "sur_name", "email", "address", "city",
			"phone_number", "password_hash", "role", "is_confirmed", "is_locked",
			"login_attempts", "lock_otp_hash", "reset_pending", "google_id",
			"last_login", "created_at", "updated_at",
		}).AddRow(
			"acct-1", "", "Jane", "Doe", "jane@x.com", "", "",
			"+2348012345678", "irrelevant", models.RoleCustomer, true, true,
			7, "lock-hash", false, "",
			nil, now, now,
		)
		f.db.ExpectQuery("FROM accounts WHERE email").
			WithArgs("jane@x.com").WillReturnRows(rows)

		rec := postJSON(t, f.handler.Login, "/api/v1/auth/login",
			`{"email":"jane@x.com","password":"password1"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAuthHandler_ErrorShape(t *testing.T) {
	f := newHandlerFixture(t)

	rec := postJSON(t, f.handler.Login, "/api/v1/auth/login", `{"email":"jane@x.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fmt.Sprintf("%v", services.KindValidation), resp["kind"])
	assert.NotEmpty(t, resp["error"])
}
