package services

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"github.com/fastx/backend/internal/models"
)

const uniqueViolation = "23505"

const accountColumns = `id, avatar, first_name, sur_name, email,
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(phone_number, ''),
	COALESCE(password_hash, ''), role, is_confirmed, is_locked, login_attempts,
	COALESCE(lock_otp_hash, ''), reset_pending, COALESCE(google_id, ''),
	last_login, created_at, updated_at`

// AccountStore is the persistence layer for accounts and delivery-partner
// profiles. Lockout bookkeeping uses single-statement conditional updates so
// concurrent failed logins cannot lose or double-fire the lock transition.
type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Create inserts a new account. Duplicate email or phone surfaces as a
// Conflict error; no row is written in that case.
func (s *AccountStore) Create(a *models.Account) error {
	err := s.db.QueryRow(`
		INSERT INTO accounts (id, avatar, first_name, sur_name, email, address, city,
			phone_number, password_hash, role, is_confirmed, google_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''),
			NULLIF($9, ''), $10, $11, NULLIF($12, ''))
		RETURNING created_at, updated_at`,
		a.ID, a.Avatar, a.FirstName, a.SurName, strings.ToLower(a.Email), a.Address,
		a.City, a.PhoneNumber, a.PasswordHash, a.Role, a.IsConfirmed, a.GoogleID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return NewError(KindConflict, "email or phone number already registered")
		}
		return internalError(err)
	}
	return nil
}

func (s *AccountStore) FindByID(id string) (*models.Account, error) {
	return s.findOne(`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (s *AccountStore) FindByEmail(email string) (*models.Account, error) {
	return s.findOne(`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, strings.ToLower(email))
}

func (s *AccountStore) FindByGoogleID(googleID string) (*models.Account, error) {
	return s.findOne(`SELECT `+accountColumns+` FROM accounts WHERE google_id = $1`, googleID)
}

func (s *AccountStore) findOne(query string, arg any) (*models.Account, error) {
	var a models.Account
	var lastLogin sql.NullTime

	err := s.db.QueryRow(query, arg).Scan(
		&a.ID, &a.Avatar, &a.FirstName, &a.SurName, &a.Email, &a.Address, &a.City,
		&a.PhoneNumber, &a.PasswordHash, &a.Role, &a.IsConfirmed, &a.IsLocked,
		&a.LoginAttempts, &a.LockOTPHash, &a.ResetPending, &a.GoogleID,
		&lastLogin, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, NewError(KindNotFound, "user not found")
	}
	if err != nil {
		return nil, internalError(err)
	}

	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return &a, nil
}

// IncrementLoginAttempts bumps the failed-login counter in one atomic
// round trip and returns the new value.
func (s *AccountStore) IncrementLoginAttempts(id string) (int, error) {
	var attempts int
	err := s.db.QueryRow(`
		UPDATE accounts SET login_attempts = login_attempts + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING login_attempts`, id).Scan(&attempts)
	if err != nil {
		return 0, internalError(err)
	}
	return attempts, nil
}

// LockIfAttemptsReached flips the account into the locked state, storing the
// hashed unlock OTP. The guard on login_attempts and is_locked makes the
// transition fire exactly once under concurrent failures; the return value
// reports whether this caller won the transition.
func (s *AccountStore) LockIfAttemptsReached(id, lockOTPHash string, threshold int) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE accounts SET is_locked = true, lock_otp_hash = $2, updated_at = NOW()
		WHERE id = $1 AND login_attempts >= $3 AND is_locked = false`,
		id, lockOTPHash, threshold)
	if err != nil {
		return false, internalError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, internalError(err)
	}
	return n > 0, nil
}

// RecordLogin resets the failed-login counter and stamps last_login.
func (s *AccountStore) RecordLogin(id string) error {
	return s.exec(`
		UPDATE accounts SET login_attempts = 0, last_login = NOW(), updated_at = NOW()
		WHERE id = $1`, id)
}

// SetConfirmed marks the account's email as confirmed.
func (s *AccountStore) SetConfirmed(id string) error {
	return s.exec(`
		UPDATE accounts SET is_confirmed = true, updated_at = NOW()
		WHERE id = $1`, id)
}

// SetResetPending opens or closes the window between reset-OTP validation and
// the password change.
func (s *AccountStore) SetResetPending(id string, pending bool) error {
	return s.exec(`
		UPDATE accounts SET reset_pending = $2, updated_at = NOW()
		WHERE id = $1`, id, pending)
}

// UpdatePassword stores the new hash and closes the reset window in the same
// statement, so the pending flag can never survive a password change.
func (s *AccountStore) UpdatePassword(id, passwordHash string) error {
	return s.exec(`
		UPDATE accounts SET password_hash = $2, reset_pending = false, updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
}

// ReplaceLockOTP swaps in a fresh hashed unlock code for a locked account.
func (s *AccountStore) ReplaceLockOTP(id, lockOTPHash string) error {
	return s.exec(`
		UPDATE accounts SET lock_otp_hash = $2, updated_at = NOW()
		WHERE id = $1 AND is_locked = true`, id, lockOTPHash)
}

// Unlock returns a locked account to the confirmed state, clearing the unlock
// secret and the attempt counter together.
func (s *AccountStore) Unlock(id string) error {
	return s.exec(`
		UPDATE accounts SET is_locked = false, lock_otp_hash = NULL, login_attempts = 0,
			updated_at = NOW()
		WHERE id = $1`, id)
}

// CreateDeliveryPartner inserts the rider profile and flips the account role
// in one transaction.
func (s *AccountStore) CreateDeliveryPartner(p *models.DeliveryPartner) error {
	tx, err := s.db.Begin()
	if err != nil {
		return internalError(err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO delivery_partners (id, account_id, availability, vehicle_type,
			color, model, chassis_number, plate_number, owned_since)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		p.ID, p.AccountID, p.Availability, p.VehicleType, p.Color, p.Model,
		p.ChassisNumber, p.PlateNumber, p.OwnedSince,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return NewError(KindConflict, "delivery partner profile already exists")
		}
		return internalError(err)
	}

	if _, err := tx.Exec(`
		UPDATE accounts SET role = $2, updated_at = NOW()
		WHERE id = $1`, p.AccountID, models.RoleRider); err != nil {
		return internalError(err)
	}

	if err := tx.Commit(); err != nil {
		return internalError(err)
	}
	return nil
}

func (s *AccountStore) exec(query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return internalError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return internalError(err)
	}
	if n == 0 {
		return NewError(KindNotFound, "user not found")
	}
	return nil
}
