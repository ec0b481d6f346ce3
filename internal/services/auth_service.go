package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fastx/backend/internal/models"
)

// AuthService owns the account state machine: the rules moving an account
// between unconfirmed, confirmed, locked and unlocked, and the OTP/token
// gates on each transition.
type AuthService struct {
	store  *AccountStore
	otp    *OTPManager
	tokens *TokenIssuer
	codec  *CredentialCodec
	mail   Notifier

	maxLoginAttempts int
}

func NewAuthService(store *AccountStore, otp *OTPManager, tokens *TokenIssuer,
	codec *CredentialCodec, mail Notifier, maxLoginAttempts int) *AuthService {
	return &AuthService{
		store:            store,
		otp:              otp,
		tokens:           tokens,
		codec:            codec,
		mail:             mail,
		maxLoginAttempts: maxLoginAttempts,
	}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	FirstName   string
	SurName     string
	Email       string
	Address     string
	City        string
	PhoneNumber string
	Password    string
}

// RiderInput is the vehicle profile submitted when upgrading to the rider role.
type RiderInput struct {
	VehicleType   string
	Color         string
	Model         string
	ChassisNumber string
	PlateNumber   string
	OwnedSince    time.Time
}

// AuthResult pairs an issued token with the account it belongs to.
type AuthResult struct {
	AccessToken string
	Account     models.Summary
}

// notify dispatches mail after the state change has committed. Delivery is
// best-effort; a failure is logged and never rolls the transition back.
func (s *AuthService) notify(ctx context.Context, code, email, event, name string) {
	if err := s.mail.Notify(ctx, code, email, event, name); err != nil {
		log.Printf("[AUTH] mail dispatch failed for %s: %v", email, err)
	}
}

// Register creates an unconfirmed account, issues its confirmation OTP and
// mail, and returns a confirm-purpose token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	passwordHash, err := s.codec.Hash(in.Password)
	if err != nil {
		return nil, internalError(err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Avatar:       GenerateAvatar(email),
		FirstName:    in.FirstName,
		SurName:      in.SurName,
		Email:        email,
		Address:      in.Address,
		City:         in.City,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
	}
	if err := s.store.Create(account); err != nil {
		return nil, err
	}

	code, err := s.otp.Generate()
	if err != nil {
		return nil, internalError(err)
	}
	if err := s.otp.Store(ctx, email, code); err != nil {
		return nil, internalError(err)
	}

	token, err := s.tokens.Issue(account.ID, account.Role, TokenConfirm)
	if err != nil {
		return nil, internalError(err)
	}

	s.notify(ctx, code, email, MailRegister, account.DisplayName())

	return &AuthResult{AccessToken: token, Account: account.Summarize()}, nil
}

// ResendConfirmOTP replaces the live confirmation code for a still
// unconfirmed account and re-sends the registration mail.
func (s *AuthService) ResendConfirmOTP(ctx context.Context, accountID string) (string, error) {
	account, err := s.store.FindByID(accountID)
	if err != nil {
		return "", err
	}
	if account.IsConfirmed {
		return "", NewError(KindConflict, "user already confirmed")
	}

	s.otp.Delete(ctx, account.Email)

	code, err := s.otp.Generate()
	if err != nil {
		return "", internalError(err)
	}
	if err := s.otp.Store(ctx, account.Email, code); err != nil {
		return "", internalError(err)
	}

	s.notify(ctx, code, account.Email, MailRegister, account.DisplayName())

	return "Mail sent successfully", nil
}

// ConfirmAccount moves an unconfirmed account to confirmed when the submitted
// OTP matches, deleting the consumed code.
func (s *AuthService) ConfirmAccount(ctx context.Context, accountID, code string) (*models.Summary, error) {
	account, err := s.store.FindByID(accountID)
	if err != nil {
		return nil, err
	}
	if account.IsConfirmed {
		return nil, NewError(KindConflict, "user already confirmed")
	}

	if !s.otp.Verify(ctx, code, account.Email) {
		return nil, NewError(KindInvalidCredential, "invalid OTP")
	}

	if err := s.store.SetConfirmed(account.ID); err != nil {
		return nil, err
	}
	s.otp.Delete(ctx, account.Email)

	account.IsConfirmed = true
	summary := account.Summarize()
	return &summary, nil
}

// Login verifies the password and issues an access token. Failed attempts are
// counted atomically; reaching the threshold locks the account and mails an
// unlock OTP exactly once. A locked account rejects every login, correct
// password or not.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.store.FindByEmail(email)
	if err != nil {
		var authErr *Error
		if errors.As(err, &authErr) && authErr.Kind == KindNotFound {
			return nil, NewError(KindInvalidCredential, "incorrect credentials")
		}
		return nil, err
	}

	if account.IsLocked {
		return nil, NewError(KindLocked,
			"account locked due to multiple login attempts, check your email for unlock instructions")
	}

	if !s.codec.Verify(password, account.PasswordHash) {
		return nil, s.recordFailedLogin(ctx, account)
	}

	if err := s.store.RecordLogin(account.ID); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account.ID, account.Role, TokenAccess)
	if err != nil {
		return nil, internalError(err)
	}

	return &AuthResult{AccessToken: token, Account: account.Summarize()}, nil
}

func (s *AuthService) recordFailedLogin(ctx context.Context, account *models.Account) error {
	attempts, err := s.store.IncrementLoginAttempts(account.ID)
	if err != nil {
		return err
	}

	if attempts < s.maxLoginAttempts {
		remaining := s.maxLoginAttempts - attempts
		e := NewError(KindInvalidCredential,
			fmt.Sprintf("invalid credentials, %d login attempts remaining", remaining))
		e.RemainingAttempts = remaining
		return e
	}

	code, err := s.otp.Generate()
	if err != nil {
		return internalError(err)
	}
	lockOTPHash, err := s.codec.Hash(code)
	if err != nil {
		return internalError(err)
	}

	// The conditional update fires for exactly one of any concurrent failed
	// logins, so the lock mail goes out once.
	locked, err := s.store.LockIfAttemptsReached(account.ID, lockOTPHash, s.maxLoginAttempts)
	if err != nil {
		return err
	}
	if locked {
		s.notify(ctx, code, account.Email, MailLoginAttempts, account.DisplayName())
	}

	return NewError(KindLocked,
		"account locked due to multiple login attempts, check your email for unlock instructions")
}

// RequestPasswordReset issues a reset OTP plus a reset-purpose token for a
// confirmed account and mails the code.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	account, err := s.store.FindByEmail(email)
	if err != nil {
		return "", err
	}
	if !account.IsConfirmed {
		return "", NewError(KindConflict, "email not confirmed")
	}

	code, err := s.otp.Generate()
	if err != nil {
		return "", internalError(err)
	}
	if err := s.otp.Store(ctx, account.Email, code); err != nil {
		return "", internalError(err)
	}

	token, err := s.tokens.Issue(account.ID, account.Role, TokenReset)
	if err != nil {
		return "", internalError(err)
	}

	s.notify(ctx, code, account.Email, MailForgotPassword, account.DisplayName())

	return token, nil
}

// ValidateResetOTP consumes the reset code and opens the narrow window in
// which SetNewPassword is allowed.
func (s *AuthService) ValidateResetOTP(ctx context.Context, accountID, code string) error {
	account, err := s.store.FindByID(accountID)
	if err != nil {
		return err
	}

	if !s.otp.Verify(ctx, code, account.Email) {
		return NewError(KindInvalidCredential, "invalid OTP")
	}

	if err := s.store.SetResetPending(account.ID, true); err != nil {
		return err
	}
	s.otp.Delete(ctx, account.Email)

	return nil
}

// SetNewPassword stores the new password hash. The reset window opened by
// ValidateResetOTP closes in the same statement, so a second call without a
// fresh OTP validation fails.
func (s *AuthService) SetNewPassword(ctx context.Context, accountID, newPassword string) error {
	account, err := s.store.FindByID(accountID)
	if err != nil {
		return err
	}
	if !account.ResetPending {
		return NewError(KindInvalidCredential, "OTP not verified")
	}

	passwordHash, err := s.codec.Hash(newPassword)
	if err != nil {
		return internalError(err)
	}

	return s.store.UpdatePassword(account.ID, passwordHash)
}

// ResendUnlockOTP regenerates the unlock code for a locked account and mails
// it, superseding the previous code.
func (s *AuthService) ResendUnlockOTP(ctx context.Context, email string) error {
	account, err := s.store.FindByEmail(email)
	if err != nil {
		return err
	}
	if !account.IsLocked || account.LockOTPHash == "" {
		return NewError(KindConflict, "account not locked")
	}

	code, err := s.otp.Generate()
	if err != nil {
		return internalError(err)
	}
	lockOTPHash, err := s.codec.Hash(code)
	if err != nil {
		return internalError(err)
	}

	if err := s.store.ReplaceLockOTP(account.ID, lockOTPHash); err != nil {
		return err
	}

	s.notify(ctx, code, account.Email, MailLoginAttempts, account.DisplayName())

	return nil
}

// UnlockAccount verifies the unlock OTP and returns the account to the
// confirmed state with the attempt counter cleared.
func (s *AuthService) UnlockAccount(ctx context.Context, email, code string) error {
	account, err := s.store.FindByEmail(email)
	if err != nil {
		return err
	}
	if !account.IsLocked || account.LockOTPHash == "" {
		return NewError(KindConflict, "account not locked")
	}

	if !s.codec.Verify(code, account.LockOTPHash) {
		return NewError(KindInvalidCredential, "invalid OTP")
	}

	return s.store.Unlock(account.ID)
}

// Logout blacklists the presented access token. The account record itself
// does not change.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Blacklist(ctx, token); err != nil {
		return internalError(err)
	}
	return nil
}

// GetAccount returns the caller's account summary.
func (s *AuthService) GetAccount(accountID string) (*models.Summary, error) {
	account, err := s.store.FindByID(accountID)
	if err != nil {
		return nil, err
	}
	summary := account.Summarize()
	return &summary, nil
}

// FederatedLogin consumes a verified external profile. A known subject id is
// a login; an unknown one registers a new account seeded with the provider's
// email-verified assertion. Accounts the provider did not assert as verified
// still go through the app-level OTP confirmation flow.
func (s *AuthService) FederatedLogin(ctx context.Context, profile Profile) (*AuthResult, bool, error) {
	existing, err := s.store.FindByGoogleID(profile.Subject)
	if err == nil {
		token, err := s.tokens.Issue(existing.ID, existing.Role, TokenAccess)
		if err != nil {
			return nil, false, internalError(err)
		}
		return &AuthResult{AccessToken: token, Account: existing.Summarize()}, false, nil
	}

	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindNotFound {
		return nil, false, err
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	avatar := profile.AvatarURL
	if avatar == "" {
		avatar = GenerateAvatar(email)
	}

	account := &models.Account{
		ID:          uuid.NewString(),
		Avatar:      avatar,
		FirstName:   profile.GivenName,
		SurName:     profile.FamilyName,
		Email:       email,
		Role:        models.RoleCustomer,
		IsConfirmed: profile.EmailVerified,
		GoogleID:    profile.Subject,
	}
	if err := s.store.Create(account); err != nil {
		return nil, false, err
	}

	if account.IsConfirmed {
		token, err := s.tokens.Issue(account.ID, account.Role, TokenAccess)
		if err != nil {
			return nil, false, internalError(err)
		}
		return &AuthResult{AccessToken: token, Account: account.Summarize()}, true, nil
	}

	code, err := s.otp.Generate()
	if err != nil {
		return nil, false, internalError(err)
	}
	if err := s.otp.Store(ctx, email, code); err != nil {
		return nil, false, internalError(err)
	}

	token, err := s.tokens.Issue(account.ID, account.Role, TokenConfirm)
	if err != nil {
		return nil, false, internalError(err)
	}

	s.notify(ctx, code, email, MailRegister, account.DisplayName())

	return &AuthResult{AccessToken: token, Account: account.Summarize()}, true, nil
}

// RegisterRider upgrades a confirmed account to the rider role by creating
// its delivery-partner profile.
func (s *AuthService) RegisterRider(ctx context.Context, accountID string, in RiderInput) (*models.DeliveryPartner, error) {
	account, err := s.store.FindByID(accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsConfirmed {
		return nil, NewError(KindConflict, "account not confirmed")
	}

	partner := &models.DeliveryPartner{
		ID:            uuid.NewString(),
		AccountID:     account.ID,
		VehicleType:   in.VehicleType,
		Color:         in.Color,
		Model:         in.Model,
		ChassisNumber: in.ChassisNumber,
		PlateNumber:   in.PlateNumber,
		OwnedSince:    in.OwnedSince,
	}
	if err := s.store.CreateDeliveryPartner(partner); err != nil {
		return nil, err
	}

	return partner, nil
}
