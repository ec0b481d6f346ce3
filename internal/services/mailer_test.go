package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMailDispatcher_Notify(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		event    string
		heading  string
		link     string
		wantsOTP bool
	}{
		{
			name:     "register",
			event:    MailRegister,
			heading:  "Account Created!",
			link:     "https://api.fastx.test/api/v1/auth/confirm",
			wantsOTP: true,
		},
		{
			name:     "forgot password",
			event:    MailForgotPassword,
			heading:  "Reset Password!",
			link:     "https://api.fastx.test/api/v1/auth/validate_otp",
			wantsOTP: true,
		},
		{
			name:     "login attempts",
			event:    MailLoginAttempts,
			heading:  "Account Locked!",
			link:     "https://api.fastx.test/api/v1/auth/unlock_account",
			wantsOTP: true,
		},
		{
			name:     "unknown event falls back",
			event:    "password party",
			heading:  "Invalid Option!",
			wantsOTP: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mailer := &MockMailer{}
			dispatcher := NewMailDispatcher(mailer, "https://api.fastx.test")

			var sent Mail
			mailer.On("Send", mock.Anything, mock.AnythingOfType("services.Mail")).
				Run(func(args mock.Arguments) { sent = args.Get(1).(Mail) }).
				Return(nil)

			err := dispatcher.Notify(ctx, "4821", "jane@x.com", tc.event, "Jane Doe")
			require.NoError(t, err)

			assert.Equal(t, "jane@x.com", sent.To)
			assert.Equal(t, "Authentication", sent.Subject)
			assert.Contains(t, sent.HTMLBody, "Hi Jane Doe")
			assert.Contains(t, sent.HTMLBody, tc.heading)
			if tc.link != "" {
				assert.Contains(t, sent.HTMLBody, tc.link)
			}
			if tc.wantsOTP {
				assert.Contains(t, sent.HTMLBody, "4821")
			} else {
				assert.NotContains(t, sent.HTMLBody, "4821")
			}

			mailer.AssertExpectations(t)
		})
	}
}

func TestGenerateAvatar(t *testing.T) {
	first := GenerateAvatar("jane@x.com")
	assert.Contains(t, first, "gravatar.com/avatar/")
	assert.Contains(t, first, "d=identicon")

	// Deterministic and case/whitespace insensitive.
	assert.Equal(t, first, GenerateAvatar(" Jane@X.com "))
	assert.NotEqual(t, first, GenerateAvatar("john@x.com"))
}
