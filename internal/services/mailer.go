package services

import (
	"bytes"
	"context"
	"html/template"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mail event kinds. An unknown kind renders the generic invalid-option notice
// instead of failing, so a caller typo never blocks the surrounding
// transition; the dispatcher logs it as a defect.
const (
	MailRegister       = "register"
	MailForgotPassword = "forgot password"
	MailLoginAttempts  = "login attempts"
)

// Mail is a rendered transactional message.
type Mail struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers a rendered message. Delivery is best-effort from the auth
// service's perspective.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// Notifier composes and sends the transactional mail for an auth event.
type Notifier interface {
	Notify(ctx context.Context, code, email, event, name string) error
}

type mailContent struct {
	Name     string
	Heading  string
	Intro    string
	OTP      string
	LinkURL  string
	LinkText string
	Outro    string
}

var mailTemplate = template.Must(template.New("mail").Parse(`<html><body>
<p>Hi {{.Name}},</p>
<h2>{{.Heading}}</h2>
<p>{{.Intro}}</p>
{{if .OTP}}<p>Here is your OTP: <b>{{.OTP}}</b></p>{{end}}
{{if .LinkURL}}<p>Click this link to <a href="{{.LinkURL}}">{{.LinkText}}</a>.</p>{{end}}
<p>{{.Outro}}</p>
</body></html>`))

// MailDispatcher renders event mail bodies on top of a Mailer.
type MailDispatcher struct {
	mailer  Mailer
	baseURL string
}

func NewMailDispatcher(mailer Mailer, baseURL string) *MailDispatcher {
	return &MailDispatcher{mailer: mailer, baseURL: baseURL}
}

// Notify builds the body for the given event kind and hands it off.
func (d *MailDispatcher) Notify(ctx context.Context, code, email, event, name string) error {
	content := mailContent{
		Name:  name,
		OTP:   code,
		Outro: "Please, if you did not request this email, ignore it.",
	}

	switch event {
	case MailRegister:
		content.Heading = "Account Created!"
		content.Intro = "Congratulations! Your account has been successfully created."
		content.LinkURL = d.baseURL + "/api/v1/auth/confirm"
		content.LinkText = "Verify Account"
	case MailForgotPassword:
		content.Heading = "Reset Password!"
		content.Intro = "We received a request to reset your password."
		content.LinkURL = d.baseURL + "/api/v1/auth/validate_otp"
		content.LinkText = "Verify OTP"
	case MailLoginAttempts:
		content.Heading = "Account Locked!"
		content.Intro = "We detected multiple failed login attempts on your account. " +
			"To unlock it, visit the Unlock Account page and enter your email address and OTP."
		content.LinkURL = d.baseURL + "/api/v1/auth/unlock_account"
		content.LinkText = "Unlock Account"
	default:
		log.Printf("[MAIL] unknown mail event %q for %s", event, email)
		content.Heading = "Invalid Option!"
		content.Intro = "Please note that the option you selected is invalid."
		content.OTP = ""
		content.Outro = "Kindly visit the correct URL."
	}

	var body bytes.Buffer
	if err := mailTemplate.Execute(&body, content); err != nil {
		return err
	}

	return d.mailer.Send(ctx, Mail{
		To:       email,
		Subject:  "Authentication",
		HTMLBody: body.String(),
	})
}

// SESMailer delivers mail through AWS SES.
type SESMailer struct {
	client *ses.Client
	sender string
}

func NewSESMailer(client *ses.Client, sender string) *SESMailer {
	return &SESMailer{client: client, sender: sender}
}

func (m *SESMailer) Send(ctx context.Context, mail Mail) error {
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{mail.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(mail.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(mail.HTMLBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})
	return err
}
