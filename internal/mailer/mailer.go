package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"contacts_api/internal/config"
	"contacts_api/internal/models"
)

// Mailer sends outbound notification mail.
type Mailer interface {
	SendBirthdayDigest(ctx context.Context, to string, contacts []models.Contact) error
}

// New returns a SendGrid-backed mailer, or a no-op one when no API key is
// configured so the reminder job can run in development without mail.
func New(cfg config.Mail) Mailer {
	if cfg.SendGridAPIKey == "" {
		return Noop{}
	}
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

type SendGridMailer struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

const digestSubject = "Upcoming birthdays this week"

const birthdayLayout = "January 2"

func digestBody(contacts []models.Contact) string {
	var b strings.Builder
	b.WriteString("Birthdays in the next seven days:\n\n")
	for _, c := range contacts {
		fmt.Fprintf(&b, "- %s %s on %s\n", c.FirstName, c.LastName, c.Birthday.Format(birthdayLayout))
	}
	return b.String()
}

// SendBirthdayDigest sends one plain-text digest listing the given contacts.
func (m *SendGridMailer) SendBirthdayDigest(_ context.Context, to string, contacts []models.Contact) error {
	from := sgmail.NewEmail(m.fromName, m.from)
	rcpt := sgmail.NewEmail("", to)
	body := digestBody(contacts)

	msg := sgmail.NewSingleEmail(from, digestSubject, rcpt, body, "")
	resp, err := m.client.Send(msg)
	if err != nil {
		return fmt.Errorf("send digest to %q: %w", to, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send digest to %q: sendgrid status %d", to, resp.StatusCode)
	}
	return nil
}

// Noop discards all mail. Used when mail is not configured.
type Noop struct{}

func (Noop) SendBirthdayDigest(context.Context, string, []models.Contact) error { return nil }
