package notification

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"consult-booking-backend/config"
	"consult-booking-backend/internal/model"
)

// Mailer sends the two emails of a new lead and the admin alert of a
// contact request.
type Mailer interface {
	SendLeadConfirmation(ctx context.Context, lead model.Lead) error
	SendLeadAlert(ctx context.Context, lead model.Lead) error
	SendContactAlert(ctx context.Context, contact model.Contact) error
}

// NoopMailer is used when mail is disabled.
type NoopMailer struct{}

func (NoopMailer) SendLeadConfirmation(context.Context, model.Lead) error { return nil }
func (NoopMailer) SendLeadAlert(context.Context, model.Lead) error        { return nil }
func (NoopMailer) SendContactAlert(context.Context, model.Contact) error  { return nil }

// SMTPMailer delivers through an SMTP relay with go-mail.
type SMTPMailer struct {
	host       string
	port       int
	username   string
	password   string
	fromName   string
	fromEmail  string
	adminEmail string
	timeout    time.Duration
}

// NewMailer returns the mailer matching cfg.
func NewMailer(cfg config.MailConfig) Mailer {
	if !cfg.Enabled {
		return NoopMailer{}
	}
	return &SMTPMailer{
		host:       cfg.Host,
		port:       cfg.Port,
		username:   cfg.Username,
		password:   cfg.Password,
		fromName:   cfg.FromName,
		fromEmail:  cfg.FromEmail,
		adminEmail: cfg.AdminEmail,
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// SendLeadConfirmation thanks the client and recaps the booked slot.
func (m *SMTPMailer) SendLeadConfirmation(ctx context.Context, lead model.Lead) error {
	msg, err := renderMessage(confirmationTemplate, lead)
	if err != nil {
		return err
	}
	return m.send(ctx, lead.Email, subjectConfirmation, msg, "")
}

// SendLeadAlert tells the admin a lead came in. No-op without an admin address.
func (m *SMTPMailer) SendLeadAlert(ctx context.Context, lead model.Lead) error {
	if m.adminEmail == "" {
		return nil
	}
	msg, err := renderMessage(alertTemplate, lead)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf(subjectAlertFmt, lead.FullName(), lead.QualificationScore)
	return m.send(ctx, m.adminEmail, subject, msg, lead.Email)
}

// SendContactAlert forwards a contact request to the admin. Replies go
// straight to the requester.
func (m *SMTPMailer) SendContactAlert(ctx context.Context, contact model.Contact) error {
	if m.adminEmail == "" {
		return nil
	}
	msg, err := renderContact(contact)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf(subjectContactFmt, contact.Name)
	return m.send(ctx, m.adminEmail, subject, msg, contact.Email)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject string, content renderedMessage, replyTo string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	if replyTo != "" {
		if err := msg.ReplyTo(replyTo); err != nil {
			return fmt.Errorf("smtp reply-to: %w", err)
		}
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, content.text)
	msg.AddAlternativeString(gomail.TypeTextHTML, content.html)

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(m.timeout),
	}
	if m.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.username),
			gomail.WithPassword(m.password),
		)
	}

	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
