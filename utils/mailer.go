package utils

import (
	"context"
	"fmt"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"smartwiz/config"
)

// Message is a plain-text email
type Message struct {
	From     string
	To       string
	Subject  string
	TextBody string
}

// Mailer delivers a single message. Implementations make one attempt and
// never retry.
type Mailer interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// NewMailer builds the transport selected by cfg.Transport
func NewMailer(cfg config.MailConfig) (Mailer, error) {
	switch cfg.Transport {
	case "", config.TransportSMTP:
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass), nil
	case config.TransportPostmark:
		if cfg.PostmarkToken == "" {
			return nil, fmt.Errorf("POSTMARK_API_TOKEN is not set in environment variables")
		}
		return NewPostmarkMailer(cfg.PostmarkToken), nil
	case config.TransportSendgrid:
		if cfg.SendgridKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
		}
		return NewSendgridMailer(cfg.SendgridKey), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}

// SMTPMailer sends mail through an SMTP server. Port 465 uses implicit TLS.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, pass)}
}

func (m *SMTPMailer) Name() string { return config.TransportSMTP }

// Send dials the server and delivers msg. The dial is bounded by gomail's
// own timeout; ctx is only checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.TextBody)
	return m.dialer.DialAndSend(gm)
}

// PostmarkMailer sends mail through the Postmark API
type PostmarkMailer struct {
	client *postmark.Client
}

func NewPostmarkMailer(serverToken string) *PostmarkMailer {
	return &PostmarkMailer{client: postmark.NewClient(serverToken, "")}
}

func (m *PostmarkMailer) Name() string { return config.TransportPostmark }

func (m *PostmarkMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.client.SendEmail(postmark.Email{
		From:     msg.From,
		To:       msg.To,
		Subject:  msg.Subject,
		TextBody: msg.TextBody,
	})
	return err
}

// SendgridMailer sends mail through the SendGrid v3 API
type SendgridMailer struct {
	client *sendgrid.Client
}

func NewSendgridMailer(apiKey string) *SendgridMailer {
	return &SendgridMailer{client: sendgrid.NewSendClient(apiKey)}
}

func (m *SendgridMailer) Name() string { return config.TransportSendgrid }

func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	email := sgmail.NewSingleEmail(
		sgmail.NewEmail("", msg.From),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		msg.TextBody,
		"",
	)
	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
