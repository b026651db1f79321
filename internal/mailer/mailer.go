package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/fortytwo-ai/horizon/internal/config"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
)

const sendTimeout = 30 * time.Second

// Message is one HTML email. From is always the configured account.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// SMTPMailer relays messages through an authenticated SMTP submission
// server. Each Send dials a new connection.
type SMTPMailer struct {
	env *config.MailEnv
}

func NewSMTPMailer(env *config.MailEnv) *SMTPMailer {
	return &SMTPMailer{env: env}
}

// Send delivers msgs over a single connection. Without credentials it fails
// with cerr.Unavailable rather than pretending to succeed.
func (m *SMTPMailer) Send(ctx context.Context, msgs ...*Message) error {
	if !m.env.Configured() {
		return cerr.NewError(cerr.Unavailable, "mail relay not configured", nil)
	}

	built := make([]*mail.Msg, 0, len(msgs))
	for _, msg := range msgs {
		b, err := m.build(msg)
		if err != nil {
			return err
		}
		built = append(built, b)
	}

	client, err := mail.NewClient(m.env.SMTPHost,
		mail.WithPort(m.env.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.env.EmailUser),
		mail.WithPassword(m.env.EmailPass),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(sendTimeout),
	)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to create smtp client: %w", err))
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, built...); err != nil {
		return cerr.NewError(cerr.Unavailable, "mail relay failed", fmt.Errorf("failed to send via %s: %w", m.env.SMTPHost, err))
	}
	slog.DebugContext(ctx, "mail sent", "count", len(built), "duration", time.Since(start))
	return nil
}

func (m *SMTPMailer) build(msg *Message) (*mail.Msg, error) {
	b := mail.NewMsg()
	if err := b.From(m.env.EmailUser); err != nil {
		return nil, cerr.NewError(cerr.FailedPrecondition, "invalid sender address", err)
	}
	if err := b.To(msg.To); err != nil {
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid recipient address", err)
	}
	if msg.ReplyTo != "" {
		if err := b.ReplyTo(msg.ReplyTo); err != nil {
			return nil, cerr.NewError(cerr.InvalidArgument, "invalid reply-to address", err)
		}
	}
	b.Subject(msg.Subject)
	b.SetDate()
	b.SetMessageID()
	b.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return b, nil
}
