package inquiry

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fortytwo-ai/horizon/internal/config"
	"github.com/fortytwo-ai/horizon/internal/eventbus"
	"github.com/fortytwo-ai/horizon/internal/mailer"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/clog"
)

// Mailer delivers rendered messages. mailer.SMTPMailer implements it.
type Mailer interface {
	Send(ctx context.Context, msgs ...*mailer.Message) error
}

// Relay validates submissions, archives them and forwards them by mail.
type Relay struct {
	mailEnv *config.MailEnv
	mailer  Mailer
	repo    Repository
	bus     *eventbus.Bus
	now     func() time.Time
}

func NewRelay(mailEnv *config.MailEnv, m Mailer, repo Repository, bus *eventbus.Bus) *Relay {
	return &Relay{
		mailEnv: mailEnv,
		mailer:  m,
		repo:    repo,
		bus:     bus,
		now:     time.Now,
	}
}

// SubmitInquiry sends the staff notification and a confirmation to the
// sender. Validation failures are returned before anything is stored or
// sent. An archive failure is logged and does not stop the mail.
func (r *Relay) SubmitInquiry(ctx context.Context, i *Inquiry) error {
	trimInquiry(i)
	if err := i.Validate(); err != nil {
		return err
	}
	i.ID = ulid.Make().String()
	i.ReceivedAt = r.now()
	clog.AddAttributes(ctx, map[string]any{
		"inquiry_id":   i.ID,
		"service_type": i.ServiceType,
	})

	if err := r.repo.CreateInquiry(ctx, i); err != nil {
		slog.WarnContext(ctx, "failed to archive inquiry", "id", i.ID, "error", err)
	}
	r.bus.PublishNew(eventbus.TypeInquiryReceived, i.ID, map[string]string{
		"name":         i.Name,
		"service_type": i.ServiceType,
	})

	staff, err := render("inquiry_staff.html", i)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", err)
	}
	confirmation, err := render("inquiry_confirmation.html", map[string]any{
		"Inquiry": i,
		"Studio":  r.mailEnv.StudioName,
	})
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", err)
	}

	return r.mailer.Send(ctx,
		&mailer.Message{
			To:      r.mailEnv.InquiryRecipient(),
			ReplyTo: i.Email,
			Subject: subject("New Service Inquiry: %s", i.ServiceType),
			HTML:    staff,
		},
		&mailer.Message{
			To:      i.Email,
			Subject: subject("Thank you for your inquiry - %s", r.mailEnv.StudioName),
			HTML:    confirmation,
		},
	)
}

// SubmitContact forwards a contact form to staff. No confirmation is sent.
func (r *Relay) SubmitContact(ctx context.Context, c *Contact) error {
	trimContact(c)
	if err := c.Validate(); err != nil {
		return err
	}
	c.ID = ulid.Make().String()
	c.ReceivedAt = r.now()
	clog.AddAttribute(ctx, "contact_id", c.ID)

	if err := r.repo.CreateContact(ctx, c); err != nil {
		slog.WarnContext(ctx, "failed to archive contact", "id", c.ID, "error", err)
	}
	r.bus.PublishNew(eventbus.TypeContactReceived, c.ID, map[string]string{
		"name":    c.Name,
		"subject": c.Subject,
	})

	body, err := render("contact_staff.html", c)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", err)
	}
	return r.mailer.Send(ctx, &mailer.Message{
		To:      r.mailEnv.ContactRecipient(),
		ReplyTo: c.Email,
		Subject: subject("Contact Form: %s", c.Subject),
		HTML:    body,
	})
}

func (r *Relay) ListInquiries(ctx context.Context) ([]*Inquiry, error) {
	return r.repo.ListInquiries(ctx)
}

func (r *Relay) ListContacts(ctx context.Context) ([]*Contact, error) {
	return r.repo.ListContacts(ctx)
}

func trimInquiry(i *Inquiry) {
	for _, s := range []*string{&i.Name, &i.Email, &i.Phone, &i.ServiceType, &i.Budget, &i.Timeline} {
		*s = strings.TrimSpace(*s)
	}
}

func trimContact(c *Contact) {
	for _, s := range []*string{&c.Name, &c.Email, &c.Subject} {
		*s = strings.TrimSpace(*s)
	}
}
