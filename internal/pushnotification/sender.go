package pushnotification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/sourcegraph/conc"

	"github.com/fortytwo-ai/horizon/internal/config"
	"github.com/fortytwo-ai/horizon/internal/pushsubscription"
)

const ttlSeconds = 86400

type NotificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

type Sender struct {
	vapidEnv   *config.VAPIDEnv
	repo       pushsubscription.Repository
	httpClient webpush.HTTPClient
}

func NewSender(vapidEnv *config.VAPIDEnv, repo pushsubscription.Repository) *Sender {
	return &Sender{
		vapidEnv: vapidEnv,
		repo:     repo,
	}
}

// SendToAll pushes payload to every stored subscription in parallel and
// returns how many push services accepted it. Expired subscriptions are
// removed.
func (s *Sender) SendToAll(ctx context.Context, payload *NotificationPayload) int {
	if !s.vapidEnv.Configured() {
		slog.WarnContext(ctx, "push notification: VAPID keys not configured, skipping")
		return 0
	}

	subs, err := s.repo.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "push notification: failed to list subscriptions", "error", err)
		return 0
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(ctx, "push notification: failed to marshal payload", "error", err)
		return 0
	}

	var (
		wg        conc.WaitGroup
		delivered atomic.Int64
	)
	for _, sub := range subs {
		wg.Go(func() {
			if s.sendToSubscription(ctx, sub, data) {
				delivered.Add(1)
			}
		})
	}
	if r := wg.WaitAndRecover(); r != nil {
		slog.ErrorContext(ctx, "push notification: sender panicked", "error", r.AsError())
	}
	return int(delivered.Load())
}

func (s *Sender) sendToSubscription(ctx context.Context, sub *pushsubscription.Subscription, data []byte) bool {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, data, wpSub, &webpush.Options{
		HTTPClient:      s.httpClient,
		VAPIDPublicKey:  s.vapidEnv.VAPIDPublicKey,
		VAPIDPrivateKey: s.vapidEnv.VAPIDPrivateKey,
		Subscriber:      s.vapidEnv.VAPIDContact,
		TTL:             ttlSeconds,
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		slog.ErrorContext(ctx, "push notification: failed to send", "endpoint", sub.Endpoint, "error", err)
		return false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		slog.InfoContext(ctx, "push notification: subscription expired, removing", "endpoint", sub.Endpoint)
		if err := s.repo.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
			slog.ErrorContext(ctx, "push notification: failed to delete expired subscription", "id", sub.ID, "error", err)
		}
		return false
	case resp.StatusCode >= http.StatusBadRequest:
		slog.WarnContext(ctx, "push notification: unexpected status", "endpoint", sub.Endpoint, "status", resp.StatusCode)
		return false
	}
	return true
}
