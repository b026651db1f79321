package pushnotification

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/fortytwo-ai/horizon/internal/config"
	"github.com/fortytwo-ai/horizon/internal/pushsubscription"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/clog"
)

type Server struct {
	vapidEnv *config.VAPIDEnv
	repo     pushsubscription.Repository
	sender   *Sender
}

func NewServer(vapidEnv *config.VAPIDEnv, repo pushsubscription.Repository, sender *Sender) *Server {
	return &Server{
		vapidEnv: vapidEnv,
		repo:     repo,
		sender:   sender,
	}
}

func (s *Server) Mount(r chi.Router) {
	r.Get("/push/vapid-public-key", s.GetVapidPublicKey)
}

// MountAdmin registers subscription management. r must be behind the API
// key.
func (s *Server) MountAdmin(r chi.Router) {
	r.Post("/push/subscriptions", s.RegisterPushSubscription)
	r.Delete("/push/subscriptions", s.UnregisterPushSubscription)
	r.Post("/push/test", s.SendTestNotification)
}

// subscriptionRequest is the browser's PushSubscription.toJSON() plus an
// optional label.
type subscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
	Label string `json:"label"`
}

func (s *Server) GetVapidPublicKey(w http.ResponseWriter, r *http.Request) {
	if s.vapidEnv.VAPIDPublicKey == "" {
		cerr.SetNewJSONError(r.Context(), cerr.FailedPrecondition, "VAPID keys not configured", nil)
		return
	}
	cerr.SetJSONData(r.Context(), map[string]string{"publicKey": s.vapidEnv.VAPIDPublicKey})
}

func (s *Server) RegisterPushSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "Invalid request body", err)
		return
	}
	if err := validateSubscription(&req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	// Re-registering an endpoint replaces its keys.
	sub := &pushsubscription.Subscription{
		ID:        ulid.Make().String(),
		Endpoint:  req.Endpoint,
		P256dhKey: req.Keys.P256dh,
		AuthKey:   req.Keys.Auth,
		Label:     req.Label,
		CreatedAt: time.Now(),
	}
	created, err := s.repo.Save(ctx, sub)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	clog.AddAttribute(ctx, "subscription_id", sub.ID)
	if created {
		cerr.SetStatus(ctx, http.StatusCreated)
	}
	cerr.SetJSONData(ctx, sub)
}

func (s *Server) UnregisterPushSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "Invalid request body", err)
		return
	}
	if req.Endpoint == "" {
		cerr.SetJSONError(ctx, cerr.NewError(cerr.InvalidArgument, "Missing required fields", nil).
			AddViolation("endpoint", "is required"))
		return
	}
	if err := s.repo.DeleteByEndpoint(ctx, req.Endpoint); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONMessage(ctx, "Push subscription removed")
}

func (s *Server) SendTestNotification(w http.ResponseWriter, r *http.Request) {
	delivered := s.sender.SendToAll(r.Context(), &NotificationPayload{
		Title: "Horizon Test",
		Body:  "Push notifications are working!",
	})
	cerr.SetJSONData(r.Context(), map[string]int{"delivered": delivered})
}

func validateSubscription(req *subscriptionRequest) error {
	var e *cerr.Error
	check := func(field, value string) {
		if value != "" {
			return
		}
		if e == nil {
			e = cerr.NewError(cerr.InvalidArgument, "Missing required fields", nil)
		}
		e.AddViolation(field, "is required")
	}
	check("endpoint", req.Endpoint)
	check("keys.p256dh", req.Keys.P256dh)
	check("keys.auth", req.Keys.Auth)
	if e != nil {
		return e
	}
	return nil
}
