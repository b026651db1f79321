package pushnotification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fortytwo-ai/horizon/internal/eventbus"
)

const dispatcherBuffer = 64

type notifier interface {
	SendToAll(ctx context.Context, payload *NotificationPayload) int
}

// Dispatcher turns submission events into staff push notifications.
type Dispatcher struct {
	eventBus *eventbus.Bus
	sender   notifier
}

func NewDispatcher(eventBus *eventbus.Bus, sender *Sender) *Dispatcher {
	return &Dispatcher{
		eventBus: eventBus,
		sender:   sender,
	}
}

// Start blocks until ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	subID, ch := d.eventBus.Subscribe(dispatcherBuffer)
	defer d.eventBus.Unsubscribe(subID)

	slog.InfoContext(ctx, "push notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "push notification dispatcher stopped")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if payload := payloadFor(event); payload != nil {
				d.sender.SendToAll(ctx, payload)
			}
		}
	}
}

func payloadFor(event *eventbus.Event) *NotificationPayload {
	switch event.Type {
	case eventbus.TypeInquiryReceived:
		return &NotificationPayload{
			Title: "New Service Inquiry",
			Body:  fmt.Sprintf("%s asked about %s", event.Metadata["name"], event.Metadata["service_type"]),
			URL:   "/api/inquiries",
			Tag:   event.ResourceID,
		}
	case eventbus.TypeContactReceived:
		return &NotificationPayload{
			Title: "New Contact Message",
			Body:  fmt.Sprintf("%s: %s", event.Metadata["name"], event.Metadata["subject"]),
			URL:   "/api/contacts",
			Tag:   event.ResourceID,
		}
	default:
		return nil
	}
}
