package pushsubscription

import "context"

// Repository keeps at most one subscription per push endpoint.
type Repository interface {
	// Save stores s, replacing the keys and label of an existing subscription
	// for the same endpoint. The stored ID and CreatedAt of a replaced
	// subscription are kept and copied back into s. created reports whether
	// the endpoint was new.
	Save(ctx context.Context, s *Subscription) (created bool, err error)
	List(ctx context.Context) ([]*Subscription, error)
	FindByEndpoint(ctx context.Context, endpoint string) (*Subscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}
