package repositoryimpl

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/fortytwo-ai/horizon/internal/pushsubscription"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/storage"
)

const subscriptionsPrefix = "push_subscriptions"

// YAMLRepository stores each subscription as one YAML file named after a
// hash of its endpoint, so lookups by endpoint never scan.
type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func endpointPath(endpoint string) string {
	sum := sha256.Sum256([]byte(endpoint))
	return subscriptionsPrefix + "/" + hex.EncodeToString(sum[:16]) + ".yaml"
}

func (r *YAMLRepository) Save(ctx context.Context, s *pushsubscription.Subscription) (bool, error) {
	existing, err := r.FindByEndpoint(ctx, s.Endpoint)
	switch {
	case err == nil:
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	case !cerr.IsCode(err, cerr.NotFound):
		return false, err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return false, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal push subscription: %w", err))
	}
	if err := r.storage.Write(ctx, endpointPath(s.Endpoint), data); err != nil {
		return false, cerr.FromStorage(cerr.StorageWrite, "push subscription", err)
	}
	return existing == nil, nil
}

// List returns subscriptions oldest first. Files that cannot be read or
// decoded are logged and skipped.
func (r *YAMLRepository) List(ctx context.Context) ([]*pushsubscription.Subscription, error) {
	paths, err := r.storage.List(ctx, subscriptionsPrefix)
	if err != nil {
		return nil, cerr.FromStorage(cerr.StorageList, "push subscriptions", err)
	}

	all := make([]*pushsubscription.Subscription, 0, len(paths))
	for _, p := range paths {
		s, err := r.read(ctx, p)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable push subscription", "path", p, "error", err)
			continue
		}
		all = append(all, s)
	}
	slices.SortStableFunc(all, func(a, b *pushsubscription.Subscription) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return all, nil
}

func (r *YAMLRepository) FindByEndpoint(ctx context.Context, endpoint string) (*pushsubscription.Subscription, error) {
	s, err := r.read(ctx, endpointPath(endpoint))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *YAMLRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	if err := r.storage.Delete(ctx, endpointPath(endpoint)); err != nil {
		return cerr.FromStorage(cerr.StorageDelete, "push subscription", err)
	}
	return nil
}

func (r *YAMLRepository) read(ctx context.Context, p string) (*pushsubscription.Subscription, error) {
	data, err := r.storage.Read(ctx, p)
	if err != nil {
		return nil, cerr.FromStorage(cerr.StorageRead, "push subscription", err)
	}
	var s pushsubscription.Subscription
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to decode %s: %w", p, err))
	}
	return &s, nil
}
