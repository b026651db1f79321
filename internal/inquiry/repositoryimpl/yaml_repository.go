package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/fortytwo-ai/horizon/internal/inquiry"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/storage"
)

const (
	inquiriesPrefix = "inquiries"
	contactsPrefix  = "contacts"
)

// YAMLRepository keeps one YAML file per submission. ulid ids make the
// file names sort by arrival.
type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(prefix, id string) string {
	return fmt.Sprintf("%s/%s.yaml", prefix, id)
}

func (r *YAMLRepository) CreateInquiry(ctx context.Context, i *inquiry.Inquiry) error {
	return create(ctx, r.storage, path(inquiriesPrefix, i.ID), "inquiry", i)
}

func (r *YAMLRepository) CreateContact(ctx context.Context, c *inquiry.Contact) error {
	return create(ctx, r.storage, path(contactsPrefix, c.ID), "contact", c)
}

func (r *YAMLRepository) ListInquiries(ctx context.Context) ([]*inquiry.Inquiry, error) {
	return list[inquiry.Inquiry](ctx, r.storage, inquiriesPrefix)
}

func (r *YAMLRepository) ListContacts(ctx context.Context) ([]*inquiry.Contact, error) {
	return list[inquiry.Contact](ctx, r.storage, contactsPrefix)
}

func create(ctx context.Context, s storage.Storage, p, kind string, v any) error {
	exists, err := s.Exists(ctx, p)
	if err != nil {
		return cerr.FromStorage(cerr.StorageWrite, kind, err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, kind+" already exists", nil)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal %s: %w", kind, err))
	}
	if err := s.Write(ctx, p, data); err != nil {
		return cerr.FromStorage(cerr.StorageWrite, kind, err)
	}
	return nil
}

// list returns every readable entry under prefix, newest first. Unreadable
// files are skipped.
func list[T any](ctx context.Context, s storage.Storage, prefix string) ([]*T, error) {
	paths, err := s.List(ctx, prefix)
	if err != nil {
		return nil, cerr.FromStorage(cerr.StorageList, prefix, err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	out := make([]*T, 0, len(paths))
	for _, p := range paths {
		data, err := s.Read(ctx, p)
		if err != nil {
			continue
		}
		var v T
		if err := yaml.Unmarshal(data, &v); err != nil {
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}
