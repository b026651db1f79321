package repositoryimpl

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mehanizm/airtable"

	"github.com/fortytwo-ai/horizon/internal/project"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
)

const (
	sortField     = "Created"
	sortDirection = "desc"
)

type sortQuery = struct {
	FieldName string
	Direction string
}

// AirtableRepository reads projects from one table of an Airtable base. It
// queries on every call; nothing is cached.
type AirtableRepository struct {
	table     *airtable.Table
	tableName string
	view      string
}

// NewAirtableRepository connects to baseID/tableName. baseURL overrides the
// public API endpoint and is meant for tests and proxies.
func NewAirtableRepository(apiKey, baseID, tableName, view, baseURL string) (*AirtableRepository, error) {
	client := airtable.NewClient(apiKey)
	if baseURL != "" {
		if err := client.SetBaseURL(baseURL); err != nil {
			return nil, fmt.Errorf("invalid airtable base url %q: %w", baseURL, err)
		}
	}
	return &AirtableRepository{
		table:     client.GetTable(baseID, tableName),
		tableName: tableName,
		view:      view,
	}, nil
}

func (r *AirtableRepository) Name() string {
	return "airtable"
}

// List returns every record of the view, newest first, following the
// pagination offset until the table is exhausted.
func (r *AirtableRepository) List(ctx context.Context) ([]*project.Project, error) {
	projects := []*project.Project{}
	offset := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, cerr.NewError(cerr.Canceled, "request canceled", err)
		}
		q := r.table.GetRecords().WithSort(sortQuery{FieldName: sortField, Direction: sortDirection})
		if r.view != "" {
			q = q.FromView(r.view)
		}
		if offset != "" {
			q = q.WithOffset(offset)
		}
		page, err := q.DoContext(ctx)
		if err != nil {
			return nil, sourceError(ctx, fmt.Errorf("failed to list airtable table %s: %w", r.tableName, err))
		}
		for _, rec := range page.Records {
			projects = append(projects, normalizeRecord(rec))
		}
		if page.Offset == "" {
			return projects, nil
		}
		offset = page.Offset
	}
}

func (r *AirtableRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	rec, err := r.table.GetRecordContext(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, cerr.NewError(cerr.NotFound, "project not found", err)
		}
		return nil, sourceError(ctx, fmt.Errorf("failed to get airtable record %s: %w", id, err))
	}
	return normalizeRecord(rec), nil
}

func normalizeRecord(rec *airtable.Record) *project.Project {
	return project.Normalize(project.RawRecord{
		ID:          rec.ID,
		CreatedTime: rec.CreatedTime,
		Fields:      rec.Fields,
	})
}

func isNotFound(err error) bool {
	var he *airtable.HTTPClientError
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}

// sourceError reports a failed request as Unavailable unless the caller's
// context ended first.
func sourceError(ctx context.Context, err error) error {
	switch ctx.Err() {
	case nil:
		return cerr.NewError(cerr.Unavailable, "project source unavailable", err)
	case context.DeadlineExceeded:
		return cerr.NewError(cerr.DeadlineExceeded, "request timed out", err)
	default:
		return cerr.NewError(cerr.Canceled, "request canceled", err)
	}
}
