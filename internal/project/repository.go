package project

import "context"

// Repository is a read-only source of projects. List returns the source's
// default order. Get returns a cerr.NotFound error for unknown ids; any other
// error means the source itself could not be reached or understood.
type Repository interface {
	Name() string
	List(ctx context.Context) ([]*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
}
