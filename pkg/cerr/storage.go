package cerr

import (
	"errors"
	"fmt"

	"github.com/fortytwo-ai/horizon/pkg/storage"
)

// StorageOp names the storage call that failed, for the wrapped cause.
type StorageOp string

const (
	StorageRead   StorageOp = "read"
	StorageWrite  StorageOp = "write"
	StorageDelete StorageOp = "delete"
	StorageList   StorageOp = "list"
)

// FromStorage turns a storage failure into a coded error. A missing path is
// NotFound "<target> not found"; every other failure is hidden behind an
// Internal "server error" whose cause keeps op and target for the log.
func FromStorage(op StorageOp, target string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return NewError(NotFound, target+" not found", err)
	}
	return NewError(Internal, "server error", fmt.Errorf("failed to %s %s: %w", op, target, err))
}
