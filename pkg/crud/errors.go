package crud

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vendingops/vmconsole/pkg/docstore"
)

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrNotFound         = docstore.ErrNotFound
	ErrPermissionDenied = docstore.ErrPermissionDenied
	ErrSubmitInProgress = errors.New("a submit is already in progress")
	ErrNotDrafting      = errors.New("editor has no open draft")
)

// ValidationError lists required fields that are empty and fields whose
// value is not acceptable. Nothing was sent to a store.
type ValidationError struct {
	Missing []string
	Invalid map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}

	fields := make([]string, 0, len(e.Invalid))
	for f := range e.Invalid {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Invalid[f]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

// StoreWriteError is a failed remote write. Op names the step that failed
// (create, update, delete, upload-asset, delete-asset).
type StoreWriteError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *StoreWriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s failed: %s", e.Op, e.Collection, e.Err)
	}

	return fmt.Sprintf("%s %s/%s failed: %s", e.Op, e.Collection, e.ID, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// OrphanedAssetError means a document is gone but its asset could not be
// deleted. Key still exists in the asset store.
type OrphanedAssetError struct {
	Key string
	Err error
}

func (e *OrphanedAssetError) Error() string {
	return fmt.Sprintf("asset %s left orphaned: %s", e.Key, e.Err)
}

func (e *OrphanedAssetError) Unwrap() error { return e.Err }

// PartialCascadeFailure reports the rows of a batch that did not succeed.
type PartialCascadeFailure struct {
	Op        string
	Total     int
	Succeeded int
	Failed    []RowOutcome
}

func (e *PartialCascadeFailure) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.ID)
	}

	return fmt.Sprintf("%s: %d of %d rows failed (%s)", e.Op, len(e.Failed), e.Total, strings.Join(ids, ", "))
}

func (e *PartialCascadeFailure) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}

	return errs
}

func unavailable(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
