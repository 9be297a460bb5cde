package crud

import (
	"context"
	"sort"

	"github.com/sourcegraph/conc/pool"
)

// DefaultBatchConcurrency bounds the remote calls a batch has in flight.
const DefaultBatchConcurrency = 8

type BatchStatus string

const (
	BatchComplete BatchStatus = "complete"
	BatchPartial  BatchStatus = "partial"
	BatchFailed   BatchStatus = "failed"
)

// RowOutcome is the result for one row of a batch. AssetErr is set when the
// row's document write succeeded but its asset could not be deleted.
type RowOutcome struct {
	ID       string `json:"id"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
	AssetErr error  `json:"-"`
}

func (o RowOutcome) OK() bool { return o.Err == nil }

// BatchResult collects one outcome per row. Rows run concurrently, so
// Outcomes is sorted by id rather than by completion.
type BatchResult struct {
	Op       string       `json:"op"`
	Outcomes []RowOutcome `json:"outcomes"`
}

func (b BatchResult) Status() BatchStatus {
	failed := len(b.Failed())
	switch {
	case failed == 0:
		return BatchComplete
	case failed == len(b.Outcomes):
		return BatchFailed
	default:
		return BatchPartial
	}
}

func (b BatchResult) Succeeded() []string {
	var ids []string
	for _, o := range b.Outcomes {
		if o.OK() {
			ids = append(ids, o.ID)
		}
	}

	return ids
}

func (b BatchResult) Failed() []RowOutcome {
	var failed []RowOutcome
	for _, o := range b.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}

	return failed
}

// Err is nil for a complete batch and a *PartialCascadeFailure otherwise.
func (b BatchResult) Err() error {
	failed := b.Failed()
	if len(failed) == 0 {
		return nil
	}

	return &PartialCascadeFailure{
		Op:        b.Op,
		Total:     len(b.Outcomes),
		Succeeded: len(b.Outcomes) - len(failed),
		Failed:    failed,
	}
}

// RunBatch calls fn for every id with at most limit calls in flight. A
// failing row does not stop the others.
func RunBatch(ctx context.Context, op string, ids []string, limit int, fn func(ctx context.Context, id string) RowOutcome) BatchResult {
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	p := pool.NewWithResults[RowOutcome]().WithMaxGoroutines(limit)
	for _, id := range ids {
		p.Go(func() RowOutcome {
			out := fn(ctx, id)
			out.ID = id
			if out.Err != nil {
				out.Error = out.Err.Error()
			}
			return out
		})
	}

	outcomes := p.Wait()
	if outcomes == nil {
		outcomes = []RowOutcome{}
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].ID < outcomes[j].ID })

	return BatchResult{Op: op, Outcomes: outcomes}
}
