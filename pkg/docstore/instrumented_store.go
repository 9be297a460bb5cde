package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InstrumentedStore counts and times every call made through it.
type InstrumentedStore struct {
	inner    Store
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewInstrumentedStore(inner Store, reg prometheus.Registerer) *InstrumentedStore {
	factory := promauto.With(reg)
	return &InstrumentedStore{
		inner: inner,
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vmconsole",
			Subsystem: "docstore",
			Name:      "operations_total",
			Help:      "Document store calls by operation, collection and result.",
		}, []string{"op", "collection", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vmconsole",
			Subsystem: "docstore",
			Name:      "operation_seconds",
			Help:      "Document store call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (s *InstrumentedStore) observe(op, collection string, start time.Time, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrPermissionDenied):
		result = "denied"
	default:
		result = "error"
	}

	s.ops.WithLabelValues(op, collection, result).Inc()
	s.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *InstrumentedStore) List(ctx context.Context, collection string) (docs []Document, err error) {
	defer func(start time.Time) { s.observe(OpList, collection, start, err) }(time.Now())
	return s.inner.List(ctx, collection)
}

func (s *InstrumentedStore) Get(ctx context.Context, collection, id string) (doc *Document, err error) {
	defer func(start time.Time) { s.observe(OpGet, collection, start, err) }(time.Now())
	return s.inner.Get(ctx, collection, id)
}

func (s *InstrumentedStore) Create(ctx context.Context, collection string, fields map[string]any) (id string, err error) {
	defer func(start time.Time) { s.observe(OpCreate, collection, start, err) }(time.Now())
	return s.inner.Create(ctx, collection, fields)
}

func (s *InstrumentedStore) Set(ctx context.Context, collection, id string, fields map[string]any) (err error) {
	defer func(start time.Time) { s.observe(OpSet, collection, start, err) }(time.Now())
	return s.inner.Set(ctx, collection, id, fields)
}

func (s *InstrumentedStore) Update(ctx context.Context, collection, id string, patch map[string]any) (err error) {
	defer func(start time.Time) { s.observe(OpUpdate, collection, start, err) }(time.Now())
	return s.inner.Update(ctx, collection, id, patch)
}

func (s *InstrumentedStore) Delete(ctx context.Context, collection, id string) (err error) {
	defer func(start time.Time) { s.observe(OpDelete, collection, start, err) }(time.Now())
	return s.inner.Delete(ctx, collection, id)
}

func (s *InstrumentedStore) Query(ctx context.Context, collection, field string, value any) (docs []Document, err error) {
	defer func(start time.Time) { s.observe(OpQuery, collection, start, err) }(time.Now())
	return s.inner.Query(ctx, collection, field, value)
}
