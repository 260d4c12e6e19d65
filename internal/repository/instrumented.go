package repository

import (
	"context"
	"time"

	"github.com/deppfellow/names-api/internal/metrics"
	"github.com/deppfellow/names-api/internal/model"
)

// instrumentedStore records call counts and latency for every store call.
type instrumentedStore struct {
	next    NameStore
	metrics *metrics.Metrics
}

// Instrument wraps next so each call is observed by m. A nil m returns next.
func Instrument(next NameStore, m *metrics.Metrics) NameStore {
	if m == nil {
		return next
	}
	return &instrumentedStore{next: next, metrics: m}
}

func (s *instrumentedStore) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := s.next.Count(ctx)
	s.metrics.ObserveStoreCall("count", start, err)
	return count, err
}

func (s *instrumentedStore) Insert(ctx context.Context, name model.NewName) error {
	start := time.Now()
	err := s.next.Insert(ctx, name)
	s.metrics.ObserveStoreCall("insert", start, err)
	return err
}

func (s *instrumentedStore) List(ctx context.Context) ([]model.NameRecord, error) {
	start := time.Now()
	records, err := s.next.List(ctx)
	s.metrics.ObserveStoreCall("list", start, err)
	return records, err
}
