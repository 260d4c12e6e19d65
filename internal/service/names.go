package service

import (
	"context"
	"time"

	"github.com/deppfellow/names-api/internal/model"
	"github.com/deppfellow/names-api/internal/repository"
	"github.com/rs/zerolog"
)

// NameService implements the three name operations on top of a NameStore.
type NameService struct {
	store  repository.NameStore
	logger *zerolog.Logger
	now    func() time.Time
}

func NewNameService(store repository.NameStore, logger *zerolog.Logger) *NameService {
	return &NameService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Count returns the exact number of stored names.
func (s *NameService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// Save stamps name with the current UTC time and stores it. name must
// already be validated and trimmed.
func (s *NameService) Save(ctx context.Context, name string) (model.NewName, error) {
	record := model.NewName{
		Name:      name,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Insert(ctx, record); err != nil {
		return model.NewName{}, err
	}

	s.loggerFor(ctx).Info().
		Str("name", record.Name).
		Str("created_at", model.FormatTimestamp(record.CreatedAt)).
		Msg("name saved")

	return record, nil
}

// List returns every stored name, newest first.
func (s *NameService) List(ctx context.Context) ([]model.NameRecord, error) {
	return s.store.List(ctx)
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (s *NameService) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}
