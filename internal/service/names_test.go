package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/names-api/internal/model"
	"github.com/rs/zerolog"
)

type recordingStore struct {
	inserted []model.NewName
	err      error
}

func (s *recordingStore) Count(context.Context) (int64, error) { return int64(len(s.inserted)), s.err }

func (s *recordingStore) Insert(_ context.Context, name model.NewName) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, name)
	return nil
}

func (s *recordingStore) List(context.Context) ([]model.NameRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	records := make([]model.NameRecord, 0, len(s.inserted))
	for i := len(s.inserted) - 1; i >= 0; i-- {
		records = append(records, model.NameRecord{
			Name:      s.inserted[i].Name,
			CreatedAt: model.FormatTimestamp(s.inserted[i].CreatedAt),
		})
	}
	return records, nil
}

func TestSaveStampsUTCAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	store := &recordingStore{}

	svc := NewNameService(store, &logger)
	svc.now = func() time.Time {
		return time.Date(2024, 5, 1, 14, 30, 0, 0, time.FixedZone("UTC+2", 2*60*60))
	}

	saved, err := svc.Save(context.Background(), "Ada")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(store.inserted))
	}
	if saved.CreatedAt.Location() != time.UTC {
		t.Errorf("expected UTC timestamp, got %v", saved.CreatedAt.Location())
	}
	if got := model.FormatTimestamp(saved.CreatedAt); got != "2024-05-01T12:30:00.000Z" {
		t.Errorf("unexpected created_at %q", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["message"] != "name saved" || entry["name"] != "Ada" {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestSavePrefersRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	baseLogger := zerolog.New(&base)
	requestLogger := zerolog.New(&scoped).With().Str("request_id", "req-1").Logger()

	svc := NewNameService(&recordingStore{}, &baseLogger)
	ctx := requestLogger.WithContext(context.Background())

	if _, err := svc.Save(ctx, "Ada"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if base.Len() != 0 {
		t.Errorf("expected nothing on the base logger, got %q", base.String())
	}
	if !bytes.Contains(scoped.Bytes(), []byte(`"request_id":"req-1"`)) {
		t.Errorf("expected request-scoped fields, got %q", scoped.String())
	}
}

func TestSaveStoreFailureDoesNotLog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	storeErr := errors.New("insert failed")

	svc := NewNameService(&recordingStore{err: storeErr}, &logger)

	if _, err := svc.Save(context.Background(), "Ada"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no success log, got %q", buf.String())
	}
}

func TestListNewestFirst(t *testing.T) {
	logger := zerolog.Nop()
	store := &recordingStore{}
	svc := NewNameService(store, &logger)

	clock := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for _, name := range []string{"Ada", "Grace", "Linus"} {
		if _, err := svc.Save(context.Background(), name); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}

	records, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].CreatedAt < records[i].CreatedAt {
			t.Errorf("records out of order at %d: %v", i, records)
		}
	}

	count, err := svc.Count(context.Background())
	if err != nil || count != 3 {
		t.Errorf("Count() = %d, %v; want 3", count, err)
	}
}
