package repository

import (
	"context"

	"github.com/deppfellow/names-api/internal/lib/postgrest"
	"github.com/deppfellow/names-api/internal/model"
	"github.com/pkg/errors"
)

// RESTNameRepo stores names through the Supabase REST gateway.
type RESTNameRepo struct {
	client *postgrest.Client
}

func NewRESTNameRepo(client *postgrest.Client) *RESTNameRepo {
	return &RESTNameRepo{client: client}
}

// restNameRow is the JSON body sent on insert.
type restNameRow struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func (r *RESTNameRepo) Count(ctx context.Context) (int64, error) {
	count, err := r.client.Count(ctx, model.NamesTable)
	if err != nil {
		return 0, errors.Wrap(err, "count names")
	}
	return count, nil
}

func (r *RESTNameRepo) Insert(ctx context.Context, name model.NewName) error {
	row := restNameRow{
		Name:      name.Name,
		CreatedAt: model.FormatTimestamp(name.CreatedAt),
	}
	if err := r.client.Insert(ctx, model.NamesTable, row); err != nil {
		return errors.Wrap(err, "insert name")
	}
	return nil
}

func (r *RESTNameRepo) List(ctx context.Context) ([]model.NameRecord, error) {
	q := postgrest.Query{
		Columns:    []string{"name", "created_at"},
		OrderBy:    "created_at",
		Descending: true,
	}

	var records []model.NameRecord
	if err := r.client.Select(ctx, model.NamesTable, q, &records); err != nil {
		return nil, errors.Wrap(err, "list names")
	}

	// A JSON null decodes to a nil slice; callers always get a list.
	if records == nil {
		records = []model.NameRecord{}
	}
	return records, nil
}
