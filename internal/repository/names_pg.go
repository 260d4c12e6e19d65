package repository

import (
	"context"
	"time"

	"github.com/deppfellow/names-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// pgQuerier is the subset of *pgxpool.Pool used by PostgresNameRepo.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresNameRepo stores names directly in the project's database.
type PostgresNameRepo struct {
	db pgQuerier
}

func NewPostgresNameRepo(db pgQuerier) *PostgresNameRepo {
	return &PostgresNameRepo{db: db}
}

func (r *PostgresNameRepo) Count(ctx context.Context) (int64, error) {
	const q = "SELECT count(*) FROM names"

	var count int64
	if err := r.db.QueryRow(ctx, q).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count names")
	}
	return count, nil
}

func (r *PostgresNameRepo) Insert(ctx context.Context, name model.NewName) error {
	const q = "INSERT INTO names (name, created_at) VALUES ($1, $2)"

	if _, err := r.db.Exec(ctx, q, name.Name, name.CreatedAt.UTC()); err != nil {
		return errors.Wrap(err, "insert name")
	}
	return nil
}

func (r *PostgresNameRepo) List(ctx context.Context) ([]model.NameRecord, error) {
	const q = "SELECT name, created_at FROM names ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "list names")
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.NameRecord, error) {
		var (
			name      string
			createdAt time.Time
		)
		if err := row.Scan(&name, &createdAt); err != nil {
			return model.NameRecord{}, err
		}
		return model.NameRecord{Name: name, CreatedAt: model.FormatTimestamp(createdAt)}, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan names")
	}

	if records == nil {
		records = []model.NameRecord{}
	}
	return records, nil
}
