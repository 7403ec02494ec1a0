package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/domain"
)

// StorageRepo implements domain.Storage on the storage table.
type StorageRepo struct {
	log zerolog.Logger
	db  *DB
}

var _ domain.Storage = (*StorageRepo)(nil)

// NewStorageRepo creates a storage repository on db. Closing the repository
// closes db.
func NewStorageRepo(log zerolog.Logger, db *DB) *StorageRepo {
	return &StorageRepo{
		log: log.With().Str("repo", "storage").Logger(),
		db:  db,
	}
}

// GetItem returns the value stored under key
func (r *StorageRepo) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	queryBuilder := r.db.squirrel.
		Select("item_value").
		From("storage").
		Where(sq.Eq{"item_key": key})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, false, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("GetItem")

	var value []byte
	if err := r.db.handler.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "error executing query")
	}

	return value, true, nil
}

// SetItem inserts or replaces the value stored under key
func (r *StorageRepo) SetItem(ctx context.Context, key string, value []byte) error {
	now := time.Now().Format(time.RFC3339)

	queryBuilder := r.db.squirrel.
		Replace("storage").
		Columns("item_key", "item_value", "updated_at").
		Values(key, value, now)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Str("key", key).Int("bytes", len(value)).Msg("SetItem")

	if _, err = r.db.handler.ExecContext(ctx, query, args...); err != nil {
		// SQLITE_FULL: the database or disk is full
		if strings.Contains(err.Error(), "database or disk is full") {
			return domain.ErrQuotaExceeded
		}
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// RemoveItem deletes key
func (r *StorageRepo) RemoveItem(ctx context.Context, key string) error {
	queryBuilder := r.db.squirrel.
		Delete("storage").
		Where(sq.Eq{"item_key": key})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building delete query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("RemoveItem")

	if _, err = r.db.handler.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing delete query")
	}

	return nil
}

// Keys returns every key with the given prefix, in key order
func (r *StorageRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	queryBuilder := r.db.squirrel.
		Select("item_key").
		From("storage").
		Where(sq.Expr("substr(item_key, 1, ?) = ?", len(prefix), prefix)).
		OrderBy("item_key")

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Keys")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return keys, nil
}

// Close closes the underlying database
func (r *StorageRepo) Close() error {
	return r.db.Close()
}
