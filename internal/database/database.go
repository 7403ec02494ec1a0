package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// FileName is the sqlite file created inside the data dir.
const FileName = "fliq.db"

// pragmas applied to every new handle. The file only holds cache entries and
// history, so NORMAL sync under WAL is enough.
var pragmas = []string{
	`PRAGMA journal_mode = wal;`,
	`PRAGMA synchronous = normal;`,
}

// DB is the sqlite file holding the storage table.
type DB struct {
	handler  *sql.DB
	log      zerolog.Logger
	lock     sync.RWMutex
	squirrel sq.StatementBuilderType
	path     string
}

// NewDB opens dir/fliq.db, creating dir and the file when missing, and brings
// the schema up to date.
func NewDB(dir string, log zerolog.Logger) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "unable to create data dir %s", dir)
	}

	db := &DB{
		log:      log.With().Str("module", "database").Logger(),
		squirrel: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		path:     filepath.Join(dir, FileName),
	}

	var err error
	db.handler, err = sql.Open("sqlite", db.path+"?_pragma=busy_timeout%3d1000")
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", db.path)
	}

	for _, p := range pragmas {
		if _, err := db.handler.Exec(p); err != nil {
			db.handler.Close()
			return nil, errors.Wrapf(err, "unable to apply %s", p)
		}
	}

	if err := db.Migrate(); err != nil {
		db.handler.Close()
		return nil, errors.Wrap(err, "failed to migrate schema")
	}

	db.log.Debug().Str("path", db.path).Msg("storage database ready")
	return db, nil
}

// Migrate brings the schema to len(storageMigrations), recorded in
// PRAGMA user_version. A file written by a newer fliq is refused.
func (db *DB) Migrate() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	from, err := db.userVersion()
	if err != nil {
		return err
	}

	to := len(storageMigrations)
	switch {
	case from == to:
		return nil
	case from > to:
		return errors.Errorf("%s has schema version %d, this build supports up to %d", db.path, from, to)
	}

	tx, err := db.handler.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if from == 0 {
		if _, err := tx.Exec(storageSchema); err != nil {
			return errors.Wrap(err, "failed to create storage table")
		}
	} else {
		for i := from; i < to; i++ {
			if storageMigrations[i] == "" {
				continue
			}
			if _, err := tx.Exec(storageMigrations[i]); err != nil {
				return errors.Wrapf(err, "failed to apply migration %d", i+1)
			}
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", to)); err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit migration")
	}

	db.log.Info().Int("from", from).Int("to", to).Msg("storage schema migrated")
	return nil
}

// Version reports the schema version stored in the file.
func (db *DB) Version() (int, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	return db.userVersion()
}

func (db *DB) userVersion() (int, error) {
	var version int
	if err := db.handler.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, errors.Wrap(err, "failed to read schema version")
	}
	return version, nil
}

// Close folds the WAL back into the main file and closes the handle.
func (db *DB) Close() error {
	if _, err := db.handler.Exec(`PRAGMA wal_checkpoint(TRUNCATE);`); err != nil {
		db.log.Debug().Err(err).Msg("wal checkpoint failed")
	}
	if _, err := db.handler.Exec(`PRAGMA optimize;`); err != nil {
		db.handler.Close()
		return errors.Wrap(err, "query planner optimization")
	}

	return db.handler.Close()
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.handler.PingContext(ctx)
}
