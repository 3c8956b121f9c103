// Package sqlxdb persists courses and users in a SQLite file via sqlx.
package sqlxdb

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // driver name is "sqlite"

	"github.com/trezcool/darasa/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS course (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	category     TEXT NOT NULL,
	difficulty   TEXT NOT NULL,
	instructor   TEXT NOT NULL,
	duration     REAL NOT NULL,
	price        REAL NOT NULL DEFAULT 0,
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS "user" (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	roles         TEXT NOT NULL DEFAULT '',
	password_hash BLOB,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL,
	last_login    TIMESTAMP
);
`

// Open connects to the SQLite database named in the config and bootstraps
// the schema.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", conf.Database.Name)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// the driver serializes writes; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "bootstrapping schema")
	}
	return db, nil
}

// transportFailure folds a driver error into core.ErrTransportFailure so
// callers can tell infrastructure faults apart from not-found.
func transportFailure(err error, op string) error {
	return errors.Wrapf(core.ErrTransportFailure, "%s: %v", op, err)
}
