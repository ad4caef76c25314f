// Package store provides database access methods for all Growth Hub
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods taking a context.
//
// Error conventions: reads map sql.ErrNoRows to (nil, nil); public read
// paths additionally treat a missing table (database not yet initialized)
// as an empty result so the site renders an empty state instead of
// failing. Writes always surface errors.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUndefinedTable is the PostgreSQL error code raised when a query touches
// a table that does not exist yet.
const pgUndefinedTable = "42P01"

// ErrAlreadySubscribed reports a subscribe attempt for an email that
// already has an active subscription.
var ErrAlreadySubscribed = errors.New("email is already subscribed")

// schemaMissing reports whether err means the underlying table has not
// been created yet.
func schemaMissing(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
