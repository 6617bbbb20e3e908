package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmptyConnectionString    = errors.New("pg.empty_conn_url")
	ErrFailedToParseDBConfig    = errors.New("pg.invalid_config")
	ErrFailedToOpenDBConnection = errors.New("pg.connect_failed")
	ErrHealthcheckFailed        = errors.New("pg.unhealthy")
	ErrFailedToApplyMigrations  = errors.New("pg.migrate_failed")
	ErrMigrationsDirNotFound    = errors.New("pg.migrations_dir_not_found")
	ErrMigrationPathNotProvided = errors.New("pg.migrations_not_provided")
)

// IsNotFoundError detects pgx.ErrNoRows, including the empty result of an
// UPDATE ... RETURNING whose WHERE clause matched nothing.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError detects PostgreSQL unique constraint violations (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
