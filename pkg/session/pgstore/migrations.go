package pgstore

import "embed"

// Migrations holds the goose migrations creating the sessions table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations passed to pg.Migrate.
const MigrationsDir = "migrations"
