// Package db holds the database schema migrations.
package db

import "embed"

// Migrations contains the versioned schema migrations.
//
//go:embed migration/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations holding the sql files.
const MigrationsDir = "migration"
