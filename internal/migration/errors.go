package migration

import "errors"

var (
	// ErrSourceUnavailable means there is nothing to migrate. Run treats it
	// as success.
	ErrSourceUnavailable = errors.New("source store unavailable")

	ErrConnectivity        = errors.New("connectivity error")
	ErrSchema              = errors.New("schema error")
	ErrDestinationNotEmpty = errors.New("destination not empty")
	ErrMigration           = errors.New("migration failed")
)
