package db

import "database/sql"

// DB wraps the shared connection pool handed to stores.
type DB struct {
	*sql.DB
}
