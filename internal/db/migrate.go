package db

import (
	"context"
	"database/sql"
)

const employeesMigration = `
CREATE TABLE IF NOT EXISTS employees (
    id bigserial PRIMARY KEY,
    email text NOT NULL,
    external_id text,
    name text NOT NULL DEFAULT '',
    avatar_url text NOT NULL DEFAULT '',
    role text NOT NULL DEFAULT 'USER',
    active boolean NOT NULL DEFAULT true,
    leave_balance numeric(8,2) NOT NULL DEFAULT 0,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS employees_email_lower_unique
ON employees (LOWER(email));

CREATE UNIQUE INDEX IF NOT EXISTS employees_external_id_unique
ON employees (external_id)
WHERE external_id IS NOT NULL;
`

// RunEmployeesMigration creates the employees table and its candidate-key
// indexes. It is safe to run on every start.
func RunEmployeesMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, employeesMigration)
	return err
}
