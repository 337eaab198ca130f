package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BarnaTB/employee-leave-system/internal/db"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const selectEmployee = `
	SELECT id, email, external_id, name, avatar_url, role, active, leave_balance, created_at, updated_at
	FROM employees
`

// PostgresStore persists employees in the employees table created by
// db.RunEmployeesMigration.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Employee, error) {
	return s.findOne(ctx, selectEmployee+`WHERE id = $1`, id)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	return s.findOne(ctx, selectEmployee+`WHERE LOWER(email) = LOWER($1)`, email)
}

func (s *PostgresStore) FindByExternalID(ctx context.Context, externalID string) (*Employee, error) {
	if externalID == "" {
		return nil, nil
	}
	return s.findOne(ctx, selectEmployee+`WHERE external_id = $1`, externalID)
}

func (s *PostgresStore) Save(ctx context.Context, e *Employee) (*Employee, error) {
	if e == nil {
		return nil, errors.New("employee: nil record")
	}
	saved := *e
	if saved.ID == 0 {
		return s.insert(ctx, &saved)
	}
	return s.update(ctx, &saved)
}

// insert relies on ON CONFLICT DO NOTHING so a concurrent registration of
// the same person yields no row instead of an aborted statement.
func (s *PostgresStore) insert(ctx context.Context, e *Employee) (*Employee, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO employees (email, external_id, name, avatar_url, role, active, leave_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at, updated_at
	`,
		e.Email,
		nullString(e.ExternalID),
		e.Name,
		e.AvatarURL,
		string(e.Role),
		e.Active,
		e.LeaveBalance,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, mapError("insert", err)
	}
	return e, nil
}

func (s *PostgresStore) update(ctx context.Context, e *Employee) (*Employee, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE employees
		SET email = $2,
		    external_id = $3,
		    name = $4,
		    avatar_url = $5,
		    role = $6,
		    active = $7,
		    leave_balance = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`,
		e.ID,
		e.Email,
		nullString(e.ExternalID),
		e.Name,
		e.AvatarURL,
		string(e.Role),
		e.Active,
		e.LeaveBalance,
	).Scan(&e.CreatedAt, &e.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("employee: update %d: record not found", e.ID)
	}
	if err != nil {
		return nil, mapError("update", err)
	}
	return e, nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*Employee, error) {
	var (
		e          Employee
		externalID sql.NullString
		role       string
	)

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&e.ID,
		&e.Email,
		&externalID,
		&e.Name,
		&e.AvatarURL,
		&role,
		&e.Active,
		&e.LeaveBalance,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("employee: query: %w", err)
	}

	e.ExternalID = externalID.String
	e.Role = Role(role)
	return &e, nil
}

func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return fmt.Errorf("employee: %s: %w", op, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
