package store

import (
	"context"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		department TEXT,
		position TEXT,
		location TEXT,
		status TEXT NOT NULL DEFAULT 'ACTIVE'
	);`,
	`CREATE INDEX IF NOT EXISTS idx_employees_first_name ON employees(first_name);`,
	`CREATE INDEX IF NOT EXISTS idx_employees_last_name ON employees(last_name);`,
	`CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department);`,
	`CREATE INDEX IF NOT EXISTS idx_employees_position ON employees(position);`,
	`CREATE INDEX IF NOT EXISTS idx_employees_location ON employees(location);`,
	`CREATE INDEX IF NOT EXISTS idx_employees_status ON employees(status);`,
	`CREATE INDEX IF NOT EXISTS idx_name_full ON employees(first_name, last_name);`,
	`CREATE INDEX IF NOT EXISTS idx_dept_position ON employees(department, position);`,
	`CREATE INDEX IF NOT EXISTS idx_location_status ON employees(location, status);`,
}

// Migrate ensures the required database tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}

	return nil
}
