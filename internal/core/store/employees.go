package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/staffsearch/staffsearch/internal/core"
)

const employeeColumns = `id, first_name, last_name, email, phone, department, position, location, status`

// likeEscaper escapes LIKE wildcards so filter values match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// AddEmployee inserts a new employee.
func (s *Store) AddEmployee(ctx context.Context, emp core.Employee) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if err := emp.Validate(); err != nil {
		return err
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, emp.ID, emp.FirstName, emp.LastName,
		nullString(emp.Email), nullString(emp.Phone), nullString(emp.Department),
		nullString(emp.Position), nullString(emp.Location), string(emp.Status))
	if err != nil {
		return fmt.Errorf("insert employee %s: %w", emp.ID, err)
	}
	return nil
}

// UpsertEmployees inserts or replaces employees in a single transaction.
func (s *Store) UpsertEmployees(ctx context.Context, employees []core.Employee) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			phone = excluded.phone,
			department = excluded.department,
			position = excluded.position,
			location = excluded.location,
			status = excluded.status
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close() // nolint:errcheck // best-effort cleanup

	for i := range employees {
		emp := employees[i]
		if err := emp.Validate(); err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, emp.ID, emp.FirstName, emp.LastName,
			nullString(emp.Email), nullString(emp.Phone), nullString(emp.Department),
			nullString(emp.Position), nullString(emp.Location), string(emp.Status)); err != nil {
			return 0, fmt.Errorf("upsert employee %s: %w", emp.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return len(employees), nil
}

// GetEmployee returns the employee with id, or nil when absent.
func (s *Store) GetEmployee(ctx context.Context, id string) (*core.Employee, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch employee %s: %w", id, err)
	}
	return emp, nil
}

// ListEmployees returns every employee ordered by id.
func (s *Store) ListEmployees(ctx context.Context) ([]core.Employee, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	return collectEmployees(rows)
}

// CountEmployees returns the number of stored employees.
func (s *Store) CountEmployees(ctx context.Context) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return total, nil
}

// ClearEmployees deletes every employee and returns the number removed.
func (s *Store) ClearEmployees(ctx context.Context) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM employees`)
	if err != nil {
		return 0, fmt.Errorf("clear employees: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

// SearchEmployees returns one page of employees matching the query and the total
// number of matches before pagination.
func (s *Store) SearchEmployees(ctx context.Context, query core.SearchQuery) (*core.SearchResult, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if err := query.Normalize(); err != nil {
		return nil, err
	}

	where, args := buildSearchWhere(query.Filters)

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	pageArgs := append(append([]any{}, args...), query.Limit, query.Offset)
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees`+where+` ORDER BY id LIMIT ? OFFSET ?`,
		pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, err
	}

	return &core.SearchResult{Employees: employees, Total: total}, nil
}

// buildSearchWhere renders the WHERE clause for filters. Column names come from a
// fixed list; user values only ever travel as bind arguments.
func buildSearchWhere(f core.SearchFilters) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	partial := []struct {
		column string
		value  string
	}{
		{"first_name", f.FirstName},
		{"last_name", f.LastName},
		{"department", f.Department},
		{"position", f.Position},
		{"location", f.Location},
	}
	for _, p := range partial {
		if p.value == "" {
			continue
		}
		// LIKE is case-insensitive for ASCII in SQLite
		conditions = append(conditions, p.column+` LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(p.value)+"%")
	}

	if f.Status != "" {
		conditions = append(conditions, `status = ?`)
		args = append(args, string(f.Status))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*core.Employee, error) {
	var emp core.Employee
	var email, phone, department, position, location sql.NullString
	var status string
	if err := row.Scan(&emp.ID, &emp.FirstName, &emp.LastName,
		&email, &phone, &department, &position, &location, &status); err != nil {
		return nil, err
	}
	emp.Email = fromNullString(email)
	emp.Phone = fromNullString(phone)
	emp.Department = fromNullString(department)
	emp.Position = fromNullString(position)
	emp.Location = fromNullString(location)
	emp.Status = core.Status(status)
	return &emp, nil
}

func collectEmployees(rows *sql.Rows) ([]core.Employee, error) {
	employees := make([]core.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
