package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    e.id, COALESCE(e.employee_number, ''), e.first_name, e.last_name, e.email,
    COALESCE(e.position, ''), COALESCE(e.department_id::text, ''), COALESCE(d.name, ''),
    e.status, e.created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.Position, &emp.DepartmentID, &emp.DepartmentName, &emp.Status, &emp.CreatedAt)
	return emp, err
}

// employeeWhere builds the WHERE clause for a filter; args are positional
// starting at $1.
func employeeWhere(filter EmployeeFilter) (string, []any) {
	clauses := []string{"1=1"}
	var args []any
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("e.department_id::text = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("e.status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(lower(e.first_name || ' ' || e.last_name) LIKE $%d OR lower(e.email) LIKE $%d)", n, n))
	}
	return strings.Join(clauses, " AND "), args
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, int, error) {
	where, args := employeeWhere(filter)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees e WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT %s
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE %s
    ORDER BY e.last_name, e.first_name
    LIMIT $%d OFFSET $%d
  `, employeeColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE e.id::text = $1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) ListDepartments(ctx context.Context, limit, offset int) ([]Department, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM departments").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name, COUNT(e.id), d.created_at
    FROM departments d
    LEFT JOIN employees e ON e.department_id = d.id
    GROUP BY d.id, d.name, d.created_at
    ORDER BY d.name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.EmployeeCount, &dep.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, dep)
	}
	return out, total, rows.Err()
}
