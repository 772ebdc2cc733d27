package employee

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// SQLiteStore is the Repository used for sqlite:// URLs and throwaway test
// databases.
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

var _ Repository = (*SQLiteStore)(nil)

func (s *SQLiteStore) Save(ctx context.Context, emp Employee) (Employee, error) {
	if emp.ID == 0 {
		res, err := s.DB.ExecContext(ctx,
			`INSERT INTO employees (first_name, last_name, email) VALUES (?, ?, ?)`,
			emp.FirstName, emp.LastName, emp.Email)
		if err != nil {
			return Employee{}, translateSQLiteError("insert employee", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return Employee{}, storageError("insert employee", err)
		}
		emp.ID = id
		return emp, nil
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE employees SET first_name = ?, last_name = ?, email = ? WHERE id = ?`,
		emp.FirstName, emp.LastName, emp.Email, emp.ID)
	if err != nil {
		return Employee{}, translateSQLiteError("update employee", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return Employee{}, storageError("update employee", err)
	}
	if rows == 0 {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (s *SQLiteStore) FindAll(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, first_name, last_name, email FROM employees ORDER BY id`)
	if err != nil {
		return nil, storageError("list employees", err)
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email); err != nil {
			return nil, storageError("scan employee", err)
		}
		out = append(out, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list employees", err)
	}
	return out, nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id int64) (Employee, bool, error) {
	return s.findOne(ctx, `SELECT id, first_name, last_name, email FROM employees WHERE id = ?`, id)
}

func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (Employee, bool, error) {
	return s.findOne(ctx, `SELECT id, first_name, last_name, email FROM employees WHERE email = ?`, email)
}

func (s *SQLiteStore) findOne(ctx context.Context, query string, arg any) (Employee, bool, error) {
	var emp Employee
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, storageError("get employee", err)
	}
	return emp, true, nil
}

func (s *SQLiteStore) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id); err != nil {
		return storageError("delete employee", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM employees`); err != nil {
		return storageError("delete employees", err)
	}
	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM employees`).Scan(&total); err != nil {
		return 0, storageError("count employees", err)
	}
	return total, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func translateSQLiteError(op string, err error) error {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateEmail
	}
	return storageError(op, err)
}
