package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// Store is the PostgreSQL-backed Repository.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ Repository = (*Store)(nil)

func (s *Store) Save(ctx context.Context, emp Employee) (Employee, error) {
	if emp.ID == 0 {
		err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email)
    VALUES ($1, $2, $3)
    RETURNING id
  `, emp.FirstName, emp.LastName, emp.Email).Scan(&emp.ID)
		if err != nil {
			return Employee{}, translatePgError("insert employee", err)
		}
		return emp, nil
	}

	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1,
        last_name = $2,
        email = $3
    WHERE id = $4
  `, emp.FirstName, emp.LastName, emp.Email, emp.ID)
	if err != nil {
		return Employee{}, translatePgError("update employee", err)
	}
	if cmd.RowsAffected() == 0 {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (s *Store) FindAll(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name, last_name, email
    FROM employees
    ORDER BY id
  `)
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

func (s *Store) FindByID(ctx context.Context, id int64) (Employee, bool, error) {
	return s.findOne(ctx, `
    SELECT id, first_name, last_name, email
    FROM employees
    WHERE id = $1
  `, id)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (Employee, bool, error) {
	return s.findOne(ctx, `
    SELECT id, first_name, last_name, email
    FROM employees
    WHERE email = $1
  `, email)
}

func (s *Store) findOne(ctx context.Context, query string, arg any) (Employee, bool, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, query, arg).Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, storageError("get employee", err)
	}
	return emp, true, nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id); err != nil {
		return storageError("delete employee", err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, "DELETE FROM employees"); err != nil {
		return storageError("delete employees", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&total); err != nil {
		return 0, storageError("count employees", err)
	}
	return total, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func translatePgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateEmail
	}
	return storageError(op, err)
}
