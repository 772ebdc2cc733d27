package employee

import "context"

// Repository persists employees. Lookups report absence through the boolean
// result, never through an error.
type Repository interface {
	Save(ctx context.Context, emp Employee) (Employee, error)
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id int64) (Employee, bool, error)
	FindByEmail(ctx context.Context, email string) (Employee, bool, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
