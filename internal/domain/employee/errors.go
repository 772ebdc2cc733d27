package employee

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("employee not found")
	ErrDuplicateEmail = errors.New("employee email already exists")
	ErrStorage        = errors.New("employee storage failure")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
