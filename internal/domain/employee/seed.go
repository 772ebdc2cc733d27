package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Seed creates every employee listed in the JSON array read from r. Records
// whose email is already stored are skipped. It returns how many were created.
func Seed(ctx context.Context, svc *Service, r io.Reader) (int, error) {
	var records []Employee
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	created := 0
	for _, rec := range records {
		if _, err := svc.SaveEmployee(ctx, rec); err != nil {
			if errors.Is(err, ErrDuplicateEmail) {
				continue
			}
			return created, fmt.Errorf("seed employee %s: %w", rec.Email, err)
		}
		created++
	}
	return created, nil
}
