package employee

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

type Service struct {
	store  Repository
	logger zerolog.Logger
}

func NewService(store Repository, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger.With().Str("component", "employee_service").Logger()}
}

// SaveEmployee creates a new employee. The email pre-check rejects the common
// case; the store's unique constraint catches concurrent creates that both
// pass it.
func (s *Service) SaveEmployee(ctx context.Context, emp Employee) (Employee, error) {
	_, exists, err := s.store.FindByEmail(ctx, emp.Email)
	if err != nil {
		return Employee{}, err
	}
	if exists {
		s.logger.Debug().Str("email", emp.Email).Msg("employee email already registered")
		return Employee{}, ErrDuplicateEmail
	}

	emp.ID = 0
	saved, err := s.store.Save(ctx, emp)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			s.logger.Debug().Str("email", emp.Email).Msg("employee email taken by concurrent create")
		}
		return Employee{}, err
	}
	s.logger.Debug().Int64("id", saved.ID).Msg("employee created")
	return saved, nil
}

func (s *Service) GetAllEmployees(ctx context.Context) ([]Employee, error) {
	return s.store.FindAll(ctx)
}

func (s *Service) GetEmployeeByID(ctx context.Context, id int64) (Employee, bool, error) {
	return s.store.FindByID(ctx, id)
}

// UpdateEmployee overwrites every field but the id. Callers confirm the
// employee exists first.
func (s *Service) UpdateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	updated, err := s.store.Save(ctx, emp)
	if err != nil {
		return Employee{}, err
	}
	s.logger.Debug().Int64("id", updated.ID).Msg("employee updated")
	return updated, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Debug().Int64("id", id).Msg("employee deleted")
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
