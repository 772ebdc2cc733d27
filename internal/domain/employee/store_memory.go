package employee

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps employees in process memory. The email index plays the
// role of the UNIQUE constraint the SQL backends carry.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]Employee
	byEmail map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    map[int64]Employee{},
		byEmail: map[string]int64{},
	}
}

var _ Repository = (*MemoryStore)(nil)

func (s *MemoryStore) Save(_ context.Context, emp Employee) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, taken := s.byEmail[emp.Email]; taken && owner != emp.ID {
		return Employee{}, ErrDuplicateEmail
	}

	if emp.ID == 0 {
		s.nextID++
		emp.ID = s.nextID
	} else {
		existing, ok := s.byID[emp.ID]
		if !ok {
			return Employee{}, ErrNotFound
		}
		delete(s.byEmail, existing.Email)
	}

	s.byID[emp.ID] = emp
	s.byEmail[emp.Email] = emp.ID
	return emp, nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Employee, 0, len(s.byID))
	for _, emp := range s.byID {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (Employee, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.byID[id]
	return emp, ok, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (Employee, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return Employee{}, false, nil
	}
	return s.byID[id], true, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp, ok := s.byID[id]; ok {
		delete(s.byEmail, emp.Email)
		delete(s.byID, id)
	}
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = map[int64]Employee{}
	s.byEmail = map[string]int64{}
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
