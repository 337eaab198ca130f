package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps employees in process memory. It enforces the same
// candidate-key uniqueness as the employees table, so it can stand in for
// PostgreSQL in local runs and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	records    map[int64]Employee
	byEmail    map[string]int64
	byExternal map[string]int64
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:    make(map[int64]Employee),
		byEmail:    make(map[string]int64),
		byExternal: make(map[string]int64),
		now:        time.Now,
	}
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id, true), nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[emailKey(email)]
	return s.get(id, ok), nil
}

func (s *MemoryStore) FindByExternalID(_ context.Context, externalID string) (*Employee, error) {
	if externalID == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byExternal[externalID]
	return s.get(id, ok), nil
}

func (s *MemoryStore) Save(_ context.Context, e *Employee) (*Employee, error) {
	if e == nil {
		return nil, errors.New("employee: nil record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *e
	var prev Employee
	if rec.ID != 0 {
		var ok bool
		prev, ok = s.records[rec.ID]
		if !ok {
			return nil, fmt.Errorf("employee: update %d: record not found", rec.ID)
		}
	}

	if id, ok := s.byEmail[emailKey(rec.Email)]; ok && id != rec.ID {
		return nil, ErrDuplicate
	}
	if rec.ExternalID != "" {
		if id, ok := s.byExternal[rec.ExternalID]; ok && id != rec.ID {
			return nil, ErrDuplicate
		}
	}

	now := s.now()
	if rec.ID == 0 {
		s.nextID++
		rec.ID = s.nextID
		rec.CreatedAt = now
	} else {
		rec.CreatedAt = prev.CreatedAt
		delete(s.byEmail, emailKey(prev.Email))
		if prev.ExternalID != "" {
			delete(s.byExternal, prev.ExternalID)
		}
	}
	rec.UpdatedAt = now

	s.records[rec.ID] = rec
	s.byEmail[emailKey(rec.Email)] = rec.ID
	if rec.ExternalID != "" {
		s.byExternal[rec.ExternalID] = rec.ID
	}

	out := rec
	return &out, nil
}

// Len returns the number of stored employees.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) get(id int64, ok bool) *Employee {
	if !ok {
		return nil
	}
	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	return &rec
}

func emailKey(email string) string {
	return strings.ToLower(email)
}
