package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
)

// MemoryStore implements Store in process memory. Used by unit tests;
// behavior mirrors the SQL stores, including the conditional MarkSent.
type MemoryStore struct {
	mu        sync.RWMutex
	configs   map[string]domain.ReminderConfig // keyed by user document number
	users     map[string]domain.User
	processes map[string]int // active process count per user
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		configs:   make(map[string]domain.ReminderConfig),
		users:     make(map[string]domain.User),
		processes: make(map[string]int),
	}
}

// SeedUser registers a user with the given active process count.
func (s *MemoryStore) SeedUser(u domain.User, activeProcesses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.DocumentNumber] = u
	s.processes[u.DocumentNumber] = activeProcesses
}

func (s *MemoryStore) ListEnabled(_ context.Context) ([]domain.ReminderConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []domain.ReminderConfig
	for _, cfg := range s.configs {
		if cfg.Enabled {
			res = append(res, cfg)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].UserID < res[j].UserID })
	return res, nil
}

func (s *MemoryStore) FindByUser(_ context.Context, documentNumber string) (*domain.ReminderConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[documentNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

func (s *MemoryStore) Create(_ context.Context, cfg *domain.ReminderConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.UserID] = *cfg
	return nil
}

func (s *MemoryStore) Update(_ context.Context, cfg *domain.ReminderConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.configs[cfg.UserID]
	if !ok {
		return ErrNotFound
	}
	// last_reminder_sent is owned by MarkSent, keep the stored value.
	updated := *cfg
	updated.LastReminderSent = stored.LastReminderSent
	s.configs[cfg.UserID] = updated
	return nil
}

func (s *MemoryStore) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time, prev *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, cfg := range s.configs {
		if cfg.ID != id {
			continue
		}
		if !sameInstant(cfg.LastReminderSent, prev) {
			return ErrSentConflict
		}
		sent := sentAt.UTC()
		cfg.LastReminderSent = &sent
		cfg.UpdatedAt = sent
		s.configs[userID] = cfg
		return nil
	}
	return ErrNotFound
}

func (s *MemoryStore) GetUser(_ context.Context, documentNumber string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[documentNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) CountActive(_ context.Context, documentNumber string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processes[documentNumber], nil
}

func (s *MemoryStore) Close() error { return nil }

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
