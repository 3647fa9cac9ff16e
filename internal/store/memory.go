package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-lookup/internal/queries"
)

// MemoryStore is a concurrency-safe in-memory implementation of queries.Store.
// Its contents are lost on restart.
type MemoryStore struct {
	mu sync.RWMutex

	// key: query id
	data   map[int64]queries.SavedQuery
	nextID int64
}

var _ queries.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore. Ids start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[int64]queries.SavedQuery),
		nextID: 1,
	}
}

func (s *MemoryStore) Create(_ context.Context, q *queries.SavedQuery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q.ID = s.nextID
	s.nextID++
	s.data[q.ID] = *q
	return nil
}

// List returns summaries newest first.
func (s *MemoryStore) List(_ context.Context) ([]queries.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]queries.Summary, 0, len(s.data))
	for _, q := range s.data {
		result = append(result, q.Summarize())
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*queries.SavedQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.data[id]
	if !ok {
		return nil, queries.ErrNotFound
	}
	return &q, nil
}

func (s *MemoryStore) UpdateLabel(_ context.Context, id int64, label *string, updatedAt time.Time) (*queries.SavedQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.data[id]
	if !ok {
		return nil, queries.ErrNotFound
	}
	q.Label = label
	q.UpdatedAt = updatedAt
	s.data[id] = q
	return &q, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return queries.ErrNotFound
	}
	delete(s.data, id)
	return nil
}
