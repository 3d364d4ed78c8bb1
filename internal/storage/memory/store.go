package memory

import (
	"context"
	"sync"
	"time"

	"github.com/askrobots/intakebot/internal/conversation"
)

// Store is an in-memory conversation store used in tests and local runs.
type Store struct {
	mu      sync.Mutex
	nextID  int64
	records []conversation.Record
}

var (
	_ conversation.Store       = (*Store)(nil)
	_ conversation.StatsReader = (*Store)(nil)
)

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// FindLatest returns the most recent record for the user, or (nil, nil) when none exists.
func (s *Store) FindLatest(_ context.Context, userID int64) (*conversation.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].UserID == userID {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// Append stores a copy of the record, assigning its id and timestamp.
func (s *Store) Append(_ context.Context, rec *conversation.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID
	s.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.records = append(s.records, *rec)
	return nil
}

// Stats returns aggregate counters over all stored exchanges.
func (s *Store) Stats(_ context.Context) (conversation.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make(map[int64]struct{}, len(s.records))
	for _, rec := range s.records {
		users[rec.UserID] = struct{}{}
	}
	return conversation.Stats{
		Exchanges: int64(len(s.records)),
		Users:     int64(len(users)),
	}, nil
}
