package exam

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-scoring/internal/grading"
)

type memoryStore struct {
	mu       sync.RWMutex
	tests    map[string]Test
	sessions map[string]Session
}

func NewInMemoryStore() Store {
	return &memoryStore{
		tests:    map[string]Test{},
		sessions: map[string]Session{},
	}
}

func (m *memoryStore) PutTest(_ context.Context, t Test) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	m.tests[t.ID] = t
	return nil
}

func (m *memoryStore) GetTest(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, fmt.Errorf("test %q: %w", id, ErrNotFound)
	}
	return t, nil
}

func (m *memoryStore) NewSession(_ context.Context, testID, userID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tests[testID]; !ok {
		return Session{}, fmt.Errorf("test %q: %w", testID, ErrNotFound)
	}
	s := Session{
		ID:        uuid.NewString(),
		TestID:    testID,
		UserID:    userID,
		Status:    StatusInProgress,
		Answers:   map[string]interface{}{},
		StartedAt: time.Now().Unix(),
	}
	m.sessions[s.ID] = s
	return copySession(s), nil
}

func (m *memoryStore) SaveAnswers(_ context.Context, sessionID string, answers map[string]interface{}) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}
	if s.Status == StatusSubmitted {
		return Session{}, ErrAlreadySubmitted
	}
	for k, v := range answers {
		s.Answers[k] = v
	}
	m.sessions[sessionID] = s
	return copySession(s), nil
}

func (m *memoryStore) GetSession(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return copySession(s), nil
}

func (m *memoryStore) CompleteSession(_ context.Context, id string, res grading.SessionResult) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	if s.Status == StatusSubmitted {
		return Session{}, ErrAlreadySubmitted
	}
	s.Status = StatusSubmitted
	s.Result = &res
	s.SubmittedAt = time.Now().Unix()
	m.sessions[id] = s
	return copySession(s), nil
}

func (m *memoryStore) UpdateResult(_ context.Context, id string, res grading.SessionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	s.Result = &res
	m.sessions[id] = s
	return nil
}

func (m *memoryStore) ListSubmitted(_ context.Context, testID string) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Session{}
	for _, s := range m.sessions {
		if s.TestID == testID && s.Status == StatusSubmitted {
			out = append(out, copySession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// copySession detaches the answers map from the store's copy.
func copySession(s Session) Session {
	answers := make(map[string]interface{}, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	s.Answers = answers
	return s
}
