package exam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mind-engage/mindengage-scoring/internal/grading"
	"github.com/mind-engage/mindengage-scoring/internal/logger"
	syncx "github.com/mind-engage/mindengage-scoring/internal/sync"
)

// EventSink records submission events. *syncx.EventRepo satisfies it.
type EventSink interface {
	Append(ctx context.Context, e syncx.Event) error
}

// Service runs the grading engine over stored sessions.
type Service struct {
	store        Store
	engine       *grading.Engine
	events       EventSink
	log          *logger.Logger
	regradeLimit int
}

type ServiceOption func(*Service)

func WithEvents(e EventSink) ServiceOption       { return func(s *Service) { s.events = e } }
func WithLogger(l *logger.Logger) ServiceOption  { return func(s *Service) { s.log = l } }
func WithRegradeConcurrency(n int) ServiceOption { return func(s *Service) { s.regradeLimit = n } }

func NewService(store Store, engine *grading.Engine, opts ...ServiceOption) *Service {
	s := &Service{store: store, engine: engine, log: logger.Nop(), regradeLimit: 4}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Store() Store { return s.store }

// Submit grades a session and stores the result. Submitting an already
// submitted session returns the stored result unchanged.
func (s *Service) Submit(ctx context.Context, sessionID string) (Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status == StatusSubmitted {
		return sess, nil
	}
	t, err := s.store.GetTest(ctx, sess.TestID)
	if err != nil {
		return Session{}, fmt.Errorf("load test for session %s: %w", sessionID, err)
	}

	res := s.engine.Aggregate(grading.AnswersFromMap(sess.Answers), t.Questions)
	done, err := s.store.CompleteSession(ctx, sessionID, res)
	if errors.Is(err, ErrAlreadySubmitted) {
		// lost the race to a concurrent submit; theirs is the stored result
		return s.store.GetSession(ctx, sessionID)
	}
	if err != nil {
		return Session{}, err
	}

	s.log.Info("session submitted",
		"session_id", sessionID, "test_id", t.ID,
		"correct", res.CorrectAnswers, "total", res.TotalQuestions, "band", res.BandScore)
	s.emit(ctx, syncx.TypeSessionSubmitted, sessionID, res)
	return done, nil
}

// Regrade re-scores every submitted session of a test with the current
// engine and answer key, returning the number of sessions updated.
func (s *Service) Regrade(ctx context.Context, testID string) (int, error) {
	t, err := s.store.GetTest(ctx, testID)
	if err != nil {
		return 0, err
	}
	sessions, err := s.store.ListSubmitted(ctx, testID)
	if err != nil {
		return 0, err
	}
	inputs := make([]grading.SessionInput, len(sessions))
	for i, sess := range sessions {
		inputs[i] = grading.SessionInput{Answers: grading.AnswersFromMap(sess.Answers), Questions: t.Questions}
	}
	results, err := s.engine.AggregateMany(ctx, inputs, s.regradeLimit)
	if err != nil {
		return 0, err
	}
	for i, sess := range sessions {
		if err := s.store.UpdateResult(ctx, sess.ID, results[i]); err != nil {
			return i, fmt.Errorf("update session %s: %w", sess.ID, err)
		}
		s.emit(ctx, syncx.TypeSessionRegraded, sess.ID, results[i])
	}
	s.log.Info("test regraded", "test_id", testID, "sessions", len(sessions))
	return len(sessions), nil
}

// emit is best effort: a failed event write never fails grading.
func (s *Service) emit(ctx context.Context, typ, key string, res grading.SessionResult) {
	if s.events == nil {
		return
	}
	buf, err := json.Marshal(res)
	if err != nil {
		s.log.Error("marshal event", "type", typ, "session_id", key, "error", err)
		return
	}
	if err := s.events.Append(ctx, syncx.Event{Type: typ, Key: key, DataJSON: string(buf)}); err != nil {
		s.log.Error("append event", "type", typ, "session_id", key, "error", err)
	}
}
