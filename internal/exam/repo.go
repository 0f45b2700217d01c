package exam

import (
	"context"
	"errors"

	"github.com/mind-engage/mindengage-scoring/internal/grading"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadySubmitted = errors.New("session already submitted")
)

type Store interface {
	PutTest(ctx context.Context, t Test) error
	GetTest(ctx context.Context, id string) (Test, error) // full test, answer keys included

	NewSession(ctx context.Context, testID, userID string) (Session, error)
	SaveAnswers(ctx context.Context, sessionID string, answers map[string]interface{}) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)

	// CompleteSession moves an in-progress session to submitted and stores the
	// result. It returns ErrAlreadySubmitted if another submit got there first.
	CompleteSession(ctx context.Context, id string, res grading.SessionResult) (Session, error)
	// UpdateResult replaces the result of a submitted session (regrading).
	UpdateResult(ctx context.Context, id string, res grading.SessionResult) error
	ListSubmitted(ctx context.Context, testID string) ([]Session, error)
}
