package exam

import "github.com/mind-engage/mindengage-scoring/internal/grading"

const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
)

type Test struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	TimeLimitSec int                `json:"time_limit_sec"`
	Questions    []grading.Question `json:"questions"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

type Session struct {
	ID          string                 `json:"id"`
	TestID      string                 `json:"test_id"`
	UserID      string                 `json:"user_id"`
	Status      string                 `json:"status"`  // in_progress|submitted
	Answers     map[string]interface{} `json:"answers"` // questionID -> raw response payload
	Result      *grading.SessionResult `json:"result,omitempty"`
	StartedAt   int64                  `json:"started_at"`
	SubmittedAt int64                  `json:"submitted_at,omitempty"`
}

// StudentView returns a copy of the test with every answer key removed.
func StudentView(t Test) Test {
	qs := make([]grading.Question, len(t.Questions))
	for i, q := range t.Questions {
		q.CorrectAnswer = ""
		q.AlternativeAnswers = nil
		items := make([]grading.SubItem, len(q.Items))
		for j, it := range q.Items {
			it.CorrectAnswer = ""
			it.AlternativeAnswers = nil
			items[j] = it
		}
		if len(items) == 0 {
			items = nil
		}
		q.Items = items
		qs[i] = q
	}
	t.Questions = qs
	return t
}
