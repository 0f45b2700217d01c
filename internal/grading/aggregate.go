package grading

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// QuestionResult is the outcome of one question within a session.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Outcome
}

// SessionResult totals a session in points (sub-items), not questions.
// CorrectAnswers + IncorrectAnswers + Unanswered == TotalQuestions.
type SessionResult struct {
	CorrectAnswers   int              `json:"correct_answers"`
	IncorrectAnswers int              `json:"incorrect_answers"`
	Unanswered       int              `json:"unanswered"`
	TotalQuestions   int              `json:"total_questions"`
	Percentage       float64          `json:"percentage"`
	BandScore        float64          `json:"band_score"`
	PointsEarned     float64          `json:"points_earned"`
	PointsPossible   float64          `json:"points_possible"`
	Questions        []QuestionResult `json:"questions,omitempty"`
}

// Aggregate scores every question of a test against the session's answers.
// Questions without an answer count as unanswered; answers to unknown
// questions are ignored. When an id is answered twice the last answer wins.
func (e *Engine) Aggregate(answers []SubmittedAnswer, questions []Question) SessionResult {
	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}
	byID := make(map[string]Answer, len(answers))
	for _, a := range answers {
		if _, ok := known[a.QuestionID]; !ok {
			e.log.Debug("answer for unknown question ignored", "question_id", a.QuestionID)
			continue
		}
		byID[a.QuestionID] = a.Answer
	}

	res := SessionResult{Questions: make([]QuestionResult, 0, len(questions))}
	for _, q := range questions {
		out := e.ScoreItem(byID[q.ID], q)
		res.TotalQuestions += out.Total
		res.CorrectAnswers += out.Scored
		res.Unanswered += out.Total - out.Attempted
		res.IncorrectAnswers += out.Attempted - out.Scored

		pts := q.PointValue()
		res.PointsPossible += pts
		if out.Total > 0 {
			res.PointsEarned += pts * float64(out.Scored) / float64(out.Total)
		}
		res.Questions = append(res.Questions, QuestionResult{QuestionID: q.ID, Outcome: out})
	}
	res.Percentage = Percentage(res.CorrectAnswers, res.TotalQuestions)
	res.BandScore = e.bands.Band(res.CorrectAnswers, res.TotalQuestions)
	return res
}

// SessionInput is one session to grade in a batch.
type SessionInput struct {
	Answers   []SubmittedAnswer
	Questions []Question
}

// AggregateMany grades independent sessions concurrently, at most limit at a
// time (limit <= 0 means unbounded). Results keep the input order.
func (e *Engine) AggregateMany(ctx context.Context, sessions []SessionInput, limit int) ([]SessionResult, error) {
	out := make([]SessionResult, len(sessions))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range sessions {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.Aggregate(sessions[i].Answers, sessions[i].Questions)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
