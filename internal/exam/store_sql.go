package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-scoring/internal/grading"
)

// SQLStore persists tests and sessions through database/sql. Queries use $N
// placeholders, which both the sqlite and pgx drivers accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tests (id,title,time_limit_sec,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, time_limit_sec=EXCLUDED.time_limit_sec, questions_json=EXCLUDED.questions_json`,
		t.ID, t.Title, t.TimeLimitSec, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,time_limit_sec,questions_json,created_at FROM tests WHERE id=$1`, id)
	var t Test
	var qjson string
	if err := row.Scan(&t.ID, &t.Title, &t.TimeLimitSec, &qjson, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, fmt.Errorf("test %q: %w", id, ErrNotFound)
		}
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &t.Questions); err != nil {
		return Test{}, fmt.Errorf("decode questions of %q: %w", id, err)
	}
	return t, nil
}

func (s *SQLStore) NewSession(ctx context.Context, testID, userID string) (Session, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tests WHERE id=$1`, testID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, fmt.Errorf("test %q: %w", testID, ErrNotFound)
		}
		return Session{}, err
	}
	sess := Session{
		ID:        uuid.NewString(),
		TestID:    testID,
		UserID:    userID,
		Status:    StatusInProgress,
		Answers:   map[string]interface{}{},
		StartedAt: time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions (id,test_id,user_id,status,answers_json,started_at)
		VALUES ($1,$2,$3,$4,'{}',$5)`,
		sess.ID, testID, userID, StatusInProgress, sess.StartedAt)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) SaveAnswers(ctx context.Context, sessionID string, answers map[string]interface{}) (Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	var status, ajson string
	err = tx.QueryRowContext(ctx, `SELECT status,answers_json FROM sessions WHERE id=$1`, sessionID).Scan(&status, &ajson)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return Session{}, err
	}
	if status == StatusSubmitted {
		return Session{}, ErrAlreadySubmitted
	}
	merged := map[string]interface{}{}
	_ = json.Unmarshal([]byte(ajson), &merged)
	for k, v := range answers {
		merged[k] = v
	}
	buf, err := json.Marshal(merged)
	if err != nil {
		return Session{}, err
	}
	res, err := tx.ExecContext(ctx, `UPDATE sessions SET answers_json=$1 WHERE id=$2 AND status=$3`,
		string(buf), sessionID, StatusInProgress)
	if err != nil {
		return Session{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Session{}, ErrAlreadySubmitted
	}
	if err := tx.Commit(); err != nil {
		return Session{}, err
	}
	return s.GetSession(ctx, sessionID)
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,test_id,user_id,status,answers_json,result_json,started_at,submitted_at
		FROM sessions WHERE id=$1`, id)
	var (
		sess      Session
		ajson     string
		rjson     sql.NullString
		submitted sql.NullInt64
	)
	if err := row.Scan(&sess.ID, &sess.TestID, &sess.UserID, &sess.Status, &ajson, &rjson, &sess.StartedAt, &submitted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
		}
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(ajson), &sess.Answers); err != nil || sess.Answers == nil {
		sess.Answers = map[string]interface{}{}
	}
	if rjson.Valid && rjson.String != "" {
		var res grading.SessionResult
		if err := json.Unmarshal([]byte(rjson.String), &res); err == nil {
			sess.Result = &res
		}
	}
	sess.SubmittedAt = submitted.Int64
	return sess, nil
}

func (s *SQLStore) CompleteSession(ctx context.Context, id string, res grading.SessionResult) (Session, error) {
	buf, err := json.Marshal(res)
	if err != nil {
		return Session{}, err
	}
	// the status guard makes concurrent submits race-free: only one UPDATE matches
	r, err := s.db.ExecContext(ctx, `UPDATE sessions SET status=$1, result_json=$2, band_score=$3, submitted_at=$4
		WHERE id=$5 AND status=$6`,
		StatusSubmitted, string(buf), res.BandScore, time.Now().Unix(), id, StatusInProgress)
	if err != nil {
		return Session{}, err
	}
	if n, _ := r.RowsAffected(); n == 0 {
		if _, err := s.GetSession(ctx, id); err != nil {
			return Session{}, err
		}
		return Session{}, ErrAlreadySubmitted
	}
	return s.GetSession(ctx, id)
}

func (s *SQLStore) UpdateResult(ctx context.Context, id string, res grading.SessionResult) error {
	buf, err := json.Marshal(res)
	if err != nil {
		return err
	}
	r, err := s.db.ExecContext(ctx, `UPDATE sessions SET result_json=$1, band_score=$2 WHERE id=$3`,
		string(buf), res.BandScore, id)
	if err != nil {
		return err
	}
	if n, _ := r.RowsAffected(); n == 0 {
		return fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) ListSubmitted(ctx context.Context, testID string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions WHERE test_id=$1 AND status=$2 ORDER BY id`,
		testID, StatusSubmitted)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	out := make([]Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}
