package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-scoring/internal/exam"
	"github.com/mind-engage/mindengage-scoring/internal/rbac"
)

// POST /tests
func UploadTestHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t exam.Test
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			http.Error(w, "id required", http.StatusBadRequest)
			return
		}
		if err := validateQuestions(t); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutTest(r.Context(), t); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "id": t.ID, "questions": len(t.Questions)})
	}
}

// Unknown question types are accepted; the engine scores them as short answers.
func validateQuestions(t exam.Test) error {
	if len(t.Questions) == 0 {
		return fmt.Errorf("test %s has no questions", t.ID)
	}
	seen := map[string]bool{}
	for i, q := range t.Questions {
		if q.ID == "" {
			return fmt.Errorf("question %d: id required", i+1)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if q.Points < 0 {
			return fmt.Errorf("question %s: negative points", q.ID)
		}
	}
	return nil
}

// GET /tests/{testID}
func GetTestHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetTest(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			storeError(w, err)
			return
		}
		if !rbac.Allowed(r.Context(), "tests:view-key") {
			t = exam.StudentView(t)
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// POST /tests/{testID}/regrade
func RegradeTestHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "testID")
		n, err := svc.Regrade(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"test_id": id, "regraded": n})
	}
}
