package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mindengage-scoring/internal/auth/middleware"
	"github.com/mind-engage/mindengage-scoring/internal/exam"
	"github.com/mind-engage/mindengage-scoring/internal/rbac"
)

// POST /sessions  {"test_id": "..."}
func CreateSessionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TestID string `json:"test_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.TestID) == "" {
			http.Error(w, "test_id required", http.StatusBadRequest)
			return
		}
		sub := authmw.SubjectFromContext(r.Context())
		if sub == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		s, err := store.NewSession(r.Context(), req.TestID, sub)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, s)
	}
}

// POST /sessions/{sessionID}/answers  {"<question_id>": <answer>, ...}
func SaveAnswersHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var answers map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if !ownSession(w, r, store, id) {
			return
		}
		s, err := store.SaveAnswers(r.Context(), id, answers)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// POST /sessions/{sessionID}/submit
func SubmitSessionHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if !ownSession(w, r, svc.Store(), id) {
			return
		}
		s, err := svc.Submit(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, err := store.GetSession(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		if !canSee(r, s) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func canSee(r *http.Request, s exam.Session) bool {
	return s.UserID == authmw.SubjectFromContext(r.Context()) || rbac.Allowed(r.Context(), "session:view-all")
}

// ownSession writes the error response and returns false unless the caller
// owns the session. Only the session's user may change or submit it.
func ownSession(w http.ResponseWriter, r *http.Request, store exam.Store, id string) bool {
	s, err := store.GetSession(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return false
	}
	if s.UserID != authmw.SubjectFromContext(r.Context()) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}
