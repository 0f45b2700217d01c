package http

import (
	"net/http"
	"strconv"

	"github.com/mind-engage/mindengage-scoring/internal/grading"
)

// GET /bands?correct=30&total=40
// Without parameters the band table itself is returned.
func BandHandler(e *grading.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("correct") == "" && q.Get("total") == "" {
			writeJSON(w, http.StatusOK, map[string]interface{}{"table": e.Bands()})
			return
		}
		correct, err1 := strconv.Atoi(q.Get("correct"))
		total, err2 := strconv.Atoi(q.Get("total"))
		if err1 != nil || err2 != nil || correct < 0 || total < 0 || correct > total {
			http.Error(w, "correct and total must be integers with 0 <= correct <= total", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"correct":    correct,
			"total":      total,
			"percentage": grading.Percentage(correct, total),
			"band":       e.Bands().Band(correct, total),
		})
	}
}
