package grading

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Answer is a learner's response. It is one of TextAnswer, ChoiceAnswer or
// LabeledAnswer; nil means no answer.
type Answer interface {
	shape() Shape
}

// TextAnswer is a single typed or selected value.
type TextAnswer string

// ChoiceAnswer is the selection of a multi-select question.
type ChoiceAnswer []string

// LabeledAnswer maps sub-item labels to values.
type LabeledAnswer map[string]string

func (TextAnswer) shape() Shape    { return ShapeText }
func (ChoiceAnswer) shape() Shape  { return ShapeChoices }
func (LabeledAnswer) shape() Shape { return ShapeLabeled }

// DecodeAnswer converts a decoded JSON value (string, number, bool, []any,
// map[string]any) into an Answer. Anything else decodes to nil.
func DecodeAnswer(v interface{}) Answer {
	switch t := v.(type) {
	case nil:
		return nil
	case Answer:
		return t
	case []string:
		return ChoiceAnswer(t)
	case map[string]string:
		return LabeledAnswer(t)
	case []interface{}:
		out := make(ChoiceAnswer, 0, len(t))
		for _, e := range t {
			if s, ok := scalarToString(e); ok {
				out = append(out, s)
			}
		}
		return out
	case map[string]interface{}:
		out := make(LabeledAnswer, len(t))
		for k, e := range t {
			if s, ok := scalarToString(e); ok {
				out[k] = s
			}
		}
		return out
	default:
		if s, ok := scalarToString(v); ok {
			return TextAnswer(s)
		}
		return nil
	}
}

func scalarToString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// lookup finds the value for a sub-item label: exact key, then trimmed
// case-insensitive, then numeric ("01" == "1", "3.0" == "3").
func (a LabeledAnswer) lookup(label string) (string, bool) {
	if a == nil {
		return "", false
	}
	if v, ok := a[label]; ok {
		return v, true
	}
	want := strings.ToLower(strings.TrimSpace(label))
	wantNum, numeric := canonicalNumber(want)
	// sorted for a deterministic pick when keys collide after folding
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.ToLower(strings.TrimSpace(k)) == want {
			return a[k], true
		}
	}
	if !numeric {
		return "", false
	}
	for _, k := range keys {
		if n, ok := canonicalNumber(strings.TrimSpace(k)); ok && n == wantNum {
			return a[k], true
		}
	}
	return "", false
}

func canonicalNumber(s string) (string, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// SubmittedAnswer pairs a question id with the learner's answer.
type SubmittedAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     Answer `json:"-"`
}

func (s *SubmittedAnswer) UnmarshalJSON(b []byte) error {
	var aux struct {
		QuestionID json.RawMessage `json:"question_id"`
		UserAnswer interface{}     `json:"user_answer"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.QuestionID = scalarString(aux.QuestionID)
	s.Answer = DecodeAnswer(aux.UserAnswer)
	return nil
}

func (s SubmittedAnswer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		QuestionID string      `json:"question_id"`
		UserAnswer interface{} `json:"user_answer"`
	}{s.QuestionID, s.Answer})
}

// AnswersFromMap converts a question id -> raw response map, the form sessions
// store, into submitted answers ordered by question id.
func AnswersFromMap(m map[string]interface{}) []SubmittedAnswer {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]SubmittedAnswer, 0, len(ids))
	for _, id := range ids {
		out = append(out, SubmittedAnswer{QuestionID: id, Answer: DecodeAnswer(m[id])})
	}
	return out
}
