package grading

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchPolicy selects how a normalized answer is compared to its key.
type MatchPolicy int

const (
	// PolicyLenient: normalized equality; optional edit-distance tolerance.
	PolicyLenient MatchPolicy = iota
	// PolicyStrict: normalized equality only.
	PolicyStrict
	// PolicySummary: equality, then label<->text resolution through the option list.
	PolicySummary
)

func (p MatchPolicy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicySummary:
		return "summary"
	default:
		return "lenient"
	}
}

// PolicySet maps archetypes to match policies. Types missing from the set are lenient.
type PolicySet map[QuestionType]MatchPolicy

// DefaultPolicies derives the policy of every archetype from the archetype table.
func DefaultPolicies() PolicySet {
	ps := make(PolicySet, len(archetypes))
	for t, a := range archetypes {
		if a.strict {
			ps[t] = PolicyStrict
		} else {
			ps[t] = PolicyLenient
		}
	}
	ps[SummaryCompletion] = PolicySummary
	return ps
}

func (ps PolicySet) For(t QuestionType) MatchPolicy {
	if p, ok := ps[t]; ok {
		return p
	}
	return PolicyLenient
}

// IsEquivalent reports whether the user's answer matches the correct answer
// or one of the alternatives under the policy of t. Options are consulted only
// by summary completion.
func (e *Engine) IsEquivalent(user, correct string, alternatives []string, t QuestionType, options ...Option) bool {
	return e.match(user, correct, alternatives, e.policies.For(t), LabelOptions(options, LettersUpper))
}

func (e *Engine) match(user, correct string, alternatives []string, p MatchPolicy, options []Option) bool {
	nu := Normalize(user)
	if nu == "" {
		return false
	}
	if strings.TrimSpace(correct) == "" && len(alternatives) == 0 {
		return false
	}
	if equalsAny(nu, correct, alternatives) {
		return true
	}
	switch p {
	case PolicyLenient:
		return e.fuzzy(nu, correct, alternatives)
	case PolicySummary:
		return matchSummary(user, nu, correct, alternatives, options)
	default:
		return false
	}
}

func equalsAny(nu, correct string, alternatives []string) bool {
	if nc := Normalize(correct); nc != "" && nc == nu {
		return true
	}
	for _, alt := range alternatives {
		if na := Normalize(alt); na != "" && na == nu {
			return true
		}
	}
	return false
}

// fuzzy applies the configured edit-distance tolerance; disabled by default.
func (e *Engine) fuzzy(nu, correct string, alternatives []string) bool {
	if e.maxEdit <= 0 {
		return false
	}
	for _, k := range append([]string{correct}, alternatives...) {
		nk := Normalize(k)
		// a tolerance as long as the key would accept anything
		if utf8.RuneCountInString(nk) <= e.maxEdit {
			continue
		}
		if levenshtein(nk, nu) <= e.maxEdit {
			return true
		}
	}
	return false
}

func matchSummary(user, nu, correct string, alternatives []string, options []Option) bool {
	if len(options) == 0 {
		return false
	}
	if isSingleLetter(user) {
		if text, ok := optionText(options, user); ok && equalsAny(Normalize(text), correct, alternatives) {
			return true
		}
	}
	if isSingleLetter(correct) {
		if text, ok := optionText(options, correct); ok && Normalize(text) == nu {
			return true
		}
	}
	return false
}

func isSingleLetter(s string) bool {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	return size == len(s) && size > 0 && unicode.IsLetter(r)
}

func optionText(options []Option, label string) (string, bool) {
	label = strings.TrimSpace(label)
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o.Label), label) {
			return o.Text, true
		}
	}
	return "", false
}
