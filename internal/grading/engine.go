package grading

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-scoring/internal/logger"
)

// Outcome is the result of scoring one question. Scored <= Attempted <= Total.
type Outcome struct {
	Scored    int             `json:"scored"`
	Total     int             `json:"total"`
	Attempted int             `json:"attempted"`
	Items     map[string]bool `json:"items,omitempty"` // composite only: label -> correct
	Warnings  []string        `json:"warnings,omitempty"`
}

// Engine scores answers against question keys. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	policies PolicySet
	bands    BandTable
	tuning   ResolverTuning
	maxEdit  int
	log      *logger.Logger
}

// Engine options

type EngineOption func(*config)

type config struct {
	policies PolicySet
	bands    BandTable
	tuning   ResolverTuning
	maxEdit  int // typo tolerance for lenient types; 0 = equality only
	log      *logger.Logger
}

// WithPolicies overrides the match policy of the listed archetypes. Only
// types for which TakesPolicy is true are affected when scoring.
func WithPolicies(ps PolicySet) EngineOption {
	return func(c *config) {
		for t, p := range ps {
			c.policies[t] = p
		}
	}
}
func WithBandTable(t BandTable) EngineOption {
	return func(c *config) {
		if len(t) > 0 {
			c.bands = t.clone()
		}
	}
}
func WithResolverTuning(t ResolverTuning) EngineOption { return func(c *config) { c.tuning = t } }
func WithMaxEditDistance(n int) EngineOption           { return func(c *config) { c.maxEdit = n } }
func WithLogger(l *logger.Logger) EngineOption         { return func(c *config) { c.log = l } }

// New builds an engine with the default policies, band table and resolver tuning.
func New(opts ...EngineOption) *Engine {
	cfg := &config{
		policies: DefaultPolicies(),
		bands:    DefaultBandTable(),
		tuning:   DefaultResolverTuning(),
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.Nop()
	}
	return &Engine{
		policies: cfg.policies,
		bands:    cfg.bands,
		tuning:   cfg.tuning,
		maxEdit:  cfg.maxEdit,
		log:      cfg.log,
	}
}

// Bands returns a copy of the engine's band table.
func (e *Engine) Bands() BandTable { return e.bands.clone() }

var letterTokenRe = regexp.MustCompile(`\b[A-Za-z]\b`)

// ScoreItem scores one question. It never fails: missing or wrongly shaped
// answers count as not attempted.
func (e *Engine) ScoreItem(answer Answer, q Question) Outcome {
	arch, ok := archetypes[q.Type]
	if !ok {
		e.log.Warn("unknown question type, scoring as short answer", "question_id", q.ID, "type", string(q.Type))
		arch = archetypes[ShortAnswer]
	}
	switch arch.shape {
	case ShapeLabeled:
		if len(q.Items) == 0 {
			out := e.scoreText(answer, q, PolicyStrict, LabelOptions(q.Options, arch.labels))
			out.Warnings = append(out.Warnings, "composite question has no sub-items")
			e.log.Warn("composite question has no sub-items", "question_id", q.ID, "type", string(q.Type))
			return out
		}
		return e.scoreComposite(answer, q, arch)
	case ShapeChoices:
		return e.scoreChoices(answer, q)
	default:
		return e.scoreText(answer, q, e.policies.For(q.Type), LabelOptions(q.Options, arch.labels))
	}
}

func (e *Engine) scoreText(answer Answer, q Question, p MatchPolicy, options []Option) Outcome {
	out := Outcome{Total: 1}
	text, ok := answer.(TextAnswer)
	if !ok || strings.TrimSpace(string(text)) == "" {
		return out
	}
	out.Attempted = 1
	if e.match(string(text), q.CorrectAnswer, q.AlternativeAnswers, p, options) {
		out.Scored = 1
	}
	return out
}

// scoreChoices is all-or-nothing: the selection must equal the key set made of
// the correct answer and every alternative.
func (e *Engine) scoreChoices(answer Answer, q Question) Outcome {
	out := Outcome{Total: 1}
	var picks []string
	switch v := answer.(type) {
	case ChoiceAnswer:
		picks = v
	case TextAnswer:
		picks = splitList(string(v))
	}
	options := LabelOptions(q.Options, LettersUpper)
	resp := e.choiceSet(picks, options)
	if len(resp) == 0 {
		return out
	}
	out.Attempted = 1
	keys := splitList(q.CorrectAnswer)
	for _, alt := range q.AlternativeAnswers {
		keys = append(keys, splitList(alt)...)
	}
	correct := e.choiceSet(keys, options)
	if len(correct) > 0 && setEqual(correct, resp) {
		out.Scored = 1
	}
	return out
}

// choiceSet normalizes values, mapping option text onto its label so that
// "B" and "the river bank" select the same option.
func (e *Engine) choiceSet(values []string, options []Option) map[string]struct{} {
	set := map[string]struct{}{}
	for _, v := range values {
		if label, tier := e.resolve(v, options); tier == TierExact {
			v = label
		}
		if n := Normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func (e *Engine) scoreComposite(answer Answer, q Question, arch archetype) Outcome {
	out := Outcome{Total: len(q.Items), Items: make(map[string]bool, len(q.Items))}
	labeled, _ := answer.(LabeledAnswer)
	shared := LabelOptions(q.Options, arch.labels)

	for i, it := range q.Items {
		label := strings.TrimSpace(it.Label)
		if label == "" {
			label = strconv.Itoa(i + 1)
		}
		raw, _ := labeled.lookup(label)
		raw = strings.TrimSpace(raw)
		if raw == "" {
			out.Items[label] = false
			continue
		}
		out.Attempted++

		value := raw
		if arch.letterToken {
			if m := letterTokenRe.FindString(raw); m != "" {
				value = strings.ToUpper(m)
			}
		}

		options := shared
		if len(it.Options) > 0 {
			options = LabelOptions(it.Options, arch.labels)
		}
		key, tier := e.resolve(it.CorrectAnswer, options)
		alternatives := it.AlternativeAnswers
		switch tier {
		case TierUnresolved:
			msg := fmt.Sprintf("item %s: answer key %q matches no option", label, it.CorrectAnswer)
			out.Warnings = append(out.Warnings, msg)
			e.log.Warn("answer key matches no option",
				"question_id", q.ID, "item", label, "correct_answer", it.CorrectAnswer, "options", len(options))
		case TierExact, TierInclusion, TierOverlap:
			// the authored text stays acceptable next to its label
			alternatives = append(append([]string(nil), alternatives...), it.CorrectAnswer)
		}

		correct := e.match(value, key, alternatives, PolicyStrict, nil)
		if correct {
			out.Scored++
		}
		out.Items[label] = correct
	}
	return out
}

// helpers

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
