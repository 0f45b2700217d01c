package grading

import (
	"strings"
	"unicode/utf8"
)

// ResolverTuning holds the heuristics used to map long answer-key text onto
// an option label. The defaults were tuned against authored reading tests.
type ResolverTuning struct {
	InclusionMinLen int     `yaml:"inclusion_min_len" json:"inclusion_min_len"`
	OverlapMinLen   int     `yaml:"overlap_min_len" json:"overlap_min_len"`
	TokenMinLen     int     `yaml:"token_min_len" json:"token_min_len"`
	MinTokens       int     `yaml:"min_tokens" json:"min_tokens"`
	OverlapRatio    float64 `yaml:"overlap_ratio" json:"overlap_ratio"`
}

func DefaultResolverTuning() ResolverTuning {
	return ResolverTuning{
		InclusionMinLen: 15,
		OverlapMinLen:   20,
		TokenMinLen:     4,
		MinTokens:       5,
		OverlapRatio:    0.6,
	}
}

// ResolveTier records which strategy resolved a candidate.
type ResolveTier int

const (
	TierNone       ResolveTier = iota // not attempted: short candidate or no options
	TierLabel                         // candidate already is an option label
	TierExact                         // normalized text equality
	TierInclusion                     // one text contains the other
	TierOverlap                       // token overlap above the ratio
	TierUnresolved                    // attempted, nothing matched
)

func (t ResolveTier) String() string {
	switch t {
	case TierLabel:
		return "label"
	case TierExact:
		return "exact"
	case TierInclusion:
		return "inclusion"
	case TierOverlap:
		return "overlap"
	case TierUnresolved:
		return "unresolved"
	default:
		return "none"
	}
}

// ResolveLabel maps an answer key written as option text to that option's
// label. Options without a label are lettered A, B, C by position, whatever
// the question type; use ResolveLabelFor to get the type's own scheme. When
// nothing matches, the candidate is returned unchanged with TierUnresolved.
func (e *Engine) ResolveLabel(candidate string, options []Option) (string, ResolveTier) {
	return e.resolve(candidate, LabelOptions(options, LettersUpper))
}

// ResolveLabelFor is ResolveLabel with unlabeled options numbered the way
// the scorer numbers them for t, so matching_headings yields i, ii, iii.
func (e *Engine) ResolveLabelFor(t QuestionType, candidate string, options []Option) (string, ResolveTier) {
	return e.resolve(candidate, LabelOptions(options, archetypes[t].labels))
}

func (e *Engine) resolve(candidate string, options []Option) (string, ResolveTier) {
	if utf8.RuneCountInString(strings.TrimSpace(candidate)) <= 1 || len(options) == 0 {
		return candidate, TierNone
	}
	nc := Normalize(candidate)
	for _, o := range options {
		if Normalize(o.Label) == nc {
			return candidate, TierLabel
		}
	}
	for _, o := range options {
		if Normalize(o.Text) == nc {
			return o.Label, TierExact
		}
	}

	tun := e.tuning
	ncLen := utf8.RuneCountInString(nc)
	if ncLen >= tun.InclusionMinLen {
		for _, o := range options {
			no := Normalize(o.Text)
			if utf8.RuneCountInString(no) < tun.InclusionMinLen {
				continue
			}
			if strings.Contains(no, nc) || strings.Contains(nc, no) {
				return o.Label, TierInclusion
			}
		}
	}

	if ncLen >= tun.OverlapMinLen {
		want := tokens(nc, tun.TokenMinLen)
		if len(want) >= tun.MinTokens {
			best, bestRatio := -1, tun.OverlapRatio
			for i, o := range options {
				have := tokens(Normalize(o.Text), tun.TokenMinLen)
				shared := 0
				for w := range want {
					if _, ok := have[w]; ok {
						shared++
					}
				}
				// strictly greater: ties keep the earlier option
				if r := float64(shared) / float64(len(want)); r > bestRatio {
					best, bestRatio = i, r
				}
			}
			if best >= 0 {
				return options[best].Label, TierOverlap
			}
		}
	}
	return candidate, TierUnresolved
}
