package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-scoring/internal/grading"
)

// GradingFile is the YAML layout read by LoadGrading. Every section is optional.
// Policy overrides apply to single-answer types only; composite and
// multi-select types are rejected there.
//
//	band_table:
//	  - {threshold: 90, band: 9}
//	  - {threshold: 0, band: 2.5}
//	strict_types: [short_answer]
//	lenient_types: [matching_sentence_endings]
//	resolver:
//	  overlap_ratio: 0.7
//	max_edit_distance: 1
type GradingFile struct {
	BandTable       grading.BandTable       `yaml:"band_table"`
	StrictTypes     []string                `yaml:"strict_types"`
	LenientTypes    []string                `yaml:"lenient_types"`
	Resolver        *grading.ResolverTuning `yaml:"resolver"`
	MaxEditDistance int                     `yaml:"max_edit_distance"`
}

// LoadGrading reads a grading file and turns it into engine options. An empty
// path yields no options.
func LoadGrading(path string) ([]grading.EngineOption, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grading config: %w", err)
	}
	defer f.Close()

	var gf GradingFile
	if err := yaml.NewDecoder(f).Decode(&gf); err != nil {
		return nil, fmt.Errorf("decode grading config %s: %w", path, err)
	}
	return gf.Options()
}

// Options validates the file and converts it into engine options.
func (gf GradingFile) Options() ([]grading.EngineOption, error) {
	var opts []grading.EngineOption
	if len(gf.BandTable) > 0 {
		if err := gf.BandTable.Validate(); err != nil {
			return nil, err
		}
		opts = append(opts, grading.WithBandTable(gf.BandTable))
	}

	ps := grading.PolicySet{}
	for _, group := range []struct {
		names  []string
		policy grading.MatchPolicy
	}{
		{gf.StrictTypes, grading.PolicyStrict},
		{gf.LenientTypes, grading.PolicyLenient},
	} {
		for _, name := range group.names {
			t, ok := grading.ParseQuestionType(name)
			if !ok {
				return nil, fmt.Errorf("grading config: unknown question type %q", name)
			}
			if !t.TakesPolicy() {
				return nil, fmt.Errorf("grading config: %s has a fixed match rule and cannot be overridden", t)
			}
			if prev, dup := ps[t]; dup && prev != group.policy {
				return nil, fmt.Errorf("grading config: %s is listed as both strict and lenient", t)
			}
			ps[t] = group.policy
		}
	}
	if len(ps) > 0 {
		opts = append(opts, grading.WithPolicies(ps))
	}

	if gf.Resolver != nil {
		tun := grading.DefaultResolverTuning()
		r := gf.Resolver
		if r.InclusionMinLen > 0 {
			tun.InclusionMinLen = r.InclusionMinLen
		}
		if r.OverlapMinLen > 0 {
			tun.OverlapMinLen = r.OverlapMinLen
		}
		if r.TokenMinLen > 0 {
			tun.TokenMinLen = r.TokenMinLen
		}
		if r.MinTokens > 0 {
			tun.MinTokens = r.MinTokens
		}
		if r.OverlapRatio > 0 {
			if r.OverlapRatio >= 1 {
				return nil, fmt.Errorf("grading config: resolver.overlap_ratio %v must be below 1", r.OverlapRatio)
			}
			tun.OverlapRatio = r.OverlapRatio
		}
		opts = append(opts, grading.WithResolverTuning(tun))
	}

	if gf.MaxEditDistance < 0 {
		return nil, fmt.Errorf("grading config: max_edit_distance must not be negative")
	}
	if gf.MaxEditDistance > 0 {
		opts = append(opts, grading.WithMaxEditDistance(gf.MaxEditDistance))
	}
	return opts, nil
}
