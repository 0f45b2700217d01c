package grading

import "testing"

func TestResolveLabel(t *testing.T) {
	e := New()
	options := []Option{
		{Text: "The decline of traditional fishing villages"},
		{Text: "The impact of tourism on coastal towns in Spain"},
		{Text: "During prolonged drought periods farmers adopted new irrigation techniques"},
		{Text: "alpha bravo charlie zulu yankee"},
	}
	tests := []struct {
		name      string
		candidate string
		options   []Option
		want      string
		tier      ResolveTier
	}{
		{"single letter untouched", "B", options, "B", TierNone},
		{"no options", "The impact of tourism", nil, "The impact of tourism", TierNone},
		{"already a label", "ii", []Option{{Label: "i", Text: "Farming"}, {Label: "ii", Text: "Tourism"}}, "ii", TierLabel},
		{"exact", "the decline of traditional fishing villages.", options, "A", TierExact},
		{"inclusion", "Impact of tourism on coastal towns", options, "B", TierInclusion},
		{"overlap", "Farmers adopted irrigation methods during prolonged drought periods", options, "C", TierOverlap},
		{"overlap at ratio is not enough", "alpha bravo charlie delta echos", options, "alpha bravo charlie delta echos", TierUnresolved},
		{"too few tokens", "the big red cat sat on a mat today", options, "the big red cat sat on a mat today", TierUnresolved},
		{"short inclusion ignored", "fishing", []Option{{Text: "fishing villages of the north coast"}}, "fishing", TierUnresolved},
		{"explicit labels", "Tourism", []Option{{Label: "i", Text: "Farming"}, {Label: "ii", Text: "Tourism"}}, "ii", TierExact},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, tier := e.ResolveLabel(tc.candidate, tc.options)
			if got != tc.want || tier != tc.tier {
				t.Fatalf("ResolveLabel(%q) = %q/%s, want %q/%s", tc.candidate, got, tier, tc.want, tc.tier)
			}
		})
	}
}

func TestResolveLabelExactBeatsOverlap(t *testing.T) {
	e := New()
	text := "Farmers adopted new irrigation techniques during prolonged drought periods"
	options := []Option{
		{Text: "During prolonged drought periods farmers adopted new irrigation techniques"},
		{Text: text},
	}
	got, tier := e.ResolveLabel(text, options)
	if got != "B" || tier != TierExact {
		t.Fatalf("got %q/%s, want B/exact", got, tier)
	}
}

func TestResolveLabelForUsesTypeScheme(t *testing.T) {
	e := New()
	options := []Option{{Text: "Early history"}, {Text: "Modern uses"}, {Text: "Costs"}, {Text: "Future plans"}}
	cases := []struct {
		typ  QuestionType
		want string
	}{
		{MatchingHeadings, "iv"},
		{MultipleChoice, "D"},
		{QuestionType("essay"), "D"},
	}
	for _, tc := range cases {
		got, tier := e.ResolveLabelFor(tc.typ, "Future plans", options)
		if got != tc.want || tier != TierExact {
			t.Errorf("%s: got %q/%s, want %q/exact", tc.typ, got, tier, tc.want)
		}
	}
	if got, _ := e.ResolveLabel("Future plans", options); got != "D" {
		t.Fatalf("ResolveLabel letters by position, got %q", got)
	}
}

func TestResolveLabelTuning(t *testing.T) {
	e := New(WithResolverTuning(ResolverTuning{
		InclusionMinLen: 5, OverlapMinLen: 20, TokenMinLen: 4, MinTokens: 5, OverlapRatio: 0.6,
	}))
	got, tier := e.ResolveLabel("fishing", []Option{{Text: "fishing villages of the north coast"}})
	if got != "A" || tier != TierInclusion {
		t.Fatalf("got %q/%s, want A/inclusion", got, tier)
	}
}
