package grading

import "testing"

func TestIsEquivalentStrictIsEqualityOnly(t *testing.T) {
	e := New()
	strict := []QuestionType{
		MultipleChoice, TrueFalseNotGiven, YesNoNotGiven, MatchingHeadings,
		MatchingInformation, MatchingFeatures, MatchingSentenceEnds, MapLabeling, TableCompletion,
	}
	for _, typ := range strict {
		t.Run(string(typ), func(t *testing.T) {
			if e.IsEquivalent("ropes", "rope", nil, typ) {
				t.Errorf("substring accepted for %s", typ)
			}
			if !e.IsEquivalent("The Ropes", "ropes", nil, typ) {
				t.Errorf("article/case difference rejected for %s", typ)
			}
		})
	}
}

func TestIsEquivalent(t *testing.T) {
	e := New()
	tests := []struct {
		name    string
		user    string
		correct string
		alts    []string
		typ     QuestionType
		want    bool
	}{
		{"empty user", "", "rope", nil, ShortAnswer, false},
		{"blank user", "   ", "rope", nil, ShortAnswer, false},
		{"unscoreable key", "rope", "", nil, ShortAnswer, false},
		{"unscoreable key strict", "rope", " ", nil, MultipleChoice, false},
		{"lenient exact", "Rope.", "rope", nil, ShortAnswer, true},
		{"lenient no substring", "ropes and pulleys", "ropes", nil, SentenceCompletion, false},
		{"lenient typo rejected by default", "rpoe", "rope", nil, NoteCompletion, false},
		{"alternative", "colour", "color", []string{"colour"}, ShortAnswer, true},
		{"alternative only", "colour", "", []string{"colour"}, ShortAnswer, true},
		{"markup in key", "bank", "<b>bank</b>", nil, FormCompletion, true},
		{"markup inside a word", "wa<b>t</b>er", "water", nil, ShortAnswer, true},
		{"strict wrong", "B", "C", nil, MultipleChoice, false},
		{"tfng", "not given", "NOT GIVEN", nil, TrueFalseNotGiven, true},
		{"unknown type is lenient", "rope", "rope", nil, QuestionType("essay"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.IsEquivalent(tc.user, tc.correct, tc.alts, tc.typ); got != tc.want {
				t.Fatalf("IsEquivalent(%q,%q,%v,%s) = %v, want %v", tc.user, tc.correct, tc.alts, tc.typ, got, tc.want)
			}
		})
	}
}

func TestIsEquivalentMaxEditDistance(t *testing.T) {
	e := New(WithMaxEditDistance(1))
	if !e.IsEquivalent("ropez", "ropes", nil, ShortAnswer) {
		t.Error("one edit should pass for lenient types")
	}
	if e.IsEquivalent("ropez", "ropes", nil, MultipleChoice) {
		t.Error("strict types must ignore edit tolerance")
	}
	if e.IsEquivalent("b", "a", nil, ShortAnswer) {
		t.Error("single-character keys must not be fuzzy matched")
	}
}

func TestIsEquivalentSummaryCompletion(t *testing.T) {
	e := New()
	options := []Option{{Text: "rainfall"}, {Text: "temperature"}, {Text: "wind speed"}}
	tests := []struct {
		name    string
		user    string
		correct string
		alts    []string
		want    bool
	}{
		{"direct text", "Temperature", "temperature", nil, true},
		{"alternative", "heat", "temperature", []string{"heat"}, true},
		{"user label to text", "B", "temperature", nil, true},
		{"user label to alternative", "c", "breeze", []string{"wind speed"}, true},
		{"key label to user text", "wind speed", "C", nil, true},
		{"label vs label", "c", "C", nil, true},
		{"wrong label", "A", "temperature", nil, false},
		{"unknown label", "Z", "temperature", nil, false},
		{"wrong text against key label", "rainfall", "C", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.IsEquivalent(tc.user, tc.correct, tc.alts, SummaryCompletion, options...); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
	if e.IsEquivalent("B", "temperature", nil, SummaryCompletion) {
		t.Error("label resolution needs an option list")
	}
}

func TestPolicyOverride(t *testing.T) {
	e := New(WithPolicies(PolicySet{ShortAnswer: PolicyStrict}), WithMaxEditDistance(1))
	if e.IsEquivalent("ropez", "ropes", nil, ShortAnswer) {
		t.Error("short answer overridden to strict should not be fuzzy")
	}
	if !e.IsEquivalent("ropez", "ropes", nil, NoteCompletion) {
		t.Error("other lenient types keep their policy")
	}
}

func TestDefaultPolicies(t *testing.T) {
	ps := DefaultPolicies()
	if ps.For(MapLabeling) != PolicyStrict || ps.For(ShortAnswer) != PolicyLenient || ps.For(SummaryCompletion) != PolicySummary {
		t.Fatalf("unexpected defaults: %v", ps)
	}
	if ps.For(QuestionType("unknown")) != PolicyLenient {
		t.Fatal("unknown types must be lenient")
	}
}
