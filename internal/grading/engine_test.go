package grading

import (
	"encoding/json"
	"testing"
)

func TestArchetypeTableIsExhaustive(t *testing.T) {
	all := AllQuestionTypes()
	if len(all) != 17 {
		t.Fatalf("expected 17 archetypes, got %d", len(all))
	}
	for _, typ := range all {
		if !typ.Valid() {
			t.Errorf("%s missing from archetype table", typ)
		}
		if _, ok := DefaultPolicies()[typ]; !ok {
			t.Errorf("%s has no default policy", typ)
		}
	}
	if len(archetypes) != len(all) {
		t.Errorf("archetype table has %d entries, want %d", len(archetypes), len(all))
	}
}

func TestParseQuestionType(t *testing.T) {
	tests := []struct {
		in   string
		want QuestionType
		ok   bool
	}{
		{"matching_headings", MatchingHeadings, true},
		{"Matching-Headings", MatchingHeadings, true},
		{"map labelling", MapLabeling, true},
		{"mcq_single", MultipleChoice, true},
		{"mcq_multi", MultipleChoiceMulti, true},
		{"TFNG", TrueFalseNotGiven, true},
		{"short_word", ShortAnswer, true},
		{"essay", QuestionType("essay"), false},
	}
	for _, tc := range tests {
		got, ok := ParseQuestionType(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseQuestionType(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTakesPolicy(t *testing.T) {
	for typ, want := range map[QuestionType]bool{
		ShortAnswer:           true,
		MatchingSentenceEnds:  true,
		MultipleChoiceMulti:   false,
		MapLabeling:           false,
		MatchingHeadings:      false,
		QuestionType("essay"): true,
	} {
		if got := typ.TakesPolicy(); got != want {
			t.Errorf("%s.TakesPolicy() = %v", typ, got)
		}
	}
}

// Scenario: two labels on a map, one right and one wrong.
func TestScoreItemMapLabeling(t *testing.T) {
	e := New()
	q := Question{
		ID:   "q1",
		Type: MapLabeling,
		Items: []SubItem{
			{Label: "A", CorrectAnswer: "Label1"},
			{Label: "B", CorrectAnswer: "CorrectLabel2"},
		},
	}
	out := e.ScoreItem(LabeledAnswer{"A": "Label1", "B": "WrongLabel"}, q)
	if out.Scored != 1 || out.Total != 2 || out.Attempted != 2 {
		t.Fatalf("got %+v, want scored=1 total=2 attempted=2", out)
	}
	if !out.Items["A"] || out.Items["B"] {
		t.Fatalf("per-item map wrong: %v", out.Items)
	}
}

// Scenario: multi-select is all-or-nothing over the correct answer plus alternatives.
func TestScoreItemMultiSelect(t *testing.T) {
	e := New()
	q := Question{ID: "q2", Type: MultipleChoiceMulti, CorrectAnswer: "OptionA", AlternativeAnswers: []string{"OptionB"}}
	tests := []struct {
		name      string
		answer    Answer
		scored    int
		attempted int
	}{
		{"both", ChoiceAnswer{"OptionA", "OptionB"}, 1, 1},
		{"order and case", ChoiceAnswer{"optionb", "OptionA"}, 1, 1},
		{"one of two", ChoiceAnswer{"OptionA"}, 0, 1},
		{"extra", ChoiceAnswer{"OptionA", "OptionB", "OptionC"}, 0, 1},
		{"comma string", TextAnswer("OptionB, OptionA"), 1, 1},
		{"empty", ChoiceAnswer{}, 0, 0},
		{"nil", nil, 0, 0},
		{"wrong shape", LabeledAnswer{"1": "OptionA"}, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := e.ScoreItem(tc.answer, q)
			if out.Scored != tc.scored || out.Attempted != tc.attempted || out.Total != 1 {
				t.Fatalf("got %+v, want scored=%d attempted=%d total=1", out, tc.scored, tc.attempted)
			}
		})
	}
}

func TestScoreItemMultiSelectOptionText(t *testing.T) {
	e := New()
	q := Question{
		Type:               MultipleChoiceMulti,
		CorrectAnswer:      "A",
		AlternativeAnswers: []string{"B"},
		Options:            []Option{{Text: "Rainfall"}, {Text: "Wind"}, {Text: "Sunshine"}},
	}
	if out := e.ScoreItem(ChoiceAnswer{"Rainfall", "b"}, q); out.Scored != 1 {
		t.Fatalf("option text should select its label: %+v", out)
	}
}

// Scenario: heading key stored as full text, learner answers with the roman label.
func TestScoreItemMatchingHeadingsResolvesText(t *testing.T) {
	e := New()
	q := Question{
		ID:   "q3",
		Type: MatchingHeadings,
		Options: []Option{
			{Text: "A failed experiment"},
			{Text: "Early attempts at flight"},
			{Text: "Public reaction"},
			{Text: "The role of government funding"},
			{Text: "Lessons for the future"},
		},
		Items: []SubItem{
			{Label: "14", CorrectAnswer: "The role of government funding"},
			{Label: "15", CorrectAnswer: "ii"},
		},
	}
	out := e.ScoreItem(LabeledAnswer{"14": "iv", "15": "iii"}, q)
	if !out.Items["14"] {
		t.Fatalf("item 14 should resolve to iv: %+v", out)
	}
	if out.Items["15"] || out.Scored != 1 || out.Attempted != 2 || out.Total != 2 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(out.Warnings) != 0 {
		t.Fatalf("label keys should not warn: %v", out.Warnings)
	}
}

func TestScoreItemMatchingInformationLetterToken(t *testing.T) {
	e := New()
	q := Question{
		Type:  MatchingInformation,
		Items: []SubItem{{Label: "1", CorrectAnswer: "C"}, {Label: "2", CorrectAnswer: "E"}, {Label: "3", CorrectAnswer: "A"}},
	}
	out := e.ScoreItem(LabeledAnswer{"1": "Paragraph C", "2": "e", "3": "  "}, q)
	if out.Scored != 2 || out.Attempted != 2 || out.Total != 3 {
		t.Fatalf("got %+v", out)
	}
	if out.Items["3"] {
		t.Fatal("blank answer must be incorrect")
	}
}

func TestScoreItemCompositeUnresolvedWarns(t *testing.T) {
	e := New()
	q := Question{
		ID:      "q4",
		Type:    TableCompletion,
		Options: []Option{{Text: "wheat"}, {Text: "barley"}},
		Items:   []SubItem{{Label: "7", CorrectAnswer: "a grain that is not listed anywhere"}},
	}
	out := e.ScoreItem(LabeledAnswer{"7": "A"}, q)
	if out.Scored != 0 || out.Attempted != 1 {
		t.Fatalf("got %+v", out)
	}
	if len(out.Warnings) != 1 {
		t.Fatalf("expected one data-quality warning, got %v", out.Warnings)
	}
}

func TestScoreItemCompositeAcceptsAuthoredText(t *testing.T) {
	e := New()
	q := Question{
		Type:  MatchingFeatures,
		Items: []SubItem{{Label: "20", CorrectAnswer: "Marie Curie", Options: []Option{{Text: "Isaac Newton"}, {Text: "Marie Curie"}}}},
	}
	if out := e.ScoreItem(LabeledAnswer{"20": "B"}, q); out.Scored != 1 {
		t.Fatalf("label answer: %+v", out)
	}
	if out := e.ScoreItem(LabeledAnswer{"20": "marie curie"}, q); out.Scored != 1 {
		t.Fatalf("text answer: %+v", out)
	}
}

func TestScoreItemCompositeLookup(t *testing.T) {
	e := New()
	q := Question{
		Type:  MapLabeling,
		Items: []SubItem{{Label: "14", CorrectAnswer: "bridge"}, {Label: "Gate", CorrectAnswer: "car park"}, {CorrectAnswer: "cafe"}},
	}
	out := e.ScoreItem(LabeledAnswer{"14.0": "Bridge", " gate ": "the car park", "3": "cafe"}, q)
	if out.Scored != 3 || out.Attempted != 3 {
		t.Fatalf("got %+v", out)
	}
}

func TestScoreItemMalformedAnswers(t *testing.T) {
	e := New()
	composite := Question{Type: MapLabeling, Items: []SubItem{{Label: "A", CorrectAnswer: "x"}, {Label: "B", CorrectAnswer: "y"}}}
	atomic := Question{Type: ShortAnswer, CorrectAnswer: "x"}
	tests := []struct {
		name   string
		answer Answer
		q      Question
		total  int
	}{
		{"string for composite", TextAnswer("x"), composite, 2},
		{"array for composite", ChoiceAnswer{"x", "y"}, composite, 2},
		{"map for atomic", LabeledAnswer{"A": "x"}, atomic, 1},
		{"array for atomic", ChoiceAnswer{"x"}, atomic, 1},
		{"nil", nil, atomic, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := e.ScoreItem(tc.answer, tc.q)
			if out.Attempted != 0 || out.Scored != 0 || out.Total != tc.total {
				t.Fatalf("got %+v", out)
			}
		})
	}
}

func TestScoreItemCompositeWithoutItems(t *testing.T) {
	e := New()
	out := e.ScoreItem(TextAnswer("X"), Question{Type: MapLabeling, CorrectAnswer: "x"})
	if out.Scored != 1 || out.Total != 1 || len(out.Warnings) != 1 {
		t.Fatalf("got %+v", out)
	}
}

func TestScoreItemUnknownTypeIsLenient(t *testing.T) {
	e := New()
	out := e.ScoreItem(TextAnswer("The Answer"), Question{Type: QuestionType("essay"), CorrectAnswer: "answer"})
	if out.Scored != 1 {
		t.Fatalf("got %+v", out)
	}
}

func TestScoreItemSummaryCompletion(t *testing.T) {
	e := New()
	q := Question{
		Type:          SummaryCompletion,
		CorrectAnswer: "C",
		Options:       []Option{{Text: "coal"}, {Text: "timber"}, {Text: "wool"}},
	}
	if out := e.ScoreItem(TextAnswer("wool"), q); out.Scored != 1 {
		t.Fatalf("text for lettered key: %+v", out)
	}
	if out := e.ScoreItem(TextAnswer("C"), q); out.Scored != 1 {
		t.Fatalf("letter: %+v", out)
	}
	if out := e.ScoreItem(TextAnswer("coal"), q); out.Scored != 0 || out.Attempted != 1 {
		t.Fatalf("wrong: %+v", out)
	}
}

func TestOutcomeInvariant(t *testing.T) {
	e := New()
	questions := []Question{
		{Type: MapLabeling, Items: []SubItem{{Label: "A", CorrectAnswer: "x"}, {Label: "B", CorrectAnswer: "y"}, {Label: "C"}}},
		{Type: MatchingHeadings, Options: []Option{{Text: "one"}, {Text: "two"}}, Items: []SubItem{{Label: "1", CorrectAnswer: "two"}}},
		{Type: MultipleChoiceMulti, CorrectAnswer: "a,b"},
		{Type: ShortAnswer},
		{Type: SummaryCompletion, CorrectAnswer: "A", Options: []Option{{Text: "x"}}},
	}
	answers := []Answer{
		nil, TextAnswer(""), TextAnswer("x"), TextAnswer("A"), ChoiceAnswer{"a", "b"},
		LabeledAnswer{"A": "x", "B": "", "C": "z", "1": "ii"}, LabeledAnswer{},
	}
	for qi, q := range questions {
		for ai, a := range answers {
			out := e.ScoreItem(a, q)
			if out.Scored < 0 || out.Scored > out.Attempted || out.Attempted > out.Total {
				t.Errorf("question %d answer %d: invariant broken %+v", qi, ai, out)
			}
		}
	}
}

func TestQuestionJSON(t *testing.T) {
	raw := `{
		"id": "q9",
		"type": "Matching-Headings",
		"correct_answer": "",
		"options": ["i. Early days", {"label": "ii", "text": "Growth"}, "Decline"],
		"items": [{"label": 27, "correct_answer": "Growth"}],
		"points": 2
	}`
	var q Question
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatal(err)
	}
	if q.Type != MatchingHeadings || q.PointValue() != 2 {
		t.Fatalf("decoded %+v", q)
	}
	if q.Options[0] != (Option{Label: "i", Text: "Early days"}) || q.Options[2] != (Option{Text: "Decline"}) {
		t.Fatalf("options %+v", q.Options)
	}
	if q.Items[0].Label != "27" {
		t.Fatalf("numeric label decoded as %q", q.Items[0].Label)
	}
	out := New().ScoreItem(LabeledAnswer{"27": "ii"}, q)
	if out.Scored != 1 {
		t.Fatalf("got %+v", out)
	}
}

func TestDecodeAnswer(t *testing.T) {
	var v interface{}
	if err := json.Unmarshal([]byte(`{"1":"A","2":3,"3":{"x":1}}`), &v); err != nil {
		t.Fatal(err)
	}
	la, ok := DecodeAnswer(v).(LabeledAnswer)
	if !ok || la["1"] != "A" || la["2"] != "3" {
		t.Fatalf("labeled: %#v", DecodeAnswer(v))
	}
	if _, present := la["3"]; present {
		t.Fatal("nested values must be dropped")
	}
	if got := DecodeAnswer([]interface{}{"A", 2.5, true}); len(got.(ChoiceAnswer)) != 3 {
		t.Fatalf("choices: %#v", got)
	}
	if got := DecodeAnswer(12.0); got != TextAnswer("12") {
		t.Fatalf("number: %#v", got)
	}
	if got := DecodeAnswer(struct{}{}); got != nil {
		t.Fatalf("unknown shape: %#v", got)
	}
}
