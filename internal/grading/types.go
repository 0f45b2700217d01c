package grading

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// QuestionType is one of the fixed question archetypes.
type QuestionType string

const (
	MultipleChoice         QuestionType = "multiple_choice"
	MultipleChoiceMulti    QuestionType = "multiple_choice_multi"
	TrueFalseNotGiven      QuestionType = "true_false_not_given"
	YesNoNotGiven          QuestionType = "yes_no_not_given"
	MatchingHeadings       QuestionType = "matching_headings"
	MatchingInformation    QuestionType = "matching_information"
	MatchingFeatures       QuestionType = "matching_features"
	MatchingSentenceEnds   QuestionType = "matching_sentence_endings"
	MapLabeling            QuestionType = "map_labeling"
	TableCompletion        QuestionType = "table_completion"
	SentenceCompletion     QuestionType = "sentence_completion"
	NoteCompletion         QuestionType = "note_completion"
	SummaryCompletion      QuestionType = "summary_completion"
	FormCompletion         QuestionType = "form_completion"
	FlowChartCompletion    QuestionType = "flow_chart_completion"
	DiagramLabelCompletion QuestionType = "diagram_label_completion"
	ShortAnswer            QuestionType = "short_answer"
)

// AllQuestionTypes lists every archetype in declaration order.
func AllQuestionTypes() []QuestionType {
	return []QuestionType{
		MultipleChoice, MultipleChoiceMulti, TrueFalseNotGiven, YesNoNotGiven,
		MatchingHeadings, MatchingInformation, MatchingFeatures, MatchingSentenceEnds,
		MapLabeling, TableCompletion, SentenceCompletion, NoteCompletion,
		SummaryCompletion, FormCompletion, FlowChartCompletion, DiagramLabelCompletion,
		ShortAnswer,
	}
}

// Shape is the form of answer an archetype expects.
type Shape int

const (
	ShapeText    Shape = iota // one string
	ShapeChoices              // a set of selected options
	ShapeLabeled              // sub-item label -> value
)

// LabelScheme derives option labels from their position.
type LabelScheme int

const (
	LettersUpper LabelScheme = iota // A, B, C ...
	RomanLower                      // i, ii, iii ...
)

type archetype struct {
	shape       Shape
	strict      bool
	labels      LabelScheme
	letterToken bool // pull a lone letter out of answers like "Paragraph C"
}

// archetypes must hold an entry for every QuestionType; see TestArchetypeTableIsExhaustive.
var archetypes = map[QuestionType]archetype{
	MultipleChoice:         {shape: ShapeText, strict: true},
	MultipleChoiceMulti:    {shape: ShapeChoices, strict: true},
	TrueFalseNotGiven:      {shape: ShapeText, strict: true},
	YesNoNotGiven:          {shape: ShapeText, strict: true},
	MatchingHeadings:       {shape: ShapeLabeled, strict: true, labels: RomanLower, letterToken: true},
	MatchingInformation:    {shape: ShapeLabeled, strict: true, letterToken: true},
	MatchingFeatures:       {shape: ShapeLabeled, strict: true, letterToken: true},
	MatchingSentenceEnds:   {shape: ShapeText, strict: true},
	MapLabeling:            {shape: ShapeLabeled, strict: true},
	TableCompletion:        {shape: ShapeLabeled, strict: true},
	SentenceCompletion:     {shape: ShapeText},
	NoteCompletion:         {shape: ShapeText},
	SummaryCompletion:      {shape: ShapeText},
	FormCompletion:         {shape: ShapeText},
	FlowChartCompletion:    {shape: ShapeText},
	DiagramLabelCompletion: {shape: ShapeText},
	ShortAnswer:            {shape: ShapeText},
}

// Valid reports whether t is a known archetype.
func (t QuestionType) Valid() bool {
	_, ok := archetypes[t]
	return ok
}

// TakesPolicy reports whether t is scored through its match policy. Composite
// types always compare strictly and multi-select compares option sets.
func (t QuestionType) TakesPolicy() bool {
	a, ok := archetypes[t]
	return !ok || a.shape == ShapeText
}

// Composite reports whether t is scored per sub-item.
func (t QuestionType) Composite() bool {
	return archetypes[t].shape == ShapeLabeled
}

var typeAliases = map[string]QuestionType{
	"mcq":                       MultipleChoice,
	"mcq_single":                MultipleChoice,
	"single_choice":             MultipleChoice,
	"multiple_choice_single":    MultipleChoice,
	"mcq_multi":                 MultipleChoiceMulti,
	"multi_select":              MultipleChoiceMulti,
	"multiple_select":           MultipleChoiceMulti,
	"multiple_choice_multiple":  MultipleChoiceMulti,
	"true_false":                TrueFalseNotGiven,
	"tfng":                      TrueFalseNotGiven,
	"ynng":                      YesNoNotGiven,
	"matching_heading":          MatchingHeadings,
	"matching_feature":          MatchingFeatures,
	"matching_sentence_ending":  MatchingSentenceEnds,
	"map_labelling":             MapLabeling,
	"plan_map_diagram_labeling": MapLabeling,
	"flowchart_completion":      FlowChartCompletion,
	"diagram_labeling":          DiagramLabelCompletion,
	"diagram_labelling":         DiagramLabelCompletion,
	"short_word":                ShortAnswer,
	"short_answer_question":     ShortAnswer,
}

// ParseQuestionType accepts canonical ids and common spellings
// ("Matching-Headings", "map labelling", "mcq_single").
func ParseQuestionType(s string) (QuestionType, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("-", "_", " ", "_").Replace(k)
	if t := QuestionType(k); t.Valid() {
		return t, true
	}
	if t, ok := typeAliases[k]; ok {
		return t, true
	}
	return QuestionType(k), false
}

// UnmarshalJSON canonicalizes known spellings and keeps unknown ones verbatim
// so the scorer can report them.
func (t *QuestionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t, _ = ParseQuestionType(s)
	return nil
}

// Question is the read-only answer key of one test item.
type Question struct {
	ID                 string       `json:"id"`
	Type               QuestionType `json:"type"`
	CorrectAnswer      string       `json:"correct_answer"`
	AlternativeAnswers []string     `json:"alternative_answers,omitempty"`
	Options            []Option     `json:"options,omitempty"`
	Items              []SubItem    `json:"items,omitempty"`
	Points             float64      `json:"points,omitempty"`
}

// PointValue returns Points, defaulting to 1.
func (q Question) PointValue() float64 {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// SubItem is one independently scored blank of a composite question.
type SubItem struct {
	Label              string   `json:"label"`
	Text               string   `json:"text,omitempty"`
	CorrectAnswer      string   `json:"correct_answer"`
	AlternativeAnswers []string `json:"alternative_answers,omitempty"`
	Options            []Option `json:"options,omitempty"`
}

// UnmarshalJSON accepts numeric labels ({"label": 14}).
func (s *SubItem) UnmarshalJSON(b []byte) error {
	type plain SubItem
	var aux struct {
		plain
		Label json.RawMessage `json:"label"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = SubItem(aux.plain)
	s.Label = scalarString(aux.Label)
	return nil
}

// Option is one entry of an option list. An empty Label is derived from the
// option's position.
type Option struct {
	Label string `json:"label,omitempty"`
	Text  string `json:"text"`
}

var optionPrefixRe = regexp.MustCompile(`^\s*([A-Za-z]|[ivx]+|[IVX]+|\d{1,2})\s*[.)]\s+(\S.*)$`)

// UnmarshalJSON accepts a bare string ("B. The river bank") or an object.
func (o *Option) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = ParseOption(s)
		return nil
	}
	type plain Option
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = Option(p)
	return nil
}

// ParseOption splits a leading "A." / "iv)" label off an option string.
func ParseOption(s string) Option {
	if m := optionPrefixRe.FindStringSubmatch(s); m != nil {
		return Option{Label: m[1], Text: strings.TrimSpace(m[2])}
	}
	return Option{Text: strings.TrimSpace(s)}
}

// Label returns the label for the i-th option (0-based).
func (s LabelScheme) Label(i int) string {
	if i < 0 {
		return ""
	}
	switch s {
	case RomanLower:
		return roman(i + 1)
	default:
		if i < 26 {
			return string(rune('A' + i))
		}
		return strconv.Itoa(i + 1)
	}
}

// LabelOptions fills in missing labels using the scheme.
func LabelOptions(opts []Option, scheme LabelScheme) []Option {
	out := make([]Option, len(opts))
	for i, o := range opts {
		if strings.TrimSpace(o.Label) == "" {
			o.Label = scheme.Label(i)
		}
		out[i] = o
	}
	return out
}

func roman(n int) string {
	vals := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	syms := []string{"m", "cm", "d", "cd", "c", "xc", "l", "xl", "x", "ix", "v", "iv", "i"}
	var sb strings.Builder
	for i, v := range vals {
		for n >= v {
			sb.WriteString(syms[i])
			n -= v
		}
	}
	return sb.String()
}

func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	s, _ := scalarToString(v)
	return s
}
