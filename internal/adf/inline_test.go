package adf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInlinePlain(t *testing.T) {
	runs := formatInline("just plain text")
	assert.Equal(t, []Inline{{Text: "just plain text"}}, runs)
}

func TestFormatInlineNeverEmpty(t *testing.T) {
	runs := formatInline("")
	require.Len(t, runs, 1)
	assert.Equal(t, Inline{Text: ""}, runs[0])
}

func TestFormatInlineMarks(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Inline
	}{
		{"strong asterisks", "**bold**", []Inline{{Text: "bold", Marks: []Mark{{Type: MarkStrong}}}}},
		{"strong underscores", "__bold__", []Inline{{Text: "bold", Marks: []Mark{{Type: MarkStrong}}}}},
		{"em asterisk", "*it*", []Inline{{Text: "it", Marks: []Mark{{Type: MarkEm}}}}},
		{"em underscore", "_it_", []Inline{{Text: "it", Marks: []Mark{{Type: MarkEm}}}}},
		{"strike", "~~gone~~", []Inline{{Text: "gone", Marks: []Mark{{Type: MarkStrike}}}}},
		{"code", "`x := 1`", []Inline{{Text: "x := 1", Marks: []Mark{{Type: MarkCode}}}}},
		{"link", "[label](http://example.com)", []Inline{{Text: "label", Marks: []Mark{{Type: MarkLink, Href: "http://example.com"}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatInline(tc.in))
		})
	}
}

func TestFormatInlineSurroundingText(t *testing.T) {
	runs := formatInline("see `cmd` for details")
	assert.Equal(t, []Inline{
		{Text: "see "},
		{Text: "cmd", Marks: []Mark{{Type: MarkCode}}},
		{Text: " for details"},
	}, runs)
}

func TestFormatInlineStrongBeatsEmAtSameSpot(t *testing.T) {
	runs := formatInline("**x**")
	require.Len(t, runs, 1)
	assert.Equal(t, []Mark{{Type: MarkStrong}}, runs[0].Marks)

	runs = formatInline("__x__")
	require.Len(t, runs, 1)
	assert.Equal(t, []Mark{{Type: MarkStrong}}, runs[0].Marks)
}

func TestFormatInlineLeftmostWins(t *testing.T) {
	runs := formatInline("*em* then **strong**")
	require.Len(t, runs, 3)
	assert.Equal(t, []Mark{{Type: MarkEm}}, runs[0].Marks)
	assert.Equal(t, " then ", runs[1].Text)
	assert.Equal(t, []Mark{{Type: MarkStrong}}, runs[2].Marks)
}

func TestFormatInlineCodeBeatsEmphasisInside(t *testing.T) {
	// The backtick span starts first, so the asterisks inside stay literal.
	runs := formatInline("`a *b* c` tail")
	require.Len(t, runs, 2)
	assert.Equal(t, Inline{Text: "a *b* c", Marks: []Mark{{Type: MarkCode}}}, runs[0])
	assert.Equal(t, " tail", runs[1].Text)
}

func TestFormatInlineEmptyDelimitersStayLiteral(t *testing.T) {
	runs := formatInline("**** and ~~~~")
	assert.Equal(t, []Inline{{Text: "**** and ~~~~"}}, runs)
}

func TestFormatInlineUnmatchedDelimiterIsLiteral(t *testing.T) {
	runs := formatInline("a ** b")
	assert.Equal(t, []Inline{{Text: "a ** b"}}, runs)

	runs = formatInline("half ~~open")
	assert.Equal(t, []Inline{{Text: "half ~~open"}}, runs)
}

func TestFormatInlineNoBacktracking(t *testing.T) {
	// Once the first code span is consumed the scan resumes after it, so
	// the trailing backtick has no partner and stays literal.
	runs := formatInline("`a` b `")
	assert.Equal(t, []Inline{
		{Text: "a", Marks: []Mark{{Type: MarkCode}}},
		{Text: " b `"},
	}, runs)
}

func TestFormatInlineMultipleMarksSequence(t *testing.T) {
	runs := formatInline("~~old~~ [doc](http://d) _note_")
	require.Len(t, runs, 5)
	assert.Equal(t, []Mark{{Type: MarkStrike}}, runs[0].Marks)
	assert.Equal(t, " ", runs[1].Text)
	assert.Equal(t, []Mark{{Type: MarkLink, Href: "http://d"}}, runs[2].Marks)
	assert.Equal(t, " ", runs[3].Text)
	assert.Equal(t, []Mark{{Type: MarkEm}}, runs[4].Marks)
}
