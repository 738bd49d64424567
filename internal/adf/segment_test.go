package adf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertHeading(t *testing.T) {
	doc := Convert("# Title")
	require.Len(t, doc.Blocks, 1)
	h, ok := doc.Blocks[0].(*Heading)
	require.True(t, ok, "expected heading, got %T", doc.Blocks[0])
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, []Inline{{Text: "Title"}}, h.Inline)
}

func TestConvertHeadingWithInlineStyles(t *testing.T) {
	doc := Convert("## Sub *em* and **strong**")
	require.Len(t, doc.Blocks, 1)
	h, ok := doc.Blocks[0].(*Heading)
	require.True(t, ok)
	assert.Equal(t, 2, h.Level)
	assert.Equal(t, []Inline{
		{Text: "Sub "},
		{Text: "em", Marks: []Mark{{Type: MarkEm}}},
		{Text: " and "},
		{Text: "strong", Marks: []Mark{{Type: MarkStrong}}},
	}, h.Inline)
}

func TestConvertHeadingLevels(t *testing.T) {
	doc := Convert("###### deep")
	h, ok := doc.Blocks[0].(*Heading)
	require.True(t, ok)
	assert.Equal(t, 6, h.Level)

	// Seven hashes is not a heading.
	doc = Convert("####### too deep")
	_, ok = doc.Blocks[0].(*Paragraph)
	assert.True(t, ok)

	// Missing space after the hashes is not a heading either.
	doc = Convert("#nospace")
	_, ok = doc.Blocks[0].(*Paragraph)
	assert.True(t, ok)
}

func TestConvertBulletGrouping(t *testing.T) {
	doc := Convert("- one\n- two")
	require.Len(t, doc.Blocks, 1)
	bl, ok := doc.Blocks[0].(*BulletList)
	require.True(t, ok)
	require.Len(t, bl.Items, 2)
	assert.Equal(t, []Inline{{Text: "one"}}, bl.Items[0].Paragraph.Inline)
	assert.Equal(t, []Inline{{Text: "two"}}, bl.Items[1].Paragraph.Inline)
}

func TestConvertBulletMarkers(t *testing.T) {
	doc := Convert("- dash\n* star\n• dot")
	require.Len(t, doc.Blocks, 1)
	bl, ok := doc.Blocks[0].(*BulletList)
	require.True(t, ok)
	assert.Len(t, bl.Items, 3)
}

func TestConvertInterveningLineBreaksList(t *testing.T) {
	// Any non-bullet line, blank lines included, splits the list.
	doc := Convert("- one\n\n- two")
	require.Len(t, doc.Blocks, 2)
	first, ok := doc.Blocks[0].(*BulletList)
	require.True(t, ok)
	assert.Len(t, first.Items, 1)
	second, ok := doc.Blocks[1].(*BulletList)
	require.True(t, ok)
	assert.Len(t, second.Items, 1)

	doc = Convert("- one\ntext\n- two")
	require.Len(t, doc.Blocks, 3)
	_, ok = doc.Blocks[1].(*Paragraph)
	assert.True(t, ok)
}

func TestConvertBlankLineSplitsOrderedList(t *testing.T) {
	doc := Convert("1. a\n\n2. b")
	require.Len(t, doc.Blocks, 2)
	for i, b := range doc.Blocks {
		ol, ok := b.(*OrderedList)
		require.True(t, ok, "block %d is %T", i, b)
		assert.Len(t, ol.Items, 1)
	}
}

func TestConvertOrderedList(t *testing.T) {
	doc := Convert("1. first\n2. second\n10. tenth")
	require.Len(t, doc.Blocks, 1)
	ol, ok := doc.Blocks[0].(*OrderedList)
	require.True(t, ok)
	require.Len(t, ol.Items, 3)
	assert.Equal(t, []Inline{{Text: "tenth"}}, ol.Items[2].Paragraph.Inline)
}

func TestConvertMixedListsStaySeparate(t *testing.T) {
	doc := Convert("- bullet\n1. ordered")
	require.Len(t, doc.Blocks, 2)
	_, ok := doc.Blocks[0].(*BulletList)
	assert.True(t, ok)
	_, ok = doc.Blocks[1].(*OrderedList)
	assert.True(t, ok)
}

func TestConvertCodeBlock(t *testing.T) {
	doc := Convert("```js\ncode here\n```")
	require.Len(t, doc.Blocks, 1)
	cb, ok := doc.Blocks[0].(*CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "js", cb.Language)
	assert.Equal(t, "code here", cb.Text)
}

func TestConvertCodeBlockSwallowsMarkup(t *testing.T) {
	doc := Convert("```\n# not a heading\n- not a bullet\n```")
	require.Len(t, doc.Blocks, 1)
	cb, ok := doc.Blocks[0].(*CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "", cb.Language)
	assert.Equal(t, "# not a heading\n- not a bullet", cb.Text)
}

func TestConvertUnterminatedFence(t *testing.T) {
	doc := Convert("before\n```go\nfunc main() {}")
	require.Len(t, doc.Blocks, 2)
	cb, ok := doc.Blocks[1].(*CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "go", cb.Language)
	assert.Equal(t, "func main() {}", cb.Text)
}

func TestConvertBlankInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n", " \n\t\n "} {
		doc := Convert(input)
		require.Len(t, doc.Blocks, 1, "input %q", input)
		p, ok := doc.Blocks[0].(*Paragraph)
		require.True(t, ok)
		assert.Empty(t, p.Inline)
	}
}

func TestConvertLinkParagraph(t *testing.T) {
	doc := Convert("[click](http://x)")
	require.Len(t, doc.Blocks, 1)
	p, ok := doc.Blocks[0].(*Paragraph)
	require.True(t, ok)
	assert.Equal(t, []Inline{{Text: "click", Marks: []Mark{{Type: MarkLink, Href: "http://x"}}}}, p.Inline)
}

func TestConvertBlockOrderPreserved(t *testing.T) {
	doc := Convert("# Head\n\npara one\n\n- a\n- b\n\npara two")
	require.Len(t, doc.Blocks, 4)
	_, ok := doc.Blocks[0].(*Heading)
	assert.True(t, ok)
	_, ok = doc.Blocks[1].(*Paragraph)
	assert.True(t, ok)
	_, ok = doc.Blocks[2].(*BulletList)
	assert.True(t, ok)
	_, ok = doc.Blocks[3].(*Paragraph)
	assert.True(t, ok)
}

func TestConvertDeterministic(t *testing.T) {
	input := "# T\n- a\n- b\n```sh\nls\n```\nsee [here](http://x) and `code`"
	first, err := json.Marshal(Convert(input))
	require.NoError(t, err)
	second, err := json.Marshal(Convert(input))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
