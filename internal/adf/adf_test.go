package adf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestDocumentWireShape(t *testing.T) {
	doc := Convert("hello")
	assert.Equal(t,
		`{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"hello"}]}]}`,
		marshal(t, doc))
}

func TestBlankDocumentWireShape(t *testing.T) {
	// Empty input still serializes with one paragraph and an empty
	// content array, never null.
	assert.Equal(t,
		`{"type":"doc","version":1,"content":[{"type":"paragraph","content":[]}]}`,
		marshal(t, Convert("")))
}

func TestHeadingWireShape(t *testing.T) {
	assert.Equal(t,
		`{"type":"heading","attrs":{"level":3},"content":[{"type":"text","text":"Three"}]}`,
		marshal(t, &Heading{Level: 3, Inline: []Inline{{Text: "Three"}}}))
}

func TestCodeBlockWireShape(t *testing.T) {
	assert.Equal(t,
		`{"type":"codeBlock","attrs":{"language":"go"},"content":[{"type":"text","text":"a := 1"}]}`,
		marshal(t, &CodeBlock{Language: "go", Text: "a := 1"}))

	// No language tag, no attrs.
	assert.Equal(t,
		`{"type":"codeBlock","content":[{"type":"text","text":"raw"}]}`,
		marshal(t, &CodeBlock{Text: "raw"}))
}

func TestListWireShape(t *testing.T) {
	bl := &BulletList{Items: []ListItem{{Paragraph: Paragraph{Inline: []Inline{{Text: "a"}}}}}}
	assert.Equal(t,
		`{"type":"bulletList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"a"}]}]}]}`,
		marshal(t, bl))

	ol := &OrderedList{Items: []ListItem{{Paragraph: Paragraph{Inline: []Inline{{Text: "b"}}}}}}
	assert.Equal(t,
		`{"type":"orderedList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"b"}]}]}]}`,
		marshal(t, ol))
}

func TestMarkWireShape(t *testing.T) {
	assert.Equal(t, `{"type":"strong"}`, marshal(t, Mark{Type: MarkStrong}))
	assert.Equal(t,
		`{"type":"link","attrs":{"href":"http://x"}}`,
		marshal(t, Mark{Type: MarkLink, Href: "http://x"}))
}

func TestInlineWireShape(t *testing.T) {
	assert.Equal(t, `{"type":"text","text":"plain"}`, marshal(t, Inline{Text: "plain"}))
	assert.Equal(t,
		`{"type":"text","text":"hot","marks":[{"type":"em"}]}`,
		marshal(t, Inline{Text: "hot", Marks: []Mark{{Type: MarkEm}}}))
}
