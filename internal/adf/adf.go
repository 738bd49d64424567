// Package adf converts a lightweight markdown dialect into Atlassian
// Document Format (ADF), the nested JSON document structure Jira Cloud
// expects for rich-text fields such as issue descriptions and comment
// bodies.
//
// The converter is total: any input string yields a valid document. It
// supports headings, bullet and ordered lists, fenced code blocks, and
// the inline styles strong, emphasis, strikethrough, inline code, and
// links. Nested lists, tables, block quotes, and images are out of scope;
// unrecognized constructs degrade to plain paragraphs.
package adf

import "encoding/json"

// Mark types understood by the Jira rendering API.
const (
	MarkStrong = "strong"
	MarkEm     = "em"
	MarkStrike = "strike"
	MarkCode   = "code"
	MarkLink   = "link"
)

// Document is the root node of a converted document. It always contains
// at least one block; blank input produces a single empty paragraph.
type Document struct {
	Blocks []Block
}

// Block is a top-level structural unit: paragraph, heading, list, or
// code block.
type Block interface {
	blockNode()
}

// Paragraph holds a run of inline content.
type Paragraph struct {
	Inline []Inline
}

// Heading is a section heading, level 1 through 6.
type Heading struct {
	Level  int
	Inline []Inline
}

// CodeBlock holds verbatim text with an optional language tag. Its text
// is never inline-formatted.
type CodeBlock struct {
	Language string
	Text     string
}

// BulletList and OrderedList group contiguous list items. Each item
// carries exactly one paragraph.
type BulletList struct {
	Items []ListItem
}

type OrderedList struct {
	Items []ListItem
}

type ListItem struct {
	Paragraph Paragraph
}

func (*Paragraph) blockNode()   {}
func (*Heading) blockNode()     {}
func (*CodeBlock) blockNode()   {}
func (*BulletList) blockNode()  {}
func (*OrderedList) blockNode() {}

// Inline is a contiguous span of text carrying zero or one style mark.
type Inline struct {
	Text  string
	Marks []Mark
}

// Mark is a style annotation on an inline run. Href is set for link
// marks only.
type Mark struct {
	Type string
	Href string
}

// MarshalJSON emits the ADF wire shape:
// {"type":"doc","version":1,"content":[...]}.
func (d *Document) MarshalJSON() ([]byte, error) {
	blocks := d.Blocks
	if blocks == nil {
		blocks = []Block{&Paragraph{}}
	}
	return json.Marshal(struct {
		Type    string  `json:"type"`
		Version int     `json:"version"`
		Content []Block `json:"content"`
	}{"doc", 1, blocks})
}

func (p *Paragraph) MarshalJSON() ([]byte, error) {
	content := p.Inline
	if content == nil {
		content = []Inline{}
	}
	return json.Marshal(struct {
		Type    string   `json:"type"`
		Content []Inline `json:"content"`
	}{"paragraph", content})
}

type headingAttrs struct {
	Level int `json:"level"`
}

func (h *Heading) MarshalJSON() ([]byte, error) {
	content := h.Inline
	if content == nil {
		content = []Inline{}
	}
	return json.Marshal(struct {
		Type    string       `json:"type"`
		Attrs   headingAttrs `json:"attrs"`
		Content []Inline     `json:"content"`
	}{"heading", headingAttrs{h.Level}, content})
}

func (cb *CodeBlock) MarshalJSON() ([]byte, error) {
	type attrs struct {
		Language string `json:"language"`
	}
	node := struct {
		Type    string   `json:"type"`
		Attrs   *attrs   `json:"attrs,omitempty"`
		Content []Inline `json:"content"`
	}{Type: "codeBlock", Content: []Inline{{Text: cb.Text}}}
	if cb.Language != "" {
		node.Attrs = &attrs{cb.Language}
	}
	return json.Marshal(node)
}

func (bl *BulletList) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string     `json:"type"`
		Content []ListItem `json:"content"`
	}{"bulletList", bl.Items})
}

func (ol *OrderedList) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string     `json:"type"`
		Content []ListItem `json:"content"`
	}{"orderedList", ol.Items})
}

func (li ListItem) MarshalJSON() ([]byte, error) {
	p := li.Paragraph
	return json.Marshal(struct {
		Type    string  `json:"type"`
		Content []Block `json:"content"`
	}{"listItem", []Block{&p}})
}

func (t Inline) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Text  string `json:"text"`
		Marks []Mark `json:"marks,omitempty"`
	}{"text", t.Text, t.Marks})
}

type linkAttrs struct {
	Href string `json:"href"`
}

func (m Mark) MarshalJSON() ([]byte, error) {
	if m.Type == MarkLink {
		return json.Marshal(struct {
			Type  string    `json:"type"`
			Attrs linkAttrs `json:"attrs"`
		}{MarkLink, linkAttrs{m.Href}})
	}
	return json.Marshal(struct {
		Type string `json:"type"`
	}{m.Type})
}
