package tools

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProcessADFValue_MarkdownString(t *testing.T) {
	v, set := processADFValue("# Release\n\n- ship it")
	if !set {
		t.Fatalf("expected value to be set")
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	for _, want := range []string{
		`"type":"doc"`,
		`"version":1`,
		`"type":"heading"`,
		`"attrs":{"level":1}`,
		`"type":"bulletList"`,
		`"text":"ship it"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %s", want, got)
		}
	}
}

func TestProcessADFValue_PlainParagraph(t *testing.T) {
	v, set := processADFValue("just a sentence")
	if !set {
		t.Fatalf("expected value to be set")
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"just a sentence"}]}]}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", string(b), want)
	}
}

func TestProcessADFValue_JSONStringPassthrough(t *testing.T) {
	raw := `{"type":"doc","version":1,"content":[]}`
	v, set := processADFValue(raw)
	if !set {
		t.Fatalf("expected value to be set")
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map passthrough, got %T", v)
	}
	if obj["type"] != "doc" {
		t.Fatalf("expected doc passthrough, got %v", obj["type"])
	}
}

func TestProcessADFValue_MapPassthrough(t *testing.T) {
	doc := map[string]interface{}{"type": "doc", "version": 1}
	v, set := processADFValue(doc)
	if !set {
		t.Fatalf("expected value to be set")
	}
	if _, ok := v.(map[string]interface{}); !ok {
		t.Fatalf("expected map passthrough, got %T", v)
	}
}

func TestProcessADFValue_EmptyAndUnsupported(t *testing.T) {
	if _, set := processADFValue(""); set {
		t.Fatalf("empty string should not set the field")
	}
	if _, set := processADFValue("   "); set {
		t.Fatalf("blank string should not set the field")
	}
	if _, set := processADFValue(42); set {
		t.Fatalf("numbers should not set the field")
	}
	if _, set := processADFValue(nil); set {
		t.Fatalf("nil should not set the field")
	}
}

func TestHandleADFField(t *testing.T) {
	fields := map[string]interface{}{"description": "see `code`"}
	handleADFField(fields, "description")
	b, err := json.Marshal(fields["description"])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"marks":[{"type":"code"}]`) {
		t.Fatalf("expected code mark in %s", string(b))
	}

	handleADFField(fields, "environment")
	if _, ok := fields["environment"]; ok {
		t.Fatalf("absent field should stay unset")
	}
}

func TestBuildCreateBodyConvertsFieldsDescription(t *testing.T) {
	p := &jiraCreateIssueParams{
		Fields: map[string]interface{}{
			"summary":     "s",
			"description": "**bold** text",
		},
	}
	body, tr := buildJiraCreateIssueBody(p)
	if tr != nil {
		t.Fatalf("unexpected failure: %+v", tr)
	}
	fields := body["fields"].(map[string]interface{})
	b, err := json.Marshal(fields["description"])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"type":"doc"`) || !strings.Contains(string(b), `"type":"strong"`) {
		t.Fatalf("expected converted doc with strong mark, got %s", string(b))
	}
}
