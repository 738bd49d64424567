package tools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter()
}

func TestListToolsIncludesJiraTools(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/tools", nil)
	newTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp ToolResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}
	b, _ := json.Marshal(resp.Data)
	for _, name := range []string{"jira_get_issue", "jira_search_issues", "jira_add_comment", "jira_upload_attachment"} {
		if !strings.Contains(string(b), name) {
			t.Fatalf("expected tool %s in listing", name)
		}
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tools", strings.NewReader(`{"tool":"no_such_tool"}`))
	newTestRouter().ServeHTTP(w, req)

	var resp ToolResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected failure for unknown tool")
	}
	if !strings.Contains(resp.Error, "Unknown tool") {
		t.Fatalf("unexpected error: %q", resp.Error)
	}
}

func TestExecuteInvalidJSON(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tools", strings.NewReader(`{not json`))
	newTestRouter().ServeHTTP(w, req)

	var resp ToolResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected failure for invalid JSON")
	}
}

func TestToolHelp(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tools", strings.NewReader(`{"tool":"jira_add_comment","help":true}`))
	newTestRouter().ServeHTTP(w, req)

	var resp ToolResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	b, _ := json.Marshal(resp.Data)
	if !strings.Contains(string(b), "jira_add_comment") {
		t.Fatalf("expected help payload for jira_add_comment, got %s", string(b))
	}
}

func TestMissingArgsFailWithoutNetwork(t *testing.T) {
	// Tools validate required args before touching the Jira client, so
	// these run without config or connectivity.
	cases := []struct {
		tool string
		want string
	}{
		{"jira_get_issue", "issue"},
		{"jira_search_issues", "query"},
		{"jira_add_comment", "issueIdOrKey"},
		{"jira_download_attachment", "id"},
		{"jira_get_comments_by_ids", "ids"},
	}
	router := newTestRouter()
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/tools", strings.NewReader(`{"tool":"`+tc.tool+`","args":{}}`))
		router.ServeHTTP(w, req)

		var resp ToolResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", tc.tool, err)
		}
		if resp.Success {
			t.Fatalf("%s: expected failure for missing args", tc.tool)
		}
		if !strings.Contains(resp.Error, tc.want) {
			t.Fatalf("%s: expected %q in error %q", tc.tool, tc.want, resp.Error)
		}
	}
}
