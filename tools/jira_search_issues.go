package tools

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Minimal shapes for parsing Jira search response
type jiraSearchResponse struct {
	Issues []struct {
		Key    string `json:"key"`
		Fields struct {
			Summary string `json:"summary"`
			Status  struct {
				Name string `json:"name"`
			} `json:"status"`
			Assignee *struct {
				DisplayName string `json:"displayName"`
			} `json:"assignee"`
		} `json:"fields"`
	} `json:"issues"`
	NextPageToken string `json:"nextPageToken"`
}

// JiraIssue is the simplified search result row returned to the caller.
type JiraIssue struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Assignee string `json:"assignee,omitempty"`
	URL      string `json:"url"`
}

var defaultSearchFields = []string{"key", "summary", "status", "assignee"}

func executeJiraSearchIssuesTool(args map[string]interface{}) (*ToolResponse, error) {
	query, _ := args["query"].(string)
	if query == "" {
		// Accept alias "jql" too
		query, _ = args["jql"].(string)
	}
	if query == "" {
		return &ToolResponse{Success: false, Error: "query (JQL) parameter is required"}, nil
	}
	max := 10
	if mv, ok := args["max"].(float64); ok { // JSON numbers decode to float64
		max = int(mv)
	} else if mi, ok := args["max"].(int); ok {
		max = mi
	}
	if max <= 0 {
		max = 10
	}

	fields := defaultSearchFields
	if v, ok := args["fields"].(string); ok && v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		fields = parts
	}

	reconcile := reconcileIssueIDs(args["reconcileIssues"])

	// Enhanced JQL search endpoint; long queries and read-after-write
	// reconciliation require POST.
	usePOST := len(query) > 1800 || len(reconcile) > 0

	var (
		status int
		body   []byte
		err    error
	)
	if usePOST {
		reqBody := map[string]interface{}{
			"jql":        query,
			"maxResults": max,
			"fields":     fields,
		}
		if v, ok := args["expand"].(string); ok && v != "" {
			reqBody["expand"] = v
		}
		if v, ok := args["nextPageToken"].(string); ok && v != "" {
			reqBody["nextPageToken"] = v
		}
		if v, ok := coerceBool(args["fieldsByKeys"]); ok {
			reqBody["fieldsByKeys"] = v
		}
		if len(reconcile) > 0 {
			reqBody["reconcileIssues"] = reconcile
		}
		status, body, _, err = jiraDo("POST", "/rest/api/3/search/jql", nil, reqBody)
	} else {
		q := url.Values{}
		q.Set("jql", query)
		q.Set("maxResults", strconv.Itoa(max))
		q.Set("fields", strings.Join(fields, ","))
		if v, ok := args["expand"].(string); ok && v != "" {
			q.Set("expand", v)
		}
		if v, ok := args["nextPageToken"].(string); ok && v != "" {
			q.Set("nextPageToken", v)
		}
		if v, ok := coerceBool(args["fieldsByKeys"]); ok {
			q.Set("fieldsByKeys", strconv.FormatBool(v))
		}
		status, body, _, err = jiraDo("GET", "/rest/api/3/search/jql", q, nil)
	}
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return &ToolResponse{Success: false, Error: fmt.Sprintf("jira search failed: %d (check JIRA_URL, JIRA_TOKEN; set JIRA_EMAIL to use Basic auth with an API token on Jira Cloud)", status)}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira search", status, body), nil
	}

	var jsr jiraSearchResponse
	if err := json.Unmarshal(body, &jsr); err != nil {
		return &ToolResponse{Success: false, Error: fmt.Sprintf("failed to parse jira response: %v", err)}, nil
	}

	browseBase := ""
	if base, _, _, err := jiraConfig(); err == nil {
		browseBase = strings.TrimRight(base.String(), "/")
	}

	issues := make([]JiraIssue, 0, len(jsr.Issues))
	for _, it := range jsr.Issues {
		assignee := ""
		if it.Fields.Assignee != nil {
			assignee = it.Fields.Assignee.DisplayName
		}
		issues = append(issues, JiraIssue{
			Key:      it.Key,
			Summary:  it.Fields.Summary,
			Status:   it.Fields.Status.Name,
			Assignee: assignee,
			URL:      browseBase + "/browse/" + it.Key,
		})
	}

	data := map[string]interface{}{
		"count":  len(issues),
		"issues": issues,
	}
	if jsr.NextPageToken != "" {
		data["nextPageToken"] = jsr.NextPageToken
	}
	return &ToolResponse{Success: true, Data: data}, nil
}

// reconcileIssueIDs accepts []interface{} or []int issue ID lists.
func reconcileIssueIDs(raw interface{}) []int {
	switch v := raw.(type) {
	case []interface{}:
		arr := make([]int, 0, len(v))
		for _, itm := range v {
			switch t := itm.(type) {
			case float64:
				arr = append(arr, int(t))
			case int:
				arr = append(arr, t)
			}
		}
		return arr
	case []int:
		return v
	}
	return nil
}

func init() {
	tools["jira_search_issues"] = Tool{
		Name:        "jira_search_issues",
		Description: "Search Jira issues using Jira Enhanced JQL API (GET/POST)",
		Help: `Usage: /tool jira_search_issues --query <JQL> [--max <N>] [--fields <csv>] [--expand <s>] [--nextPageToken <s>] [--fieldsByKeys <bool>] [--reconcileIssues <json-array>]

Parameters:
  --query <JQL>    The JQL query string (alias: --jql)
  --max <N>        Maximum results to return (default: 10)
  --fields <csv>   Comma-separated fields to return (default: key,summary,status,assignee)
  --reconcileIssues <json-array> Enable read-after-write consistency (forces POST)

Examples:
  /tool jira_search_issues --query "project = TEST ORDER BY created DESC" --max 5`,
		Parameters: map[string]string{
			"query":           "JQL query string (alias: jql)",
			"max":             "Maximum results to return (default: 10)",
			"fields":          "Comma-separated list of fields (optional)",
			"expand":          "Expand parameter (optional)",
			"nextPageToken":   "Pagination token (optional)",
			"fieldsByKeys":    "Boolean (optional)",
			"reconcileIssues": "JSON array of issue IDs to reconcile (optional; forces POST)",
		},
	}
	toolExecutors["jira_search_issues"] = executeJiraSearchIssuesTool
}
