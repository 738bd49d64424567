package tools

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ----------------- jira_create_issue -----------------
// POST /rest/api/3/issue

type jiraCreateIssueParams struct {
	// Raw passthrough fields object (if provided)
	Fields map[string]interface{}

	// Convenience params
	ProjectID      string
	ProjectKey     string
	IssueTypeID    string
	IssueTypeName  string
	Summary        string
	Description    interface{} // string (markdown, converted to ADF) or prebuilt doc object
	Environment    interface{} // same handling as Description
	Labels         interface{} // []string | []interface{} | csv string
	PriorityName   string
	PriorityID     string
	AssigneeAcctID string
	ReporterAcctID string
	ParentID       string
	ParentKey      string

	// Optional top-level keys
	Update          interface{}
	Properties      interface{}
	HistoryMetadata interface{}
	Transition      interface{}
}

// parseJiraCreateIssueArgs normalizes and validates args into jiraCreateIssueParams.
func parseJiraCreateIssueArgs(args map[string]interface{}) (*jiraCreateIssueParams, *ToolResponse) {
	p := &jiraCreateIssueParams{Fields: map[string]interface{}{}}

	// fields passthrough may be JSON string or object
	if raw, ok := args["fields"]; ok {
		switch v := raw.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				var obj map[string]interface{}
				if err := json.Unmarshal([]byte(v), &obj); err != nil {
					return nil, &ToolResponse{Success: false, Error: fmt.Sprintf("invalid fields JSON: %v", err)}
				}
				if obj != nil {
					p.Fields = obj
				}
			}
		case map[string]interface{}:
			if v != nil {
				p.Fields = v
			}
		}
	}

	stringParams := map[string]*string{
		"projectId":         &p.ProjectID,
		"projectKey":        &p.ProjectKey,
		"issuetypeId":       &p.IssueTypeID,
		"issuetypeName":     &p.IssueTypeName,
		"summary":           &p.Summary,
		"priorityName":      &p.PriorityName,
		"priorityId":        &p.PriorityID,
		"assigneeAccountId": &p.AssigneeAcctID,
		"reporterAccountId": &p.ReporterAcctID,
		"parentId":          &p.ParentID,
		"parentKey":         &p.ParentKey,
	}
	for name, ptr := range stringParams {
		if v, ok := args[name].(string); ok && v != "" {
			*ptr = v
		}
	}

	if v, ok := args["description"]; ok {
		p.Description = v
	}
	if v, ok := args["environment"]; ok {
		p.Environment = v
	}
	if v, ok := args["labels"]; ok {
		p.Labels = v
	}

	// Optional top-level keys: if provided as JSON string, validate and unmarshal
	validateJSONOrPass := func(name string) (interface{}, *ToolResponse) {
		if v, ok := args[name]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				var obj interface{}
				if err := json.Unmarshal([]byte(s), &obj); err != nil {
					return nil, &ToolResponse{Success: false, Error: fmt.Sprintf("invalid JSON for parameter '%s': %v", name, err)}
				}
				return obj, nil
			}
			return v, nil
		}
		return nil, nil
	}
	optionalKeys := []struct {
		name string
		ptr  *interface{}
	}{
		{"update", &p.Update},
		{"properties", &p.Properties},
		{"historyMetadata", &p.HistoryMetadata},
		{"transition", &p.Transition},
	}
	for _, key := range optionalKeys {
		v, tr := validateJSONOrPass(key.name)
		if tr != nil {
			return nil, tr
		}
		*key.ptr = v
	}

	return p, nil
}

func parseLabels(raw interface{}) []string {
	var arr []string
	add := func(s string) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			arr = append(arr, trimmed)
		}
	}
	switch v := raw.(type) {
	case []interface{}:
		for _, it := range v {
			if s, ok := it.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	}
	return arr
}

// buildJiraCreateIssueBody produces the final request body with fields and optional sections.
func buildJiraCreateIssueBody(p *jiraCreateIssueParams) (map[string]interface{}, *ToolResponse) {
	fields := p.Fields

	ensureMap := func(m map[string]interface{}, key string) map[string]interface{} {
		if child, ok := m[key].(map[string]interface{}); ok {
			return child
		}
		child := map[string]interface{}{}
		m[key] = child
		return child
	}
	setIfMissing := func(key string, value interface{}) {
		if _, exists := fields[key]; !exists && value != nil {
			fields[key] = value
		}
	}

	if _, exists := fields["environment"]; !exists {
		if processed, ok := processADFValue(p.Environment); ok {
			fields["environment"] = processed
		}
	}
	if _, exists := fields["description"]; !exists {
		if processed, ok := processADFValue(p.Description); ok {
			fields["description"] = processed
		}
	}
	// Plain strings supplied inside --fields get the same conversion.
	handleADFField(fields, "environment")
	handleADFField(fields, "description")

	// project and issuetype: prefer id over key/name
	if _, exists := fields["project"]; !exists {
		if p.ProjectID != "" {
			ensureMap(fields, "project")["id"] = p.ProjectID
		} else if p.ProjectKey != "" {
			ensureMap(fields, "project")["key"] = p.ProjectKey
		}
	}
	if _, exists := fields["issuetype"]; !exists {
		if p.IssueTypeID != "" {
			ensureMap(fields, "issuetype")["id"] = p.IssueTypeID
		} else if p.IssueTypeName != "" {
			ensureMap(fields, "issuetype")["name"] = p.IssueTypeName
		}
	}

	if p.Summary != "" {
		setIfMissing("summary", p.Summary)
	}
	if labels := parseLabels(p.Labels); len(labels) > 0 {
		setIfMissing("labels", labels)
	}
	if p.PriorityID != "" {
		setIfMissing("priority", map[string]interface{}{"id": p.PriorityID})
	} else if p.PriorityName != "" {
		setIfMissing("priority", map[string]interface{}{"name": p.PriorityName})
	}
	if p.AssigneeAcctID != "" {
		setIfMissing("assignee", map[string]interface{}{"accountId": p.AssigneeAcctID})
	}
	if p.ReporterAcctID != "" {
		setIfMissing("reporter", map[string]interface{}{"accountId": p.ReporterAcctID})
	}
	if p.ParentID != "" {
		setIfMissing("parent", map[string]interface{}{"id": p.ParentID})
	} else if p.ParentKey != "" {
		setIfMissing("parent", map[string]interface{}{"key": p.ParentKey})
	}

	if len(fields) == 0 {
		return nil, &ToolResponse{Success: false, Error: "fields are required (provide 'fields' or convenience params like projectKey/issuetypeId/summary)"}
	}

	body := map[string]interface{}{"fields": fields}
	if p.Update != nil {
		body["update"] = p.Update
	}
	if p.Properties != nil {
		body["properties"] = p.Properties
	}
	if p.HistoryMetadata != nil {
		body["historyMetadata"] = p.HistoryMetadata
	}
	if p.Transition != nil {
		body["transition"] = p.Transition
	}
	return body, nil
}

func executeJiraCreateIssueTool(args map[string]interface{}) (*ToolResponse, error) {
	params, tr := parseJiraCreateIssueArgs(args)
	if tr != nil {
		return tr, nil
	}
	body, tr := buildJiraCreateIssueBody(params)
	if tr != nil {
		return tr, nil
	}

	status, respBody, _, err := jiraDo("POST", "/rest/api/3/issue", nil, body)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira create issue", status, respBody), nil
	}
	return jiraSuccess(respBody, "issue created"), nil
}

// ----------------- jira_get_issue -----------------
func executeJiraGetIssueTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	if issue == "" {
		return &ToolResponse{Success: false, Error: "issue (issueIdOrKey) is required"}, nil
	}

	q := url.Values{}
	if v, ok := args["fields"].(string); ok && v != "" {
		q.Set("fields", v)
	}
	if v, ok := coerceBool(args["fieldsByKeys"]); ok {
		q.Set("fieldsByKeys", strconv.FormatBool(v))
	}
	if v, ok := args["expand"].(string); ok && v != "" {
		q.Set("expand", v)
	}
	if v, ok := args["properties"].(string); ok && v != "" {
		q.Set("properties", v)
	}
	if v, ok := coerceBool(args["updateHistory"]); ok {
		q.Set("updateHistory", strconv.FormatBool(v))
	}

	status, body, _, err := jiraDo("GET", "/rest/api/3/issue/"+url.PathEscape(issue), q, nil)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNotFound {
		return &ToolResponse{Success: false, Error: "issue not found"}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira get issue", status, body), nil
	}
	return jiraSuccess(body, "issue fetched"), nil
}

// ----------------- jira_edit_issue -----------------
func executeJiraEditIssueTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	if issue == "" {
		return &ToolResponse{Success: false, Error: "issue (issueIdOrKey) is required"}, nil
	}
	q := url.Values{}
	for _, name := range []string{"notifyUsers", "overrideScreenSecurity", "overrideEditableFlag", "returnIssue"} {
		if v, ok := coerceBool(args[name]); ok {
			q.Set(name, strconv.FormatBool(v))
		}
	}
	if v, ok := args["expand"].(string); ok && v != "" {
		q.Set("expand", v)
	}

	body := map[string]interface{}{}
	for _, k := range []string{"fields", "update", "properties", "historyMetadata", "transition"} {
		if v, ok := args[k]; ok {
			body[k] = v
		}
	}
	// Markdown descriptions pass through the ADF converter like on create.
	if fields, ok := body["fields"].(map[string]interface{}); ok {
		handleADFField(fields, "description")
		handleADFField(fields, "environment")
	}

	status, respBody, _, err := jiraDo("PUT", "/rest/api/3/issue/"+url.PathEscape(issue), q, body)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNoContent {
		return &ToolResponse{Success: true, Data: map[string]interface{}{"message": "issue updated"}}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira edit issue", status, respBody), nil
	}
	// 200 with JSON when returnIssue=true
	return jiraSuccess(respBody, "issue updated"), nil
}

// ----------------- jira_delete_issue -----------------
func executeJiraDeleteIssueTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	if issue == "" {
		return &ToolResponse{Success: false, Error: "issue (issueIdOrKey) is required"}, nil
	}
	q := url.Values{}
	// deleteSubtasks can be string per docs; accept bool or string
	if v, ok := args["deleteSubtasks"].(bool); ok {
		q.Set("deleteSubtasks", strconv.FormatBool(v))
	} else if s, ok := args["deleteSubtasks"].(string); ok && s != "" {
		q.Set("deleteSubtasks", s)
	}
	status, respBody, _, err := jiraDo("DELETE", "/rest/api/3/issue/"+url.PathEscape(issue), q, nil)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNoContent || (status >= 200 && status < 300) {
		return &ToolResponse{Success: true, Data: map[string]interface{}{"message": "issue deleted"}}, nil
	}
	return jiraFailure("jira delete issue", status, respBody), nil
}

// ----------------- jira_assign_issue -----------------
func executeJiraAssignIssueTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	if issue == "" {
		return &ToolResponse{Success: false, Error: "issue (issueIdOrKey) is required"}, nil
	}
	body := map[string]interface{}{}
	for _, k := range []string{"accountId", "name", "key"} {
		if v, ok := args[k]; ok {
			body[k] = v
		}
	}
	status, respBody, _, err := jiraDo("PUT", "/rest/api/3/issue/"+url.PathEscape(issue)+"/assignee", nil, body)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNoContent {
		return &ToolResponse{Success: true, Data: map[string]interface{}{"message": "assignee set"}}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira assign issue", status, respBody), nil
	}
	return jiraSuccess(respBody, "assignee set"), nil
}

// ----------------- jira_get_transitions -----------------
// GET /rest/api/3/issue/{issueIdOrKey}/transitions
func executeJiraGetTransitionsTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	if issue == "" {
		return &ToolResponse{Success: false, Error: "issue (issueIdOrKey) is required"}, nil
	}

	q := url.Values{}
	if v, ok := args["expand"].(string); ok && v != "" {
		q.Set("expand", v)
	}
	if v, ok := args["transitionId"].(string); ok && v != "" {
		q.Set("transitionId", v)
	}
	for _, name := range []string{"skipRemoteOnlyCondition", "includeUnavailableTransitions", "sortByOpsBarAndStatus"} {
		if v, ok := coerceBool(args[name]); ok {
			q.Set(name, strconv.FormatBool(v))
		}
	}

	status, body, _, err := jiraDo("GET", "/rest/api/3/issue/"+url.PathEscape(issue)+"/transitions", q, nil)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNotFound {
		return &ToolResponse{Success: false, Error: "issue not found"}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira get transitions", status, body), nil
	}
	return jiraSuccess(body, "transitions fetched"), nil
}

// ----------------- jira_transition_issue -----------------
// POST /rest/api/3/issue/{issueIdOrKey}/transitions
func executeJiraTransitionIssueTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	if issue == "" {
		return &ToolResponse{Success: false, Error: "issue (issueIdOrKey) is required"}, nil
	}

	body := map[string]interface{}{}
	for _, k := range []string{"fields", "update", "properties", "historyMetadata", "transition"} {
		if v, ok := args[k]; ok {
			body[k] = v
		}
	}
	// --transitionId convenience, wrapped unless a transition object was given
	if tid, ok := args["transitionId"].(string); ok && tid != "" {
		if _, exists := body["transition"]; !exists {
			body["transition"] = map[string]interface{}{"id": tid}
		}
	}

	status, respBody, _, err := jiraDo("POST", "/rest/api/3/issue/"+url.PathEscape(issue)+"/transitions", nil, body)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNoContent {
		return &ToolResponse{Success: true, Data: map[string]interface{}{"message": "transition applied"}}, nil
	}
	if status < 200 || status >= 300 {
		switch status {
		case http.StatusBadRequest:
			return &ToolResponse{Success: false, Error: "bad request: verify transition id and required fields"}, nil
		case http.StatusNotFound:
			return &ToolResponse{Success: false, Error: "issue or transition not found"}, nil
		case http.StatusConflict:
			return &ToolResponse{Success: false, Error: "conflict: transition cannot be performed"}, nil
		case http.StatusUnauthorized:
			return &ToolResponse{Success: false, Error: "unauthorized"}, nil
		default:
			return jiraFailure("jira transition", status, respBody), nil
		}
	}
	return jiraSuccess(respBody, "transition applied"), nil
}

func init() {
	tools["jira_get_issue"] = Tool{
		Name:        "jira_get_issue",
		Description: "Get Jira issue details by ID or key",
		Help: `Usage: /tool jira_get_issue --issue <ID-or-KEY> [--fields <csv>] [--fieldsByKeys <bool>] [--expand <s>] [--properties <csv>] [--updateHistory <bool>]

Examples:
  /tool jira_get_issue --issue PROJ-123`,
		Parameters: map[string]string{
			"issue":         "Issue ID or key (alias: issueIdOrKey)",
			"fields":        "Comma-separated fields",
			"fieldsByKeys":  "Boolean",
			"expand":        "Expand parameter",
			"properties":    "Comma-separated properties",
			"updateHistory": "Boolean",
		},
	}
	toolExecutors["jira_get_issue"] = executeJiraGetIssueTool

	tools["jira_create_issue"] = Tool{
		Name:        "jira_create_issue",
		Description: "Create a Jira issue (supports full fields JSON or convenience params)",
		Help: `Usage: /tool jira_create_issue [--fields <json>] [--projectKey <key> | --projectId <id>] [--issuetypeId <id> | --issuetypeName <name>] [--summary <text>] [--description <markdown|json>] [--environment <markdown|json>] [--labels <csv|json>] [--priorityName <name>] [--priorityId <id>] [--assigneeAccountId <id>] [--reporterAccountId <id>] [--parentId <id> | --parentKey <key>] [--update <json>] [--properties <json>] [--historyMetadata <json>] [--transition <json>]

Notes:
  - If --fields is provided, it is used as the request fields object.
  - --description and --environment accept markdown; headings, lists,
    code fences, links, and inline styles are converted to Atlassian
    Document Format before sending.

Examples:
  /tool jira_create_issue --projectKey PROJ --issuetypeName Task --summary "Set up CI" --description "# Goal

Create the **CI** pipeline"
  /tool jira_create_issue --fields '{"project":{"key":"PROJ"},"issuetype":{"id":"10001"},"summary":"Do X"}'`,
		Parameters: map[string]string{
			"fields":            "JSON object for fields (overrides convenience params)",
			"projectKey":        "Project key",
			"projectId":         "Project ID",
			"issuetypeId":       "Issue type ID",
			"issuetypeName":     "Issue type name",
			"summary":           "Summary text",
			"description":       "Markdown text or ADF JSON object",
			"environment":       "Markdown text or ADF JSON object",
			"labels":            "CSV string, JSON array, or array",
			"priorityName":      "Priority name",
			"priorityId":        "Priority ID",
			"assigneeAccountId": "Assignee accountId",
			"reporterAccountId": "Reporter accountId",
			"parentId":          "Parent issue ID (for subtasks)",
			"parentKey":         "Parent issue key (for subtasks)",
			"update":            "JSON object",
			"properties":        "JSON array/object",
			"historyMetadata":   "JSON object",
			"transition":        "JSON object for initial transition",
		},
	}
	toolExecutors["jira_create_issue"] = executeJiraCreateIssueTool

	tools["jira_edit_issue"] = Tool{
		Name:        "jira_edit_issue",
		Description: "Edit Jira issue fields/properties",
		Help: `Usage: /tool jira_edit_issue --issue <ID-or-KEY> [--notifyUsers <bool>] [--overrideScreenSecurity <bool>] [--overrideEditableFlag <bool>] [--returnIssue <bool>] [--expand <s>] --fields <json> --update <json>

Plain-string description and environment values inside --fields are
converted from markdown to ADF.

Examples:
  /tool jira_edit_issue --issue PROJ-123 --fields '{"summary":"New summary"}'`,
		Parameters: map[string]string{
			"issue":                  "Issue ID or key (alias: issueIdOrKey)",
			"notifyUsers":            "Boolean",
			"overrideScreenSecurity": "Boolean",
			"overrideEditableFlag":   "Boolean",
			"returnIssue":            "Boolean",
			"expand":                 "Expand parameter",
			"fields":                 "JSON object of fields",
			"update":                 "JSON object of updates",
			"properties":             "JSON array of properties",
			"historyMetadata":        "JSON object",
			"transition":             "JSON object",
		},
	}
	toolExecutors["jira_edit_issue"] = executeJiraEditIssueTool

	tools["jira_delete_issue"] = Tool{
		Name:        "jira_delete_issue",
		Description: "Delete a Jira issue",
		Help: `Usage: /tool jira_delete_issue --issue <ID-or-KEY> [--deleteSubtasks <bool>]

Examples:
  /tool jira_delete_issue --issue PROJ-123 --deleteSubtasks true`,
		Parameters: map[string]string{
			"issue":          "Issue ID or key (alias: issueIdOrKey)",
			"deleteSubtasks": "Boolean or string",
		},
	}
	toolExecutors["jira_delete_issue"] = executeJiraDeleteIssueTool

	tools["jira_assign_issue"] = Tool{
		Name:        "jira_assign_issue",
		Description: "Assign a Jira issue to a user",
		Help: `Usage: /tool jira_assign_issue --issue <ID-or-KEY> [--accountId <id>] [--name <username>] [--key <userKey>]

Examples:
  /tool jira_assign_issue --issue PROJ-123 --accountId 5b10ac8d82e05b22cc7d4ef5`,
		Parameters: map[string]string{
			"issue":     "Issue ID or key (alias: issueIdOrKey)",
			"accountId": "Account ID",
			"name":      "Username",
			"key":       "User key",
		},
	}
	toolExecutors["jira_assign_issue"] = executeJiraAssignIssueTool

	tools["jira_get_transitions"] = Tool{
		Name:        "jira_get_transitions",
		Description: "Get available transitions for a Jira issue",
		Help: `Usage: /tool jira_get_transitions --issue <ID-or-KEY> [--expand <s>] [--transitionId <id>] [--skipRemoteOnlyCondition <bool>] [--includeUnavailableTransitions <bool>] [--sortByOpsBarAndStatus <bool>]

Examples:
  /tool jira_get_transitions --issue PROJ-123 --expand transitions.fields`,
		Parameters: map[string]string{
			"issue":                         "Issue ID or key (alias: issueIdOrKey)",
			"expand":                        "Expand parameter",
			"transitionId":                  "Transition ID",
			"skipRemoteOnlyCondition":       "Boolean",
			"includeUnavailableTransitions": "Boolean",
			"sortByOpsBarAndStatus":         "Boolean",
		},
	}
	toolExecutors["jira_get_transitions"] = executeJiraGetTransitionsTool

	tools["jira_transition_issue"] = Tool{
		Name:        "jira_transition_issue",
		Description: "Perform a transition on a Jira issue (and optionally update fields/comments)",
		Help: `Usage: /tool jira_transition_issue --issue <ID-or-KEY> [--transitionId <id>] [--transition <json>] [--fields <json>] [--update <json>] [--properties <json>] [--historyMetadata <json>]

Notes:
  Provide either --transitionId to set {"transition":{"id":"<id>"}} or a full --transition JSON object.

Examples:
  /tool jira_transition_issue --issue PROJ-123 --transitionId 5`,
		Parameters: map[string]string{
			"issue":           "Issue ID or key (alias: issueIdOrKey)",
			"transitionId":    "Transition ID (convenience)",
			"transition":      "JSON object e.g. {\"id\":\"5\"}",
			"fields":          "JSON object of fields",
			"update":          "JSON object of updates (e.g., comments)",
			"properties":      "JSON array of properties",
			"historyMetadata": "JSON object",
		},
	}
	toolExecutors["jira_transition_issue"] = executeJiraTransitionIssueTool
}
