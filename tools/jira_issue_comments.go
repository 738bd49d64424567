package tools

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Comment bodies accept markdown and are converted to ADF through
// processADFValue before submission, matching issue descriptions.

// ----------------- GET list comments for issue -----------------
func executeJiraListCommentsTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	if issue == "" {
		return &ToolResponse{Success: false, Error: "issueIdOrKey is required"}, nil
	}
	q := url.Values{}
	if v, ok := args["startAt"].(float64); ok {
		q.Set("startAt", strconv.Itoa(int(v)))
	}
	if v, ok := args["maxResults"].(float64); ok {
		q.Set("maxResults", strconv.Itoa(int(v)))
	}
	if v, ok := args["orderBy"].(string); ok && v != "" {
		q.Set("orderBy", v)
	}
	if v, ok := args["expand"].(string); ok && v != "" {
		q.Set("expand", v)
	}
	status, body, _, err := jiraDo("GET", "/rest/api/3/issue/"+url.PathEscape(issue)+"/comment", q, nil)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira list comments", status, body), nil
	}
	return jiraSuccess(body, "comments fetched"), nil
}

// ----------------- POST add comment -----------------
func executeJiraAddCommentTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	if issue == "" {
		return &ToolResponse{Success: false, Error: "issueIdOrKey is required"}, nil
	}

	body := map[string]interface{}{}
	if rawBody, ok := args["body"]; ok {
		if processed, set := processADFValue(rawBody); set {
			body["body"] = processed
		}
	}
	if v, ok := args["visibility"].(map[string]interface{}); ok {
		body["visibility"] = v
	}
	if v, ok := args["properties"].([]interface{}); ok {
		body["properties"] = v
	}
	if v, ok := args["expand"].(string); ok && v != "" {
		body["expand"] = v
	}
	if _, exists := body["body"]; !exists {
		return &ToolResponse{Success: false, Error: "body is required (markdown string or Atlassian doc)"}, nil
	}
	status, respBody, _, err := jiraDo("POST", "/rest/api/3/issue/"+url.PathEscape(issue)+"/comment", nil, body)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status != http.StatusCreated && (status < 200 || status >= 300) {
		return jiraFailure("jira add comment", status, respBody), nil
	}
	return jiraSuccess(respBody, "comment added"), nil
}

// parseCommentIDs accepts a JSON array, a []string, or a comma-separated
// string (brackets tolerated, so "[1,2,3]" pastes work).
func parseCommentIDs(raw interface{}) ([]int, error) {
	parseOne := func(s string) (int, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, fmt.Errorf("empty id")
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid id: %s", s)
		}
		return n, nil
	}

	var ids []int
	switch v := raw.(type) {
	case []interface{}:
		for _, it := range v {
			switch t := it.(type) {
			case float64:
				ids = append(ids, int(t))
			case string:
				n, err := parseOne(t)
				if err != nil {
					return nil, err
				}
				ids = append(ids, n)
			default:
				return nil, fmt.Errorf("unsupported id type: %T", t)
			}
		}
	case []string:
		for _, s := range v {
			n, err := parseOne(s)
			if err != nil {
				return nil, err
			}
			ids = append(ids, n)
		}
	case string:
		s := strings.TrimSpace(v)
		s = strings.TrimPrefix(s, "[")
		s = strings.TrimSuffix(s, "]")
		for _, part := range strings.Split(s, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			n, err := parseOne(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, n)
		}
	default:
		return nil, fmt.Errorf("unsupported ids type: %T (expected array or comma-separated string)", v)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no valid ids provided")
	}
	return ids, nil
}

// ----------------- POST bulk fetch comments by ID -----------------
func executeJiraGetCommentsByIDsTool(args map[string]interface{}) (*ToolResponse, error) {
	raw, ok := args["ids"]
	if !ok {
		return &ToolResponse{Success: false, Error: "ids is required (comma-separated string or array)"}, nil
	}
	ids, err := parseCommentIDs(raw)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	status, respBody, _, err := jiraDo("POST", "/rest/api/3/comment/list", nil, map[string]interface{}{"ids": ids})
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira get comments by ids", status, respBody), nil
	}
	return jiraSuccess(respBody, "comments fetched"), nil
}

// commentIDArg accepts --id or the --commentId alias.
func commentIDArg(args map[string]interface{}) string {
	if s, _ := args["id"].(string); s != "" {
		return s
	}
	s, _ := args["commentId"].(string)
	return s
}

// ----------------- GET a comment -----------------
func executeJiraGetCommentTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	id := commentIDArg(args)
	if issue == "" || id == "" {
		return &ToolResponse{Success: false, Error: "issueIdOrKey and id are required"}, nil
	}
	q := url.Values{}
	if v, ok := args["expand"].(string); ok && v != "" {
		q.Set("expand", v)
	}
	status, body, _, err := jiraDo("GET", "/rest/api/3/issue/"+url.PathEscape(issue)+"/comment/"+url.PathEscape(id), q, nil)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNotFound {
		return &ToolResponse{Success: false, Error: "comment not found"}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira get comment", status, body), nil
	}
	return jiraSuccess(body, "comment fetched"), nil
}

// ----------------- PUT update comment -----------------
func executeJiraUpdateCommentTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	id := commentIDArg(args)
	if issue == "" || id == "" {
		return &ToolResponse{Success: false, Error: "issueIdOrKey and id are required"}, nil
	}
	q := url.Values{}
	if b, ok := coerceBool(args["notifyUsers"]); ok {
		q.Set("notifyUsers", fmt.Sprintf("%t", b))
	}
	if b, ok := coerceBool(args["overrideEditableFlag"]); ok {
		q.Set("overrideEditableFlag", fmt.Sprintf("%t", b))
	}
	if v, ok := args["expand"].(string); ok && v != "" {
		q.Set("expand", v)
	}
	body := map[string]interface{}{}
	if rawBody, ok := args["body"]; ok {
		if processed, set := processADFValue(rawBody); set {
			body["body"] = processed
		}
	}
	if v, ok := args["visibility"].(map[string]interface{}); ok {
		body["visibility"] = v
	}
	if v, ok := args["properties"].([]interface{}); ok {
		body["properties"] = v
	}
	if _, exists := body["body"]; !exists {
		return &ToolResponse{Success: false, Error: "body is required (markdown string or Atlassian doc)"}, nil
	}
	status, respBody, _, err := jiraDo("PUT", "/rest/api/3/issue/"+url.PathEscape(issue)+"/comment/"+url.PathEscape(id), q, body)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira update comment", status, respBody), nil
	}
	return jiraSuccess(respBody, "comment updated"), nil
}

// ----------------- DELETE comment -----------------
func executeJiraDeleteCommentTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	id := commentIDArg(args)
	if issue == "" || id == "" {
		return &ToolResponse{Success: false, Error: "issueIdOrKey and id are required"}, nil
	}
	status, respBody, _, err := jiraDo("DELETE", "/rest/api/3/issue/"+url.PathEscape(issue)+"/comment/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNoContent || (status >= 200 && status < 300) {
		return &ToolResponse{Success: true, Data: map[string]interface{}{"message": "comment deleted"}}, nil
	}
	return jiraFailure("jira delete comment", status, respBody), nil
}

func init() {
	tools["jira_list_comments"] = Tool{
		Name:        "jira_list_comments",
		Description: "List all comments for an issue",
		Help: `Usage: /tool jira_list_comments --issueIdOrKey <ISSUE> [--startAt <n>] [--maxResults <n>] [--orderBy <field>] [--expand <fields>]
Aliases: --issue`,
		Parameters: map[string]string{
			"issueIdOrKey": "Issue key or ID (required)",
			"startAt":      "Start index",
			"maxResults":   "Max results",
			"orderBy":      "Order by field",
			"expand":       "Expand fields",
		},
	}
	toolExecutors["jira_list_comments"] = executeJiraListCommentsTool

	tools["jira_add_comment"] = Tool{
		Name:        "jira_add_comment",
		Description: "Add a comment to an issue (markdown body converted to ADF)",
		Help: `Usage: /tool jira_add_comment --issueIdOrKey <ISSUE> --body <markdown|object> [--visibility <obj>] [--properties <array>] [--expand <fields>]
Aliases: --issue`,
		Parameters: map[string]string{
			"issueIdOrKey": "Issue key or ID (required)",
			"body":         "Comment body (markdown string or Atlassian doc object, required)",
			"visibility":   "Visibility object",
			"properties":   "Array of EntityProperty objects",
			"expand":       "Expand fields",
		},
	}
	toolExecutors["jira_add_comment"] = executeJiraAddCommentTool

	tools["jira_get_comment"] = Tool{
		Name:        "jira_get_comment",
		Description: "Get a single comment by ID",
		Help: `Usage: /tool jira_get_comment --issueIdOrKey <ISSUE> --id <commentId> [--expand <fields>]
Aliases: --issue, --commentId`,
		Parameters: map[string]string{
			"issueIdOrKey": "Issue key or ID (required)",
			"id":           "Comment ID (required)",
			"expand":       "Expand fields",
		},
	}
	toolExecutors["jira_get_comment"] = executeJiraGetCommentTool

	tools["jira_update_comment"] = Tool{
		Name:        "jira_update_comment",
		Description: "Update a comment (markdown body converted to ADF)",
		Help: `Usage: /tool jira_update_comment --issueIdOrKey <ISSUE> --id <commentId> --body <markdown|object> [--notifyUsers <bool>] [--overrideEditableFlag <bool>] [--expand <fields>]
Aliases: --issue, --commentId`,
		Parameters: map[string]string{
			"issueIdOrKey":         "Issue key or ID (required)",
			"id":                   "Comment ID (required)",
			"body":                 "Updated body (required)",
			"notifyUsers":          "Notify users (bool)",
			"overrideEditableFlag": "Override editable flag (bool)",
			"expand":               "Expand fields",
		},
	}
	toolExecutors["jira_update_comment"] = executeJiraUpdateCommentTool

	tools["jira_delete_comment"] = Tool{
		Name:        "jira_delete_comment",
		Description: "Delete a comment",
		Help: `Usage: /tool jira_delete_comment --issueIdOrKey <ISSUE> --id <commentId>
Aliases: --issue, --commentId`,
		Parameters: map[string]string{
			"issueIdOrKey": "Issue key or ID (required)",
			"id":           "Comment ID (required)",
		},
	}
	toolExecutors["jira_delete_comment"] = executeJiraDeleteCommentTool

	tools["jira_get_comments_by_ids"] = Tool{
		Name:        "jira_get_comments_by_ids",
		Description: "Fetch multiple comments in one call by their IDs",
		Help: `Usage: /tool jira_get_comments_by_ids --ids <id,id,...>
The ids argument accepts a JSON array or a comma-separated string; surrounding brackets are tolerated.`,
		Parameters: map[string]string{
			"ids": "Comment IDs (array or comma-separated string, required)",
		},
	}
	toolExecutors["jira_get_comments_by_ids"] = executeJiraGetCommentsByIDsTool
}
