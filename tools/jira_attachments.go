package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ----------------- jira_list_attachments -----------------
// Attachments live on the issue's attachment field.
func executeJiraListAttachmentsTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	if issue == "" {
		return &ToolResponse{Success: false, Error: "issue (issueIdOrKey) is required"}, nil
	}
	q := url.Values{}
	q.Set("fields", "attachment")
	status, body, _, err := jiraDo("GET", "/rest/api/3/issue/"+url.PathEscape(issue), q, nil)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNotFound {
		return &ToolResponse{Success: false, Error: "issue not found"}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira list attachments", status, body), nil
	}
	resp := jiraSuccess(body, "attachments fetched")
	// Surface just the attachment array when the response has the expected shape.
	if obj, ok := resp.Data.(map[string]interface{}); ok {
		if fields, ok := obj["fields"].(map[string]interface{}); ok {
			if att, ok := fields["attachment"]; ok {
				resp.Data = map[string]interface{}{"issue": issue, "attachments": att}
			}
		}
	}
	return resp, nil
}

// ----------------- jira_get_attachment -----------------
// GET /rest/api/3/attachment/{id}
func executeJiraGetAttachmentTool(args map[string]interface{}) (*ToolResponse, error) {
	id, _ := args["id"].(string)
	if id == "" {
		id, _ = args["attachmentId"].(string)
	}
	if id == "" {
		return &ToolResponse{Success: false, Error: "id (attachmentId) is required"}, nil
	}
	status, body, _, err := jiraDo("GET", "/rest/api/3/attachment/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNotFound {
		return &ToolResponse{Success: false, Error: "attachment not found"}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira get attachment", status, body), nil
	}
	return jiraSuccess(body, "attachment fetched"), nil
}

// ----------------- jira_download_attachment -----------------
// GET /rest/api/3/attachment/content/{id}; Jira redirects to the media
// store and the client follows.
func executeJiraDownloadAttachmentTool(args map[string]interface{}) (*ToolResponse, error) {
	id, _ := args["id"].(string)
	if id == "" {
		id, _ = args["attachmentId"].(string)
	}
	path, _ := args["path"].(string)
	if id == "" || path == "" {
		return &ToolResponse{Success: false, Error: "id (attachmentId) and path are required"}, nil
	}

	status, body, _, err := jiraDo("GET", "/rest/api/3/attachment/content/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if status == http.StatusNotFound {
		return &ToolResponse{Success: false, Error: "attachment not found"}, nil
	}
	if status < 200 || status >= 300 {
		return jiraFailure("jira download attachment", status, body), nil
	}

	if err := os.WriteFile(path, body, 0644); err != nil {
		return &ToolResponse{Success: false, Error: fmt.Sprintf("write %s: %v", path, err)}, nil
	}
	return &ToolResponse{Success: true, Data: map[string]interface{}{
		"path":  path,
		"bytes": len(body),
	}}, nil
}

// ----------------- jira_upload_attachment -----------------
// POST /rest/api/3/issue/{issueIdOrKey}/attachments (multipart, XSRF
// check disabled via X-Atlassian-Token header per Jira docs).
func executeJiraUploadAttachmentTool(args map[string]interface{}) (*ToolResponse, error) {
	issue := issueArg(args)
	path, _ := args["path"].(string)
	if issue == "" || path == "" {
		return &ToolResponse{Success: false, Error: "issue (issueIdOrKey) and path are required"}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &ToolResponse{Success: false, Error: fmt.Sprintf("read %s: %v", path, err)}, nil
	}
	filename, _ := args["filename"].(string)
	if filename == "" {
		filename = filepath.Base(path)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if _, err := part.Write(data); err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	if err := mw.Close(); err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}

	base, email, token, err := jiraConfig()
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/rest/api/3/issue/" + url.PathEscape(issue) + "/attachments"

	req, err := http.NewRequest("POST", base.String(), &buf)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	req.Header.Set("Authorization", jiraAuthHeader(email, token))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Atlassian-Token", "no-check")

	ctx, cancel := context.WithTimeout(context.Background(), jiraRequestTimeout)
	defer cancel()
	if err := jiraLimiter.Wait(ctx); err != nil {
		return &ToolResponse{Success: false, Error: fmt.Sprintf("jira rate limit: %v", err)}, nil
	}
	logJiraRequest(req, nil)

	client := &http.Client{Timeout: jiraRequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return &ToolResponse{Success: false, Error: err.Error()}, nil
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	logJiraResponse(resp, respBody)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return jiraFailure("jira upload attachment", resp.StatusCode, respBody), nil
	}
	return jiraSuccess(respBody, "attachment uploaded"), nil
}

func init() {
	tools["jira_list_attachments"] = Tool{
		Name:        "jira_list_attachments",
		Description: "List attachments on a Jira issue",
		Help: `Usage: /tool jira_list_attachments --issue <ID-or-KEY>

Examples:
  /tool jira_list_attachments --issue PROJ-123`,
		Parameters: map[string]string{
			"issue": "Issue ID or key (alias: issueIdOrKey)",
		},
	}
	toolExecutors["jira_list_attachments"] = executeJiraListAttachmentsTool

	tools["jira_get_attachment"] = Tool{
		Name:        "jira_get_attachment",
		Description: "Get attachment metadata by ID",
		Help: `Usage: /tool jira_get_attachment --id <attachmentId>

Examples:
  /tool jira_get_attachment --id 10010`,
		Parameters: map[string]string{
			"id": "Attachment ID (alias: attachmentId)",
		},
	}
	toolExecutors["jira_get_attachment"] = executeJiraGetAttachmentTool

	tools["jira_download_attachment"] = Tool{
		Name:        "jira_download_attachment",
		Description: "Download attachment content to a local file",
		Help: `Usage: /tool jira_download_attachment --id <attachmentId> --path <local-file>

Examples:
  /tool jira_download_attachment --id 10010 --path /tmp/screenshot.png`,
		Parameters: map[string]string{
			"id":   "Attachment ID (alias: attachmentId)",
			"path": "Destination file path (required)",
		},
	}
	toolExecutors["jira_download_attachment"] = executeJiraDownloadAttachmentTool

	tools["jira_upload_attachment"] = Tool{
		Name:        "jira_upload_attachment",
		Description: "Upload a local file as an issue attachment",
		Help: `Usage: /tool jira_upload_attachment --issue <ID-or-KEY> --path <local-file> [--filename <name>]

Examples:
  /tool jira_upload_attachment --issue PROJ-123 --path ./build.log`,
		Parameters: map[string]string{
			"issue":    "Issue ID or key (alias: issueIdOrKey)",
			"path":     "Local file to upload (required)",
			"filename": "Override the attachment filename",
		},
	}
	toolExecutors["jira_upload_attachment"] = executeJiraUploadAttachmentTool
}
