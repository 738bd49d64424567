package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/ini.v1"

	"jira-bridge/internal/config"
)

// jiraLimiter throttles outbound Jira REST calls across all tools so a
// chatty agent cannot trip the Cloud API limits.
var jiraLimiter = rate.NewLimiter(rate.Limit(5), 10)

const jiraRequestTimeout = 20 * time.Second

// jiraConfig reads the Jira connection settings from the INI config.
func jiraConfig() (base *url.URL, email, token string, err error) {
	cfg, err := ini.Load(os.ExpandEnv(config.ConfigFilePath))
	if err != nil {
		return nil, "", "", fmt.Errorf("config error: %w", err)
	}
	def := cfg.Section("default")
	jiraURL := def.Key("JIRA_URL").String()
	token = def.Key("JIRA_TOKEN").String()
	email = def.Key("JIRA_EMAIL").String()
	if jiraURL == "" || token == "" {
		return nil, "", "", errors.New("JIRA_URL or JIRA_TOKEN not configured")
	}
	base, err = url.Parse(jiraURL)
	if err != nil {
		return nil, "", "", fmt.Errorf("invalid JIRA_URL: %w", err)
	}
	return base, email, token, nil
}

// jiraAuthHeader picks Basic (email:token, Jira Cloud API tokens) when an
// email is configured, Bearer otherwise.
func jiraAuthHeader(email, token string) string {
	if email != "" {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+token))
	}
	return "Bearer " + token
}

func maskAuth(h string) string {
	if h == "" {
		return ""
	}
	if strings.HasPrefix(h, "Basic ") {
		return "Basic ***masked***"
	}
	if strings.HasPrefix(h, "Bearer ") {
		return "Bearer ***masked***"
	}
	return "***masked***"
}

func logJiraRequest(req *http.Request, body []byte) {
	var headerLines []string
	for k, v := range req.Header {
		val := strings.Join(v, ", ")
		if strings.EqualFold(k, "Authorization") {
			val = maskAuth(val)
		}
		headerLines = append(headerLines, fmt.Sprintf("%s: %s", k, val))
	}
	if body != nil {
		log.Printf("[Jira] Request: %s %s\nHeaders:\n%s\nBody:\n%s", req.Method, req.URL.String(), strings.Join(headerLines, "\n"), string(body))
	} else {
		log.Printf("[Jira] Request: %s %s\nHeaders:\n%s", req.Method, req.URL.String(), strings.Join(headerLines, "\n"))
	}
}

func logJiraResponse(resp *http.Response, body []byte) {
	var headerLines []string
	for k, v := range resp.Header {
		headerLines = append(headerLines, fmt.Sprintf("%s: %s", k, strings.Join(v, ", ")))
	}
	const maxLogBody = 1 << 14
	forLog := body
	if len(forLog) > maxLogBody {
		forLog = forLog[:maxLogBody]
	}
	log.Printf("[Jira] Response: %s\nHeaders:\n%s\nBody (%d bytes, showing %d):\n%s", resp.Status, strings.Join(headerLines, "\n"), len(body), len(forLog), string(forLog))
}

// jiraDo performs an authenticated JSON request against the configured
// Jira instance and returns the status code, response body, and headers.
// Authorization values are masked in logs.
func jiraDo(method, pathWithParams string, query url.Values, bodyObj interface{}) (int, []byte, http.Header, error) {
	base, email, token, err := jiraConfig()
	if err != nil {
		return 0, nil, nil, err
	}
	base.Path = strings.TrimRight(base.Path, "/") + pathWithParams
	if query != nil {
		base.RawQuery = query.Encode()
	}

	var bodyBytes []byte
	if bodyObj != nil {
		bodyBytes, err = json.Marshal(bodyObj)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("encode body: %w", err)
		}
	}

	req, err := http.NewRequest(method, base.String(), nil)
	if err != nil {
		return 0, nil, nil, err
	}
	if bodyBytes != nil {
		req.Body = io.NopCloser(strings.NewReader(string(bodyBytes)))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", jiraAuthHeader(email, token))
	req.Header.Set("Accept", "application/json")

	ctx, cancel := context.WithTimeout(context.Background(), jiraRequestTimeout)
	defer cancel()
	if err := jiraLimiter.Wait(ctx); err != nil {
		return 0, nil, nil, fmt.Errorf("jira rate limit: %w", err)
	}

	logJiraRequest(req, bodyBytes)

	client := &http.Client{Timeout: jiraRequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	logJiraResponse(resp, respBody)

	return resp.StatusCode, respBody, resp.Header, nil
}

// jiraErrorDetailFromBody tries to parse Jira error response JSON and returns a concise string.
// Falls back to the raw response body when structure is unknown.
func jiraErrorDetailFromBody(respBody []byte) string {
	type jiraErr struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	var e jiraErr
	if json.Unmarshal(respBody, &e) == nil {
		var parts []string
		if len(e.ErrorMessages) > 0 {
			parts = append(parts, strings.Join(e.ErrorMessages, "; "))
		}
		if len(e.Errors) > 0 {
			kv := make([]string, 0, len(e.Errors))
			for k, v := range e.Errors {
				kv = append(kv, fmt.Sprintf("%s: %s", k, v))
			}
			parts = append(parts, strings.Join(kv, "; "))
		}
		if len(parts) > 0 {
			return strings.Join(parts, " | ")
		}
	}
	return string(respBody)
}

// jiraFailure builds a failed ToolResponse with whatever error detail the
// response body yields.
func jiraFailure(op string, status int, respBody []byte) *ToolResponse {
	detail := strings.TrimSpace(jiraErrorDetailFromBody(respBody))
	if detail != "" {
		return &ToolResponse{Success: false, Error: fmt.Sprintf("%s failed: %d - %s", op, status, detail)}
	}
	return &ToolResponse{Success: false, Error: fmt.Sprintf("%s failed: %d", op, status)}
}

// jiraSuccess parses a response body as JSON when present, otherwise
// falls back to a short message.
func jiraSuccess(respBody []byte, fallback string) *ToolResponse {
	var obj interface{}
	if len(respBody) > 0 && json.Unmarshal(respBody, &obj) == nil {
		return &ToolResponse{Success: true, Data: obj}
	}
	return &ToolResponse{Success: true, Data: map[string]interface{}{"message": fallback}}
}

// issueArg extracts the issue ID or key, accepting the issueIdOrKey alias.
func issueArg(args map[string]interface{}) string {
	if s, _ := args["issue"].(string); s != "" {
		return s
	}
	s, _ := args["issueIdOrKey"].(string)
	return s
}

// coerceBool accepts JSON bools and the usual string spellings.
func coerceBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		if t == "true" || t == "1" || t == "yes" {
			return true, true
		}
		if t == "false" || t == "0" || t == "no" {
			return false, true
		}
	}
	return false, false
}
