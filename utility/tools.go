package utility

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"

	"jira-bridge/tools"
)

var toolCommandRe = regexp.MustCompile(`^/tool\s+(\w+)(?:\s+(.+))?$`)

// parseToolCommand splits a "/tool name --key value" command into the
// tool name, an argument bag, and whether --help was requested.
func parseToolCommand(command string) (string, map[string]interface{}, bool, error) {
	matches := toolCommandRe.FindStringSubmatch(command)
	if len(matches) < 2 {
		return "", nil, false, fmt.Errorf("invalid tool command format")
	}
	name := matches[1]
	argsString := ""
	if len(matches) > 2 {
		argsString = matches[2]
	}
	if strings.Contains(argsString, "--help") {
		return name, nil, true, nil
	}
	return name, parseToolArgs(argsString), false, nil
}

// parseToolArgs scans --key value pairs. A value runs until the next
// --flag token, so multi-word values need no quoting (quotes are
// stripped when present).
func parseToolArgs(argsString string) map[string]interface{} {
	args := make(map[string]interface{})
	tokens := strings.Fields(argsString)
	for i := 0; i < len(tokens); i++ {
		if !strings.HasPrefix(tokens[i], "--") {
			continue
		}
		key := strings.TrimPrefix(tokens[i], "--")
		if key == "" {
			continue
		}
		var vals []string
		for i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "--") {
			i++
			vals = append(vals, tokens[i])
		}
		args[key] = strings.Trim(strings.Join(vals, " "), `"'`)
	}
	return args
}

// ParseAndExecuteTool parses a /tool command and executes it via the tool server.
func ParseAndExecuteTool(command string) (string, error) {
	name, args, help, err := parseToolCommand(command)
	if err != nil {
		return "", err
	}
	if help {
		tool, err := GetToolHelp(name)
		if err != nil {
			return fmt.Sprintf("Error getting help for %s: %v", name, err), nil
		}
		return fmt.Sprintf("Help for %s:\n%s", name, tool.Help), nil
	}
	resp, err := ExecuteTool(name, args)
	if err != nil {
		return fmt.Sprintf("Error executing tool %s: %v", name, err), nil
	}
	if !resp.Success {
		return fmt.Sprintf("Tool %s failed: %s", name, resp.Error), nil
	}
	resultBytes, err := json.MarshalIndent(resp.Data, "", "  ")
	if err != nil {
		return fmt.Sprintf("Tool %s executed successfully, but failed to format result", name), nil
	}
	return fmt.Sprintf("Tool %s executed successfully:\n```json\n%s\n```", name, string(resultBytes)), nil
}

func toolsURL() string {
	return "http://127.0.0.1" + GetToolsAddr() + "/api/tools"
}

// GetAvailableTools fetches the list of tools from the tool server.
func GetAvailableTools() ([]tools.Tool, error) {
	url := toolsURL()
	log.Printf("[Client->Tools] GET %s", url)
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tool server returned %s", resp.Status)
	}
	var tr tools.ToolResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	if !tr.Success {
		return nil, fmt.Errorf("tool server error: %s", tr.Error)
	}
	b, err := json.Marshal(tr.Data)
	if err != nil {
		return nil, err
	}
	var list []tools.Tool
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ExecuteTool posts a tool execution request to the tool server.
func ExecuteTool(toolName string, args map[string]interface{}) (*tools.ToolResponse, error) {
	url := toolsURL()
	payload := tools.ToolRequest{Tool: toolName, Args: args}
	body, _ := json.Marshal(payload)
	log.Printf("[Client->Tools] POST %s body=%s", url, string(body))
	resp, err := http.Post(url, "application/json", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	rb, _ := io.ReadAll(resp.Body)
	log.Printf("[Client->Tools] Response %s body=%s", resp.Status, string(rb))
	var tr tools.ToolResponse
	if err := json.Unmarshal(rb, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// GetToolHelp finds a tool definition by name via the tool server.
func GetToolHelp(toolName string) (*tools.Tool, error) {
	list, err := GetAvailableTools()
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		if t.Name == toolName {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("tool not found: %s", toolName)
}

// ListAvailableTools renders a human-readable list of tools and their parameters.
func ListAvailableTools() (string, error) {
	available, err := GetAvailableTools()
	if err != nil {
		return fmt.Sprintf("Error getting available tools: %v", err), nil
	}
	var result strings.Builder
	result.WriteString("Available tools:\n\n")
	for _, tool := range available {
		result.WriteString(fmt.Sprintf("**%s** - %s\n", tool.Name, tool.Description))
		if len(tool.Parameters) > 0 {
			result.WriteString("  Parameters:\n")
			for param, desc := range tool.Parameters {
				result.WriteString(fmt.Sprintf("    - %s: %s\n", param, desc))
			}
		}
		result.WriteString("\n")
	}
	return result.String(), nil
}
