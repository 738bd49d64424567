// Package tools implements the tool registry and the HTTP endpoint that
// exposes it. Each tool file registers its definitions and executors in
// init(); the server dispatches incoming requests by tool name.
package tools

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Tool represents a tool definition
type Tool struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Help        string            `json:"help"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}

// ToolRequest represents a request to execute a tool
type ToolRequest struct {
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args,omitempty"`
	Help bool                   `json:"help,omitempty"`
}

// ToolResponse represents a response from a tool execution
type ToolResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ToolExecutor is a function that executes a tool by name
type ToolExecutor func(args map[string]interface{}) (*ToolResponse, error)

// Registry mapping tool name to executor implementation
var toolExecutors = map[string]ToolExecutor{}

// Available tools registry
var tools = map[string]Tool{}

// NewRouter builds the gin engine serving the tool API.
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/api/tools", handleListTools)
	r.POST("/api/tools", handleExecuteTool)
	return r
}

func handleListTools(c *gin.Context) {
	toolList := make([]Tool, 0, len(tools))
	for _, tool := range tools {
		toolList = append(toolList, tool)
	}
	c.JSON(http.StatusOK, ToolResponse{Success: true, Data: toolList})
}

func handleExecuteTool(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusOK, ToolResponse{Success: false, Error: fmt.Sprintf("read error: %v", err)})
		return
	}

	var req ToolRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusOK, ToolResponse{Success: false, Error: fmt.Sprintf("Invalid JSON: %v", err)})
		return
	}

	log.Printf("[Tools] Incoming tool request: %s raw=%s", req.Tool, string(raw))

	if req.Help {
		tool, exists := tools[req.Tool]
		if !exists {
			c.JSON(http.StatusOK, ToolResponse{Success: false, Error: fmt.Sprintf("Tool not found: %s", req.Tool)})
			return
		}
		c.JSON(http.StatusOK, ToolResponse{Success: true, Data: tool})
		return
	}

	var response *ToolResponse
	if exec, ok := toolExecutors[req.Tool]; ok {
		response, err = exec(req.Args)
		if err != nil {
			response = &ToolResponse{Success: false, Error: fmt.Sprintf("Tool execution error: %v", err)}
		}
	} else {
		response = &ToolResponse{Success: false, Error: fmt.Sprintf("Unknown tool: %s", req.Tool)}
	}

	log.Printf("[Tools] Outgoing tool response: success=%t error=%q", response.Success, response.Error)
	c.JSON(http.StatusOK, response)
}
