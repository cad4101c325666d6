// Package models defines the structured output values the CLI request
// path hands to a formatter. They are pure data: no rendering logic.
package models

import "github.com/gtrak/mcp-cli/internal/jsonschema"

// ServerStatus is a server's connectivity outcome within a fan-out.
type ServerStatus struct {
	Name      string `json:"name"`
	Status    string `json:"status"` // "connected" or "failed"
	ToolCount int    `json:"tool_count"`
}

// ListServersModel is the result of the `list` subcommand.
type ListServersModel struct {
	Servers         []ServerStatus `json:"servers"`
	TotalServers    int            `json:"total_servers"`
	ConnectedServers int           `json:"connected_servers"`
	FailedServers   int            `json:"failed_servers"`
	Message         string         `json:"message,omitempty"`
}

// ToolSummary is one tool's identity and schema as reported by a server.
type ToolSummary struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema,omitempty"`
}

// ServerInfoModel is the result of the `info` subcommand.
type ServerInfoModel struct {
	Name   string        `json:"name"`
	Status string        `json:"status"`
	Tools  []ToolSummary `json:"tools"`
}

// ToolInfoModel is the result of `tool <tool-id>`.
type ToolInfoModel struct {
	Server string                 `json:"server"`
	Tool   ToolSummary            `json:"tool"`
	Params []jsonschema.ParamInfo `json:"params,omitempty"`
}

// CallResultModel is the result of invoking a tool.
type CallResultModel struct {
	Server  string      `json:"server"`
	Tool    string      `json:"tool"`
	Result  interface{} `json:"result"`
	Attempts int        `json:"attempts,omitempty"`
}

// SearchMatch pairs a server with the tools on it whose name matched
// the glob.
type SearchMatch struct {
	Server string        `json:"server"`
	Tools  []ToolSummary `json:"tools"`
}

// FingerprintModel is the result of the `daemon fingerprint` diagnostic
// subcommand.
type FingerprintModel struct {
	Fingerprint string `json:"fingerprint"`
}

// SearchResultModel is the result of the `search` subcommand.
type SearchResultModel struct {
	Pattern     string        `json:"pattern"`
	Matches     []SearchMatch `json:"matches"`
	TotalMatches int          `json:"total_matches"`
	Suggestions []string      `json:"suggestions,omitempty"`
}
