// Package cliui renders the structured output models into either a
// human-readable plain-text form or JSON. It is a thin consumer of the
// core's models; it owns no business logic.
package cliui

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gtrak/mcp-cli/internal/models"

	"golang.org/x/term"
)

// Formatter renders structured output models for terminal display.
type Formatter interface {
	List(m models.ListServersModel) (string, error)
	ServerInfo(m models.ServerInfoModel) (string, error)
	ToolInfo(m models.ToolInfoModel) (string, error)
	CallResult(m models.CallResultModel) (string, error)
	SearchResult(m models.SearchResultModel) (string, error)
	Fingerprint(m models.FingerprintModel) (string, error)
}

// New returns a JSONFormatter when jsonOutput is set, otherwise a
// PlainFormatter.
func New(jsonOutput bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &PlainFormatter{}
}

// JSONFormatter renders every model as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) List(m models.ListServersModel) (string, error)       { return marshalIndent(m) }
func (f *JSONFormatter) ServerInfo(m models.ServerInfoModel) (string, error)  { return marshalIndent(m) }
func (f *JSONFormatter) ToolInfo(m models.ToolInfoModel) (string, error)      { return marshalIndent(m) }
func (f *JSONFormatter) CallResult(m models.CallResultModel) (string, error)  { return marshalIndent(m) }
func (f *JSONFormatter) SearchResult(m models.SearchResultModel) (string, error) {
	return marshalIndent(m)
}
func (f *JSONFormatter) Fingerprint(m models.FingerprintModel) (string, error) {
	return marshalIndent(m)
}

func marshalIndent(v interface{}) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format json: %w", err)
	}
	return string(out) + "\n", nil
}

// isTTY reports whether stdout is attached to a terminal; plain output
// drops the dashed separator line when it isn't.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
