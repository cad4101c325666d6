package cliui

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/gtrak/mcp-cli/internal/models"
)

// PlainFormatter renders models as tab-aligned plain text.
type PlainFormatter struct{}

func (f *PlainFormatter) List(m models.ListServersModel) (string, error) {
	if len(m.Servers) == 0 {
		msg := m.Message
		if msg == "" {
			msg = "no servers configured"
		}
		return msg + "\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVER\tSTATUS\tTOOLS")
	if isTTY() {
		fmt.Fprintln(w, "------\t------\t-----")
	}
	for _, s := range m.Servers {
		fmt.Fprintf(w, "%s\t%s\t%d\n", s.Name, s.Status, s.ToolCount)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	fmt.Fprintf(&buf, "\n%d total, %d connected, %d failed\n", m.TotalServers, m.ConnectedServers, m.FailedServers)
	return buf.String(), nil
}

func (f *PlainFormatter) ServerInfo(m models.ServerInfoModel) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s (%s)\n", m.Name, m.Status)
	if len(m.Tools) == 0 {
		buf.WriteString("  (no tools)\n")
		return buf.String(), nil
	}
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, t := range m.Tools {
		fmt.Fprintf(w, "  %s\t%s\n", t.Name, t.Description)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (f *PlainFormatter) ToolInfo(m models.ToolInfoModel) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s/%s\n", m.Server, m.Tool.Name)
	if m.Tool.Description != "" {
		fmt.Fprintf(&buf, "  %s\n", m.Tool.Description)
	}
	if len(m.Params) > 0 {
		parts := make([]string, 0, len(m.Params))
		for _, p := range m.Params {
			if p.Required {
				parts = append(parts, fmt.Sprintf("%s <%s>", p.Name, p.Type))
			} else {
				parts = append(parts, fmt.Sprintf("%s [%s]", p.Name, p.Type))
			}
		}
		fmt.Fprintf(&buf, "  params: %s\n", strings.Join(parts, " "))
	}
	if len(m.Tool.InputSchema) > 0 {
		out, err := marshalIndent(m.Tool.InputSchema)
		if err != nil {
			return "", err
		}
		buf.WriteString(indent(out, "  "))
	}
	return buf.String(), nil
}

func (f *PlainFormatter) CallResult(m models.CallResultModel) (string, error) {
	out, err := marshalIndent(m.Result)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s ->\n%s", m.Server, m.Tool, out), nil
}

func (f *PlainFormatter) SearchResult(m models.SearchResultModel) (string, error) {
	var buf bytes.Buffer
	if m.TotalMatches == 0 {
		fmt.Fprintf(&buf, "no tools matched %q\n", m.Pattern)
		if len(m.Suggestions) > 0 {
			fmt.Fprintf(&buf, "did you mean: %s\n", strings.Join(m.Suggestions, ", "))
		}
		return buf.String(), nil
	}

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, match := range m.Matches {
		for _, tool := range match.Tools {
			fmt.Fprintf(w, "%s/%s\t%s\n", match.Server, tool.Name, tool.Description)
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	fmt.Fprintf(&buf, "\n%d match(es) for %q\n", m.TotalMatches, m.Pattern)
	return buf.String(), nil
}

func (f *PlainFormatter) Fingerprint(m models.FingerprintModel) (string, error) {
	return m.Fingerprint + "\n", nil
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}
