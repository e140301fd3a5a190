// Package toolutil provides shared helper functions for go_youtube MCP tools.
// Tool results cross the boundary as text: JSON for successes, plain
// sentences for input problems.
package toolutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TextResult wraps s as a single text content block.
func TextResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: s}},
	}
}

// JSONResult marshals v and returns it as a text content block.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return TextResult(string(data)), nil
}

// ResultText returns the concatenated text of every text block in res.
func ResultText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

// Or returns s, or def when s is blank.
func Or(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

// NormMaxResults returns n, or def when n is not positive.
func NormMaxResults(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
