package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unowned-ai/wordcache/pkg/words"
)

// stringArg returns the named string argument and whether it was provided.
func stringArg(request mcp.CallToolRequest, name string) (string, bool) {
	v, ok := request.Params.Arguments[name].(string)
	return v, ok
}

// requiredID reads a non-empty "id" argument, or returns the tool error to send back.
func requiredID(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id, ok := stringArg(request, "id")
	if !ok || strings.TrimSpace(id) == "" {
		return "", mcp.NewToolResultError("'id' parameter is required and must be a non-empty string.")
	}
	return id, nil
}

// lookupWord fetches id from the session or builds a not-found tool error.
func lookupWord(session *words.Session, id string) (words.Entry, *mcp.CallToolResult) {
	entry, ok := session.Get(id)
	if !ok {
		return words.Entry{}, mcp.NewToolResultError(fmt.Sprintf("Word with id '%s' not found.", id))
	}
	return entry, nil
}

// jsonResult serializes v as the text of a successful tool result.
func jsonResult(v any, what string) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize %s to JSON: %v", what, err))
	}
	return mcp.NewToolResultText(string(data))
}
