package mcpserver

import (
	"errors"
	"fmt"

	appconversation "agronomo-ia/internal/app/conversation"
	"agronomo-ia/internal/store"
	"agronomo-ia/internal/tavus"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapDomainError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return toolError("internal_error", "unknown error")
	case errors.Is(err, appconversation.ErrInvalidRequest):
		return toolError("invalid_request", err.Error())
	case errors.Is(err, appconversation.ErrHistoryDisabled):
		return toolError("history_disabled", "attempt history requires POSTGRES_DSN")
	case errors.Is(err, store.ErrNotFound):
		return toolError("not_found", err.Error())
	}
	switch tavus.KindOf(err) {
	case tavus.KindConfiguration:
		return toolError("not_configured", err.Error())
	case tavus.KindTransport:
		return toolError("upstream_unreachable", err.Error())
	case tavus.KindAPI:
		return toolError("upstream_rejected", err.Error())
	case tavus.KindParse:
		return toolError("upstream_bad_response", err.Error())
	default:
		return toolError("internal_error", err.Error())
	}
}
