package mcpserver

import (
	"context"

	appconversation "agronomo-ia/internal/app/conversation"
	"agronomo-ia/internal/tavus"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerConversationTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"create_conversation",
			mcp.WithDescription("Create a video conversation with the agronomist and return its join link"),
			mcp.WithString("replica_id", mcp.Description("Optional replica id; defaults to the configured replica")),
			mcp.WithString("persona_id", mcp.Description("Optional persona id; defaults to the configured persona")),
			mcp.WithString("language", mcp.Description("Optional conversation language, default spanish")),
		),
		s.handleCreateConversation,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_conversation_attempts",
			mcp.WithDescription("List recorded conversation attempts, newest first"),
			mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 500")),
			mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
		),
		s.handleListAttempts,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_conversation_attempt",
			mcp.WithDescription("Get one recorded conversation attempt by id"),
			mcp.WithString("attempt_id", mcp.Required(), mcp.Description("Attempt id")),
		),
		s.handleGetAttempt,
	)
}

func (s *Server) handleCreateConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conv, err := s.svc.Create(ctx, appconversation.SourceMCP, tavus.ConversationOptions{
		ReplicaID: request.GetString("replica_id", ""),
		PersonaID: request.GetString("persona_id", ""),
		Language:  request.GetString("language", ""),
	})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(conv), nil
}

func (s *Server) handleListAttempts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultPageLimit)
	offset := request.GetInt("offset", 0)
	limit, offset = clampPagination(limit, offset, maxPageLimit)

	items, err := s.svc.History(ctx, limit, offset)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"items": items, "limit": limit, "offset": offset}), nil
}

func (s *Server) handleGetAttempt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("attempt_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	a, svcErr := s.svc.Attempt(ctx, id)
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(a), nil
}
