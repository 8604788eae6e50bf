package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"

	appconversation "agronomo-ia/internal/app/conversation"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "agronomo-ia"
	serverVersion = "0.1.0"
	statusURI     = "agronomo://status"
)

// StatusFunc reports whether the remote API is usable from this process.
type StatusFunc func() bool

type Server struct {
	svc        *appconversation.Service
	configured StatusFunc

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(svc *appconversation.Service, configured StatusFunc) *Server {
	if configured == nil {
		configured = func() bool { return true }
	}
	mcpSrv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		svc:        svc,
		configured: configured,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerConversationTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcp.NewResource(
			statusURI,
			"service_status",
			mcp.WithResourceDescription("Whether conversations can be created and whether attempt history is kept"),
			mcp.WithMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			payload, err := json.Marshal(map[string]any{
				"tavus_configured": s.configured(),
				"history_enabled":  s.svc.HistoryEnabled(),
			})
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "application/json",
					Text:     string(payload),
				},
			}, nil
		},
	)
}
