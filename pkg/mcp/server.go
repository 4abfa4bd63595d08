package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	wordcache "github.com/unowned-ai/wordcache/pkg"
	"github.com/unowned-ai/wordcache/pkg/words"
)

// ToolNames lists every tool RegisterTools adds, in registration order.
var ToolNames = []string{
	"ping",
	"add_word",
	"get_word",
	"edit_word",
	"delete_word",
	"toggle_mastered",
	"list_words",
	"get_stats",
	"review_word",
	"mark_review_mastered",
	"reset_words",
}

type WordcacheMCPServer struct {
	mcpServer *server.MCPServer
	session   *words.Session
	logger    *zap.Logger
}

// NewWordcacheMCPServer wraps an mcp-go server around an open word session.
// The caller owns the session and its storage.
func NewWordcacheMCPServer(session *words.Session, logger *zap.Logger) *WordcacheMCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"Wordcache MCP Server",
		wordcache.Version,
		server.WithLogging(),
		server.WithRecovery(),
	)

	return &WordcacheMCPServer{
		mcpServer: s,
		session:   session,
		logger:    logger,
	}
}

// RegisterTools adds every word tool to the server.
func (s *WordcacheMCPServer) RegisterTools() {
	RegisterPingTool(s.mcpServer)
	RegisterAddWordTool(s.mcpServer, s.session, s.logger)
	RegisterGetWordTool(s.mcpServer, s.session)
	RegisterEditWordTool(s.mcpServer, s.session, s.logger)
	RegisterDeleteWordTool(s.mcpServer, s.session, s.logger)
	RegisterToggleMasteredTool(s.mcpServer, s.session, s.logger)
	RegisterListWordsTool(s.mcpServer, s.session)
	RegisterGetStatsTool(s.mcpServer, s.session)
	RegisterReviewWordTool(s.mcpServer, s.session)
	RegisterMarkReviewMasteredTool(s.mcpServer, s.session, s.logger)
	RegisterResetWordsTool(s.mcpServer, s.session, s.logger)
}

// Start runs the stdio event loop. Register tools beforehand.
func (s *WordcacheMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server.
func (s *WordcacheMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
