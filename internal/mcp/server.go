package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftSheet", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftSheet training program server. Browse parsed lifting programs, drill into phases and workout days, and search exercises across programs."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListPrograms, Handler: h.listPrograms},
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
		server.ServerTool{Tool: toolGetWorkoutDay, Handler: h.getWorkoutDay},
		server.ServerTool{Tool: toolFindExercise, Handler: h.findExercise},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentPrograms, Handler: h.recentPrograms},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentPrograms = mcp.NewResource(
	"liftsheet://recent_programs",
	"Recent Programs",
	mcp.WithResourceDescription("The most recently uploaded training programs with phase, workout day, and exercise counts"),
	mcp.WithMIMEType("application/json"),
)
