package mcp

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/oxhq/trilium-mcp/internal/config"
	"github.com/oxhq/trilium-mcp/internal/notes"
)

const serverName = "trilium-mcp"

const serverInstructions = `This server exposes a TriliumNext notes instance.

Reading: search_notes takes fulltext and structured criteria (labels #x,
relations ~x.path, note properties; ISO-8601 dates). resolve_note_id maps a
title to a noteId. get_note returns metadata, body, and a contentHash.

Writing: update_note and append_note demand the contentHash from a prior
get_note as expectedHash and refuse stale writes with a conflict error;
re-fetch and retry on conflict. create_note reports same-titled siblings
instead of writing; pass forceCreate=true to override. Markdown content is
converted to HTML for text notes; code notes take plain source plus a mime.

The resource trilium://guide/search-syntax documents the search language.`

// NoteService is the operation surface the dispatcher routes to.
// *notes.Service satisfies it.
type NoteService interface {
	Search(ctx context.Context, p notes.SearchParams) ([]notes.NoteSummary, error)
	Resolve(ctx context.Context, p notes.ResolveParams) (*notes.ResolveResult, error)
	Get(ctx context.Context, p notes.GetParams) (*notes.GetResult, error)
	Create(ctx context.Context, p notes.CreateParams) (*notes.CreateResult, error)
	Update(ctx context.Context, p notes.UpdateParams) (*notes.UpdateResult, error)
	Append(ctx context.Context, p notes.AppendParams) (*notes.UpdateResult, error)
	Delete(ctx context.Context, p notes.DeleteParams) (string, error)
}

// Server exposes the note tools over MCP stdio.
type Server struct {
	mcpServer *server.MCPServer
	service   NoteService
	caps      config.CapabilitySet
	schemas   *schemaSet
	logger    *zap.Logger

	// Every tool's wrapped handler, registered with the catalog or
	// not; the permission gate runs inside the wrapper either way.
	handlers   map[string]server.ToolHandlerFunc
	registered []string
}

// NewServer assembles the server: schemas resolved once, tools
// registered according to the capability set, the guide resource
// attached. The capability set is fixed for the life of the process,
// so the advertised catalog never changes after this.
func NewServer(cfg *config.Config, service NoteService, logger *zap.Logger, version string) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	schemas, err := newSchemaSet()
	if err != nil {
		return nil, err
	}

	s := &Server{
		service:  service,
		caps:     cfg.Permissions,
		schemas:  schemas,
		logger:   logger,
		handlers: make(map[string]server.ToolHandlerFunc),
	}

	m := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions(serverInstructions),
		server.WithLogging(),
		server.WithRecovery(),
	)

	for _, spec := range s.toolSpecs() {
		handler := s.wrap(spec.tool.Name, spec.capability, spec.handler)
		s.handlers[spec.tool.Name] = handler
		if !s.caps.Has(spec.capability) {
			continue
		}
		m.AddTool(spec.tool, handler)
		s.registered = append(s.registered, spec.tool.Name)
	}

	registerResources(m)

	logger.Info("tool catalog assembled",
		zap.Strings("tools", s.registered),
		zap.String("permissions", s.caps.String()),
	)

	s.mcpServer = m
	return s, nil
}

// Serve runs the stdio transport until stdin closes or ctx is
// canceled. Stdout carries only protocol frames; all logging goes to
// stderr.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio", zap.String("server", serverName))
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// wrap builds the dispatch pipeline around a handler: correlation id,
// capability gate, taxonomy mapping, timing.
func (s *Server) wrap(name string, capability config.Capability, h toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		start := time.Now()
		log := s.logger.With(zap.String("tool", name), zap.String("call", uuid.NewString()))

		if !s.caps.Has(capability) {
			log.Warn("tool call rejected", zap.String("capability", string(capability)))
			return errorResult(permissionError(name, capability)), nil
		}

		result, err := h(ctx, req.GetArguments())
		elapsed := time.Since(start)
		if err != nil {
			if te := classify(err); te != nil {
				log.Info("tool call refused",
					zap.String("code", string(te.Code)),
					zap.String("reason", te.Message),
					zap.Duration("elapsed", elapsed),
				)
				return errorResult(te), nil
			}
			log.Error("tool call failed", zap.Error(err), zap.Duration("elapsed", elapsed))
			return nil, err
		}
		log.Debug("tool call completed", zap.Duration("elapsed", elapsed))
		return result, nil
	}
}
