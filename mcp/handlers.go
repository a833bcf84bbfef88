package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/oxhq/trilium-mcp/internal/notes"
)

// toolFunc is the inner handler shape: decoded by the tool's schema,
// gated and logged by the wrapper around it.
type toolFunc func(ctx context.Context, args map[string]any) (*mcplib.CallToolResult, error)

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcplib.NewToolResultText(string(raw)), nil
}

func (s *Server) handleSearchNotes(ctx context.Context, args map[string]any) (*mcplib.CallToolResult, error) {
	var p notes.SearchParams
	if err := s.schemas.decode(toolSearchNotes, args, &p); err != nil {
		return nil, err
	}
	results, err := s.service.Search(ctx, p)
	if err != nil {
		return nil, err
	}
	return jsonResult(results)
}

func (s *Server) handleResolveNoteID(ctx context.Context, args map[string]any) (*mcplib.CallToolResult, error) {
	var p notes.ResolveParams
	if err := s.schemas.decode(toolResolveNoteID, args, &p); err != nil {
		return nil, err
	}
	result, err := s.service.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

func (s *Server) handleGetNote(ctx context.Context, args map[string]any) (*mcplib.CallToolResult, error) {
	var p notes.GetParams
	if err := s.schemas.decode(toolGetNote, args, &p); err != nil {
		return nil, err
	}
	result, err := s.service.Get(ctx, p)
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

func (s *Server) handleCreateNote(ctx context.Context, args map[string]any) (*mcplib.CallToolResult, error) {
	var p notes.CreateParams
	if err := s.schemas.decode(toolCreateNote, args, &p); err != nil {
		return nil, err
	}
	result, err := s.service.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

func (s *Server) handleUpdateNote(ctx context.Context, args map[string]any) (*mcplib.CallToolResult, error) {
	var p notes.UpdateParams
	if err := s.schemas.decode(toolUpdateNote, args, &p); err != nil {
		return nil, err
	}
	if p.Title == nil && p.Content == nil {
		return nil, validationError("", "set title, content, or both")
	}
	result, err := s.service.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

func (s *Server) handleAppendNote(ctx context.Context, args map[string]any) (*mcplib.CallToolResult, error) {
	var p notes.AppendParams
	if err := s.schemas.decode(toolAppendNote, args, &p); err != nil {
		return nil, err
	}
	result, err := s.service.Append(ctx, p)
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

func (s *Server) handleDeleteNote(ctx context.Context, args map[string]any) (*mcplib.CallToolResult, error) {
	var p notes.DeleteParams
	if err := s.schemas.decode(toolDeleteNote, args, &p); err != nil {
		return nil, err
	}
	status, err := s.service.Delete(ctx, p)
	if err != nil {
		return nil, err
	}
	return mcplib.NewToolResultText(status), nil
}
