package mcp

import (
	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/oxhq/trilium-mcp/internal/config"
)

const (
	searchNotesDescription = "Search notes with fulltext and structured criteria. " +
		"Criteria address labels (#book), relations (~author.title), or note properties (title, dateModified, parents.noteId); " +
		"date values must be ISO-8601. Returns matching note metadata as JSON. " +
		"Example: {\"searchCriteria\":[{\"property\":\"book\",\"type\":\"label\",\"op\":\"exists\"}]}"

	resolveNoteIDDescription = "Resolve a human-readable note title to its noteId. " +
		"Ranks exact title matches and book notes first, then most recently modified. " +
		"Example: {\"noteName\":\"Meeting Notes\",\"maxResults\":3}"

	getNoteDescription = "Fetch a note's metadata, body, and contentHash by noteId. " +
		"Pass the contentHash back as expectedHash when updating or appending. " +
		"Example: {\"noteId\":\"abc123\"}"

	createNoteDescription = "Create a note under a parent. Markdown content is converted to HTML for text notes; " +
		"code notes take plain source and a mime. Refuses when a same-titled sibling exists unless forceCreate is set. " +
		"Example: {\"parentNoteId\":\"root\",\"title\":\"Ideas\",\"type\":\"text\",\"content\":\"# Ideas\"}"

	updateNoteDescription = "Replace a note's title and/or content. Requires the expectedHash from a prior get_note " +
		"and snapshots a revision before overwriting unless revision=false. " +
		"Example: {\"noteId\":\"abc123\",\"expectedHash\":\"h1\",\"type\":\"text\",\"content\":\"new body\"}"

	appendNoteDescription = "Add content to the end of a note without touching what is already there. " +
		"Requires the expectedHash from a prior get_note. " +
		"Example: {\"noteId\":\"abc123\",\"expectedHash\":\"h1\",\"type\":\"text\",\"content\":\"- follow up\"}"

	deleteNoteDescription = "Delete a note by noteId. This cannot be undone through this server. " +
		"Example: {\"noteId\":\"abc123\"}"
)

// toolSpec binds one tool definition to the capability that unlocks it
// and the handler that serves it.
type toolSpec struct {
	tool       mcplib.Tool
	capability config.Capability
	handler    toolFunc
}

func (s *Server) toolSpecs() []toolSpec {
	return []toolSpec{
		{
			tool:       s.newTool(toolSearchNotes, searchNotesDescription, readOnly()),
			capability: config.CapabilityRead,
			handler:    s.handleSearchNotes,
		},
		{
			tool:       s.newTool(toolResolveNoteID, resolveNoteIDDescription, readOnly()),
			capability: config.CapabilityRead,
			handler:    s.handleResolveNoteID,
		},
		{
			tool:       s.newTool(toolGetNote, getNoteDescription, readOnly()),
			capability: config.CapabilityRead,
			handler:    s.handleGetNote,
		},
		{
			tool:       s.newTool(toolCreateNote, createNoteDescription, writing(false)),
			capability: config.CapabilityWrite,
			handler:    s.handleCreateNote,
		},
		{
			tool:       s.newTool(toolUpdateNote, updateNoteDescription, writing(true)),
			capability: config.CapabilityWrite,
			handler:    s.handleUpdateNote,
		},
		{
			tool:       s.newTool(toolAppendNote, appendNoteDescription, writing(false)),
			capability: config.CapabilityWrite,
			handler:    s.handleAppendNote,
		},
		{
			tool:       s.newTool(toolDeleteNote, deleteNoteDescription, writing(true)),
			capability: config.CapabilityWrite,
			handler:    s.handleDeleteNote,
		},
	}
}

func (s *Server) newTool(name, description string, ann mcplib.ToolAnnotation) mcplib.Tool {
	tool := mcplib.NewToolWithRawSchema(name, description, s.schemas.rawSchema(name))
	tool.Annotations = ann
	return tool
}

func readOnly() mcplib.ToolAnnotation {
	return mcplib.ToolAnnotation{ReadOnlyHint: mcplib.ToBoolPtr(true)}
}

func writing(destructive bool) mcplib.ToolAnnotation {
	return mcplib.ToolAnnotation{
		ReadOnlyHint:    mcplib.ToBoolPtr(false),
		DestructiveHint: mcplib.ToBoolPtr(destructive),
	}
}
