package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/oxhq/trilium-mcp/internal/content"
)

// Tool names as advertised to clients.
const (
	toolSearchNotes   = "search_notes"
	toolResolveNoteID = "resolve_note_id"
	toolGetNote       = "get_note"
	toolCreateNote    = "create_note"
	toolUpdateNote    = "update_note"
	toolAppendNote    = "append_note"
	toolDeleteNote    = "delete_note"
)

// toolSchemas is the single source of truth for tool arguments: the
// same schema is advertised on tools/list and enforced against every
// incoming call.
var toolSchemas = map[string]*jsonschema.Schema{
	toolSearchNotes:   searchNotesSchema(),
	toolResolveNoteID: resolveNoteIDSchema(),
	toolGetNote:       getNoteSchema(),
	toolCreateNote:    createNoteSchema(),
	toolUpdateNote:    updateNoteSchema(),
	toolAppendNote:    appendNoteSchema(),
	toolDeleteNote:    deleteNoteSchema(),
}

func criterionSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "One search criterion. Consecutive criteria joined with logic OR form a parenthesized group; AND is implicit.",
		Properties: map[string]*jsonschema.Schema{
			"property": {
				Type:        "string",
				MinLength:   jsonschema.Ptr(1),
				Description: "Attribute name (book, author.title) or note property (title, dateModified, parents.noteId).",
			},
			"type": {
				Type:        "string",
				Enum:        []any{"label", "relation", "noteProperty", "fulltext"},
				Description: "What the property addresses: a #label, a ~relation, a built-in note property, or fulltext.",
			},
			"op": {
				Type: "string",
				Enum: []any{
					"exists", "not_exists", "=", "!=", ">", "<", ">=", "<=",
					"contains", "starts_with", "ends_with", "regex",
				},
			},
			"value": {
				Type:        "string",
				Description: "Comparison value. Omit for exists/not_exists. Date properties require ISO-8601 (2024-12-13 or full timestamp with zone).",
			},
			"logic": {
				Type:        "string",
				Enum:        []any{"AND", "OR"},
				Description: "Connector to the next criterion; the last criterion's logic is ignored.",
			},
		},
		Required: []string{"property", "type", "op"},
	}
}

func searchNotesSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"text": {
				Type:        "string",
				Description: "Fulltext term matched against titles and bodies.",
			},
			"searchCriteria": {
				Type:        "array",
				Items:       criterionSchema(),
				Description: "Structured criteria compiled into the Trilium search language.",
			},
			"limit": {
				Type:        "integer",
				Minimum:     jsonschema.Ptr(1.0),
				Description: "Maximum number of results.",
			},
			"includeArchivedNotes": {
				Type:        "boolean",
				Description: "Also search archived notes. Default false.",
			},
		},
	}
}

func resolveNoteIDSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"noteName": {
				Type:        "string",
				MinLength:   jsonschema.Ptr(1),
				Description: "Human-readable note title to resolve.",
			},
			"exactMatch": {
				Type:        "boolean",
				Description: "Match the title exactly instead of by substring. Default false.",
			},
			"maxResults": {
				Type:        "integer",
				Minimum:     jsonschema.Ptr(1.0),
				Description: "How many candidates to return, capped at 10. Default 3.",
			},
			"autoSelect": {
				Type:        "boolean",
				Description: "Select the top-ranked candidate instead of asking when several match. Default false.",
			},
		},
		Required: []string{"noteName"},
	}
}

func getNoteSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"noteId": {
				Type:      "string",
				MinLength: jsonschema.Ptr(1),
			},
			"includeContent": {
				Type:        "boolean",
				Description: "Include the note body and its contentHash. Default true.",
			},
		},
		Required: []string{"noteId"},
	}
}

func attributeSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"type": {
				Type: "string",
				Enum: []any{"label", "relation"},
			},
			"name": {
				Type:      "string",
				MinLength: jsonschema.Ptr(1),
			},
			"value": {
				Type:        "string",
				Description: "Label value, or the target noteId for a relation (required for relations).",
			},
			"position": {
				Type:        "integer",
				Minimum:     jsonschema.Ptr(0.0),
				Description: "Ordering position. Default 10.",
			},
			"isInheritable": {
				Type:        "boolean",
				Description: "Inherit onto descendant notes. Default false.",
			},
		},
		Required: []string{"type", "name"},
	}
}

func createNoteSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"parentNoteId": {
				Type:        "string",
				MinLength:   jsonschema.Ptr(1),
				Description: "Where to place the note; use 'root' for the top level.",
			},
			"title": {
				Type:      "string",
				MinLength: jsonschema.Ptr(1),
			},
			"type": {
				Type:        "string",
				Enum:        kindEnum(),
				Description: "Note kind. text accepts Markdown or HTML; code and mermaid take plain source.",
			},
			"content": {
				Type:        "string",
				Description: "Note body. May be empty for container kinds like book.",
			},
			"mime": {
				Type:        "string",
				Description: "MIME type, required for code notes (text/x-python, application/json, ...).",
			},
			"attributes": {
				Type:        "array",
				Items:       attributeSchema(),
				Description: "Labels and relations to attach after creation.",
			},
			"forceCreate": {
				Type:        "boolean",
				Description: "Create even when a same-titled sibling exists. Default false.",
			},
		},
		Required: []string{"parentNoteId", "title", "type", "content"},
	}
}

func updateNoteSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"noteId": {
				Type:      "string",
				MinLength: jsonschema.Ptr(1),
			},
			"expectedHash": {
				Type:        "string",
				MinLength:   jsonschema.Ptr(1),
				Description: "contentHash from a prior get_note; the write is refused when it is stale.",
			},
			"type": {
				Type:        "string",
				Enum:        kindEnum(),
				Description: "The note's kind, controlling how content is shaped.",
			},
			"title": {
				Type:        "string",
				Description: "New title. Omit to keep the current one.",
			},
			"content": {
				Type:        "string",
				Description: "Replacement body. Omit to keep the current one.",
			},
			"mime": {
				Type:        "string",
				Description: "New MIME type. Omit to keep the current one.",
			},
			"revision": {
				Type:        "boolean",
				Description: "Snapshot the old body as a revision before overwriting. Default true.",
			},
		},
		Required: []string{"noteId", "expectedHash", "type"},
	}
}

func appendNoteSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"noteId": {
				Type:      "string",
				MinLength: jsonschema.Ptr(1),
			},
			"expectedHash": {
				Type:        "string",
				MinLength:   jsonschema.Ptr(1),
				Description: "contentHash from a prior get_note; the write is refused when it is stale.",
			},
			"type": {
				Type: "string",
				Enum: kindEnum(),
			},
			"content": {
				Type:        "string",
				MinLength:   jsonschema.Ptr(1),
				Description: "Fragment added to the end of the existing body.",
			},
			"revision": {
				Type:        "boolean",
				Description: "Snapshot the old body before appending. Default false.",
			},
		},
		Required: []string{"noteId", "expectedHash", "type", "content"},
	}
}

func deleteNoteSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"noteId": {
				Type:      "string",
				MinLength: jsonschema.Ptr(1),
			},
		},
		Required: []string{"noteId"},
	}
}

func kindEnum() []any {
	kinds := content.WritableKinds()
	enum := make([]any, len(kinds))
	for i, k := range kinds {
		enum[i] = k
	}
	return enum
}
