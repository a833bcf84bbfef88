package mcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/trilium-mcp/internal/notes"
	"github.com/oxhq/trilium-mcp/internal/search"
)

func newTestSchemas(t *testing.T) *schemaSet {
	t.Helper()
	set, err := newSchemaSet()
	require.NoError(t, err)
	return set
}

func TestSchemasMarshalAndResolve(t *testing.T) {
	set := newTestSchemas(t)
	for name := range toolSchemas {
		raw := set.rawSchema(name)
		require.NotEmpty(t, raw, name)
		assert.True(t, json.Valid(raw), name)
		assert.Contains(t, string(raw), `"properties"`, name)
	}
}

func TestDecodeSearchParams(t *testing.T) {
	set := newTestSchemas(t)

	var p notes.SearchParams
	err := set.decode(toolSearchNotes, map[string]any{
		"text": "kubernetes",
		"searchCriteria": []any{
			map[string]any{"property": "book", "type": "label", "op": "exists", "logic": "AND"},
			map[string]any{"property": "author.title", "type": "relation", "op": "contains", "value": "Tolkien"},
		},
		"limit":                5,
		"includeArchivedNotes": true,
	}, &p)
	require.NoError(t, err)
	assert.Equal(t, "kubernetes", p.Text)
	require.Len(t, p.Criteria, 2)
	assert.Equal(t, search.TypeLabel, p.Criteria[0].Type)
	assert.Equal(t, search.OpExists, p.Criteria[0].Op)
	assert.Equal(t, search.LogicAnd, p.Criteria[0].Logic)
	assert.Equal(t, "Tolkien", p.Criteria[1].Value)
	assert.Equal(t, 5, p.Limit)
	assert.True(t, p.IncludeArchivedNotes)
}

func TestDecodeRejections(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{
			name: "limit zero",
			tool: toolSearchNotes,
			args: map[string]any{"text": "x", "limit": 0},
		},
		{
			name: "unknown criterion type",
			tool: toolSearchNotes,
			args: map[string]any{"searchCriteria": []any{
				map[string]any{"property": "x", "type": "tag", "op": "exists"},
			}},
		},
		{
			name: "criterion missing op",
			tool: toolSearchNotes,
			args: map[string]any{"searchCriteria": []any{
				map[string]any{"property": "x", "type": "label"},
			}},
		},
		{
			name: "get missing noteId",
			tool: toolGetNote,
			args: map[string]any{},
		},
		{
			name: "resolve blank noteName",
			tool: toolResolveNoteID,
			args: map[string]any{"noteName": ""},
		},
		{
			name: "resolve maxResults zero",
			tool: toolResolveNoteID,
			args: map[string]any{"noteName": "x", "maxResults": 0},
		},
		{
			name: "create unknown kind",
			tool: toolCreateNote,
			args: map[string]any{"parentNoteId": "root", "title": "X", "type": "image", "content": ""},
		},
		{
			name: "create missing content",
			tool: toolCreateNote,
			args: map[string]any{"parentNoteId": "root", "title": "X", "type": "text"},
		},
		{
			name: "create negative attribute position",
			tool: toolCreateNote,
			args: map[string]any{
				"parentNoteId": "root", "title": "X", "type": "text", "content": "",
				"attributes": []any{map[string]any{"type": "label", "name": "a", "position": -1}},
			},
		},
		{
			name: "update missing expectedHash",
			tool: toolUpdateNote,
			args: map[string]any{"noteId": "n1", "type": "text"},
		},
		{
			name: "append empty content",
			tool: toolAppendNote,
			args: map[string]any{"noteId": "n1", "expectedHash": "h", "type": "text", "content": ""},
		},
		{
			name: "delete missing noteId",
			tool: toolDeleteNote,
			args: map[string]any{},
		},
	}

	set := newTestSchemas(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sink map[string]any
			err := set.decode(tt.tool, tt.args, &sink)
			var te *ToolError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, CodeValidation, te.Code)
		})
	}
}

func TestDecodeUpdateKeepsAbsentFieldsNil(t *testing.T) {
	set := newTestSchemas(t)

	var p notes.UpdateParams
	require.NoError(t, set.decode(toolUpdateNote, map[string]any{
		"noteId": "n1", "expectedHash": "h1", "type": "text", "title": "Renamed",
	}, &p))
	require.NotNil(t, p.Title)
	assert.Equal(t, "Renamed", *p.Title)
	assert.Nil(t, p.Content)
	assert.Nil(t, p.Mime)
	assert.Nil(t, p.Revision)
}

func TestDecodeToleratesUnknownFields(t *testing.T) {
	var p notes.GetParams
	err := newTestSchemas(t).decode(toolGetNote, map[string]any{"noteId": "n1", "futureFlag": true}, &p)
	require.NoError(t, err)
	assert.Equal(t, "n1", p.NoteID)
}

func TestDecodeNilArguments(t *testing.T) {
	var p notes.SearchParams
	err := newTestSchemas(t).decode(toolSearchNotes, nil, &p)
	require.NoError(t, err, "an argument-free call is schema-valid; the compiler rejects the empty query later")
	assert.Empty(t, p.Text)
	assert.Empty(t, p.Criteria)
}

func TestSearchSyntaxGuideCoversTheLanguage(t *testing.T) {
	for _, want := range []string{
		"not_exists", "ISO-8601", "parents.noteId", "expectedHash",
		"~author.title *=* 'Tolkien'", "forceCreate",
	} {
		assert.Contains(t, searchSyntaxGuide, want)
	}
}
