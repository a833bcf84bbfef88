package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/oxhq/trilium-mcp/internal/config"
	"github.com/oxhq/trilium-mcp/internal/notes"
	"github.com/oxhq/trilium-mcp/internal/search"
	"github.com/oxhq/trilium-mcp/internal/trilium"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeService records calls and delegates to per-method hooks. Unset
// hooks return zero values.
type fakeService struct {
	calls []string

	searchFn  func(p notes.SearchParams) ([]notes.NoteSummary, error)
	resolveFn func(p notes.ResolveParams) (*notes.ResolveResult, error)
	getFn     func(p notes.GetParams) (*notes.GetResult, error)
	createFn  func(p notes.CreateParams) (*notes.CreateResult, error)
	updateFn  func(p notes.UpdateParams) (*notes.UpdateResult, error)
	appendFn  func(p notes.AppendParams) (*notes.UpdateResult, error)
	deleteFn  func(p notes.DeleteParams) (string, error)
}

func (f *fakeService) Search(_ context.Context, p notes.SearchParams) ([]notes.NoteSummary, error) {
	f.calls = append(f.calls, "Search")
	if f.searchFn != nil {
		return f.searchFn(p)
	}
	return []notes.NoteSummary{}, nil
}

func (f *fakeService) Resolve(_ context.Context, p notes.ResolveParams) (*notes.ResolveResult, error) {
	f.calls = append(f.calls, "Resolve")
	if f.resolveFn != nil {
		return f.resolveFn(p)
	}
	return &notes.ResolveResult{}, nil
}

func (f *fakeService) Get(_ context.Context, p notes.GetParams) (*notes.GetResult, error) {
	f.calls = append(f.calls, "Get")
	if f.getFn != nil {
		return f.getFn(p)
	}
	return &notes.GetResult{}, nil
}

func (f *fakeService) Create(_ context.Context, p notes.CreateParams) (*notes.CreateResult, error) {
	f.calls = append(f.calls, "Create")
	if f.createFn != nil {
		return f.createFn(p)
	}
	return &notes.CreateResult{}, nil
}

func (f *fakeService) Update(_ context.Context, p notes.UpdateParams) (*notes.UpdateResult, error) {
	f.calls = append(f.calls, "Update")
	if f.updateFn != nil {
		return f.updateFn(p)
	}
	return &notes.UpdateResult{}, nil
}

func (f *fakeService) Append(_ context.Context, p notes.AppendParams) (*notes.UpdateResult, error) {
	f.calls = append(f.calls, "Append")
	if f.appendFn != nil {
		return f.appendFn(p)
	}
	return &notes.UpdateResult{}, nil
}

func (f *fakeService) Delete(_ context.Context, p notes.DeleteParams) (string, error) {
	f.calls = append(f.calls, "Delete")
	if f.deleteFn != nil {
		return f.deleteFn(p)
	}
	return "deleted", nil
}

func mustCaps(t *testing.T, raw string) config.CapabilitySet {
	t.Helper()
	set, err := config.ParseCapabilities(raw)
	require.NoError(t, err)
	return set
}

func newTestServer(t *testing.T, permissions string, svc NoteService) *Server {
	t.Helper()
	cfg := &config.Config{
		APIURL:      "http://localhost:8080/etapi",
		APIToken:    "token",
		Permissions: mustCaps(t, permissions),
		Timeout:     time.Second,
	}
	s, err := NewServer(cfg, svc, zaptest.NewLogger(t), "test")
	require.NoError(t, err)
	return s
}

func callRequest(tool string, args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func decodeToolError(t *testing.T, res *mcplib.CallToolResult) ToolError {
	t.Helper()
	require.NotNil(t, res)
	require.True(t, res.IsError)
	var payload struct {
		Error ToolError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	return payload.Error
}

func TestToolCatalogFollowsPermissions(t *testing.T) {
	readTools := []string{toolSearchNotes, toolResolveNoteID, toolGetNote}
	writeTools := []string{toolCreateNote, toolUpdateNote, toolAppendNote, toolDeleteNote}

	tests := []struct {
		permissions string
		want        []string
	}{
		{"READ", readTools},
		{"WRITE", writeTools},
		{"READ;WRITE", append(append([]string{}, readTools...), writeTools...)},
	}

	for _, tt := range tests {
		t.Run(tt.permissions, func(t *testing.T) {
			s := newTestServer(t, tt.permissions, &fakeService{})
			assert.ElementsMatch(t, tt.want, s.registered)
			assert.Len(t, s.handlers, 7, "every tool keeps a gated handler even when unregistered")
		})
	}
}

func TestWriteToolRejectedWithoutCapability(t *testing.T) {
	svc := &fakeService{}
	s := newTestServer(t, "READ", svc)

	res, err := s.handlers[toolDeleteNote](context.Background(), callRequest(toolDeleteNote, map[string]any{"noteId": "n1"}))
	require.NoError(t, err, "a permission rejection is an in-band tool error")

	te := decodeToolError(t, res)
	assert.Equal(t, CodePermission, te.Code)
	assert.Contains(t, te.Message, "delete_note")
	assert.Contains(t, te.Message, "WRITE")
	assert.Equal(t, "WRITE", te.Data["capability"])
	assert.Empty(t, svc.calls, "the handler must not run")
}

func TestReadToolRejectedOnWriteOnlyServer(t *testing.T) {
	svc := &fakeService{}
	s := newTestServer(t, "WRITE", svc)

	res, err := s.handlers[toolSearchNotes](context.Background(), callRequest(toolSearchNotes, map[string]any{"text": "x"}))
	require.NoError(t, err)
	te := decodeToolError(t, res)
	assert.Equal(t, CodePermission, te.Code)
	assert.Contains(t, te.Message, "READ")
	assert.Empty(t, svc.calls)
}

func TestValidationFailureSkipsService(t *testing.T) {
	svc := &fakeService{}
	s := newTestServer(t, "READ;WRITE", svc)

	res, err := s.handlers[toolGetNote](context.Background(), callRequest(toolGetNote, map[string]any{}))
	require.NoError(t, err)
	te := decodeToolError(t, res)
	assert.Equal(t, CodeValidation, te.Code)
	assert.Contains(t, te.Message, "noteId")
	assert.Empty(t, svc.calls)
}

func TestUpstreamErrorBecomesProtocolError(t *testing.T) {
	svc := &fakeService{
		getFn: func(notes.GetParams) (*notes.GetResult, error) {
			return nil, &trilium.APIError{StatusCode: 404, Code: "NOTE_NOT_FOUND", Message: "note missing not found"}
		},
	}
	s := newTestServer(t, "READ", svc)

	res, err := s.handlers[toolGetNote](context.Background(), callRequest(toolGetNote, map[string]any{"noteId": "gone"}))
	require.Error(t, err)
	assert.Nil(t, res)
	var aerr *trilium.APIError
	require.ErrorAs(t, err, &aerr)
	assert.True(t, aerr.NotFound())
	assert.Contains(t, err.Error(), "not found")
}

func TestConflictSurfacesInBand(t *testing.T) {
	svc := &fakeService{
		updateFn: func(notes.UpdateParams) (*notes.UpdateResult, error) {
			return nil, &notes.ConflictError{NoteID: "n1", Expected: "H1", Actual: "H2"}
		},
	}
	s := newTestServer(t, "READ;WRITE", svc)

	res, err := s.handlers[toolUpdateNote](context.Background(), callRequest(toolUpdateNote, map[string]any{
		"noteId": "n1", "expectedHash": "H1", "type": "text", "content": "x",
	}))
	require.NoError(t, err)
	te := decodeToolError(t, res)
	assert.Equal(t, CodeConflict, te.Code)
	assert.Contains(t, te.Message, "H1")
	assert.Contains(t, te.Message, "H2")
	assert.Contains(t, te.Message, "re-fetch")
	assert.Equal(t, "H2", te.Data["actualHash"])
}

func TestCompilationErrorSurfacesInBand(t *testing.T) {
	svc := &fakeService{
		searchFn: func(notes.SearchParams) ([]notes.NoteSummary, error) {
			return nil, &search.CompileError{Msg: "searchCriteria[0]: unknown note property \"bogus\""}
		},
	}
	s := newTestServer(t, "READ", svc)

	res, err := s.handlers[toolSearchNotes](context.Background(), callRequest(toolSearchNotes, map[string]any{"text": "x"}))
	require.NoError(t, err)
	te := decodeToolError(t, res)
	assert.Equal(t, CodeCompilation, te.Code)
	assert.Contains(t, te.Message, "bogus")
}
