package notes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oxhq/trilium-mcp/internal/trilium"
)

// ClientAPI is the slice of the upstream client the note operations
// need. *trilium.Client satisfies it; tests substitute a fake.
type ClientAPI interface {
	SearchNotes(ctx context.Context, query string, fastSearch, includeArchived bool) ([]trilium.Note, error)
	GetNote(ctx context.Context, noteID string) (*trilium.Note, error)
	GetNoteContent(ctx context.Context, noteID string) (string, error)
	CreateNote(ctx context.Context, p trilium.CreateNoteParams) (*trilium.Note, error)
	CreateAttribute(ctx context.Context, p trilium.AttributeParams) (*trilium.Attribute, error)
	PutContent(ctx context.Context, noteID, body string) (string, error)
	PatchNote(ctx context.Context, noteID string, p trilium.PatchNoteParams) (*trilium.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
	CreateRevision(ctx context.Context, noteID string) error
}

// Service implements the business-level note operations behind the
// tools. It is stateless; every call stands alone.
type Service struct {
	client ClientAPI
	logger *zap.Logger
}

// NewService wires a Service to an upstream client.
func NewService(client ClientAPI, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// NoteSummary is the note metadata shape returned to callers.
type NoteSummary struct {
	NoteID        string              `json:"noteId"`
	Title         string              `json:"title"`
	Type          string              `json:"type"`
	Mime          string              `json:"mime,omitempty"`
	IsProtected   bool                `json:"isProtected,omitempty"`
	DateCreated   string              `json:"dateCreated,omitempty"`
	DateModified  string              `json:"dateModified,omitempty"`
	ParentNoteIDs []string            `json:"parentNoteIds,omitempty"`
	Attributes    []trilium.Attribute `json:"attributes,omitempty"`
}

func summarize(n trilium.Note) NoteSummary {
	return NoteSummary{
		NoteID:        n.NoteID,
		Title:         n.Title,
		Type:          n.Type,
		Mime:          n.Mime,
		IsProtected:   n.IsProtected,
		DateCreated:   n.DateCreated,
		DateModified:  n.DateModified,
		ParentNoteIDs: n.ParentNoteIDs,
		Attributes:    n.Attributes,
	}
}

// ValidationError reports arguments that fail a business rule before
// anything is sent upstream.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// ConflictError reports a stale expectedHash on a write: the note
// changed since the caller last read it.
type ConflictError struct {
	NoteID   string
	Expected string
	Actual   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"conflict: note %s now has content hash %q but expectedHash was %q; re-fetch the note with get_note and retry with the current hash",
		e.NoteID, e.Actual, e.Expected,
	)
}
