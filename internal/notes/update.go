package notes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oxhq/trilium-mcp/internal/content"
	"github.com/oxhq/trilium-mcp/internal/trilium"
)

// UpdateParams carries the update_note tool arguments. Revision
// defaults to true when absent: overwrites snapshot the old body
// unless the caller opts out.
type UpdateParams struct {
	NoteID       string  `json:"noteId"`
	ExpectedHash string  `json:"expectedHash"`
	Type         string  `json:"type"`
	Title        *string `json:"title,omitempty"`
	Content      *string `json:"content,omitempty"`
	Mime         *string `json:"mime,omitempty"`
	Revision     *bool   `json:"revision,omitempty"`
}

// UpdateResult reports a completed write and the hash the next write
// must echo back.
type UpdateResult struct {
	NoteID          string `json:"noteId"`
	NewHash         string `json:"newHash"`
	RevisionCreated bool   `json:"revisionCreated"`
	Message         string `json:"message,omitempty"`
}

// Update replaces a note's title, content, or both. The write only
// proceeds when expectedHash still matches the note's current content
// hash, so concurrent edits surface as a conflict instead of being
// silently overwritten.
func (s *Service) Update(ctx context.Context, p UpdateParams) (*UpdateResult, error) {
	kind := content.Kind(p.Type)
	if !kind.Valid() {
		return nil, &ValidationError{
			Field: "type",
			Msg:   fmt.Sprintf("must be one of %s, got %q", strings.Join(content.WritableKinds(), ", "), p.Type),
		}
	}
	if p.NoteID == "" {
		return nil, &ValidationError{Field: "noteId", Msg: "is required"}
	}
	if p.ExpectedHash == "" {
		return nil, &ValidationError{Field: "expectedHash", Msg: "is required; read it from get_note first"}
	}
	if p.Title == nil && p.Content == nil {
		return nil, &ValidationError{Msg: "nothing to update: set title, content, or both"}
	}

	note, err := s.client.GetNote(ctx, p.NoteID)
	if err != nil {
		return nil, err
	}
	if note.BlobID != p.ExpectedHash {
		return nil, &ConflictError{NoteID: p.NoteID, Expected: p.ExpectedHash, Actual: note.BlobID}
	}

	var body string
	if p.Content != nil {
		body, err = content.Prepare(kind, *p.Content)
		if err != nil {
			return nil, err
		}
	}

	revision := p.Revision == nil || *p.Revision
	revisionCreated := false
	if revision && p.Content != nil {
		if err := s.client.CreateRevision(ctx, p.NoteID); err != nil {
			return nil, fmt.Errorf("snapshotting revision before overwrite: %w", err)
		}
		revisionCreated = true
	}

	if p.Title != nil || p.Mime != nil {
		if _, err := s.client.PatchNote(ctx, p.NoteID, trilium.PatchNoteParams{Title: p.Title, Mime: p.Mime}); err != nil {
			return nil, err
		}
	}

	newHash := note.BlobID
	if p.Content != nil {
		newHash, err = s.client.PutContent(ctx, p.NoteID, body)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("note updated",
		zap.String("noteId", p.NoteID),
		zap.Bool("titleChanged", p.Title != nil),
		zap.Bool("contentChanged", p.Content != nil),
		zap.Bool("revisionCreated", revisionCreated),
	)

	return &UpdateResult{
		NoteID:          p.NoteID,
		NewHash:         newHash,
		RevisionCreated: revisionCreated,
		Message:         "Note updated.",
	}, nil
}

// AppendParams carries the append_note tool arguments. Revision
// defaults to false: appends keep the old body inside the new one, so
// a snapshot is opt-in.
type AppendParams struct {
	NoteID       string `json:"noteId"`
	ExpectedHash string `json:"expectedHash"`
	Type         string `json:"type"`
	Content      string `json:"content"`
	Revision     bool   `json:"revision,omitempty"`
}

// Append adds a fragment to the end of a note's existing content,
// guarded by the same expectedHash check as Update.
func (s *Service) Append(ctx context.Context, p AppendParams) (*UpdateResult, error) {
	kind := content.Kind(p.Type)
	if !kind.Valid() {
		return nil, &ValidationError{
			Field: "type",
			Msg:   fmt.Sprintf("must be one of %s, got %q", strings.Join(content.WritableKinds(), ", "), p.Type),
		}
	}
	if p.NoteID == "" {
		return nil, &ValidationError{Field: "noteId", Msg: "is required"}
	}
	if p.ExpectedHash == "" {
		return nil, &ValidationError{Field: "expectedHash", Msg: "is required; read it from get_note first"}
	}
	if p.Content == "" {
		return nil, &ValidationError{Field: "content", Msg: "is required"}
	}

	var (
		note     *trilium.Note
		existing string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.client.GetNote(gctx, p.NoteID)
		if err != nil {
			return err
		}
		note = n
		return nil
	})
	g.Go(func() error {
		b, err := s.client.GetNoteContent(gctx, p.NoteID)
		if err != nil {
			return err
		}
		existing = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if note.BlobID != p.ExpectedHash {
		return nil, &ConflictError{NoteID: p.NoteID, Expected: p.ExpectedHash, Actual: note.BlobID}
	}

	fragment, err := content.Prepare(kind, p.Content)
	if err != nil {
		return nil, err
	}

	revisionCreated := false
	if p.Revision {
		if err := s.client.CreateRevision(ctx, p.NoteID); err != nil {
			return nil, fmt.Errorf("snapshotting revision before append: %w", err)
		}
		revisionCreated = true
	}

	newHash, err := s.client.PutContent(ctx, p.NoteID, content.Join(existing, fragment))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("content appended",
		zap.String("noteId", p.NoteID),
		zap.Int("fragmentBytes", len(fragment)),
		zap.Bool("revisionCreated", revisionCreated),
	)

	return &UpdateResult{
		NoteID:          p.NoteID,
		NewHash:         newHash,
		RevisionCreated: revisionCreated,
		Message:         "Content appended.",
	}, nil
}
