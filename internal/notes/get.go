package notes

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/oxhq/trilium-mcp/internal/trilium"
)

// GetParams carries the get_note tool arguments. IncludeContent
// defaults to true when absent.
type GetParams struct {
	NoteID         string `json:"noteId"`
	IncludeContent *bool  `json:"includeContent,omitempty"`
}

// GetResult is a note with, unless skipped, its body and the content
// hash a later write must echo back.
type GetResult struct {
	NoteSummary
	Content     *string `json:"content,omitempty"`
	ContentHash string  `json:"contentHash,omitempty"`
}

// Get fetches a note. Metadata and body live behind separate upstream
// endpoints, so when both are wanted they are fetched concurrently.
func (s *Service) Get(ctx context.Context, p GetParams) (*GetResult, error) {
	if p.NoteID == "" {
		return nil, &ValidationError{Field: "noteId", Msg: "is required"}
	}

	if p.IncludeContent != nil && !*p.IncludeContent {
		note, err := s.client.GetNote(ctx, p.NoteID)
		if err != nil {
			return nil, err
		}
		return &GetResult{NoteSummary: summarize(*note)}, nil
	}

	var (
		note *trilium.Note
		body string
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
		body = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &GetResult{
		NoteSummary: summarize(*note),
		Content:     &body,
		ContentHash: note.BlobID,
	}, nil
}
