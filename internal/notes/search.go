package notes

import (
	"context"

	"go.uber.org/zap"

	"github.com/oxhq/trilium-mcp/internal/search"
)

// SearchParams carries the search_notes tool arguments.
type SearchParams struct {
	Text                 string             `json:"text,omitempty"`
	Criteria             []search.Criterion `json:"searchCriteria,omitempty"`
	Limit                int                `json:"limit,omitempty"`
	IncludeArchivedNotes bool               `json:"includeArchivedNotes,omitempty"`
}

// Search compiles the structured request into the search DSL, runs it
// upstream, and returns the matching notes as summaries.
func (s *Service) Search(ctx context.Context, p SearchParams) ([]NoteSummary, error) {
	compiled, err := search.Compile(search.Request{
		Text:     p.Text,
		Criteria: p.Criteria,
		Limit:    p.Limit,
	})
	if err != nil {
		return nil, err
	}

	found, err := s.client.SearchNotes(ctx, compiled.Query, compiled.FastEligible, p.IncludeArchivedNotes)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search executed",
		zap.String("query", compiled.Query),
		zap.Bool("fastSearch", compiled.FastEligible),
		zap.Int("results", len(found)),
	)

	results := make([]NoteSummary, len(found))
	for i, n := range found {
		results[i] = summarize(n)
	}
	return results, nil
}
