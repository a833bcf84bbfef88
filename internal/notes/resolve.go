package notes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/oxhq/trilium-mcp/internal/search"
	"github.com/oxhq/trilium-mcp/internal/trilium"
)

const (
	// resolveSearchCap bounds the upstream query regardless of how
	// many candidates the caller asked to see.
	resolveSearchCap  = 50
	defaultMaxResults = 3
	maxResolveResults = 10
)

// ResolveParams carries the resolve_note_id tool arguments.
type ResolveParams struct {
	NoteName   string `json:"noteName"`
	ExactMatch bool   `json:"exactMatch,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
	AutoSelect bool   `json:"autoSelect,omitempty"`
}

// ResolveMatch is one ranked candidate.
type ResolveMatch struct {
	NoteID       string `json:"noteId"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	DateModified string `json:"dateModified,omitempty"`
	ExactMatch   bool   `json:"exactMatch"`
}

// ResolveResult reports the selected note, or the candidates when the
// caller has to choose. NoteID and Title are null until a note is
// selected.
type ResolveResult struct {
	Found              bool           `json:"found"`
	NoteID             *string        `json:"noteId"`
	Title              *string        `json:"title"`
	Matches            int            `json:"matches"`
	TopMatches         []ResolveMatch `json:"topMatches,omitempty"`
	RequiresUserChoice bool           `json:"requiresUserChoice,omitempty"`
	Message            string         `json:"message,omitempty"`
	Suggestion         string         `json:"suggestion,omitempty"`
}

// Resolve maps a human-readable note name to a note id. Candidates are
// ranked exact title matches first, then book notes, then most
// recently modified. A single candidate selects itself; several leave
// the choice to the caller unless autoSelect is set.
func (s *Service) Resolve(ctx context.Context, p ResolveParams) (*ResolveResult, error) {
	name := strings.TrimSpace(p.NoteName)
	if name == "" {
		return nil, &ValidationError{Field: "noteName", Msg: "is required"}
	}
	max := p.MaxResults
	switch {
	case max <= 0:
		max = defaultMaxResults
	case max > maxResolveResults:
		max = maxResolveResults
	}

	op := search.OpContains
	if p.ExactMatch {
		op = search.OpEquals
	}
	compiled, err := search.Compile(search.Request{
		Criteria: []search.Criterion{
			{Property: "title", Type: search.TypeNoteProperty, Op: op, Value: name},
		},
		Limit: resolveSearchCap,
	})
	if err != nil {
		return nil, err
	}

	found, err := s.client.SearchNotes(ctx, compiled.Query, false, false)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return &ResolveResult{
			Found:      false,
			Matches:    0,
			Message:    fmt.Sprintf("No note matched %q.", name),
			Suggestion: "Try search_notes with a fulltext term or broader criteria.",
		}, nil
	}

	ranked := rankMatches(found, name)
	top := ranked
	if len(top) > max {
		top = top[:max]
	}
	topMatches := make([]ResolveMatch, len(top))
	for i, n := range top {
		topMatches[i] = ResolveMatch{
			NoteID:       n.NoteID,
			Title:        n.Title,
			Type:         n.Type,
			DateModified: n.DateModified,
			ExactMatch:   n.Title == name,
		}
	}

	s.logger.Debug("note name resolved",
		zap.String("noteName", name),
		zap.Int("matches", len(ranked)),
		zap.Bool("autoSelect", p.AutoSelect),
	)

	if len(ranked) == 1 || p.AutoSelect {
		best := ranked[0]
		return &ResolveResult{
			Found:      true,
			NoteID:     &best.NoteID,
			Title:      &best.Title,
			Matches:    len(ranked),
			TopMatches: topMatches,
		}, nil
	}

	return &ResolveResult{
		Found:              true,
		Matches:            len(ranked),
		TopMatches:         topMatches,
		RequiresUserChoice: true,
		Message:            fmt.Sprintf("%d notes matched %q; pick one by noteId, or retry with autoSelect=true to take the top match.", len(ranked), name),
	}, nil
}

// rankMatches orders candidates without mutating the input slice.
func rankMatches(found []trilium.Note, name string) []trilium.Note {
	ranked := append([]trilium.Note(nil), found...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if ae, be := a.Title == name, b.Title == name; ae != be {
			return ae
		}
		if ab, bb := a.Type == "book", b.Type == "book"; ab != bb {
			return ab
		}
		return modifiedStamp(a) > modifiedStamp(b)
	})
	return ranked
}

func modifiedStamp(n trilium.Note) string {
	if n.UTCDateModified != "" {
		return n.UTCDateModified
	}
	return n.DateModified
}
