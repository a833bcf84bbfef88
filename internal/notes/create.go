package notes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/oxhq/trilium-mcp/internal/content"
	"github.com/oxhq/trilium-mcp/internal/search"
	"github.com/oxhq/trilium-mcp/internal/trilium"
)

// defaultAttributePosition matches the position Trilium assigns when
// attributes are added through its own UI.
const defaultAttributePosition = 10

// AttributeSpec describes one label or relation to attach to a new
// note.
type AttributeSpec struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Value         string `json:"value,omitempty"`
	Position      *int   `json:"position,omitempty"`
	IsInheritable bool   `json:"isInheritable,omitempty"`
}

// CreateParams carries the create_note tool arguments.
type CreateParams struct {
	ParentNoteID string          `json:"parentNoteId"`
	Title        string          `json:"title"`
	Type         string          `json:"type"`
	Content      string          `json:"content"`
	Mime         string          `json:"mime,omitempty"`
	Attributes   []AttributeSpec `json:"attributes,omitempty"`
	ForceCreate  bool            `json:"forceCreate,omitempty"`
}

// CreateResult reports either the created note or, when the duplicate
// guard fires, the existing notes and how to proceed.
type CreateResult struct {
	NoteID         string        `json:"noteId,omitempty"`
	Title          string        `json:"title,omitempty"`
	Message        string        `json:"message"`
	DuplicateFound bool          `json:"duplicateFound,omitempty"`
	ExistingNotes  []NoteSummary `json:"existingNotes,omitempty"`
	NextSteps      []string      `json:"nextSteps,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
}

// Create adds a note under a parent. Unless forceCreate is set, a note
// with the same title under the same parent short-circuits the call
// into a duplicate report and nothing is written.
func (s *Service) Create(ctx context.Context, p CreateParams) (*CreateResult, error) {
	kind := content.Kind(p.Type)
	if !kind.Valid() {
		return nil, &ValidationError{
			Field: "type",
			Msg:   fmt.Sprintf("must be one of %s, got %q", strings.Join(content.WritableKinds(), ", "), p.Type),
		}
	}
	if p.ParentNoteID == "" {
		return nil, &ValidationError{Field: "parentNoteId", Msg: "is required"}
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, &ValidationError{Field: "title", Msg: "is required"}
	}
	if kind == content.KindCode && p.Mime == "" {
		return nil, &ValidationError{Field: "mime", Msg: "is required for code notes, e.g. text/x-python"}
	}
	attrs := make([]trilium.AttributeParams, len(p.Attributes))
	for i, a := range p.Attributes {
		ap, err := attributeParams(a)
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("attributes[%d]", i), Msg: err.Error()}
		}
		attrs[i] = ap
	}

	if !p.ForceCreate {
		existing, err := s.findSiblings(ctx, p.ParentNoteID, p.Title)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			summaries := make([]NoteSummary, len(existing))
			for i, n := range existing {
				summaries[i] = summarize(n)
			}
			return &CreateResult{
				DuplicateFound: true,
				ExistingNotes:  summaries,
				Message:        fmt.Sprintf("A note titled %q already exists under parent %s; nothing was created.", p.Title, p.ParentNoteID),
				NextSteps: []string{
					"Read the existing note with get_note.",
					"Add to it with get_note followed by append_note, passing the returned contentHash.",
					"Create another note with this title anyway by retrying with forceCreate=true.",
				},
			}, nil
		}
	}

	body, err := content.Prepare(kind, p.Content)
	if err != nil {
		return nil, err
	}

	note, err := s.client.CreateNote(ctx, trilium.CreateNoteParams{
		ParentNoteID: p.ParentNoteID,
		Title:        p.Title,
		Type:         p.Type,
		Mime:         p.Mime,
		Content:      body,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note created",
		zap.String("noteId", note.NoteID),
		zap.String("type", p.Type),
		zap.Int("attributes", len(attrs)),
	)

	// The note exists from here on. Attribute failures degrade to
	// warnings instead of failing a call that already wrote.
	var warnings []string
	for i, ap := range attrs {
		ap.NoteID = note.NoteID
		if _, err := s.client.CreateAttribute(ctx, ap); err != nil {
			s.logger.Warn("attribute not attached",
				zap.String("noteId", note.NoteID),
				zap.String("name", ap.Name),
				zap.Error(err),
			)
			warnings = append(warnings, fmt.Sprintf("attributes[%d] (%s %q) was not attached: %v", i, ap.Type, ap.Name, err))
		}
	}

	return &CreateResult{
		NoteID:   note.NoteID,
		Title:    note.Title,
		Message:  fmt.Sprintf("Created %s note %q under %s.", p.Type, p.Title, p.ParentNoteID),
		Warnings: warnings,
	}, nil
}

// findSiblings returns notes under parentID whose title equals title
// exactly. The probe goes through the search DSL; titles the DSL
// cannot quote skip the guard rather than block the create.
func (s *Service) findSiblings(ctx context.Context, parentID, title string) ([]trilium.Note, error) {
	compiled, err := search.Compile(search.Request{
		Criteria: []search.Criterion{
			{Property: "parents.noteId", Type: search.TypeNoteProperty, Op: search.OpEquals, Value: parentID, Logic: search.LogicAnd},
			{Property: "title", Type: search.TypeNoteProperty, Op: search.OpEquals, Value: title},
		},
	})
	if err != nil {
		s.logger.Warn("duplicate probe skipped", zap.String("title", title), zap.Error(err))
		return nil, nil
	}

	found, err := s.client.SearchNotes(ctx, compiled.Query, false, true)
	if err != nil {
		return nil, err
	}

	// The DSL comparison is case-insensitive; keep only exact matches.
	exact := found[:0:0]
	for _, n := range found {
		if n.Title == title {
			exact = append(exact, n)
		}
	}
	return exact, nil
}

func attributeParams(a AttributeSpec) (trilium.AttributeParams, error) {
	switch a.Type {
	case "label", "relation":
	default:
		return trilium.AttributeParams{}, fmt.Errorf("type must be label or relation, got %q", a.Type)
	}
	if strings.TrimSpace(a.Name) == "" {
		return trilium.AttributeParams{}, fmt.Errorf("name is required")
	}
	if a.Type == "relation" && a.Value == "" {
		return trilium.AttributeParams{}, fmt.Errorf("relation %q needs a target note id in value", a.Name)
	}
	pos := defaultAttributePosition
	if a.Position != nil {
		if *a.Position < 0 {
			return trilium.AttributeParams{}, fmt.Errorf("position must not be negative")
		}
		pos = *a.Position
	}
	return trilium.AttributeParams{
		Type:          a.Type,
		Name:          a.Name,
		Value:         a.Value,
		Position:      pos,
		IsInheritable: a.IsInheritable,
	}, nil
}
