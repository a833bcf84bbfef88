package notes

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DeleteParams carries the delete_note tool arguments.
type DeleteParams struct {
	NoteID string `json:"noteId"`
}

// Delete removes a note and returns a human-readable status line.
// Deletion is not undoable through this server.
func (s *Service) Delete(ctx context.Context, p DeleteParams) (string, error) {
	if p.NoteID == "" {
		return "", &ValidationError{Field: "noteId", Msg: "is required"}
	}
	if err := s.client.DeleteNote(ctx, p.NoteID); err != nil {
		return "", err
	}
	s.logger.Debug("note deleted", zap.String("noteId", p.NoteID))
	return fmt.Sprintf("Note %s deleted.", p.NoteID), nil
}
