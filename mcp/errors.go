package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/oxhq/trilium-mcp/internal/config"
	"github.com/oxhq/trilium-mcp/internal/content"
	"github.com/oxhq/trilium-mcp/internal/notes"
	"github.com/oxhq/trilium-mcp/internal/search"
)

// ErrorCode is the taxonomy code carried inside a failed tool result.
// Every code here is caller-recoverable; upstream and transport
// failures are not coded and surface as protocol-level internal
// errors instead.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "validation"
	CodePermission   ErrorCode = "permission"
	CodeCompilation  ErrorCode = "compilation"
	CodeContentShape ErrorCode = "content_shape"
	CodeConflict     ErrorCode = "conflict"
)

// ToolError is the structured error embedded in a tool result when the
// caller can fix the call and retry.
type ToolError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func validationError(field, msg string) *ToolError {
	te := &ToolError{Code: CodeValidation, Message: msg}
	if field != "" {
		te.Message = fmt.Sprintf("%s: %s", field, msg)
		te.Data = map[string]any{"field": field}
	}
	return te
}

func permissionError(tool string, capability config.Capability) *ToolError {
	return &ToolError{
		Code:    CodePermission,
		Message: fmt.Sprintf("%s requires the %s capability, which this server was not started with", tool, capability),
		Data:    map[string]any{"capability": string(capability)},
	}
}

// classify maps a domain error onto the taxonomy. A nil return means
// the error is not caller-recoverable and must surface as an internal
// protocol error.
func classify(err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}

	var verr *notes.ValidationError
	if errors.As(err, &verr) {
		return validationError(verr.Field, verr.Msg)
	}

	var cerr *search.CompileError
	if errors.As(err, &cerr) {
		return &ToolError{Code: CodeCompilation, Message: cerr.Error()}
	}

	var serr *content.ShapeError
	if errors.As(err, &serr) {
		return &ToolError{
			Code:    CodeContentShape,
			Message: serr.Error(),
			Data:    map[string]any{"kind": string(serr.Kind), "expected": serr.Expected},
		}
	}

	var conflict *notes.ConflictError
	if errors.As(err, &conflict) {
		return &ToolError{
			Code:    CodeConflict,
			Message: conflict.Error(),
			Data: map[string]any{
				"noteId":       conflict.NoteID,
				"expectedHash": conflict.Expected,
				"actualHash":   conflict.Actual,
			},
		}
	}

	return nil
}

// errorResult renders a ToolError as an in-band tool failure so the
// calling agent sees the code and can correct the request.
func errorResult(te *ToolError) *mcplib.CallToolResult {
	raw, err := json.Marshal(map[string]any{"error": te})
	if err != nil {
		return mcplib.NewToolResultError(te.Error())
	}
	return mcplib.NewToolResultError(string(raw))
}
