package trilium

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the upstream ETAPI. It holds one connection pool and
// one static token; everything else is per-call.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logger  *zap.Logger
}

// New builds a Client for the given base URL (no trailing slash) and
// token. The timeout bounds every call; context cancellation still
// applies on top of it.
func New(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SearchNotes runs a compiled DSL query. fastSearch selects the
// upstream's indexed path; includeArchived widens the scope to
// archived notes.
func (c *Client) SearchNotes(ctx context.Context, query string, fastSearch, includeArchived bool) ([]Note, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("fastSearch", strconv.FormatBool(fastSearch))
	params.Set("includeArchivedNotes", strconv.FormatBool(includeArchived))

	var out searchResponse
	if err := c.doJSON(ctx, http.MethodGet, "/notes", params, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// GetNote fetches a note's metadata, including its current blobId.
func (c *Client) GetNote(ctx context.Context, noteID string) (*Note, error) {
	var note Note
	if err := c.doJSON(ctx, http.MethodGet, "/notes/"+url.PathEscape(noteID), nil, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// GetNoteContent fetches a note's body as text.
func (c *Client) GetNoteContent(ctx context.Context, noteID string) (string, error) {
	return c.doText(ctx, http.MethodGet, "/notes/"+url.PathEscape(noteID)+"/content", "")
}

// CreateNote creates a note under a parent and returns the created
// entity.
func (c *Client) CreateNote(ctx context.Context, p CreateNoteParams) (*Note, error) {
	var out createNoteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/create-note", nil, p, &out); err != nil {
		return nil, err
	}
	if out.Note == nil {
		return nil, &TransportError{Op: "create-note", Err: fmt.Errorf("response carried no note")}
	}
	return out.Note, nil
}

// CreateAttribute attaches a label or relation to an existing note.
func (c *Client) CreateAttribute(ctx context.Context, p AttributeParams) (*Attribute, error) {
	var attr Attribute
	if err := c.doJSON(ctx, http.MethodPost, "/attributes", nil, p, &attr); err != nil {
		return nil, err
	}
	return &attr, nil
}

// UpdateNoteContent overwrites a note's body. The upstream responds
// with no body; use PutContent when the new blobId is needed.
func (c *Client) UpdateNoteContent(ctx context.Context, noteID, body string) error {
	_, err := c.doText(ctx, http.MethodPut, "/notes/"+url.PathEscape(noteID)+"/content", body)
	return err
}

// PutContent overwrites a note's body and returns the new blobId. The
// PUT endpoint returns nothing, so the note is re-read afterwards.
func (c *Client) PutContent(ctx context.Context, noteID, body string) (string, error) {
	if err := c.UpdateNoteContent(ctx, noteID, body); err != nil {
		return "", err
	}
	note, err := c.GetNote(ctx, noteID)
	if err != nil {
		return "", fmt.Errorf("re-reading note after content write: %w", err)
	}
	return note.BlobID, nil
}

// PatchNote updates note metadata and returns the updated entity.
func (c *Client) PatchNote(ctx context.Context, noteID string, p PatchNoteParams) (*Note, error) {
	var note Note
	if err := c.doJSON(ctx, http.MethodPatch, "/notes/"+url.PathEscape(noteID), nil, p, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note and its attributes. Irreversible.
func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/notes/"+url.PathEscape(noteID), nil, nil, nil)
}

// CreateRevision asks the upstream to snapshot the note's current
// content into its revision history.
func (c *Client) CreateRevision(ctx context.Context, noteID string) error {
	return c.doJSON(ctx, http.MethodPost, "/notes/"+url.PathEscape(noteID)+"/revision", nil, nil, nil)
}

// doJSON performs a JSON request. A nil out discards the response body;
// a nil body sends none. 4xx/5xx responses decode into *APIError and
// network failures into *TransportError.
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, params, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	data, status, err := c.send(req)
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest {
		return decodeAPIError(status, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &TransportError{Op: method + " " + path, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// doText performs a text/plain request and returns the response body.
func (c *Client) doText(ctx context.Context, method, path, body string) (string, error) {
	var reader io.Reader
	if method != http.MethodGet {
		reader = strings.NewReader(body)
	}

	req, err := c.newRequest(ctx, method, path, nil, reader)
	if err != nil {
		return "", err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "text/plain")
	}

	data, status, err := c.send(req)
	if err != nil {
		return "", err
	}
	if status >= http.StatusBadRequest {
		return "", decodeAPIError(status, data)
	}
	return string(data), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", c.token)
	return req, nil
}

func (c *Client) send(req *http.Request) ([]byte, int, error) {
	op := req.Method + " " + req.URL.Path
	start := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &TransportError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug("etapi call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, resp.StatusCode, nil
}

// decodeAPIError maps an upstream error body, normally
// {"status":…,"code":…,"message":…}, into an APIError. Bodies in any
// other shape are kept verbatim as the message.
func decodeAPIError(status int, body []byte) *APIError {
	var payload struct {
		Status  int    `json:"status"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &APIError{StatusCode: status, Code: payload.Code, Message: payload.Message}
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}
