// Package remote is a thin typed wrapper over the board service's JSON/HTTP
// API. It does request/response mapping and error normalization only: no
// retries, no caching, no local state. Failures propagate to the caller.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"corkboard-cli/internal/model"
)

// Client issues requests against a single backend base URL.
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient is used by tests and callers that need transport control.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	if hc != nil {
		c.hc = hc
	}
	return c
}

// APIError carries the normalized human-readable message for a failed call.
// Message is the JSON `error` field when present, otherwise the raw body
// text, otherwise the HTTP status line.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// ColumnPatch is a partial column update. Nil fields are omitted from the
// request body and left untouched by the server.
type ColumnPatch struct {
	Title    *string `json:"title,omitempty"`
	Position *int    `json:"position,omitempty"`
	LabelID  *string `json:"labelId,omitempty"`
}

// CardPatch is a partial card update. ColumnID moves the card to another
// column when set.
type CardPatch struct {
	Title            *string   `json:"title,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Assignee         *string   `json:"assignee,omitempty"`
	ColumnID         *string   `json:"columnId,omitempty"`
	Position         *int      `json:"position,omitempty"`
	LabelIDs         *[]string `json:"labelIds,omitempty"`
	HighlightLabelID *string   `json:"highlightLabelId,omitempty"`
	IsCompleted      *bool     `json:"isCompleted,omitempty"`
}

// CardDraft is the payload for creating a card.
type CardDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
}

// CardRef is one entry of a batch reorder: card id plus its new position.
type CardRef struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// LabelDraft is the payload for creating or updating a label.
type LabelDraft struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (c *Client) CreateProject(ctx context.Context, name string) (model.Project, error) {
	var out model.Project
	err := c.do(ctx, http.MethodPost, "/projects/create", map[string]string{"name": name}, &out)
	return out, err
}

func (c *Client) AccessProject(ctx context.Context, code string) (model.Project, error) {
	var out model.Project
	err := c.do(ctx, http.MethodPost, "/projects/access", map[string]string{"code": code}, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, encryptedID string) (model.Project, error) {
	var out model.Project
	err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(encryptedID), nil, &out)
	return out, err
}

func (c *Client) RenameProject(ctx context.Context, encryptedID, name string) (model.Project, error) {
	var out model.Project
	err := c.do(ctx, http.MethodPatch, "/projects/"+url.PathEscape(encryptedID)+"/name", map[string]string{"name": name}, &out)
	return out, err
}

func (c *Client) GetBoard(ctx context.Context, boardID string) (model.Board, error) {
	var out model.Board
	err := c.do(ctx, http.MethodGet, "/boards/"+url.PathEscape(boardID), nil, &out)
	return out, err
}

func (c *Client) CreateColumn(ctx context.Context, boardID, title string) (model.Column, error) {
	var out model.Column
	err := c.do(ctx, http.MethodPost, c.boardPath(boardID, "columns"), map[string]string{"title": title}, &out)
	return out, err
}

func (c *Client) UpdateColumn(ctx context.Context, boardID, columnID string, patch ColumnPatch) (model.Column, error) {
	var out model.Column
	err := c.do(ctx, http.MethodPatch, c.boardPath(boardID, "columns", columnID), patch, &out)
	return out, err
}

func (c *Client) DeleteColumn(ctx context.Context, boardID, columnID string) error {
	return c.do(ctx, http.MethodDelete, c.boardPath(boardID, "columns", columnID), nil, nil)
}

func (c *Client) CreateCard(ctx context.Context, boardID, columnID string, draft CardDraft) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodPost, c.boardPath(boardID, "columns", columnID, "cards"), draft, &out)
	return out, err
}

func (c *Client) UpdateCard(ctx context.Context, boardID, cardID string, patch CardPatch) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodPatch, c.boardPath(boardID, "cards", cardID), patch, &out)
	return out, err
}

func (c *Client) DeleteCard(ctx context.Context, boardID, cardID string) error {
	return c.do(ctx, http.MethodDelete, c.boardPath(boardID, "cards", cardID), nil, nil)
}

// ReorderCards replaces the ordering of one column with the given refs.
func (c *Client) ReorderCards(ctx context.Context, boardID, columnID string, refs []CardRef) error {
	body := map[string][]CardRef{"cards": refs}
	return c.do(ctx, http.MethodPost, c.boardPath(boardID, "columns", columnID, "cards", "reorder"), body, nil)
}

func (c *Client) CreateLabel(ctx context.Context, boardID string, draft LabelDraft) (model.Label, error) {
	var out model.Label
	err := c.do(ctx, http.MethodPost, c.boardPath(boardID, "labels"), draft, &out)
	return out, err
}

func (c *Client) UpdateLabel(ctx context.Context, boardID, labelID string, draft LabelDraft) (model.Label, error) {
	var out model.Label
	err := c.do(ctx, http.MethodPatch, c.boardPath(boardID, "labels", labelID), draft, &out)
	return out, err
}

func (c *Client) DeleteLabel(ctx context.Context, boardID, labelID string) error {
	return c.do(ctx, http.MethodDelete, c.boardPath(boardID, "labels", labelID), nil, nil)
}

func (c *Client) ListComments(ctx context.Context, boardID, cardID string) ([]model.Comment, error) {
	var out []model.Comment
	err := c.do(ctx, http.MethodGet, c.boardPath(boardID, "cards", cardID, "comments"), nil, &out)
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, boardID, cardID, author, content string) (model.Comment, error) {
	var out model.Comment
	body := map[string]string{"author": author, "content": content}
	err := c.do(ctx, http.MethodPost, c.boardPath(boardID, "cards", cardID, "comments"), body, &out)
	return out, err
}

func (c *Client) boardPath(boardID string, parts ...string) string {
	segs := make([]string, 0, len(parts)+2)
	segs = append(segs, "/boards", url.PathEscape(boardID))
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeError(resp)
	}
	if out == nil {
		// Confirmation-only responses; drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func normalizeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(payload.Error)}
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}
