// Package rest talks to the word-pair backend over its JSON HTTP API.
package rest

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
	"unicode/utf8"

	"github.com/developia-II/langobridge/internal/backend"
	"github.com/developia-II/langobridge/internal/models"
	"go.uber.org/zap"
)

const previewLimit = 500

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

var _ backend.Backend = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With(zap.String("adapter", "rest")),
	}
}

// wordRow is the server's shape: examples may arrive flat or as a list.
type wordRow struct {
	ID            string           `json:"id"`
	MongoID       string           `json:"_id"`
	Bangla        string           `json:"bangla"`
	Korean        string           `json:"korean"`
	PartOfSpeech  *string          `json:"partOfSpeech"`
	Examples      []models.Example `json:"examples"`
	BanglaExample string           `json:"banglaExample"`
	KoreanExample string           `json:"koreanExample"`
}

func (r wordRow) toModel() models.WordPair {
	w := models.WordPair{
		ID:       r.ID,
		Bangla:   r.Bangla,
		Korean:   r.Korean,
		Examples: r.Examples,
		Source:   models.SourceServer,
		Status:   models.StatusConfirmed,
	}
	if w.ID == "" {
		w.ID = r.MongoID
	}
	if r.PartOfSpeech != nil {
		w.PartOfSpeech = *r.PartOfSpeech
	}
	if len(w.Examples) == 0 && (r.BanglaExample != "" || r.KoreanExample != "") {
		w.Examples = []models.Example{{Bangla: r.BanglaExample, Korean: r.KoreanExample}}
	}
	if w.Examples == nil {
		w.Examples = []models.Example{}
	}
	return w
}

// wordBody is what POST/PUT send; partOfSpeech goes out as null when absent.
type wordBody struct {
	ID           string           `json:"id,omitempty"`
	Bangla       string           `json:"bangla"`
	Korean       string           `json:"korean"`
	PartOfSpeech *string          `json:"partOfSpeech"`
	Examples     []models.Example `json:"examples"`
	Source       models.Source    `json:"source,omitempty"`
}

func newWordBody(w models.WordPair, withID bool) wordBody {
	b := wordBody{Bangla: w.Bangla, Korean: w.Korean, Examples: w.Examples, Source: w.Source}
	if withID {
		b.ID = w.ID
	}
	if w.PartOfSpeech != "" {
		pos := w.PartOfSpeech
		b.PartOfSpeech = &pos
	}
	if b.Examples == nil {
		b.Examples = []models.Example{}
	}
	return b
}

func (c *Client) ListWordPairs(ctx context.Context, q models.ListQuery) (models.WordPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}

	var resp struct {
		Data  []wordRow `json:"data"`
		Total int       `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/bangla-korean-word-pair?"+v.Encode(), "", nil, &resp); err != nil {
		return models.WordPage{}, err
	}

	page := models.WordPage{Total: resp.Total, Data: make([]models.WordPair, 0, len(resp.Data))}
	for _, r := range resp.Data {
		page.Data = append(page.Data, r.toModel())
	}
	return page, nil
}

func (c *Client) CreateWordPair(ctx context.Context, token string, w models.WordPair) (models.WordPair, error) {
	var row wordRow
	if err := c.do(ctx, http.MethodPost, "/bangla-korean-word-pair", token, newWordBody(w, false), &row); err != nil {
		return models.WordPair{}, err
	}
	return c.canonical(row)
}

func (c *Client) UpdateWordPair(ctx context.Context, token string, w models.WordPair) (models.WordPair, error) {
	var row wordRow
	path := "/bangla-korean-word-pair/" + url.PathEscape(w.ID)
	if err := c.do(ctx, http.MethodPut, path, token, newWordBody(w, true), &row); err != nil {
		return models.WordPair{}, err
	}
	return c.canonical(row)
}

func (c *Client) canonical(row wordRow) (models.WordPair, error) {
	w := row.toModel()
	if w.ID == "" {
		return models.WordPair{}, fmt.Errorf("%w: word pair without id", backend.ErrMalformed)
	}
	return w, nil
}

func (c *Client) DeleteWordPair(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/bangla-korean-word-pair/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) CreateWordRequest(ctx context.Context, in models.WordRequestInput) (models.WordRequest, error) {
	var req models.WordRequest
	if err := c.do(ctx, http.MethodPost, "/word-requests", "", in, &req); err != nil {
		return models.WordRequest{}, err
	}
	if req.Status == "" {
		req.Status = models.RequestPending
	}
	return req, nil
}

func (c *Client) ListWordRequests(ctx context.Context, token string, status models.RequestStatus) ([]models.WordRequest, error) {
	var raw json.RawMessage
	path := "/word-requests?status=" + url.QueryEscape(string(status))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &raw); err != nil {
		return nil, err
	}

	// Both a bare array and {"data": [...]} are in use.
	var out []models.WordRequest
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("%w: %v", backend.ErrMalformed, err)
		}
		return out, nil
	}
	var wrapped struct {
		Data []models.WordRequest `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrMalformed, err)
	}
	return wrapped.Data, nil
}

func (c *Client) SetRequestStatus(ctx context.Context, token, id string, status models.RequestStatus) error {
	body := map[string]models.RequestStatus{"status": status}
	return c.do(ctx, http.MethodPut, "/word-requests/"+url.PathEscape(id), token, body, nil)
}

func (c *Client) AdminOverview(ctx context.Context, token string) (models.AdminOverview, error) {
	var ov models.AdminOverview
	if err := c.do(ctx, http.MethodGet, "/admin/overview", token, nil, &ov); err != nil {
		return models.AdminOverview{}, err
	}
	return ov, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	body := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return models.LoginResponse{}, err
	}
	if resp.Token == "" || (resp.User.ID == "" && resp.User.Email == "") {
		return models.LoginResponse{}, fmt.Errorf("%w: login response missing user or token", backend.ErrMalformed)
	}
	return resp, nil
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", "", models.ResetRequest{Email: email}, nil)
}

func (c *Client) VerifyReset(ctx context.Context, resetToken, newPassword string) error {
	body := models.VerifyResetRequest{Token: resetToken, NewPassword: newPassword}
	return c.do(ctx, http.MethodPost, "/api/auth/verify-reset", "", body, nil)
}

func (c *Client) UpdateAccount(ctx context.Context, token string, upd models.AccountUpdate) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/auth/update-account", token, upd, &resp); err != nil {
		return "", err
	}
	if resp.Message == "" {
		resp.Message = "Account settings updated successfully"
	}
	return resp.Message, nil
}

// do sends one JSON request. A nil out discards the body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("rest: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("rest: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &backend.StatusError{Status: resp.StatusCode, Message: errorMessage(raw)}
		c.log.Warn("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", preview(raw)),
		)
		return serr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v; body: %s", backend.ErrMalformed, method, path, err, preview(raw))
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return ""
}

func preview(raw []byte) string {
	s := string(raw)
	if len(s) <= previewLimit {
		return s
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
