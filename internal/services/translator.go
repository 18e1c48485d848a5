package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/developia-II/langobridge/internal/script"
	"go.uber.org/zap"
)

const (
	LangBangla = "bn"
	LangKorean = "ko"

	DefaultTranslateTimeout = 10 * time.Second
	previewLimit            = 500
)

var (
	ErrTranslationTimeout = errors.New("translation request timed out after 10 seconds")
	ErrEmptyTranslation   = errors.New("empty translation")
)

// HTTPError is a non-200 reply from a translation provider.
type HTTPError struct {
	Provider string
	Status   int
	Body     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Provider, e.Status, e.Body)
}

// Translator turns text from one language code into another.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// DetectLanguage treats any Bengali rune as Bangla input and everything else as Korean.
func DetectLanguage(text string) (sourceLang, targetLang string) {
	if script.ContainsBangla(text) {
		return LangBangla, LangKorean
	}
	return LangKorean, LangBangla
}

// Gateway tries each provider in order under one overall deadline.
type Gateway struct {
	providers []Translator
	timeout   time.Duration
	log       *zap.Logger
}

func NewGateway(timeout time.Duration, log *zap.Logger, providers ...Translator) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTranslateTimeout
	}
	return &Gateway{providers: providers, timeout: timeout, log: log}
}

func (g *Gateway) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if len(g.providers) == 0 {
		return "", fmt.Errorf("translation failed: no providers configured")
	}

	var lastErr error
	for _, p := range g.providers {
		translated, err := p.Translate(ctx, text, sourceLang, targetLang)
		if err == nil && strings.TrimSpace(translated) != "" {
			return strings.TrimSpace(translated), nil
		}
		if err == nil {
			err = ErrEmptyTranslation
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			g.log.Warn("translation timed out", zap.String("provider", p.Name()), zap.Duration("timeout", g.timeout))
			return "", ErrTranslationTimeout
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		g.log.Warn("translation provider failed", zap.String("provider", p.Name()), zap.Error(err))
		lastErr = err
	}
	return "", fmt.Errorf("translation failed: %w", lastErr)
}

// Endpoint posts {text, sourceLang, targetLang} to the app's translate service.
type Endpoint struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

func NewEndpoint(apiURL, userAgent string) *Endpoint {
	return &Endpoint{url: apiURL, userAgent: userAgent, httpClient: &http.Client{}}
}

func (e *Endpoint) Name() string { return "endpoint" }

type endpointRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

type endpointResponse struct {
	Status         string `json:"status"`
	TranslatedText string `json:"translatedText"`
	Message        string `json:"message"`
}

func (e *Endpoint) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	body, err := json.Marshal(endpointRequest{Text: text, SourceLang: sourceLang, TargetLang: targetLang})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{Provider: e.Name(), Status: resp.StatusCode, Body: preview(raw)}
	}

	var result endpointResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("invalid JSON from %s: %v; body: %s", e.url, err, preview(raw))
	}
	if result.Status != "success" {
		if result.Message != "" {
			return "", errors.New(result.Message)
		}
		return "", fmt.Errorf("translation failed")
	}
	return result.TranslatedText, nil
}

// MyMemory uses the public MyMemory API, no key required.
type MyMemory struct {
	baseURL    string
	httpClient *http.Client
}

func NewMyMemory() *MyMemory {
	return &MyMemory{baseURL: "https://api.mymemory.translated.net/get", httpClient: &http.Client{}}
}

func (m *MyMemory) Name() string { return "mymemory" }

func (m *MyMemory) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", fmt.Sprintf("%s|%s", sourceLang, targetLang))
	fullURL := fmt.Sprintf("%s?%s", m.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{Provider: m.Name(), Status: resp.StatusCode, Body: preview(bodyBytes)}
	}

	var mm struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}
	if err := json.Unmarshal(bodyBytes, &mm); err != nil {
		return "", fmt.Errorf("invalid JSON from mymemory: %v; body: %s", err, preview(bodyBytes))
	}

	if mm.ResponseStatus == 200 && mm.ResponseData.TranslatedText != "" {
		return mm.ResponseData.TranslatedText, nil
	}
	if mm.ResponseDetails != "" {
		return "", fmt.Errorf("mymemory error: %s", mm.ResponseDetails)
	}
	return "", fmt.Errorf("mymemory returned empty translation")
}

func preview(b []byte) string {
	s := string(b)
	if len(s) <= previewLimit {
		return s
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
