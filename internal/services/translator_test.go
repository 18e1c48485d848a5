package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTranslator struct {
	name  string
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Name() string { return s.name }

func (s *stubTranslator) Translate(context.Context, string, string, string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestDetectLanguage(t *testing.T) {
	src, tgt := DetectLanguage("আমি")
	assert.Equal(t, LangBangla, src)
	assert.Equal(t, LangKorean, tgt)

	src, tgt = DetectLanguage("안녕")
	assert.Equal(t, LangKorean, src)
	assert.Equal(t, LangBangla, tgt)

	src, _ = DetectLanguage("hello")
	assert.Equal(t, LangKorean, src)
}

func TestEndpointTranslate(t *testing.T) {
	var got endpointRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(endpointResponse{Status: "success", TranslatedText: "নমস্কার"})
	}))
	defer srv.Close()

	out, err := NewEndpoint(srv.URL, "test").Translate(context.Background(), "안녕", "ko", "bn")
	require.NoError(t, err)
	assert.Equal(t, "নমস্কার", out)
	assert.Equal(t, endpointRequest{Text: "안녕", SourceLang: "ko", TargetLang: "bn"}, got)
}

func TestEndpointErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fail":
			_ = json.NewEncoder(w).Encode(endpointResponse{Status: "error", Message: "quota exceeded"})
		case "/status":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		default:
			_, _ = w.Write([]byte("<html>"))
		}
	}))
	defer srv.Close()

	_, err := NewEndpoint(srv.URL+"/fail", "").Translate(context.Background(), "x", "ko", "bn")
	assert.EqualError(t, err, "quota exceeded")

	_, err = NewEndpoint(srv.URL+"/status", "").Translate(context.Background(), "x", "ko", "bn")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.Status)
	assert.Equal(t, "upstream down", httpErr.Body)

	_, err = NewEndpoint(srv.URL+"/html", "").Translate(context.Background(), "x", "ko", "bn")
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestGatewayFallsBack(t *testing.T) {
	first := &stubTranslator{name: "endpoint", err: assert.AnError}
	second := &stubTranslator{name: "mymemory", out: " 사랑 "}

	out, err := NewGateway(time.Second, zap.NewNop(), first, second).Translate(context.Background(), "ভালোবাসা", "bn", "ko")
	require.NoError(t, err)
	assert.Equal(t, "사랑", out)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestGatewayAllFail(t *testing.T) {
	first := &stubTranslator{name: "endpoint", err: assert.AnError}
	second := &stubTranslator{name: "mymemory"}

	_, err := NewGateway(time.Second, zap.NewNop(), first, second).Translate(context.Background(), "x", "bn", "ko")
	assert.ErrorIs(t, err, ErrEmptyTranslation)
}

func TestGatewayTimeout(t *testing.T) {
	var got endpointRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	fallback := &stubTranslator{name: "mymemory", out: "unused"}
	gw := NewGateway(50*time.Millisecond, zap.NewNop(), NewEndpoint(srv.URL, ""), fallback)

	src, tgt := DetectLanguage("안녕")
	_, err := gw.Translate(context.Background(), "안녕", src, tgt)
	assert.ErrorIs(t, err, ErrTranslationTimeout)
	assert.Equal(t, 0, fallback.calls)
	assert.Equal(t, "ko", got.SourceLang)
	assert.Equal(t, "bn", got.TargetLang)
}

func TestMyMemoryTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bn|ko", r.URL.Query().Get("langpair"))
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"물"},"responseStatus":200}`))
	}))
	defer srv.Close()

	mm := NewMyMemory()
	mm.baseURL = srv.URL
	out, err := mm.Translate(context.Background(), "পানি", "bn", "ko")
	require.NoError(t, err)
	assert.Equal(t, "물", out)
}

func TestPreviewKeepsRunesWhole(t *testing.T) {
	// 3-byte Hangul syllables put a rune boundary off the byte limit.
	body := []byte("a" + strings.Repeat("안", previewLimit))

	got := preview(body)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), previewLimit+len("..."))

	assert.Equal(t, "짧은 본문", preview([]byte("짧은 본문")))
}
