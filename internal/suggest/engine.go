// Package suggest turns search box input into word suggestions, from the loaded
// list first and from translation plus an AI example otherwise.
package suggest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/internal/notify"
	"github.com/developia-II/langobridge/internal/services"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	MaxLocal        = 5
	minRunes        = 2
)

type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

type ExampleGenerator interface {
	GenerateExample(ctx context.Context, bangla, korean string) (models.Example, error)
}

// Words is the store side: what is loaded, and where a settled term goes.
type Words interface {
	Loaded() []models.WordPair
	Search(ctx context.Context, term string) error
}

type Engine struct {
	words    Words
	tr       Translator
	examples ExampleGenerator
	notes    notify.Notifier
	log      *zap.Logger
	debounce time.Duration

	base   context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	raw         string
	seq         uint64
	suggestions []models.WordPair
	fetching    bool
	timer       *time.Timer
}

// New builds an engine. examples may be nil, in which case suggestions carry
// no example sentence.
func New(words Words, tr Translator, examples ExampleGenerator, notes notify.Notifier, debounce time.Duration, log *zap.Logger) *Engine {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	base, cancel := context.WithCancel(context.Background())
	return &Engine{
		words:    words,
		tr:       tr,
		examples: examples,
		notes:    notes,
		log:      log,
		debounce: debounce,
		base:     base,
		cancel:   cancel,
	}
}

// Input records text, commits it to the store after the debounce interval and
// starts a lookup right away.
func (e *Engine) Input(text string) {
	e.mu.Lock()
	e.raw = text
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, func() { e.commit(text) })
	e.mu.Unlock()

	go func() {
		_, _ = e.Lookup(e.base, text)
	}()
}

// Lookup resolves suggestions for text. The result is applied only if no newer
// lookup has started meanwhile; it is returned either way.
func (e *Engine) Lookup(ctx context.Context, text string) ([]models.WordPair, error) {
	e.mu.Lock()
	e.seq++
	seq := e.seq
	e.fetching = true
	e.mu.Unlock()

	res, err := e.resolve(ctx, strings.TrimSpace(text))
	e.apply(seq, text, res, err)
	return res, err
}

func (e *Engine) resolve(ctx context.Context, term string) ([]models.WordPair, error) {
	if utf8.RuneCountInString(term) < minRunes {
		return nil, nil
	}

	if local := MatchLocal(e.words.Loaded(), term); len(local) > 0 {
		return local, nil
	}

	src, tgt := services.DetectLanguage(term)
	translated, err := e.tr.Translate(ctx, term, src, tgt)
	if err != nil {
		return nil, err
	}

	pair := models.WordPair{
		ID:       "ai-" + uuid.NewString(),
		Source:   models.SourceAI,
		Status:   models.StatusPending,
		Examples: []models.Example{},
	}
	if src == services.LangBangla {
		pair.Bangla, pair.Korean = term, translated
	} else {
		pair.Bangla, pair.Korean = translated, term
	}

	if e.examples != nil {
		ex, err := e.examples.GenerateExample(ctx, pair.Bangla, pair.Korean)
		if err != nil {
			e.log.Warn("example generation failed", zap.String("term", term), zap.Error(err))
		} else {
			pair.Examples = []models.Example{ex}
		}
	}
	return []models.WordPair{pair}, nil
}

func (e *Engine) apply(seq uint64, text string, res []models.WordPair, err error) {
	e.mu.Lock()
	if seq != e.seq {
		e.mu.Unlock()
		e.log.Debug("discarding stale suggestions", zap.String("input", text), zap.Uint64("seq", seq))
		return
	}
	if err != nil {
		res = nil
	}
	e.suggestions = res
	e.fetching = false
	e.mu.Unlock()

	if err == nil {
		return
	}
	e.log.Warn("suggestion lookup failed", zap.String("input", text), zap.Error(err))
	if errors.Is(err, services.ErrTranslationTimeout) {
		e.notes.Error("Translation request timed out after 10 seconds")
		return
	}
	e.notes.Error("No translation found or server timed out")
}

// MatchLocal is a case-insensitive substring match on either field, capped.
func MatchLocal(words []models.WordPair, term string) []models.WordPair {
	term = strings.ToLower(term)
	matches := lo.Filter(words, func(w models.WordPair, _ int) bool {
		return strings.Contains(strings.ToLower(w.Bangla), term) ||
			strings.Contains(strings.ToLower(w.Korean), term)
	})
	return lo.Subset(matches, 0, MaxLocal)
}

func (e *Engine) Suggestions() []models.WordPair {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.WordPair(nil), e.suggestions...)
}

func (e *Engine) Fetching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fetching
}

func (e *Engine) Raw() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.raw
}

// Clear empties the input and suggestions and drops any lookup in flight.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.raw = ""
	e.seq++
	e.suggestions = nil
	e.fetching = false
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()

	e.commit("")
}

// commit hands a settled term to the store, which reloads the list for it.
func (e *Engine) commit(term string) {
	if err := e.words.Search(e.base, term); err != nil {
		e.log.Warn("search commit failed", zap.String("term", term), zap.Error(err))
	}
}

// Close stops the debounce timer and cancels background lookups.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.mu.Unlock()
	e.cancel()
}
