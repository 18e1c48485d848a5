package vocabulary

import (
	"slices"
	"strings"

	"github.com/developia-II/langobridge/internal/models"
	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// View is what the word list screen renders.
type View struct {
	Words      []models.WordPair `json:"words"`
	SearchTerm string            `json:"searchTerm"`
	Language   models.Language   `json:"selectedLanguage"`
	Page       int               `json:"currentPage"`
	TotalPages int               `json:"totalPages"`
	Total      int               `json:"total"`
	Loading    bool              `json:"isLoading"`
	Pinned     *models.WordPair  `json:"selectedSuggestion,omitempty"`
}

func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Store) viewLocked() View {
	v := View{
		SearchTerm: s.search,
		Language:   s.lang,
		Page:       s.page,
		TotalPages: s.totalPages,
		Total:      s.total,
		Loading:    len(s.inflight) > 0,
	}
	if s.pinned != nil {
		p := *s.pinned
		v.Pinned = &p
		v.Words = []models.WordPair{p}
		return v
	}
	v.Words = Filter(s.words, s.search, s.lang)
	if v.Words == nil {
		v.Words = []models.WordPair{}
	}
	return v
}

// Loaded returns the unfiltered current page.
func (s *Store) Loaded() []models.WordPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.words)
}

// Filter keeps entries whose either field contains term, case-insensitively,
// then sorts them by the display language field. No term returns words as is.
func Filter(words []models.WordPair, term string, lang models.Language) []models.WordPair {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(words)
	}
	out := lo.Filter(words, func(w models.WordPair, _ int) bool {
		return strings.Contains(strings.ToLower(w.Bangla), term) ||
			strings.Contains(strings.ToLower(w.Korean), term)
	})
	SortBy(out, lang)
	return out
}

// SortBy is a stable ascending sort under the collation of lang.
func SortBy(words []models.WordPair, lang models.Language) {
	tag := language.Bengali
	if lang == models.LanguageKorean {
		tag = language.Korean
	}
	c := collate.New(tag)
	slices.SortStableFunc(words, func(a, b models.WordPair) int {
		return c.CompareString(a.Field(lang), b.Field(lang))
	})
}

func (s *Store) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}

// SetPage clamps n into the known page range and returns the result.
func (s *Store) SetPage(n int) int {
	s.mu.Lock()
	s.page = clamp(n, s.totalPages)
	page := s.page
	s.mu.Unlock()
	s.publish()
	return page
}

// Pin forces the view to a single entry until Unpin.
func (s *Store) Pin(w models.WordPair) {
	s.mu.Lock()
	s.pinned = &w
	s.mu.Unlock()
	s.publish()
}

func (s *Store) Unpin() {
	s.mu.Lock()
	s.pinned = nil
	s.mu.Unlock()
	s.publish()
}

func (s *Store) SelectedLanguage() models.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

func (s *Store) ToggleLanguage() models.Language {
	s.mu.Lock()
	if s.lang == models.LanguageBangla {
		s.lang = models.LanguageKorean
	} else {
		s.lang = models.LanguageBangla
	}
	lang := s.lang
	s.mu.Unlock()
	s.publish()
	return lang
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inflight) > 0
}
