// Package vocabulary is the app-level word store: the loaded page of word pairs,
// search, sort, pagination, the display language and the admin queue.
package vocabulary

import (
	"context"
	"errors"
	"sync"

	"github.com/developia-II/langobridge/internal/backend"
	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/internal/notify"
	"github.com/developia-II/langobridge/internal/session"
	"github.com/developia-II/langobridge/internal/storage"
	"go.uber.org/zap"
)

const DefaultPageSize = 10

var (
	ErrAuthRequired = session.ErrAuthRequired
	ErrBusy         = errors.New("operation already in progress")
)

// Sessions is the part of the session manager the store needs.
type Sessions interface {
	Token() (string, bool)
}

type op string

const (
	opFetch    op = "fetch"
	opAdd      op = "add"
	opUpdate   op = "update"
	opRemove   op = "remove"
	opRequest  op = "request"
	opOverview op = "overview"
	opQueue    op = "queue"
	opReview   op = "review"
)

type Store struct {
	backend  backend.Backend
	sessions Sessions
	store    storage.Store
	notes    notify.Notifier
	log      *zap.Logger
	pageSize int

	mu         sync.RWMutex
	words      []models.WordPair
	total      int
	search     string
	page       int
	totalPages int
	lang       models.Language
	pinned     *models.WordPair
	queued     *string
	inflight   map[op]bool
	overview   *models.AdminOverview
	requests   []models.WordRequest
	subs       map[int]chan View
	nextSub    int
}

func New(b backend.Backend, sessions Sessions, store storage.Store, notes notify.Notifier, pageSize int, log *zap.Logger) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{
		backend:    b,
		sessions:   sessions,
		store:      store,
		notes:      notes,
		log:        log,
		pageSize:   pageSize,
		page:       1,
		totalPages: 1,
		lang:       models.LanguageBangla,
		inflight:   make(map[op]bool),
		subs:       make(map[int]chan View),
	}
}

// Fetch loads one page from the backend. A backend failure leaves an empty
// list and a notice; it is not returned.
func (s *Store) Fetch(ctx context.Context, page int, search string) error {
	if err := s.begin(opFetch); err != nil {
		return err
	}
	s.run(ctx, page, search)
	return nil
}

// Search commits a settled search term and loads its first page. A term that
// arrives while a fetch is running is loaded as soon as that fetch finishes.
func (s *Store) Search(ctx context.Context, term string) error {
	s.mu.Lock()
	if s.inflight[opFetch] {
		s.queued = &term
		s.search = term
		s.mu.Unlock()
		s.publish()
		return nil
	}
	s.inflight[opFetch] = true
	s.search = term
	s.mu.Unlock()
	s.publish()

	s.run(ctx, 1, term)
	return nil
}

// Refresh re-fetches the current page and search.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.RLock()
	page, search := s.page, s.search
	s.mu.RUnlock()
	return s.Fetch(ctx, page, search)
}

// run loads page and then any term queued by Search meanwhile, and releases
// the fetch slot.
func (s *Store) run(ctx context.Context, page int, search string) {
	for {
		s.load(ctx, page, search)

		s.mu.Lock()
		next := s.queued
		s.queued = nil
		if next == nil {
			delete(s.inflight, opFetch)
			s.mu.Unlock()
			s.publish()
			return
		}
		s.mu.Unlock()
		page, search = 1, *next
	}
}

func (s *Store) load(ctx context.Context, page int, search string) {
	if page < 1 {
		page = 1
	}
	res, err := s.backend.ListWordPairs(ctx, models.ListQuery{Page: page, Limit: s.pageSize, Search: search})
	if err == nil {
		// Past the end: show the last page that actually exists.
		if last := clamp(page, pageCount(res.Total, s.pageSize)); last != page && res.Total > 0 {
			page = last
			res, err = s.backend.ListWordPairs(ctx, models.ListQuery{Page: page, Limit: s.pageSize, Search: search})
		}
	}

	s.mu.Lock()
	s.search = search
	if err != nil {
		s.words = nil
		s.total = 0
	} else {
		s.words = res.Data
		s.total = res.Total
	}
	s.totalPages = pageCount(s.total, s.pageSize)
	s.page = clamp(page, s.totalPages)
	s.mu.Unlock()

	if err != nil {
		s.log.Error("failed to fetch words", zap.Int("page", page), zap.String("search", search), zap.Error(err))
		s.notes.Error("Failed to load words")
	}
	s.publish()
}

func (s *Store) token() (string, error) {
	tok, ok := s.sessions.Token()
	if !ok || tok == "" {
		return "", ErrAuthRequired
	}
	return tok, nil
}

func (s *Store) begin(kind op) error {
	s.mu.Lock()
	if s.inflight[kind] {
		s.mu.Unlock()
		return ErrBusy
	}
	s.inflight[kind] = true
	s.mu.Unlock()
	s.publish()
	return nil
}

func (s *Store) end(kind op) {
	s.mu.Lock()
	delete(s.inflight, kind)
	s.mu.Unlock()
	s.publish()
}

// Subscribe delivers a fresh View after every change until cancel is called.
// A subscriber that falls behind only misses intermediate views.
func (s *Store) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 1)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) publish() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.subs) == 0 {
		return
	}
	v := s.viewLocked()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

func pageCount(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

func clamp(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
