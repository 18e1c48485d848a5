// Package history keeps the most recent vocabulary lookups in local storage.
package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxItems = 50

type Recorder struct {
	mu    sync.Mutex
	store storage.Store
	log   *zap.Logger
	now   func() time.Time
	items []models.HistoryItem
}

func New(store storage.Store, log *zap.Logger) *Recorder {
	r := &Recorder{store: store, log: log, now: time.Now}
	if err := store.Get(storage.KeyHistory, &r.items); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Warn("failed to read history", zap.Error(err))
		}
		r.items = nil
	}
	if len(r.items) > MaxItems {
		r.items = r.items[:MaxItems]
	}
	return r
}

// Record moves an existing (bangla, korean) entry to the top or adds a new one.
func (r *Recorder) Record(w models.WordPair) models.HistoryItem {
	item := models.HistoryItem{
		ID:        uuid.NewString(),
		Bangla:    w.Bangla,
		Korean:    w.Korean,
		Timestamp: r.now().UTC(),
		Examples:  w.Examples,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.HistoryItem, 0, len(r.items)+1)
	next = append(next, item)
	for _, h := range r.items {
		if h.Bangla == item.Bangla && h.Korean == item.Korean {
			continue
		}
		next = append(next, h)
	}
	if len(next) > MaxItems {
		next = next[:MaxItems]
	}
	r.items = next
	r.save()
	return item
}

func (r *Recorder) List() []models.HistoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.HistoryItem(nil), r.items...)
}

// Remove is a no-op for an unknown id.
func (r *Recorder) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.items[:0:0]
	for _, h := range r.items {
		if h.ID != id {
			next = append(next, h)
		}
	}
	if len(next) == len(r.items) {
		return
	}
	r.items = next
	r.save()
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	if err := r.store.Delete(storage.KeyHistory); err != nil {
		r.log.Warn("failed to clear history", zap.Error(err))
	}
}

func (r *Recorder) save() {
	if err := r.store.Set(storage.KeyHistory, r.items); err != nil {
		r.log.Warn("failed to write history", zap.Error(err))
	}
}

// FormatAge renders ts relative to now the way the history panel shows it.
func FormatAge(ts, now time.Time) string {
	diff := now.Sub(ts)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return plural(mins, "min") + " ago"
	case hours < 24:
		return plural(hours, "hour") + " ago"
	case days < 7:
		return plural(days, "day") + " ago"
	}
	if ts.Year() != now.Year() {
		return ts.Format("Jan 2, 2006")
	}
	return ts.Format("Jan 2")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
