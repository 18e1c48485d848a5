package history

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecordDeduplicatesAndOrders(t *testing.T) {
	r := New(storage.NewMemory(), zap.NewNop())

	r.Record(models.WordPair{Bangla: "বই", Korean: "책"})
	r.Record(models.WordPair{Bangla: "পানি", Korean: "물"})
	r.Record(models.WordPair{Bangla: "বই", Korean: "책"})

	items := r.List()
	require.Len(t, items, 2)
	assert.Equal(t, "책", items[0].Korean)
	assert.Equal(t, "물", items[1].Korean)
}

func TestRecordCapsAtMax(t *testing.T) {
	r := New(storage.NewMemory(), zap.NewNop())
	for i := 0; i < MaxItems+5; i++ {
		r.Record(models.WordPair{Bangla: fmt.Sprintf("b%d", i), Korean: fmt.Sprintf("k%d", i)})
	}

	items := r.List()
	require.Len(t, items, MaxItems)
	assert.Equal(t, fmt.Sprintf("b%d", MaxItems+4), items[0].Bangla)
}

func TestHistoryPersists(t *testing.T) {
	store := storage.NewMemory()
	item := New(store, zap.NewNop()).Record(models.WordPair{
		Bangla:   "বই",
		Korean:   "책",
		Examples: []models.Example{{Bangla: "এটা বই।", Korean: "이것은 책이에요."}},
	})

	reloaded := New(store, zap.NewNop()).List()
	require.Len(t, reloaded, 1)
	assert.Equal(t, item.ID, reloaded[0].ID)
	assert.Equal(t, "এটা বই।", reloaded[0].Examples[0].Bangla)
}

func TestRemoveAndClear(t *testing.T) {
	store := storage.NewMemory()
	r := New(store, zap.NewNop())
	a := r.Record(models.WordPair{Bangla: "বই", Korean: "책"})
	r.Record(models.WordPair{Bangla: "পানি", Korean: "물"})

	r.Remove("missing")
	assert.Len(t, r.List(), 2)

	r.Remove(a.ID)
	assert.Len(t, r.List(), 1)

	r.Clear()
	assert.Empty(t, r.List())
	var raw []models.HistoryItem
	assert.ErrorIs(t, store.Get(storage.KeyHistory, &raw), storage.ErrNotFound)
}

func TestLoadDropsUnreadableHistory(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.KeyHistory, json.RawMessage(`[{"id":"a","bangla":"বই","korean":"책"}, 5]`)))

	assert.Empty(t, New(store, zap.NewNop()).List())
}

func TestLoadTrimsOversizedHistory(t *testing.T) {
	store := storage.NewMemory()
	items := make([]models.HistoryItem, MaxItems+10)
	for i := range items {
		items[i] = models.HistoryItem{ID: fmt.Sprintf("h%d", i), Bangla: fmt.Sprintf("b%d", i), Korean: fmt.Sprintf("k%d", i)}
	}
	require.NoError(t, store.Set(storage.KeyHistory, items))

	got := New(store, zap.NewNop()).List()
	require.Len(t, got, MaxItems)
	assert.Equal(t, "h0", got[0].ID)
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "Just now"},
		{time.Minute, "1 min ago"},
		{5 * time.Minute, "5 mins ago"},
		{time.Hour, "1 hour ago"},
		{2 * time.Hour, "2 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{8 * 24 * time.Hour, "Mar 2"},
		{100 * 24 * time.Hour, "Nov 30, 2024"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatAge(now.Add(-tc.ago), now))
		})
	}
}
