package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/ncenter/internal/model"
)

func TestHistory_Record(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	h, err := Open(path, nil)
	require.NoError(t, err)

	written, err := h.Record(model.Notification{ID: 1, AppName: "mail", Summary: "hello"})
	require.NoError(t, err)
	assert.True(t, written)

	written, err = h.Record(model.Notification{ID: 2, Summary: "volume", Transient: true})
	require.NoError(t, err)
	assert.False(t, written)

	assert.Equal(t, 1, h.Count())
	require.NoError(t, h.Close())

	_, err = h.Record(model.Notification{ID: 3})
	assert.ErrorIs(t, err, ErrHistoryClosed)

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0].Summary)
	assert.Equal(t, uint32(1), records[0].ID)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 1, reopened.Count())
}

func TestHistory_Prune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	h, err := Open(path, nil)
	require.NoError(t, err)
	defer h.Close()

	base := time.Unix(1700000000, 0)
	for i := range 5 {
		_, err := h.Record(model.Notification{
			ID:         uint32(i + 1),
			Summary:    "n",
			ReceivedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	removed, err := h.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 2, h.Count())

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint32(4), records[0].ID)
	assert.Equal(t, uint32(5), records[1].ID)

	removed, err = h.Prune(10)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestFilter(t *testing.T) {
	now := time.Unix(1700003600, 0)
	critical := model.UrgencyCritical
	records := []model.Record{
		{HistoryID: "A", AppName: "mail", Category: "email.arrived", Urgency: 1, Timestamp: 1700000000},
		{HistoryID: "B", AppName: "Chat", DesktopEntry: "org.chat.App", Category: "im.received", Urgency: 2, Timestamp: 1700003000},
		{HistoryID: "C", AppName: "mail", Category: "emailer", Urgency: 2, Timestamp: 1700003500},
	}

	tests := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{"all newest first", FilterOptions{}, []string{"C", "B", "A"}},
		{"since", FilterOptions{Since: 30 * time.Minute}, []string{"C", "B"}},
		{"app case-insensitive", FilterOptions{AppFilter: "chat"}, []string{"B"}},
		{"desktop entry", FilterOptions{AppFilter: "org.chat.app"}, []string{"B"}},
		{"category class", FilterOptions{Category: "email"}, []string{"A"}},
		{"full category", FilterOptions{Category: "im.received"}, []string{"B"}},
		{"urgency", FilterOptions{Urgency: &critical}, []string{"C", "B"}},
		{"limit", FilterOptions{Limit: 1}, []string{"C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, tt.opts, now)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.HistoryID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	assert.Equal(t, "A", records[0].HistoryID, "input is not reordered")
}
