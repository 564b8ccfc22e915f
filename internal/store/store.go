// Package store provides the notification history log.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/ncenter/internal/model"
)

// ErrHistoryClosed is returned by operations on a closed history.
var ErrHistoryClosed = errors.New("history is closed")

// FilterOptions specifies criteria for listing history.
type FilterOptions struct {
	Since     time.Duration // Only records newer than now-since (0=all)
	AppFilter string        // Case-insensitive match on app name or desktop entry
	Category  string        // Category or category class, e.g. "email"
	Urgency   *int          // Filter by urgency level (nil=any)
	Limit     int           // Maximum results (0=unlimited)
}

// History appends shown notifications to a persistence backend.
type History struct {
	mu          sync.Mutex
	persistence Persistence
	logger      *slog.Logger
	count       int
	closed      bool
}

// NewHistory creates a history on top of persistence and counts the
// records it already holds.
func NewHistory(persistence Persistence, logger *slog.Logger) (*History, error) {
	if logger == nil {
		logger = slog.Default()
	}
	records, err := persistence.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return &History{
		persistence: persistence,
		logger:      logger,
		count:       len(records),
	}, nil
}

// Open opens the JSONL history at path.
func Open(path string, logger *slog.Logger) (*History, error) {
	p, err := NewJSONLPersistence(path)
	if err != nil {
		return nil, err
	}
	h, err := NewHistory(p, logger)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return h, nil
}

// Record appends n to the history. Transient notifications are skipped and
// reported as not written.
func (h *History) Record(n model.Notification) (bool, error) {
	if n.Transient {
		return false, nil
	}

	rec, err := model.NewRecord(n)
	if err != nil {
		return false, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false, ErrHistoryClosed
	}
	if err := h.persistence.Append(rec); err != nil {
		return false, fmt.Errorf("failed to append history record: %w", err)
	}
	h.count++

	h.logger.Debug("recorded notification", "id", n.ID, "history_id", rec.HistoryID)
	return true, nil
}

// Count returns the number of stored records.
func (h *History) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Prune keeps only the newest keep records.
func (h *History) Prune(keep int) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrHistoryClosed
	}
	records, err := h.persistence.Load()
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(records) <= keep {
		return 0, nil
	}

	sortNewestFirst(records)
	kept := records[:keep]
	slices.Reverse(kept)
	if err := h.persistence.Rewrite(kept); err != nil {
		return 0, fmt.Errorf("failed to rewrite history: %w", err)
	}

	removed := len(records) - keep
	h.count = keep
	return removed, nil
}

// Close releases the persistence.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return h.persistence.Close()
}

// Filter returns the records matching opts, newest first.
func Filter(records []model.Record, opts FilterOptions, now time.Time) []model.Record {
	out := make([]model.Record, 0, len(records))
	var cutoff int64
	if opts.Since > 0 {
		cutoff = now.Add(-opts.Since).Unix()
	}

	for _, r := range records {
		if cutoff > 0 && r.Timestamp < cutoff {
			continue
		}
		if opts.AppFilter != "" && !strings.EqualFold(r.AppName, opts.AppFilter) &&
			!strings.EqualFold(r.DesktopEntry, opts.AppFilter) {
			continue
		}
		if opts.Category != "" && !matchCategory(r.Category, opts.Category) {
			continue
		}
		if opts.Urgency != nil && r.Urgency != *opts.Urgency {
			continue
		}
		out = append(out, r)
	}

	sortNewestFirst(out)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// matchCategory matches a full category or its class: "email" matches
// "email.arrived".
func matchCategory(category, want string) bool {
	return category == want || strings.HasPrefix(category, want+".")
}

// sortNewestFirst orders by timestamp, then by ULID which sorts by creation time.
func sortNewestFirst(records []model.Record) {
	slices.SortStableFunc(records, func(a, b model.Record) int {
		if a.Timestamp != b.Timestamp {
			if a.Timestamp > b.Timestamp {
				return -1
			}
			return 1
		}
		return strings.Compare(b.HistoryID, a.HistoryID)
	})
}
