package store

import (
	"context"
	"log/slog"
	"time"

	"cuzdan/internal/retention"
)

// CleanupResult describes one run of CheckAndPerformMonthlyCleanup.
type CleanupResult struct {
	Ran      bool   `json:"ran"`
	Removed  int    `json:"removed"`
	MonthKey string `json:"monthKey"`
}

// CheckAndPerformMonthlyCleanup prunes one-off transactions outside the
// current month the first time it is called in a calendar month. Later calls
// in the same month do nothing. The check, the prune and the marker update
// happen in one state replacement.
func (s *Store) CheckAndPerformMonthlyCleanup(ctx context.Context) CleanupResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Today()
	key := retention.MonthKey(today)
	if !retention.Due(s.state.LastCleanupMonth, today) {
		return CleanupResult{MonthKey: key}
	}

	kept, removed := retention.Prune(s.state.Transactions, today)
	next := s.state.Clone()
	next.Transactions = kept
	next.LastCleanupMonth = key
	s.replace(ctx, next)

	slog.InfoContext(ctx, "Monthly cleanup completed",
		"month", key,
		"removed", len(removed),
		"kept", len(kept))
	return CleanupResult{Ran: true, Removed: len(removed), MonthKey: key}
}

// RunCleanupLoop checks for a due monthly cleanup right away and then every
// interval until ctx is done. It returns nil on cancellation.
func (s *Store) RunCleanupLoop(ctx context.Context, interval time.Duration) error {
	s.CheckAndPerformMonthlyCleanup(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.CheckAndPerformMonthlyCleanup(ctx)
		}
	}
}
