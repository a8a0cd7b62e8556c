// Package store holds the application state: profiles, transactions, the
// active profile selection and the cleanup marker.
//
// Every mutation replaces the state as a whole under a single mutex and is
// then handed to the Persister. Persistence is fire-and-forget: a failed save
// is logged and the in-memory mutation stands.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cuzdan/internal/core"
	"cuzdan/internal/report"
)

// Persister loads and saves the whole state document.
type Persister interface {
	Load(ctx context.Context) (core.State, error)
	Save(ctx context.Context, state core.State) error
}

// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     core.State
	persister Persister
	now       func() time.Time
	location  *time.Location
	newID     func() string
	version   uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone used to derive "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithIDGenerator overrides the entity ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a store around initial with no load step.
func New(p Persister, initial core.State, opts ...Option) *Store {
	s := &Store{
		state:     initial.Clone(),
		persister: p,
		now:       time.Now,
		location:  time.Local,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the state from p and returns a store around it.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	var st core.State
	if p != nil {
		loaded, err := p.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
		st = loaded
	}
	return New(p, st, opts...), nil
}

// Today returns the current calendar date in the store's location.
func (s *Store) Today() core.Date {
	return core.DateOf(s.now().In(s.location))
}

// replace swaps in next and persists it. Callers must hold mu.
func (s *Store) replace(ctx context.Context, next core.State) {
	s.state = next
	s.version++
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, next.Clone()); err != nil {
		slog.ErrorContext(ctx, "Failed to persist state", "version", s.version, "error", err)
	}
}

// AddProfile creates a profile. The new profile is not selected.
func (s *Store) AddProfile(ctx context.Context, in core.ProfileInput) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := core.NewProfile(s.newID(), in, s.now())
	if err != nil {
		return core.Profile{}, err
	}
	next := s.state.Clone()
	next.Profiles = append(next.Profiles, p)
	s.replace(ctx, next)

	slog.InfoContext(ctx, "Profile created", "profile_id", p.ID, "currency", p.Currency)
	return p, nil
}

// DeleteProfile removes the profile and every transaction it owns, clearing
// the active selection if it pointed at the profile. Unknown IDs are a no-op.
func (s *Store) DeleteProfile(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findProfile(id); !ok {
		return
	}
	next := s.state.Clone()
	next.Profiles = next.Profiles[:0]
	for _, p := range s.state.Profiles {
		if p.ID != id {
			next.Profiles = append(next.Profiles, p)
		}
	}
	next.Transactions = next.Transactions[:0]
	removed := 0
	for _, t := range s.state.Transactions {
		if t.ProfileID == id {
			removed++
			continue
		}
		next.Transactions = append(next.Transactions, t)
	}
	if next.ActiveProfileID == id {
		next.ActiveProfileID = ""
	}
	s.replace(ctx, next)

	slog.InfoContext(ctx, "Profile deleted", "profile_id", id, "transactions_removed", removed)
}

// SelectProfile marks id as the active profile. An empty id clears the selection.
func (s *Store) SelectProfile(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if _, ok := s.findProfile(id); !ok {
			return fmt.Errorf("select %q: %w", id, core.ErrProfileNotFound)
		}
	}
	next := s.state.Clone()
	next.ActiveProfileID = id
	s.replace(ctx, next)
	return nil
}

// AddTransaction records a transaction for profileID.
func (s *Store) AddTransaction(ctx context.Context, profileID string, in core.TransactionInput) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findProfile(profileID); !ok {
		return core.Transaction{}, fmt.Errorf("add transaction to %q: %w", profileID, core.ErrProfileNotFound)
	}
	t, err := core.NewTransaction(s.newID(), profileID, in, s.now())
	if err != nil {
		return core.Transaction{}, err
	}
	next := s.state.Clone()
	next.Transactions = append(next.Transactions, t)
	s.replace(ctx, next)

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", t.ID,
		"profile_id", profileID,
		"type", t.Type,
		"recurring", t.IsRecurring)
	return t, nil
}

// UpdateTransaction replaces the editable fields of transaction id.
func (s *Store) UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.state.Transactions {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Transaction{}, fmt.Errorf("update %q: %w", id, core.ErrTransactionNotFound)
	}
	updated, err := s.state.Transactions[idx].WithInput(in)
	if err != nil {
		return core.Transaction{}, err
	}
	next := s.state.Clone()
	next.Transactions[idx] = updated
	s.replace(ctx, next)
	return updated, nil
}

// DeleteTransaction removes transaction id. Unknown IDs are a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Transactions = next.Transactions[:0]
	found := false
	for _, t := range s.state.Transactions {
		if t.ID == id {
			found = true
			continue
		}
		next.Transactions = append(next.Transactions, t)
	}
	if !found {
		return
	}
	s.replace(ctx, next)
}

// Profiles returns all profiles in creation order.
func (s *Store) Profiles() []core.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Profile(nil), s.state.Profiles...)
}

// Profile looks up a profile by ID.
func (s *Store) Profile(id string) (core.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findProfile(id)
}

// ActiveProfile returns the selected profile, if any.
func (s *Store) ActiveProfile() (core.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.ActiveProfileID == "" {
		return core.Profile{}, false
	}
	return s.findProfile(s.state.ActiveProfileID)
}

// ProfileTransactions returns the transactions of profileID, newest first.
// Same-date transactions are ordered by creation time, newest first, and then
// keep their insertion order.
func (s *Store) ProfileTransactions(profileID string) []core.Transaction {
	s.mu.RLock()
	var out []core.Transaction
	for _, t := range s.state.Transactions {
		if t.ProfileID == profileID {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()

	core.SortNewestFirst(out)
	return out
}

// Summary returns the headline totals of profileID.
func (s *Store) Summary(profileID string) core.Summary {
	return report.Summarize(s.ProfileTransactions(profileID))
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() core.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Version increases by one on every state replacement.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) findProfile(id string) (core.Profile, bool) {
	for _, p := range s.state.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return core.Profile{}, false
}
