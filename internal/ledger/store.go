// Package ledger owns the transaction sequence: it loads it from a kv.Store,
// applies add/remove intents and writes the whole sequence back after every
// change.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"tracker/internal/core"
	"tracker/internal/kv"
	"tracker/internal/log"
)

// DefaultKey is the storage key holding the serialized sequence.
const DefaultKey = "transactions"

// Snapshot is the transaction sequence at one revision, newest first.
// Transactions must not be modified by callers.
type Snapshot struct {
	Revision     uint64
	Transactions []core.Transaction
}

// Len returns the number of transactions in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Transactions)
}

type Option func(*Store)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the identifier generator.
func WithIDs(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentLedger) }
}

// Store is the sole owner of the transaction sequence.
type Store struct {
	kv     kv.Store
	key    string
	now    func() time.Time
	newID  func() string
	logger *log.Logger

	mu        sync.Mutex
	snap      Snapshot
	observers []func(Snapshot)
}

func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     store,
		key:    DefaultKey,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.FromContext(context.Background()).WithComponent(log.ComponentLedger),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory sequence with the persisted one. A missing,
// unreadable or corrupt blob leaves the store empty; the problem is logged
// and never returned.
func (s *Store) Load(ctx context.Context) Snapshot {
	txs := s.read(ctx)

	s.mu.Lock()
	s.snap = Snapshot{Revision: s.snap.Revision + 1, Transactions: txs}
	snap := s.snap
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transactions loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldCount, len(txs),
		log.FieldStorageKey, s.key)
	s.notify(snap)
	return snap
}

func (s *Store) read(ctx context.Context) []core.Transaction {
	raw, ok, err := s.kv.Read(ctx, s.key)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read transactions, starting empty",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err,
			"error_type", log.ErrorTypeStorage)
		return nil
	}
	if !ok {
		return nil
	}
	var txs []core.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		s.logger.WarnContext(ctx, "Discarding corrupt transaction data",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err,
			"error_type", log.ErrorTypeCorruptData,
			"bytes", len(raw))
		return nil
	}
	return txs
}

// Snapshot returns the current sequence.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to be called with every new snapshot after a
// successful mutation. fn runs synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Add validates the draft, assigns an ID and creation time, prepends the
// record and persists the sequence.
func (s *Store) Add(ctx context.Context, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	tx := core.Transaction{
		ID:          s.newID(),
		Type:        d.Type,
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		Date:        d.Date,
		CreatedAt:   s.now().UTC(),
	}
	next := make([]core.Transaction, 0, len(s.snap.Transactions)+1)
	next = append(next, tx)
	next = append(next, s.snap.Transactions...)
	snap, err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().
			WithOperation(log.OpCreate).
			WithTransaction(tx.ID, tx.Type.String(), tx.Category, tx.Money().Cents).
			ToSlice()...)
	s.notify(snap)
	return tx, nil
}

// Remove deletes the transaction with the given ID. It reports whether a
// record was removed; an unknown ID is not an error.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	cur := s.snap.Transactions
	idx := -1
	for i, tx := range cur {
		if tx.ID == id {
			idx = i
			break
		}
	}
	next := make([]core.Transaction, 0, len(cur))
	next = append(next, cur...)
	if idx >= 0 {
		next = append(next[:idx], next[idx+1:]...)
	}
	snap, err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	if idx < 0 {
		s.logger.DebugContext(ctx, "Remove of unknown transaction ignored",
			log.FieldOperation, log.OpDelete, log.FieldTxID, id)
	} else {
		s.logger.InfoContext(ctx, "Transaction removed",
			log.FieldOperation, log.OpDelete, log.FieldTxID, id)
	}
	s.notify(snap)
	return idx >= 0, nil
}

// commit persists next and installs it as the current snapshot. On failure
// the current snapshot is kept. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []core.Transaction) (Snapshot, error) {
	if next == nil {
		next = []core.Transaction{}
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.kv.Write(ctx, s.key, raw); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist transactions",
			log.FieldOperation, log.OpPersist,
			log.FieldError, err,
			"error_type", log.ErrorTypeStorage)
		return Snapshot{}, fmt.Errorf("persist transactions: %w", err)
	}
	s.snap = Snapshot{Revision: s.snap.Revision + 1, Transactions: next}
	return s.snap, nil
}

func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}
