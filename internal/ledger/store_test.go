package ledger

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"tracker/internal/core"
	"tracker/internal/kv/memory"
	"tracker/internal/log"
)

type failingKV struct {
	readErr  error
	writeErr error
}

func (f failingKV) Read(context.Context, string) ([]byte, bool, error) { return nil, false, f.readErr }
func (f failingKV) Write(context.Context, string, []byte) error        { return f.writeErr }

func newTestStore(t *testing.T, kvs *memory.Store) *Store {
	t.Helper()
	n := 0
	clock := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	return New(kvs,
		WithLogger(log.Discard()),
		WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithClock(func() time.Time { clock = clock.Add(time.Second); return clock }),
	)
}

func draft(typ core.Type, amount, category, desc, date string) core.Draft {
	return core.Draft{Type: typ, Amount: amount, Category: category, Description: desc, Date: date}
}

func TestAddPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	s := newTestStore(t, kvs)
	s.Load(ctx)

	first, err := s.Add(ctx, draft(core.Income, "1000", "Salary", "pay", "2024-01-10"))
	if err != nil {
		t.Fatalf("add income: %v", err)
	}
	second, err := s.Add(ctx, draft(core.Expense, "400", "Food", "groceries", "2024-01-15"))
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	snap := s.Snapshot()
	if snap.Len() != 2 {
		t.Fatalf("len = %d, want 2", snap.Len())
	}
	if snap.Transactions[0].ID != second.ID || snap.Transactions[1].ID != first.ID {
		t.Fatalf("newest must be first: %+v", snap.Transactions)
	}
	if second.CreatedAt.Before(first.CreatedAt) {
		t.Fatalf("createdAt not monotonic")
	}

	raw, ok, _ := kvs.Read(ctx, DefaultKey)
	if !ok || len(raw) == 0 {
		t.Fatalf("sequence not persisted")
	}
}

func TestAddValidationLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	s := newTestStore(t, kvs)
	s.Load(ctx)
	rev := s.Snapshot().Revision

	_, err := s.Add(ctx, draft(core.Expense, "", "Food", "x", "2024-01-15"))
	if !errors.Is(err, core.ErrEmptyAmount) {
		t.Fatalf("expected ErrEmptyAmount, got %v", err)
	}
	_, err = s.Add(ctx, draft(core.Expense, "5", "Food", "", "2024-01-15"))
	if !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}

	if s.Snapshot().Len() != 0 || s.Snapshot().Revision != rev {
		t.Fatalf("validation failure must not change state")
	}
	if _, ok, _ := kvs.Read(ctx, DefaultKey); ok {
		t.Fatalf("validation failure must not write")
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	s.Load(ctx)
	a, _ := s.Add(ctx, draft(core.Income, "1000", "Salary", "pay", "2024-01-10"))
	b, _ := s.Add(ctx, draft(core.Expense, "400", "Food", "groceries", "2024-01-15"))

	removed, err := s.Remove(ctx, "nope")
	if err != nil || removed {
		t.Fatalf("unknown id: removed=%v err=%v", removed, err)
	}
	if s.Snapshot().Len() != 2 {
		t.Fatalf("unknown id must not change length")
	}

	removed, err = s.Remove(ctx, b.ID)
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	snap := s.Snapshot()
	if snap.Len() != 1 || snap.Transactions[0].ID != a.ID {
		t.Fatalf("unexpected remaining: %+v", snap.Transactions)
	}
}

func TestRemoveDoesNotAliasPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	s.Load(ctx)
	s.Add(ctx, draft(core.Income, "1", "Gift", "a", "2024-01-01"))
	s.Add(ctx, draft(core.Income, "2", "Gift", "b", "2024-01-02"))
	before := s.Snapshot()
	kept := append([]core.Transaction(nil), before.Transactions...)

	s.Remove(ctx, before.Transactions[0].ID)

	if !reflect.DeepEqual(before.Transactions, kept) {
		t.Fatalf("old snapshot was mutated")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	s := newTestStore(t, kvs)
	s.Load(ctx)
	s.Add(ctx, draft(core.Income, "1000", "Salary", "pay", "2024-01-10"))
	s.Add(ctx, draft(core.Expense, "12.34", "Food", "lunch", "2024-01-15"))
	want := s.Snapshot().Transactions

	reloaded := New(kvs, WithLogger(log.Discard())).Load(ctx)
	if !reflect.DeepEqual(reloaded.Transactions, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", reloaded.Transactions, want)
	}
}

func TestLoadRecoversFromBadData(t *testing.T) {
	ctx := context.Background()

	kvs := memory.New()
	kvs.Write(ctx, DefaultKey, []byte(`{not json`))
	if snap := New(kvs, WithLogger(log.Discard())).Load(ctx); snap.Len() != 0 {
		t.Fatalf("corrupt blob should load empty")
	}

	s := New(failingKV{readErr: errors.New("disk gone")}, WithLogger(log.Discard()))
	if snap := s.Load(ctx); snap.Len() != 0 {
		t.Fatalf("read error should load empty")
	}
}

func TestLoadKeepsLegacyRecords(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	kvs.Write(ctx, DefaultKey, []byte(`[
		{"id":"1704870000000","type":"expense","amount":"400","category":"Groceries","description":"old","date":"2024-01-15","createdAt":"2024-01-15T10:00:00.000Z"}
	]`))

	snap := New(kvs, WithLogger(log.Discard())).Load(ctx)
	if snap.Len() != 1 {
		t.Fatalf("len = %d", snap.Len())
	}
	tx := snap.Transactions[0]
	if tx.Category != "Groceries" || tx.Money().Cents != 40000 {
		t.Fatalf("unexpected record: %+v", tx)
	}
}

func TestLoadAcceptsNumericAmounts(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	kvs.Write(ctx, DefaultKey, []byte(`[
		{"id":"a","type":"income","amount":1000,"category":"Salary","description":"pay","date":"2024-01-10","createdAt":"2024-01-10T09:00:00Z"},
		{"id":"b","type":"expense","amount":"400","category":"Food","description":"groceries","date":"2024-01-15","createdAt":"2024-01-15T09:00:00Z"}
	]`))

	s := newTestStore(t, kvs)
	if snap := s.Load(ctx); snap.Len() != 2 {
		t.Fatalf("len = %d, want 2", snap.Len())
	}
	if got := s.Snapshot().Transactions[0].Money().Cents; got != 100000 {
		t.Fatalf("numeric amount = %d cents, want 100000", got)
	}

	if _, err := s.Add(ctx, draft(core.Expense, "5", "Food", "tea", "2024-01-16")); err != nil {
		t.Fatalf("add: %v", err)
	}
	reloaded := New(kvs, WithLogger(log.Discard())).Load(ctx)
	if reloaded.Len() != 3 {
		t.Fatalf("stored records after add = %d, want 3", reloaded.Len())
	}
	if reloaded.Transactions[1].ID != "a" || reloaded.Transactions[1].Amount != "1000" {
		t.Fatalf("original record lost: %+v", reloaded.Transactions[1])
	}
}

func TestPersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New(failingKV{writeErr: errors.New("read-only")}, WithLogger(log.Discard()))
	s.Load(ctx)

	if _, err := s.Add(ctx, draft(core.Expense, "1", "Food", "x", "2024-01-01")); err == nil {
		t.Fatalf("expected persist error")
	}
	if s.Snapshot().Len() != 0 {
		t.Fatalf("failed persist must not change memory state")
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	var got []int
	s.Subscribe(func(snap Snapshot) { got = append(got, snap.Len()) })

	s.Load(ctx)
	tx, _ := s.Add(ctx, draft(core.Expense, "1", "Food", "x", "2024-01-01"))
	s.Remove(ctx, tx.ID)

	if !reflect.DeepEqual(got, []int{0, 1, 0}) {
		t.Fatalf("observer saw %v", got)
	}
}
