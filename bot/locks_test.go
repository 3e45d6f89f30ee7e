package bot

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/tamarw/takziv-bot/currency"
	"github.com/tamarw/takziv-bot/ledger"
	"github.com/tamarw/takziv-bot/store"
)

func TestKeyedMutexSerializes(t *testing.T) {
	var km keyedMutex
	var counter int

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.lock("ledger:ABC123")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	var km keyedMutex
	unlockA := km.lock("a")
	// A held lock on "a" must not block "b".
	unlockB := km.lock("b")
	unlockB()
	unlockA()
}

// TestLostUpdateWithoutLocking documents why the dispatcher serializes
// per-ledger: interleaved read-modify-write cycles straight against the
// store race last-write-wins and drop expenses.
func TestLostUpdateWithoutLocking(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	key := store.LedgerKey("ABC123")

	l := ledger.New("ABC123", "alice")
	l.SetBudget(1000, currency.ILS)
	if err := store.PutLedger(ctx, m, key, l); err != nil {
		t.Fatalf("PutLedger: %v", err)
	}

	// Two members load the same snapshot...
	alice, err := store.GetLedger(ctx, m, key)
	if err != nil {
		t.Fatalf("GetLedger: %v", err)
	}
	bob, err := store.GetLedger(ctx, m, key)
	if err != nil {
		t.Fatalf("GetLedger: %v", err)
	}

	// ...each records an expense on their copy and writes back.
	if _, err := alice.AddExpense(100, currency.ILS, "hotel", "alice", false); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if _, err := bob.AddExpense(50, currency.ILS, "taxi", "bob", false); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if err := store.PutLedger(ctx, m, key, alice); err != nil {
		t.Fatalf("PutLedger: %v", err)
	}
	if err := store.PutLedger(ctx, m, key, bob); err != nil {
		t.Fatalf("PutLedger: %v", err)
	}

	got, err := store.GetLedger(ctx, m, key)
	if err != nil {
		t.Fatalf("GetLedger: %v", err)
	}
	if len(got.Expenses) != 1 {
		t.Fatalf("expense count = %d; the unserialized writes should have lost one", len(got.Expenses))
	}
	if got.RemainingBase != 950 {
		t.Errorf("remaining = %d; alice's spend was overwritten, want 950", got.RemainingBase)
	}
}

// The same workload through the bot keeps every expense.
func TestConcurrentExpensesNotLost(t *testing.T) {
	ctx := context.Background()
	b := newTestBot()
	code := openGroup(t, b, "alice")
	send(t, b, "alice", "budget 10000")
	send(t, b, "bob", "join "+code)

	const spends = 20
	var wg sync.WaitGroup
	for i := 0; i < spends; i++ {
		sender := "alice"
		if i%2 == 1 {
			sender = "bob"
		}
		wg.Add(1)
		go func(sender string) {
			defer wg.Done()
			reply := b.HandleMessage(ctx, ledger.SenderID(sender), "10 coffee")
			if !strings.Contains(reply, "✅ Added") {
				t.Errorf("expense rejected: %q", reply)
			}
		}(sender)
	}
	wg.Wait()

	got, err := store.GetLedger(ctx, b.store, store.LedgerKey(code))
	if err != nil {
		t.Fatalf("GetLedger: %v", err)
	}
	if len(got.Expenses) != spends {
		t.Errorf("expense count = %d, want %d", len(got.Expenses), spends)
	}
	if got.RemainingBase != 10000-10*spends {
		t.Errorf("remaining = %d, want %d", got.RemainingBase, 10000-10*spends)
	}
}
