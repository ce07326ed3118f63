// Package ledger owns the append-only collection of financial transactions.
// Records never change after creation apart from the reconciliation flag;
// removal is an explicit operator action confirmed at the CLI boundary.
package ledger

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patcharin/innflow/internal/common"
	"github.com/patcharin/innflow/internal/model"
)

// Ledger is the transaction book. The auto-reconcile switch mirrors the
// operator setting: when on, every appended record is stored already
// reconciled regardless of what the caller passed.
type Ledger struct {
	now           func() time.Time
	transactions  []model.Transaction // newest first
	subs          []func()
	mu            sync.Mutex
	autoReconcile bool
}

// New builds a ledger over an initial transaction set.
func New(initial []model.Transaction, autoReconcile bool) *Ledger {
	transactions := make([]model.Transaction, len(initial))
	copy(transactions, initial)
	return &Ledger{
		transactions:  transactions,
		autoReconcile: autoReconcile,
		now:           time.Now,
	}
}

// SetAutoReconcile flips the auto-reconcile setting for future appends.
func (l *Ledger) SetAutoReconcile(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.autoReconcile = on
}

// Subscribe registers a callback invoked after every successful mutation.
func (l *Ledger) Subscribe(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, fn)
}

func (l *Ledger) notify() {
	l.mu.Lock()
	subs := make([]func(), len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Append validates and stores a new transaction, assigning its id. The input
// record is not mutated.
func (l *Ledger) Append(txn model.Transaction) (*model.Transaction, error) {
	if err := validate(txn); err != nil {
		return nil, err
	}

	txn.ID = model.NewID(model.PrefixTransaction)
	if txn.Date.IsZero() {
		txn.Date = l.now()
	}

	l.mu.Lock()
	if l.autoReconcile {
		txn.IsReconciled = true
	}
	l.transactions = append([]model.Transaction{txn}, l.transactions...)
	l.mu.Unlock()

	l.notify()
	slog.Info("transaction recorded", "txn", txn.ID, "type", txn.Type, "amount", txn.Amount)
	return &txn, nil
}

func validate(txn model.Transaction) error {
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: transaction type %q", common.ErrInvalidConfig, txn.Type)
	}
	if txn.Amount < 0 {
		return common.ErrInvalidAmount
	}
	if strings.TrimSpace(txn.Category) == "" {
		return fmt.Errorf("%w: category", common.ErrMissingField)
	}
	return nil
}

// Delete removes a transaction by id. Confirmation is the caller's problem;
// the ledger deletes unconditionally.
func (l *Ledger) Delete(id string) error {
	l.mu.Lock()
	for i := range l.transactions {
		if l.transactions[i].ID != id {
			continue
		}
		l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
		l.mu.Unlock()

		l.notify()
		slog.Info("transaction deleted", "txn", id)
		return nil
	}
	l.mu.Unlock()
	return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
}

// ToggleReconciled flips the reconciliation flag on a transaction.
func (l *Ledger) ToggleReconciled(id string) (*model.Transaction, error) {
	l.mu.Lock()
	for i := range l.transactions {
		if l.transactions[i].ID != id {
			continue
		}
		l.transactions[i].IsReconciled = !l.transactions[i].IsReconciled
		txn := l.transactions[i]
		l.mu.Unlock()

		l.notify()
		return &txn, nil
	}
	l.mu.Unlock()
	return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
}

// List returns a copy of all transactions, newest first.
func (l *Ledger) List() []model.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id string) (*model.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.transactions {
		if l.transactions[i].ID == id {
			txn := l.transactions[i]
			return &txn, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
}
