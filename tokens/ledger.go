/*
ledger.go - Token balances and the append-only transaction log

PURPOSE:

	The Ledger owns all token state: one Balance per identity, the
	append-only Transaction log, and the transaction id sequence. No other
	component mutates this state; everything goes through Ledger methods.

CRITICAL INVARIANTS:
 1. APPEND-ONLY: Transactions are never updated or deleted
 2. ATOMIC: A balance mutation and its transaction append happen together
    or not at all - no operation observes one without the other
 3. REPLAYABLE: Filtering the log by user and summing signed amounts
    reconstructs Balance, TotalEarned and TotalSpent exactly
 4. SERIALIZED: The existence check and insert in Initialize are
    inseparable, so concurrent double-initialization cannot double-grant

DURABILITY:

	The in-memory state is authoritative. An optional Archive receives a
	write-through copy of every transaction together with the resulting
	balance snapshot, and is replayed by Restore at startup. The archive
	write happens before the in-memory apply: if it fails, the operation
	fails cleanly and no state changes.

SEE ALSO:
  - store/memory.go, store/sqlite: Archive implementations
  - rewards.go: Dispatcher that feeds credits into this ledger
*/
package tokens

import (
	"context"
	"sort"
	"sync"
	"time"
)

// =============================================================================
// ARCHIVE - Write-through durability hook
// =============================================================================

// Archive receives every committed transaction. Record must persist the
// transaction and the resulting balance snapshot atomically; Restore
// returns all archived transactions ordered by id.
type Archive interface {
	Record(ctx context.Context, tx Transaction, snapshot Balance) error
	Restore(ctx context.Context) ([]Transaction, error)
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is the single owner of all token state.
type Ledger struct {
	mu       sync.RWMutex
	balances map[Identity]Balance
	log      []Transaction

	seq     *Sequence
	archive Archive // nil means memory-only
	grant   uint64  // initial grant credited by Initialize

	now func() time.Time
}

// NewLedger creates an empty ledger. grant is the amount credited on
// Initialize. archive may be nil for a memory-only ledger.
func NewLedger(grant uint64, archive Archive) *Ledger {
	return &Ledger{
		balances: make(map[Identity]Balance),
		seq:      NewSequence(),
		archive:  archive,
		grant:    grant,
		now:      time.Now,
	}
}

// Restore replays the archive into the ledger. Call once, before serving.
// A positive amount for an unknown user is that user's initial grant.
func (l *Ledger) Restore(ctx context.Context) error {
	if l.archive == nil {
		return nil
	}
	txs, err := l.archive.Restore(ctx)
	if err != nil {
		return err
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, tx := range txs {
		b := l.balances[tx.User]
		if tx.Amount >= 0 {
			b.Balance += uint64(tx.Amount)
			b.TotalEarned += uint64(tx.Amount)
		} else {
			b.Balance -= uint64(-tx.Amount)
			b.TotalSpent += uint64(-tx.Amount)
		}
		b.LastUpdated = tx.Timestamp
		l.balances[tx.User] = b
		l.log = append(l.log, tx)
		l.seq.Advance(tx.ID + 1)
	}
	return nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Initialize creates a balance for user with the configured initial grant
// and records one "Initial token grant" transaction. Returns the granted
// amount. Fails with ErrAlreadyInitialized if a balance exists.
func (l *Ledger) Initialize(ctx context.Context, user Identity) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.balances[user]; ok {
		return 0, ErrAlreadyInitialized
	}

	now := l.now()
	next := Balance{
		Balance:     l.grant,
		TotalEarned: l.grant,
		TotalSpent:  0,
		LastUpdated: now,
	}
	tx := Transaction{
		ID:          l.seq.Peek(),
		User:        user,
		Amount:      int64(l.grant),
		Description: "Initial token grant",
		Timestamp:   now,
	}
	if err := l.commit(ctx, user, next, tx); err != nil {
		return 0, err
	}
	return l.grant, nil
}

// Earn credits amount to user and returns the new balance. The balance
// must already exist; earning never auto-creates one.
func (l *Ledger) Earn(ctx context.Context, user Identity, amount uint64, description string) (uint64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.balances[user]
	if !ok {
		return 0, ErrNotFound
	}

	now := l.now()
	next := Balance{
		Balance:     b.Balance + amount,
		TotalEarned: b.TotalEarned + amount,
		TotalSpent:  b.TotalSpent,
		LastUpdated: now,
	}
	tx := Transaction{
		ID:          l.seq.Peek(),
		User:        user,
		Amount:      int64(amount),
		Description: description,
		Timestamp:   now,
	}
	if err := l.commit(ctx, user, next, tx); err != nil {
		return 0, err
	}
	return next.Balance, nil
}

// Spend debits amount from user and returns the new balance. serviceType
// is the optional service category the spend applies to; empty means none.
// Fails with ErrInsufficientTokens without mutating anything if the
// balance is too low.
func (l *Ledger) Spend(ctx context.Context, user Identity, amount uint64, description, serviceType string) (uint64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.balances[user]
	if !ok {
		return 0, ErrNotFound
	}
	if b.Balance < amount {
		return 0, &InsufficientTokensError{User: user, Available: b.Balance, Requested: amount}
	}

	now := l.now()
	next := Balance{
		Balance:     b.Balance - amount,
		TotalEarned: b.TotalEarned,
		TotalSpent:  b.TotalSpent + amount,
		LastUpdated: now,
	}
	tx := Transaction{
		ID:          l.seq.Peek(),
		User:        user,
		Amount:      -int64(amount),
		Description: description,
		Timestamp:   now,
		ServiceType: serviceType,
	}
	if err := l.commit(ctx, user, next, tx); err != nil {
		return 0, err
	}
	return next.Balance, nil
}

// commit applies a prepared balance + transaction pair. Caller holds l.mu.
// Archive first: a durability failure leaves memory untouched and the
// transaction id unconsumed.
func (l *Ledger) commit(ctx context.Context, user Identity, next Balance, tx Transaction) error {
	if l.archive != nil {
		if err := l.archive.Record(ctx, tx, next); err != nil {
			return err
		}
	}
	l.seq.Next()
	l.balances[user] = next
	l.log = append(l.log, tx)
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// GetBalance returns the balance record for user.
func (l *Ledger) GetBalance(_ context.Context, user Identity) (Balance, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.balances[user]
	if !ok {
		return Balance{}, ErrNotFound
	}
	return b, nil
}

// History returns all transactions for user in creation order, oldest
// first. An unknown user yields an empty slice, not an error.
func (l *Ledger) History(_ context.Context, user Identity) []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := []Transaction{}
	for _, tx := range l.log {
		if tx.User == user {
			result = append(result, tx)
		}
	}
	return result
}
