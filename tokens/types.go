/*
Package tokens provides the core token ledger for the Kintaraa platform.

PURPOSE:

	This package contains the engine that tracks platform tokens: balances,
	an append-only transaction log, and the reward dispatcher that couples
	domain events (report submitted, user registered) to token credits.

KEY CONCEPTS IN THIS FILE (types.go):
  - Identity: Opaque caller key supplied by the host runtime
  - Balance: Current spendable amount plus lifetime totals
  - Transaction: An immutable ledger entry recording a balance change

DESIGN PRINCIPLES:
 1. Immutability: Transactions are never modified or deleted
 2. Single owner: Ledger state is mutated only through Ledger methods
 3. Replayability: Summing a user's transactions reconstructs the balance
 4. Auditability: Every balance change carries a description and timestamp

USAGE:

	ledger := tokens.NewLedger(500, nil)
	grant, err := ledger.Initialize(ctx, "principal-abc")
	balance, err := ledger.Earn(ctx, "principal-abc", 50, "Report submission reward")

SEE ALSO:
  - ledger.go: Balance mutation and the atomicity discipline
  - rewards.go: Reward dispatcher and partial-failure contract
  - errors.go: Error taxonomy
*/
package tokens

import "time"

// =============================================================================
// IDENTITY - Opaque caller key
// =============================================================================

// Identity is the opaque, comparable key the host runtime supplies for each
// caller. The ledger never constructs identities, it only keys state by them.
type Identity string

// =============================================================================
// BALANCE - One record per identity
// =============================================================================

// Balance holds a user's current spendable amount and lifetime totals.
//
// INVARIANTS:
//   - Balance == TotalEarned - TotalSpent after every operation
//   - TotalEarned and TotalSpent only ever increase
type Balance struct {
	Balance     uint64
	TotalEarned uint64
	TotalSpent  uint64
	LastUpdated time.Time
}

// =============================================================================
// TRANSACTION - Atomic change to a balance
// =============================================================================

// Transaction is an immutable ledger entry. Amount is signed: positive for
// credits, negative for debits. The magnitude always matches the balance
// delta applied in the same operation.
type Transaction struct {
	ID          uint64
	User        Identity
	Amount      int64
	Description string
	Timestamp   time.Time

	// ServiceType is set only on spends tied to a service category
	// (legal, medical, counseling, police). Empty means none.
	ServiceType string
}

// Credit reports whether the transaction added tokens.
func (t Transaction) Credit() bool { return t.Amount > 0 }

// Magnitude returns the unsigned size of the balance change.
func (t Transaction) Magnitude() uint64 {
	if t.Amount < 0 {
		return uint64(-t.Amount)
	}
	return uint64(t.Amount)
}
