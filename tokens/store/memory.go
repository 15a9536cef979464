// Package store provides tokens.Archive implementations.
package store

import (
	"context"
	"sync"

	"github.com/Kintaraa/kentaraa/tokens"
)

// =============================================================================
// MEMORY ARCHIVE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	transactions []tokens.Transaction
	snapshots    map[tokens.Identity]tokens.Balance
}

var _ tokens.Archive = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[tokens.Identity]tokens.Balance),
	}
}

// Record appends the transaction and replaces the balance snapshot.
func (m *Memory) Record(_ context.Context, tx tokens.Transaction, snapshot tokens.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = append(m.transactions, tx)
	m.snapshots[tx.User] = snapshot
	return nil
}

// Restore returns all recorded transactions in append order.
func (m *Memory) Restore(_ context.Context) ([]tokens.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]tokens.Transaction, len(m.transactions))
	copy(result, m.transactions)
	return result, nil
}

// Snapshot returns the last recorded balance for user, for inspection in
// tests. The ledger never reads this; it replays Restore instead.
func (m *Memory) Snapshot(user tokens.Identity) (tokens.Balance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.snapshots[user]
	return b, ok
}
