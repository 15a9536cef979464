// allocator.go - Monotonic ID allocation.
//
// Each entity kind (transactions, reports, requests, appointments, providers)
// owns its own Sequence. Counters never share state across kinds.
package tokens

import "sync"

// Sequence hands out strictly increasing ids starting at zero.
// No gaps, no reuse.
type Sequence struct {
	mu   sync.Mutex
	next uint64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the current counter value, then increments it.
func (s *Sequence) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}

// Peek returns the value the next call to Next will return, without
// consuming it. The ledger uses this to stamp a candidate transaction
// before its archive write has succeeded.
func (s *Sequence) Peek() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Advance raises the counter to next if it is currently lower.
// Used when replaying an archived transaction log at startup.
func (s *Sequence) Advance(next uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next > s.next {
		s.next = next
	}
}
