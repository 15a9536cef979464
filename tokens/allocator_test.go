package tokens_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kintaraa/kentaraa/tokens"
)

func TestSequence_StartsAtZeroAndIncrements(t *testing.T) {
	seq := tokens.NewSequence()

	assert.Equal(t, uint64(0), seq.Peek())
	assert.Equal(t, uint64(0), seq.Next())
	assert.Equal(t, uint64(1), seq.Next())
	assert.Equal(t, uint64(2), seq.Peek())
	assert.Equal(t, uint64(2), seq.Next())
}

func TestSequence_CountersAreIndependent(t *testing.T) {
	reports := tokens.NewSequence()
	requests := tokens.NewSequence()

	assert.Equal(t, uint64(0), reports.Next())
	assert.Equal(t, uint64(1), reports.Next())
	assert.Equal(t, uint64(0), requests.Next(), "sequences must not share state across kinds")
}

func TestSequence_Advance(t *testing.T) {
	seq := tokens.NewSequence()
	seq.Advance(10)
	assert.Equal(t, uint64(10), seq.Next())

	// Advancing backwards is a no-op.
	seq.Advance(3)
	assert.Equal(t, uint64(11), seq.Next())
}

func TestSequence_Concurrent_NoDuplicates(t *testing.T) {
	seq := tokens.NewSequence()

	const n = 1000
	ids := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = seq.Next()
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
		assert.Less(t, id, uint64(n), "no gaps: ids must stay dense")
	}
}
