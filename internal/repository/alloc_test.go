package repository

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"bench_survey_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collision(constraint string) error {
	return &database.UniqueViolation{Constraint: constraint}
}

func TestAllocateFirstTry(t *testing.T) {
	calls := 0
	got, err := Allocate(
		func() string { return "candidate-a" },
		func(candidate string) error {
			calls++
			return nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, "candidate-a", got)
	assert.Equal(t, 1, calls)
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	seq := 0
	gen := func() string {
		seq++
		return "candidate-" + strconv.Itoa(seq)
	}

	taken := map[string]bool{"candidate-1": true, "candidate-2": true, "candidate-3": true}
	attempts := 0
	got, err := Allocate(gen, func(candidate string) error {
		attempts++
		if taken[candidate] {
			return collision("survey_users.id")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "candidate-4", got)
	assert.Equal(t, 4, attempts)
}

func TestAllocatePropagatesOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	attempts := 0
	_, err := Allocate(
		func() string { return "candidate" },
		func(candidate string) error {
			attempts++
			return fmt.Errorf("insert: %w", boom)
		},
	)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts, "non-collision errors must not be retried")
}

func TestAllocateExhaustion(t *testing.T) {
	attempts := 0
	_, err := Allocate(
		func() string { return "always-taken" },
		func(candidate string) error {
			attempts++
			return collision("survey_campaigns.id")
		},
	)

	require.ErrorIs(t, err, ErrAllocExhausted)
	assert.Equal(t, allocAttempts, attempts)
}

// TestAllocateConcurrent drives many goroutines against a shared store using
// a generator that produces every value twice, forcing real collisions. Every
// caller must end up with a distinct, persisted identifier.
func TestAllocateConcurrent(t *testing.T) {
	const workers = 32

	var (
		mu    sync.Mutex
		store = make(map[string]bool)
		seq   int64
	)

	persist := func(candidate string) error {
		mu.Lock()
		defer mu.Unlock()
		if store[candidate] {
			return collision("survey_users.id")
		}
		store[candidate] = true
		return nil
	}

	// Each value comes up twice, so roughly half of all attempts collide.
	gen := func() string {
		n := atomic.AddInt64(&seq, 1)
		return "id-" + strconv.FormatInt(n/2, 10)
	}

	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Allocate(gen, persist)
			assert.NoError(t, err)
			results <- got
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for got := range results {
		assert.False(t, seen[got], "identifier %q allocated twice", got)
		seen[got] = true
		assert.True(t, store[got], "identifier %q returned but not persisted", got)
	}
	assert.Len(t, seen, workers)
}
