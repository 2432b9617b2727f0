package testing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/ValentinKolb/sybd/lib/store"
)

// StoreFactory is a function that creates a new, empty instance of an IStore implementation
type StoreFactory func() store.IStore

// RunStoreTests runs a comprehensive test suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Ping", func(t *testing.T) {
			testPing(t, factory())
		})

		t.Run("HSet&HGet&HDel", func(t *testing.T) {
			testTableSequence(t, factory())
		})

		t.Run("DuplicateInsert", func(t *testing.T) {
			testDuplicateInsert(t, factory())
		})

		t.Run("Misses", func(t *testing.T) {
			testMisses(t, factory())
		})

		t.Run("Resize", func(t *testing.T) {
			testResize(t, factory())
		})

		t.Run("StackQueueOrder", func(t *testing.T) {
			testStackQueueOrder(t, factory())
		})

		t.Run("Set", func(t *testing.T) {
			testSet(t, factory())
		})

		t.Run("ProtocolErrors", func(t *testing.T) {
			testProtocolErrors(t, factory())
		})

		t.Run("ConcurrentHSet", func(t *testing.T) {
			testConcurrentHSet(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// exec runs a query that is expected to succeed
func exec(t testing.TB, s store.IStore, query string) string {
	t.Helper()
	reply, err := s.Execute(query)
	if err != nil {
		t.Fatalf("Execute(%q) returned unexpected error: %v", query, err)
	}
	return reply
}

// expect runs a query and compares the reply
func expect(t testing.TB, s store.IStore, query, want string) {
	t.Helper()
	if got := exec(t, s, query); got != want {
		t.Errorf("Execute(%q) = %q, expected %q", query, got, want)
	}
}

// expectProtocolError runs a query that must fail with a protocol error
func expectProtocolError(t testing.TB, s store.IStore, query string) {
	t.Helper()
	reply, err := s.Execute(query)
	if err == nil {
		t.Errorf("Execute(%q) = %q, expected a protocol error", query, reply)
		return
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Errorf("Execute(%q) returned %T, expected *store.Error", query, err)
		return
	}
	if storeErr.Code != store.RetCProtocolError {
		t.Errorf("Execute(%q) returned code %s, expected %s", query, storeErr.Code, store.RetCProtocolError)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPing(t *testing.T, s store.IStore) {
	defer s.Close()

	expect(t, s, "PING", "PONG")
}

func testTableSequence(t *testing.T, s store.IStore) {
	defer s.Close()

	expect(t, s, "HSET t k v", "Key 'k' added to new table 't'")
	expect(t, s, "HGET t k", "v")
	expect(t, s, "HSET t k2 v2", "Key 'k2' added to table 't'")
	expect(t, s, "HLEN t", "2")

	expect(t, s, "HDEL t k", "OK")
	expect(t, s, "HGET t k", "nil: key 'k' not found")
	expect(t, s, "HGET t k2", "v2")
	expect(t, s, "HLEN t", "1")

	// a removed key can be inserted again
	expect(t, s, "HSET t k v3", "Key 'k' added to table 't'")
	expect(t, s, "HGET t k", "v3")
}

func testDuplicateInsert(t *testing.T, s store.IStore) {
	defer s.Close()

	expect(t, s, "HSET t k v1", "Key 'k' added to new table 't'")

	reply := exec(t, s, "HSET t k v2")
	if !strings.HasPrefix(reply, "Key 'k' in table 't' is already in use") {
		t.Errorf("Expected duplicate message, got %q", reply)
	}
	if !strings.Contains(reply, "already exists") {
		t.Errorf("Expected duplicate message to contain 'already exists', got %q", reply)
	}

	expect(t, s, "HGET t k", "v1")
	expect(t, s, "HLEN t", "1")
}

func testMisses(t *testing.T, s store.IStore) {
	defer s.Close()

	expect(t, s, "HGET nope k", "nil: table 'nope' not found")
	expect(t, s, "HDEL nope k", "nil: table 'nope' not found")
	expect(t, s, "HLEN nope", "nil: table 'nope' not found")
	expect(t, s, "SREM 5", "nil: value 5 not found in the set")

	expect(t, s, "HSET t a b", "Key 'a' added to new table 't'")
	expect(t, s, "HGET t x", "nil: key 'x' not found")
	expect(t, s, "HDEL t x", "OK")

	expect(t, s, "SPOP", "")
	expect(t, s, "QPOP", "")
	expect(t, s, "SISMEMBER", "Empty set")
}

func testResize(t *testing.T, s store.IStore) {
	defer s.Close()

	const n = 500
	for i := 0; i < n; i++ {
		exec(t, s, fmt.Sprintf("HSET big key-%d value-%d", i, i))
	}

	expect(t, s, "HLEN big", strconv.Itoa(n))
	for i := 0; i < n; i++ {
		expect(t, s, fmt.Sprintf("HGET big key-%d", i), fmt.Sprintf("value-%d", i))
	}
}

func testStackQueueOrder(t *testing.T, s store.IStore) {
	defer s.Close()

	for _, v := range []string{"a", "b", "c"} {
		expect(t, s, "SPUSH "+v, "OK")
		expect(t, s, "QPUSH "+v, "OK")
	}

	for _, want := range []string{"c", "b", "a", ""} {
		expect(t, s, "SPOP", want)
	}
	for _, want := range []string{"a", "b", "c", ""} {
		expect(t, s, "QPOP", want)
	}
}

func testSet(t *testing.T, s store.IStore) {
	defer s.Close()

	expect(t, s, "SADD 5", "OK")

	listing := exec(t, s, "SISMEMBER")
	lines := strings.Split(listing, "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 set members, got %d: %q", len(lines), listing)
	}

	for _, line := range lines {
		value, ok := strings.CutPrefix(line, "Value: ")
		if !ok {
			t.Fatalf("Unexpected listing line %q", line)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n >= 100 {
			t.Fatalf("Set member %q out of range", value)
		}
		expect(t, s, "SREM "+value, "OK")
	}

	expect(t, s, "SISMEMBER", "Empty set")
}

func testProtocolErrors(t *testing.T, s store.IStore) {
	defer s.Close()

	// HGET only reports a missing key argument for an existing table
	expect(t, s, "HSET t k v", "Key 'k' added to new table 't'")

	expectProtocolError(t, s, "FOO bar")
	expectProtocolError(t, s, "hset t k v")
	expectProtocolError(t, s, "HSET t k")
	expectProtocolError(t, s, "HGET t")
	expectProtocolError(t, s, "SADD abc")
	expectProtocolError(t, s, "SREM")

	// the store stays usable after errors
	expect(t, s, "HSET t k2 v2", "Key 'k2' added to table 't'")
	expect(t, s, "HGET t k", "v")
}

func testConcurrentHSet(t *testing.T, s store.IStore) {
	defer s.Close()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				query := fmt.Sprintf("HSET shared w%d-k%d v%d", w, i, i)
				if _, err := s.Execute(query); err != nil {
					errs <- fmt.Errorf("%s: %w", query, err)
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent HSET failed: %v", err)
	}

	expect(t, s, "HLEN shared", strconv.Itoa(workers*perWorker))
	for w := 0; w < workers; w++ {
		expect(t, s, fmt.Sprintf("HGET shared w%d-k%d", w, perWorker-1), fmt.Sprintf("v%d", perWorker-1))
	}
}

func testRealisticUsage(t *testing.T, s store.IStore) {
	defer s.Close()

	expect(t, s, "HSET links abc https://example.com", "Key 'abc' added to new table 'links'")
	expect(t, s, "HGET links abc", "https://example.com")
	expect(t, s, "SPUSH x", "OK")
	expect(t, s, "SPUSH y", "OK")
	expect(t, s, "SPOP", "y")
	expect(t, s, "QPUSH x", "OK")
	expect(t, s, "QPUSH y", "OK")
	expect(t, s, "QPOP", "x")
	expect(t, s, "HDEL links abc", "OK")
	expect(t, s, "HGET links abc", "nil: key 'abc' not found")
}
