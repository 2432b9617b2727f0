package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB creates a database with a fixed seed
func newTestDB() *Database {
	return NewDatabase(&Options{Seed: 42, TableCapacity: 16})
}

// mustExec executes a query and fails the test on error
func mustExec(t *testing.T, d *Database, query string) string {
	t.Helper()
	reply, err := d.Execute(query)
	require.NoError(t, err, "query %q", query)
	return reply
}

// setMembers parses a SISMEMBER listing
func setMembers(t *testing.T, listing string) []int {
	t.Helper()
	if listing == ReplyEmptySet {
		return nil
	}
	var members []int
	for _, line := range strings.Split(listing, "\n") {
		v, err := strconv.Atoi(strings.TrimPrefix(line, "Value: "))
		require.NoError(t, err, "malformed line %q", line)
		members = append(members, v)
	}
	return members
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		err   error
	}{
		{"empty", "", ErrEmptyQuery},
		{"whitespace", " \t\r\n", ErrEmptyQuery},
		{"unknown verb", "FOO bar", ErrUnknownCommand},
		{"lowercase verb", "hget t k", ErrUnknownCommand},
		{"SADD without count", "SADD", ErrMissingArgument},
		{"SADD with text count", "SADD many", ErrInvalidArgument},
		{"SADD count out of range", "SADD 4294967296", ErrInvalidArgument},
		{"SREM without value", "SREM", ErrMissingArgument},
		{"SREM with text value", "SREM x", ErrInvalidArgument},
		{"SREM out of range", "SREM 4294967296", ErrInvalidArgument},
		{"SPUSH without value", "SPUSH", ErrMissingArgument},
		{"QPUSH without value", "QPUSH", ErrMissingArgument},
		{"HSET without table", "HSET", ErrMissingArgument},
		{"HSET without key", "HSET t", ErrMissingArgument},
		{"HSET without value", "HSET t k", ErrMissingArgument},
		{"HDEL without key", "HDEL t", ErrMissingArgument},
		{"HGET without table", "HGET", ErrMissingArgument},
		{"HLEN without table", "HLEN", ErrMissingArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDB()
			_, err := d.Execute(tt.query)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "expected %v, got %v", tt.err, err)

			// a failed command must not change the database
			assert.Equal(t, newTestDB().Snapshot(), d.Snapshot())
		})
	}
}

func TestHGetMissingKeyIsAnError(t *testing.T) {
	d := newTestDB()
	mustExec(t, d, "HSET t k v")

	_, err := d.Execute("HGET t")
	assert.True(t, errors.Is(err, ErrMissingArgument))

	// an unknown table is reported before the missing key
	reply := mustExec(t, d, "HGET other")
	assert.Equal(t, "nil: table 'other' not found", reply)
}

func TestSetCommands(t *testing.T) {
	d := newTestDB()

	assert.Equal(t, ReplyEmptySet, mustExec(t, d, "SISMEMBER"))
	assert.Equal(t, ReplyOK, mustExec(t, d, "SADD 5"))

	members := setMembers(t, mustExec(t, d, "SISMEMBER"))
	require.Len(t, members, 5)
	for _, v := range members {
		assert.GreaterOrEqual(t, v, 1)
		assert.Less(t, v, 100)
	}

	assert.Equal(t, ReplyOK, mustExec(t, d, fmt.Sprintf("SREM %d", members[0])))
	assert.Len(t, setMembers(t, mustExec(t, d, "SISMEMBER")), 4)

	assert.Equal(t, "nil: value 1000 not found in the set", mustExec(t, d, "SREM 1000"))
	assert.Equal(t, ReplyOK, mustExec(t, d, "SADD 0"))
}

func TestSetAddNegativeCountIsNoop(t *testing.T) {
	d := newTestDB()
	mustExec(t, d, "SADD 3")
	before := d.Snapshot()

	assert.Equal(t, ReplyOK, mustExec(t, d, "SADD -3"))
	assert.Equal(t, ReplyOK, mustExec(t, d, "SADD -2147483648"))
	assert.Equal(t, before, d.Snapshot())
}

func TestSetAddSaturates(t *testing.T) {
	d := newTestDB()

	// more values than the range holds -> every value in [1,100) exactly once
	assert.Equal(t, ReplyOK, mustExec(t, d, "SADD 500"))
	members := setMembers(t, mustExec(t, d, "SISMEMBER"))
	require.Len(t, members, 99)
	for i, v := range members {
		assert.Equal(t, i+1, v)
	}

	assert.Equal(t, ReplyOK, mustExec(t, d, "SADD 1"))
	assert.Len(t, setMembers(t, mustExec(t, d, "SISMEMBER")), 99)
}

func TestStackAndQueueOrdering(t *testing.T) {
	d := newTestDB()

	for _, v := range []string{"a", "b", "c"} {
		assert.Equal(t, ReplyOK, mustExec(t, d, "SPUSH "+v))
		assert.Equal(t, ReplyOK, mustExec(t, d, "QPUSH "+v))
	}

	for _, want := range []string{"c", "b", "a"} {
		assert.Equal(t, want, mustExec(t, d, "SPOP"))
	}
	for _, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, mustExec(t, d, "QPOP"))
	}

	// popping empty containers yields an empty reply, not an error
	assert.Equal(t, "", mustExec(t, d, "SPOP"))
	assert.Equal(t, "", mustExec(t, d, "QPOP"))
}

func TestPushUsesFirstToken(t *testing.T) {
	d := newTestDB()
	mustExec(t, d, "SPUSH hello world")
	assert.Equal(t, "hello", mustExec(t, d, "SPOP"))
	assert.Equal(t, "", mustExec(t, d, "SPOP"))
}

func TestTableCommands(t *testing.T) {
	d := newTestDB()

	assert.Equal(t, "Key 'k' added to new table 't'", mustExec(t, d, "HSET t k v"))
	assert.Equal(t, "Key 'k2' added to table 't'", mustExec(t, d, "HSET t k2 v2"))
	assert.Equal(t, "v", mustExec(t, d, "HGET t k"))
	assert.Equal(t, "2", mustExec(t, d, "HLEN t"))

	// duplicates are reported and never overwrite
	reply := mustExec(t, d, "HSET t k other")
	assert.Equal(t, "Key 'k' in table 't' is already in use: key 'k' already exists in the table", reply)
	assert.Equal(t, "v", mustExec(t, d, "HGET t k"))

	// misses
	assert.Equal(t, "nil: key 'missing' not found", mustExec(t, d, "HGET t missing"))
	assert.Equal(t, "nil: table 'nope' not found", mustExec(t, d, "HGET nope k"))
	assert.Equal(t, "nil: table 'nope' not found", mustExec(t, d, "HDEL nope k"))
	assert.Equal(t, "nil: table 'nope' not found", mustExec(t, d, "HLEN nope"))

	// delete
	assert.Equal(t, ReplyOK, mustExec(t, d, "HDEL t k"))
	assert.Equal(t, "nil: key 'k' not found", mustExec(t, d, "HGET t k"))
	assert.Equal(t, ReplyOK, mustExec(t, d, "HDEL t k"), "deleting an absent key is not a miss")
	assert.Equal(t, "1", mustExec(t, d, "HLEN t"))

	// the table survives when it becomes empty
	assert.Equal(t, ReplyOK, mustExec(t, d, "HDEL t k2"))
	assert.Equal(t, "0", mustExec(t, d, "HLEN t"))
	assert.Equal(t, []string{"t"}, d.TableNames())
}

func TestTablesAreIndependent(t *testing.T) {
	d := newTestDB()
	mustExec(t, d, "HSET a k 1")
	mustExec(t, d, "HSET b k 2")

	assert.Equal(t, "1", mustExec(t, d, "HGET a k"))
	assert.Equal(t, "2", mustExec(t, d, "HGET b k"))
	assert.Equal(t, []string{"a", "b"}, d.TableNames())
}

func TestManyKeysSurviveResize(t *testing.T) {
	d := newTestDB()
	for i := 0; i < 300; i++ {
		mustExec(t, d, fmt.Sprintf("HSET big key%d value%d", i, i))
	}
	for i := 0; i < 300; i++ {
		assert.Equal(t, fmt.Sprintf("value%d", i), mustExec(t, d, fmt.Sprintf("HGET big key%d", i)))
	}
	assert.Equal(t, "300", mustExec(t, d, "HLEN big"))
}

func TestCommandLineTolerance(t *testing.T) {
	d := newTestDB()

	// clients may terminate commands with CRLF and use any whitespace
	mustExec(t, d, "HSET  links\tabc   https://example.com\r\n")
	assert.Equal(t, "https://example.com", mustExec(t, d, "HGET links abc\r\n"))
	assert.Equal(t, ReplyPong, mustExec(t, d, "PING\n"))
}

func TestCommands(t *testing.T) {
	verbs := Commands()
	assert.Contains(t, verbs, "HSET")
	assert.Contains(t, verbs, "SISMEMBER")
	assert.True(t, IsCommand("QPOP"))
	assert.False(t, IsCommand("SAVE"))
	for i := 1; i < len(verbs); i++ {
		assert.Less(t, verbs[i-1], verbs[i])
	}
}
