package db

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ValentinKolb/sybd/lib/db/hashtable"
)

// --------------------------------------------------------------------------
// Replies
// --------------------------------------------------------------------------

const (
	// ReplyOK is the reply of successful commands without a result
	ReplyOK = "OK"
	// ReplyEmptySet is the reply of SISMEMBER for an empty set
	ReplyEmptySet = "Empty set"
	// ReplyPong is the reply of PING
	ReplyPong = "PONG"
	// MissPrefix starts every reply that reports a missing table, key or value
	MissPrefix = "nil: "
)

const (
	// set values generated by SADD are drawn from [setValueMin, setValueMax)
	setValueMin = 1
	setValueMax = 100
)

// --------------------------------------------------------------------------
// Dispatcher
// --------------------------------------------------------------------------

// handlerFunc executes one command. args contains the tokens after the verb.
type handlerFunc func(d *Database, args []string) (string, error)

var commands = map[string]handlerFunc{
	"SADD":      (*Database).setAdd,
	"SREM":      (*Database).setRemove,
	"SISMEMBER": (*Database).setMembers,
	"SPUSH":     (*Database).stackPush,
	"SPOP":      (*Database).stackPop,
	"QPUSH":     (*Database).queuePush,
	"QPOP":      (*Database).queuePop,
	"HSET":      (*Database).tableSet,
	"HDEL":      (*Database).tableDelete,
	"HGET":      (*Database).tableGet,
	"HLEN":      (*Database).tableLen,
	"PING":      (*Database).ping,
}

// Commands returns all command verbs understood by Execute in ascending order
func Commands() []string {
	verbs := make([]string, 0, len(commands))
	for verb := range commands {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	return verbs
}

// IsCommand reports whether verb is understood by Execute
func IsCommand(verb string) bool {
	_, ok := commands[verb]
	return ok
}

// Execute parses and runs one command line and returns its reply.
// Errors are only returned for malformed commands, logical misses are reported in the reply.
func (d *Database) Execute(query string) (string, error) {
	parts := strings.Fields(query)
	if len(parts) == 0 {
		return "", ErrEmptyQuery
	}

	handler, ok := commands[parts[0]]
	if !ok {
		return "", fmt.Errorf("%w '%s'", ErrUnknownCommand, parts[0])
	}

	return handler(d, parts[1:])
}

// arg returns the i-th argument or an ErrMissingArgument naming it
func arg(args []string, i int, name string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	return args[i], nil
}

// miss formats a reply for a logical miss
func miss(format string, a ...any) string {
	return MissPrefix + fmt.Sprintf(format, a...)
}

// --------------------------------------------------------------------------
// Set Commands
// --------------------------------------------------------------------------

func (d *Database) setAdd(args []string) (string, error) {
	raw, err := arg(args, 0, "count")
	if err != nil {
		return "", err
	}
	parsed, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return "", fmt.Errorf("%w: count must be a 32-bit integer, got '%s'", ErrInvalidArgument, raw)
	}
	// a negative count adds nothing
	count := max(int(parsed), 0)

	// only as many values as are still free in the value range can be added
	free := 0
	for v := setValueMin; v < setValueMax; v++ {
		if !d.set.Contains(int32(v)) {
			free++
		}
	}
	count = min(count, free)

	for added := 0; added < count; {
		if d.set.Insert(int32(setValueMin + d.rng.IntN(setValueMax-setValueMin))) {
			added++
		}
	}

	return ReplyOK, nil
}

func (d *Database) setRemove(args []string) (string, error) {
	raw, err := arg(args, 0, "value")
	if err != nil {
		return "", err
	}
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return "", fmt.Errorf("%w: value must be a 32-bit integer, got '%s'", ErrInvalidArgument, raw)
	}

	if !d.set.Remove(int32(value)) {
		return miss("value %d not found in the set", value), nil
	}
	return ReplyOK, nil
}

func (d *Database) setMembers(_ []string) (string, error) {
	values := d.set.Values()
	if len(values) == 0 {
		return ReplyEmptySet, nil
	}

	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = fmt.Sprintf("Value: %d", v)
	}
	return strings.Join(lines, "\n"), nil
}

// --------------------------------------------------------------------------
// Stack and Queue Commands
// --------------------------------------------------------------------------

func (d *Database) stackPush(args []string) (string, error) {
	value, err := arg(args, 0, "value")
	if err != nil {
		return "", err
	}
	d.stack.Push(value)
	return ReplyOK, nil
}

func (d *Database) stackPop(_ []string) (string, error) {
	value, _ := d.stack.Pop()
	return value, nil
}

func (d *Database) queuePush(args []string) (string, error) {
	value, err := arg(args, 0, "value")
	if err != nil {
		return "", err
	}
	d.queue.PushBack(value)
	return ReplyOK, nil
}

func (d *Database) queuePop(_ []string) (string, error) {
	value, _ := d.queue.PopFront()
	return value, nil
}

// --------------------------------------------------------------------------
// Table Commands
// --------------------------------------------------------------------------

func (d *Database) tableSet(args []string) (string, error) {
	name, err := arg(args, 0, "table")
	if err != nil {
		return "", err
	}
	key, err := arg(args, 1, "key")
	if err != nil {
		return "", err
	}
	value, err := arg(args, 2, "value")
	if err != nil {
		return "", err
	}

	// case the table does not exist yet -> create it
	table, ok := d.tables[name]
	if !ok {
		table = hashtable.New(d.tableCapacity)
		if err := table.Insert(key, value); err != nil {
			return "", err
		}
		d.tables[name] = table
		return fmt.Sprintf("Key '%s' added to new table '%s'", key, name), nil
	}

	if err := table.Insert(key, value); err != nil {
		if errors.Is(err, hashtable.ErrDuplicateKey) {
			return fmt.Sprintf("Key '%s' in table '%s' is already in use: %s", key, name, err), nil
		}
		return "", err
	}
	return fmt.Sprintf("Key '%s' added to table '%s'", key, name), nil
}

func (d *Database) tableDelete(args []string) (string, error) {
	name, err := arg(args, 0, "table")
	if err != nil {
		return "", err
	}
	key, err := arg(args, 1, "key")
	if err != nil {
		return "", err
	}

	table, ok := d.tables[name]
	if !ok {
		return miss("table '%s' not found", name), nil
	}
	table.Remove(key)
	return ReplyOK, nil
}

func (d *Database) tableGet(args []string) (string, error) {
	name, err := arg(args, 0, "table")
	if err != nil {
		return "", err
	}

	// the table is checked before the key argument
	table, ok := d.tables[name]
	if !ok {
		return miss("table '%s' not found", name), nil
	}

	key, err := arg(args, 1, "key")
	if err != nil {
		return "", err
	}

	value, ok := table.Get(key)
	if !ok {
		return miss("key '%s' not found", key), nil
	}
	return value, nil
}

func (d *Database) tableLen(args []string) (string, error) {
	name, err := arg(args, 0, "table")
	if err != nil {
		return "", err
	}

	table, ok := d.tables[name]
	if !ok {
		return miss("table '%s' not found", name), nil
	}
	return strconv.Itoa(table.Size()), nil
}

// --------------------------------------------------------------------------
// Misc
// --------------------------------------------------------------------------

func (d *Database) ping(_ []string) (string, error) {
	return ReplyPong, nil
}
