// Package db implements the aggregate database of sybd and its text command
// dispatcher.
//
// A Database owns exactly one integer set, one string stack, one string queue
// and a mapping from table name to hashtable.HashTable. Tables are created on
// the first HSET that references them.
//
// The only way to read or modify a Database is Execute, which takes one
// command line of whitespace separated tokens. The first token is the
// case-sensitive command verb:
//
//	SADD count               insert count distinct random integers in [1,100) into the set
//	SREM value               remove an integer from the set
//	SISMEMBER                list all set members
//	SPUSH value / SPOP       push to / pop from the stack
//	QPUSH value / QPOP       push to the tail / pop from the head of the queue
//	HSET table key value     insert a key into a table (existing keys are never overwritten)
//	HDEL table key           remove a key from a table
//	HGET table key           read a key from a table
//	HLEN table               number of keys in a table
//	PING                     liveness check
//
// Replies are plain text. Logical misses (unknown table, key or set value) are
// not errors: their reply starts with MissPrefix. Malformed commands return an
// error wrapping one of ErrEmptyQuery, ErrUnknownCommand, ErrMissingArgument or
// ErrInvalidArgument. A command either fully applies or fails without changing
// the database.
//
// Persistence: Snapshot copies the whole state into a Snapshot value and
// FromSnapshot rebuilds a Database from it. The serializer package encodes
// snapshots as structured text.
//
// Thread Safety:
//
//	A Database is not thread-safe. The lstore package wraps it with a single
//	lock that is held for the whole execution of a command.
package db
