// Package hashtable implements the string-keyed, open-addressed hash table
// used for the named tables of the database.
//
// Collisions are resolved with double hashing. The primary index is derived
// from the byte length of the key, the probe step from its character count:
//
//	hash(key)  = len(key) mod capacity
//	hash2(key) = (runeCount(key) mod (capacity-1)) + 1, forced odd
//
// The capacity is always a power of two and the step is always odd, so the
// probe sequence of every key visits every slot of the table.
//
// Removing a key leaves a tombstone behind. Tombstones are skipped by lookups,
// so probe chains that pass through a removed slot stay intact, and they are
// reused by inserts. Before an insert the table makes sure that occupied slots
// plus tombstones stay at or below half of the capacity: the capacity is
// doubled when the live entries alone reach that bound, otherwise the table is
// rehashed at the same capacity to purge the tombstones.
//
// Duplicate keys are rejected with ErrDuplicateKey, an existing value is never
// overwritten.
//
// The table is not thread-safe.
package hashtable
