// Package collections contains the three plain containers owned by the
// database: a set of integers, a LIFO stack of strings and a FIFO queue of
// strings.
//
// None of the containers are thread-safe. The database is always accessed
// under the store lock (see lstore), so no additional synchronization is done
// here.
package collections
