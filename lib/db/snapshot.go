package db

import (
	"fmt"

	"github.com/ValentinKolb/sybd/lib/db/hashtable"
)

// Snapshot is a full copy of the database state.
// Stack and queue keep their order (bottom to top, head to tail), the set is
// sorted. Tables only keep their capacity and entries, not the slot layout.
type Snapshot struct {
	Set    []int32                  `json:"set" yaml:"set"`
	Stack  []string                 `json:"stack" yaml:"stack"`
	Queue  []string                 `json:"queue" yaml:"queue"`
	Tables map[string]TableSnapshot `json:"tables" yaml:"tables"`
}

// TableSnapshot is the serialized form of one hash table
type TableSnapshot struct {
	Capacity int               `json:"capacity" yaml:"capacity"`
	Entries  []hashtable.Entry `json:"entries" yaml:"entries"`
}

// Snapshot creates a deep copy of the database state
func (d *Database) Snapshot() Snapshot {
	tables := make(map[string]TableSnapshot, len(d.tables))
	for name, table := range d.tables {
		tables[name] = TableSnapshot{
			Capacity: table.Capacity(),
			Entries:  table.Entries(),
		}
	}

	return Snapshot{
		Set:    d.set.Values(),
		Stack:  d.stack.Values(),
		Queue:  d.queue.Values(),
		Tables: tables,
	}
}

// FromSnapshot creates a database with the specified options (optional) and
// restores the state of the snapshot into it
func FromSnapshot(s Snapshot, opts *Options) (*Database, error) {
	d := NewDatabase(opts)

	for _, v := range s.Set {
		d.set.Insert(v)
	}
	for _, v := range s.Stack {
		d.stack.Push(v)
	}
	for _, v := range s.Queue {
		d.queue.PushBack(v)
	}

	for name, ts := range s.Tables {
		// the stored capacity is a hint, bounded by what the entries need
		capacity := ts.Capacity
		limit := max(d.tableCapacity, 2*len(ts.Entries)+2)
		if capacity < hashtable.MinCapacity {
			capacity = d.tableCapacity
		}
		capacity = min(capacity, limit)

		table := hashtable.New(capacity)
		for _, e := range ts.Entries {
			if err := table.Insert(e.Key, e.Value); err != nil {
				return nil, fmt.Errorf("invalid snapshot: table '%s': %w", name, err)
			}
		}
		d.tables[name] = table
	}

	return d, nil
}
