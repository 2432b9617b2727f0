package hashtable

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// DefaultCapacity is the capacity of tables created by the database
	DefaultCapacity = 16
	// MinCapacity is the smallest capacity a table can have (hash2 divides by capacity-1)
	MinCapacity = 2
	// MaxCapacity bounds the requested capacity, doubling beyond it would overflow on 32-bit platforms
	MaxCapacity = 1 << 30
)

// ErrDuplicateKey is returned by Insert if the key is already stored in the table
var ErrDuplicateKey = errors.New("already exists in the table")

// --------------------------------------------------------------------------
// Slots
// --------------------------------------------------------------------------

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type slot struct {
	state slotState
	key   string
	value string
}

// Entry is a key-value pair stored in the table
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// --------------------------------------------------------------------------
// HashTable
// --------------------------------------------------------------------------

// HashTable is an open-addressed hash table with double hashing
type HashTable struct {
	slots      []slot
	capacity   int
	size       int // occupied slots
	tombstones int // removed slots not yet purged
}

// New creates an empty table. The capacity is raised to MinCapacity, rounded
// up to the next power of two and capped at MaxCapacity.
func New(capacity int) *HashTable {
	capacity = normalizeCapacity(capacity)
	return &HashTable{
		slots:    make([]slot, capacity),
		capacity: capacity,
	}
}

// normalizeCapacity returns the smallest power of two >= max(capacity, MinCapacity),
// at most MaxCapacity
func normalizeCapacity(capacity int) int {
	c := MinCapacity
	for c < capacity && c < MaxCapacity {
		c <<= 1
	}
	return c
}

// hash returns the primary probe index of the key
func (h *HashTable) hash(key string) int {
	return len(key) % h.capacity
}

// hash2 returns the probe step of the key, in the range [1, capacity-1].
// Even steps are bumped by one so the step is coprime with the capacity.
func (h *HashTable) hash2(key string) int {
	step := utf8.RuneCountInString(key)%(h.capacity-1) + 1
	if step%2 == 0 {
		step++
	}
	return step
}

// find walks the probe sequence of key. It returns the index of the slot
// holding key (-1 if absent) and the first slot on the path that can take a new
// entry (-1 if none was seen).
func (h *HashTable) find(key string) (match int, free int) {
	idx := h.hash(key)
	step := h.hash2(key)
	free = -1

	for i := 0; i < h.capacity; i++ {
		s := &h.slots[idx]
		switch s.state {
		case slotEmpty:
			if free < 0 {
				free = idx
			}
			return -1, free
		case slotTombstone:
			if free < 0 {
				free = idx
			}
		case slotOccupied:
			if s.key == key {
				return idx, free
			}
		}
		idx = (idx + step) % h.capacity
	}

	return -1, free
}

// Insert stores a new key-value pair.
// If the key already exists, ErrDuplicateKey is returned and the table is not modified.
func (h *HashTable) Insert(key, value string) error {
	if match, _ := h.find(key); match >= 0 {
		return fmt.Errorf("key '%s' %w", key, ErrDuplicateKey)
	}

	// keep occupied slots and tombstones at or below half the capacity
	if h.size+h.tombstones >= h.capacity/2 {
		h.resize()
	}

	_, free := h.find(key)
	if h.slots[free].state == slotTombstone {
		h.tombstones--
	}
	h.slots[free] = slot{state: slotOccupied, key: key, value: value}
	h.size++

	return nil
}

// Remove deletes the key from the table. It returns false if the key was not found.
func (h *HashTable) Remove(key string) bool {
	match, _ := h.find(key)
	if match < 0 {
		return false
	}
	h.slots[match] = slot{state: slotTombstone}
	h.size--
	h.tombstones++
	return true
}

// Get returns the value stored for key. The boolean is false if the key was not found.
func (h *HashTable) Get(key string) (string, bool) {
	match, _ := h.find(key)
	if match < 0 {
		return "", false
	}
	return h.slots[match].value, true
}

// Size returns the number of stored entries
func (h *HashTable) Size() int {
	return h.size
}

// Capacity returns the number of slots
func (h *HashTable) Capacity() int {
	return h.capacity
}

// Range calls fn for every entry in slot order until fn returns false
func (h *HashTable) Range(fn func(key, value string) bool) {
	for i := range h.slots {
		if h.slots[i].state != slotOccupied {
			continue
		}
		if !fn(h.slots[i].key, h.slots[i].value) {
			return
		}
	}
}

// Entries returns a copy of all entries in slot order
func (h *HashTable) Entries() []Entry {
	entries := make([]Entry, 0, h.size)
	h.Range(func(key, value string) bool {
		entries = append(entries, Entry{Key: key, Value: value})
		return true
	})
	return entries
}

// --------------------------------------------------------------------------
// Resizing
// --------------------------------------------------------------------------

// resize doubles the capacity if the live entries fill half of the table,
// otherwise it rebuilds the table at the same capacity to drop tombstones
func (h *HashTable) resize() {
	capacity := h.capacity
	if h.size >= h.capacity/2 {
		capacity *= 2
	}
	h.rehash(capacity)
}

// rehash moves every live entry into a fresh slot array of the given capacity
func (h *HashTable) rehash(capacity int) {
	old := h.slots

	h.slots = make([]slot, capacity)
	h.capacity = capacity
	h.size = 0
	h.tombstones = 0

	for _, s := range old {
		if s.state != slotOccupied {
			continue
		}
		_, free := h.find(s.key)
		h.slots[free] = s
		h.size++
	}
}
