package db

import (
	"errors"
	"math/rand/v2"
	"sort"

	"github.com/ValentinKolb/sybd/lib/db/collections"
	"github.com/ValentinKolb/sybd/lib/db/hashtable"
	"github.com/ValentinKolb/sybd/lib/db/util"
)

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrEmptyQuery is returned for a command line without any token
	ErrEmptyQuery = errors.New("empty query")
	// ErrUnknownCommand is returned if the command verb is not known
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMissingArgument is returned if a required argument is missing
	ErrMissingArgument = errors.New("missing argument")
	// ErrInvalidArgument is returned if an argument can't be parsed
	ErrInvalidArgument = errors.New("invalid argument")
)

// --------------------------------------------------------------------------
// Database
// --------------------------------------------------------------------------

// Options configures a Database
type Options struct {
	Seed          uint64 // Seed for the random values generated by SADD
	TableCapacity int    // Initial capacity of new tables
}

// DefaultOptions returns the default database options with a random seed
func DefaultOptions() *Options {
	return &Options{
		Seed:          util.GenerateSeed(),
		TableCapacity: hashtable.DefaultCapacity,
	}
}

// Database aggregates a set, a stack, a queue and the named hash tables
type Database struct {
	set    *collections.Set
	stack  *collections.Stack
	queue  *collections.Queue
	tables map[string]*hashtable.HashTable

	tableCapacity int
	rng           *rand.Rand
}

// NewDatabase creates an empty database with the specified options (optional)
func NewDatabase(opts *Options) *Database {
	if opts == nil {
		opts = DefaultOptions()
	}

	tableCapacity := opts.TableCapacity
	if tableCapacity < hashtable.MinCapacity {
		tableCapacity = hashtable.DefaultCapacity
	}

	return &Database{
		set:           collections.NewSet(),
		stack:         collections.NewStack(),
		queue:         collections.NewQueue(),
		tables:        make(map[string]*hashtable.HashTable),
		tableCapacity: tableCapacity,
		rng:           rand.New(rand.NewPCG(opts.Seed, opts.Seed>>1|1)),
	}
}

// TableNames returns the names of all tables in ascending order
func (d *Database) TableNames() []string {
	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
