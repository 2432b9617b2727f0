package lstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ValentinKolb/sybd/lib/db"
	"github.com/ValentinKolb/sybd/lib/db/serializer"
	"github.com/ValentinKolb/sybd/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("store")

// ErrNoSnapshot is returned by the snapshot file operations if no snapshot path is configured
var ErrNoSnapshot = errors.New("no snapshot file configured")

// Options configures a local store
type Options struct {
	// SnapshotPath is the snapshot file used by LoadSnapshot and SaveSnapshot (empty = none)
	SnapshotPath string
	// Serializer encodes the snapshot (nil = json)
	Serializer serializer.ISnapshotSerializer
	// DB configures the database (nil = db.DefaultOptions())
	DB *db.Options
}

// Store owns a single database and serializes every access to it with one lock
type Store struct {
	mu         sync.Mutex
	db         *db.Database
	dbOpts     *db.Options
	path       string
	serializer serializer.ISnapshotSerializer
}

// NewLocalStore creates a new local store with an empty database.
// opts is optional.
func NewLocalStore(opts *Options) *Store {
	if opts == nil {
		opts = &Options{}
	}

	s := opts.Serializer
	if s == nil {
		s = serializer.NewJSONSerializer()
	}

	return &Store{
		db:         db.NewDatabase(opts.DB),
		dbOpts:     opts.DB,
		path:       opts.SnapshotPath,
		serializer: s,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *Store) Execute(query string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := s.db.Execute(query)
	if err != nil {
		return "", store.WrapError(store.RetCProtocolError, err)
	}
	return reply, nil
}

func (s *Store) Close() error {
	return nil
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// SnapshotPath returns the configured snapshot file (empty if none)
func (s *Store) SnapshotPath() string {
	return s.path
}

// Save writes a snapshot of the database to w
func (s *Store) Save(w io.Writer) error {
	s.mu.Lock()
	snapshot := s.db.Snapshot()
	s.mu.Unlock()

	data, err := s.serializer.Serialize(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	_, err = w.Write(data)
	return err
}

// Load replaces the database with the snapshot read from r.
// On error the current database is kept.
func (s *Store) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot db.Snapshot
	if err := s.serializer.Deserialize(data, &snapshot); err != nil {
		return fmt.Errorf("failed to deserialize %s snapshot: %w", s.serializer.Name(), err)
	}

	restored, err := db.FromSnapshot(snapshot, s.dbOpts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.db = restored
	s.mu.Unlock()

	return nil
}

// LoadSnapshot replaces the database with the content of the snapshot file
func (s *Store) LoadSnapshot() error {
	if s.path == "" {
		return ErrNoSnapshot
	}

	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.Load(f); err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	Logger.Infof("loaded snapshot from %s", s.path)
	return nil
}

// SaveSnapshot writes the database to the snapshot file.
// The file is replaced atomically: the snapshot is written to a temporary file
// in the same directory which is then renamed.
func (s *Store) SaveSnapshot() error {
	if s.path == "" {
		return ErrNoSnapshot
	}

	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		return err
	}

	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	// remove the temporary file on any error below
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	committed = true

	Logger.Infof("saved snapshot to %s", s.path)
	return nil
}
