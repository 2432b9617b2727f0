// Package lstore implements the local store: a single db.Database owned by the
// process and guarded by one mutex.
//
// Every Execute holds the lock for the whole command, so each command is
// atomic with respect to all others. There is no finer-grained locking and no
// read/write distinction: lookups take the same exclusive lock as writes. The
// lock is never held while serializing a snapshot or doing file I/O, only while
// copying the state out of (or swapping a restored state into) the store.
//
// Persistence:
//
//	Save and Load stream a whole-database snapshot through the configured
//	serializer (json by default). With a snapshot path configured,
//	LoadSnapshot reads the file and SaveSnapshot rewrites it atomically via a
//	temporary file in the same directory and a rename.
//
// Usage Example:
//
//	s := lstore.NewLocalStore(&lstore.Options{SnapshotPath: "sybd.json"})
//	if err := s.LoadSnapshot(); err != nil && !errors.Is(err, fs.ErrNotExist) {
//	    // handle error
//	}
//
//	reply, err := s.Execute("HSET links abc https://example.com")
//
//	if err := s.SaveSnapshot(); err != nil {
//	    // handle error
//	}
package lstore
