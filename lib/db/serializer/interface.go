package serializer

import "github.com/ValentinKolb/sybd/lib/db"

// ISnapshotSerializer is the interface for all snapshot serializers
type ISnapshotSerializer interface {
	// Serialize encodes a snapshot.
	// It returns the encoded bytes and an error if any
	Serialize(s db.Snapshot) ([]byte, error)
	// Deserialize decodes bytes into a snapshot.
	// It takes the encoded bytes and a pointer to the target snapshot
	Deserialize(b []byte, s *db.Snapshot) error
	// Name returns the name of the format (e.g. "json")
	Name() string
}
