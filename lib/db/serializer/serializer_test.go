package serializer

import (
	"testing"

	"github.com/ValentinKolb/sybd/lib/db"
	"github.com/ValentinKolb/sybd/lib/db/hashtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() ISnapshotSerializer{
	"JSON": NewJSONSerializer,
	"YAML": NewYAMLSerializer,
}

// testSnapshot creates a snapshot with every container filled
func testSnapshot() db.Snapshot {
	return db.Snapshot{
		Set:   []int32{3, 17, 99},
		Stack: []string{"bottom", "top"},
		Queue: []string{"head", "middle", "tail"},
		Tables: map[string]db.TableSnapshot{
			"links": {
				Capacity: 16,
				Entries: []hashtable.Entry{
					{Key: "abc", Value: "https://example.com/a?b=c"},
					{Key: "xyz", Value: "http://example.org"},
				},
			},
			"users": {
				Capacity: 32,
				Entries:  []hashtable.Entry{{Key: "alice", Value: "admin: true"}},
			},
		},
	}
}

func TestSerializerRoundTrip(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()
			original := testSnapshot()

			data, err := s.Serialize(original)
			require.NoError(t, err)

			var result db.Snapshot
			require.NoError(t, s.Deserialize(data, &result))
			assert.Equal(t, original, result)
		})
	}
}

func TestSerializerRestoresDatabase(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()

			source := db.NewDatabase(nil)
			for _, q := range []string{"SADD 5", "SPUSH a", "QPUSH b", "HSET t1 k v", "HSET t2 k w"} {
				_, err := source.Execute(q)
				require.NoError(t, err)
			}

			data, err := s.Serialize(source.Snapshot())
			require.NoError(t, err)

			var snapshot db.Snapshot
			require.NoError(t, s.Deserialize(data, &snapshot))
			restored, err := db.FromSnapshot(snapshot, nil)
			require.NoError(t, err)

			for _, q := range []string{"SISMEMBER", "SPOP", "QPOP", "HGET t1 k", "HGET t2 k"} {
				want, _ := source.Execute(q)
				got, err := restored.Execute(q)
				require.NoError(t, err)
				assert.Equal(t, want, got, q)
			}
		})
	}
}

func TestDeserializeInvalidInput(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			var result db.Snapshot
			assert.Error(t, factory().Deserialize([]byte("set: [1, 2"), &result))
		})
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format   string
		path     string
		expected string
	}{
		{"json", "db.yaml", "json"},
		{"yaml", "db.json", "yaml"},
		{"YML", "", "yaml"},
		{"auto", "db.yaml", "yaml"},
		{"auto", "/tmp/DB.YML", "yaml"},
		{"", "db.json", "json"},
		{"", "snapshot", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.path, func(t *testing.T) {
			s, err := ForFormat(tt.format, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.Name())
		})
	}

	_, err := ForFormat("xml", "db.xml")
	assert.Error(t, err)
}
