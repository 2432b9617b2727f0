package serializer

import (
	"encoding/json"

	"github.com/ValentinKolb/sybd/lib/db"
)

// NewJSONSerializer creates a new serializer using indented json encoding
func NewJSONSerializer() ISnapshotSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the ISnapshotSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISnapshotSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(s db.Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func (j jsonSerializerImpl) Deserialize(b []byte, s *db.Snapshot) error {
	return json.Unmarshal(b, s)
}

func (j jsonSerializerImpl) Name() string {
	return "json"
}
