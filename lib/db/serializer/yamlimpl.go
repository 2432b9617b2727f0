package serializer

import (
	"github.com/ValentinKolb/sybd/lib/db"
	"gopkg.in/yaml.v3"
)

// NewYAMLSerializer creates a new serializer using yaml encoding
func NewYAMLSerializer() ISnapshotSerializer {
	return &yamlSerializerImpl{}
}

// yamlSerializerImpl implements the ISnapshotSerializer interface using yaml encoding
type yamlSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISnapshotSerializer)
// --------------------------------------------------------------------------

func (y yamlSerializerImpl) Serialize(s db.Snapshot) ([]byte, error) {
	return yaml.Marshal(s)
}

func (y yamlSerializerImpl) Deserialize(b []byte, s *db.Snapshot) error {
	return yaml.Unmarshal(b, s)
}

func (y yamlSerializerImpl) Name() string {
	return "yaml"
}
