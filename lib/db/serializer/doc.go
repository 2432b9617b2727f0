// Package serializer implements the snapshot encodings of the database.
//
// A snapshot (db.Snapshot) is encoded as structured, field-labeled text so the
// files stay readable and editable by hand:
//
//   - NewJSONSerializer: indented json (the default format)
//   - NewYAMLSerializer: yaml
//
// ForFormat picks a serializer by name or, in "auto" mode, by file extension.
package serializer
