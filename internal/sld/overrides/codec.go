package overrides

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/eykd/sldview/internal/canon"
)

var (
	// ErrUnsupportedSchema is returned by Decode for a schemaVersion other than SchemaVersion.
	ErrUnsupportedSchema = errors.New("unsupported overrides schema version")
	// ErrInvalidDocument is returned by Decode for malformed documents.
	ErrInvalidDocument = errors.New("invalid overrides document")
)

// documentValidate checks the struct tags on Document. validator.Validate
// caches struct metadata and is safe for concurrent use.
var documentValidate = validator.New()

// Decode parses a persisted document. The schema version is checked before
// anything else so that a newer format is reported as such rather than as a
// pile of field errors. Decode does not check geometry; use Evaluate for that.
func Decode(data []byte) (Document, error) {
	var header struct {
		SchemaVersion *string `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if header.SchemaVersion == nil {
		return Document{}, fmt.Errorf("%w: missing schemaVersion", ErrUnsupportedSchema)
	}
	if *header.SchemaVersion != SchemaVersion {
		return Document{}, fmt.Errorf("%w: got %q, want %q", ErrUnsupportedSchema, *header.SchemaVersion, SchemaVersion)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := documentValidate.Struct(doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Nodes == nil {
		doc.Nodes = map[string]NodeOverride{}
	}
	if doc.Edges == nil {
		doc.Edges = map[string]EdgeOverride{}
	}
	return doc, nil
}

// Encode returns the canonical persisted form of doc. Equal documents encode
// to identical bytes regardless of map order.
func Encode(doc Document) []byte {
	return []byte(canon.Serialize(doc))
}

// Hash returns the content hash of doc's canonical form.
func Hash(doc Document) string {
	return canon.Hash(doc)
}
