package store

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// ReadJSON decodes a family from r.
//
// The input must be a JSON object with a "people" array. The
// "parentChildEdges" and "spouseEdges" arrays are optional: a missing,
// null, or malformed edge collection is replaced by an empty one. Records
// are not validated; use [family.Audit] to report structural problems.
//
// Errors carry the INVALID_FORMAT code. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*family.FamilyData, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode family")
	}

	peopleRaw, ok := raw["people"]
	if !ok || !isArray(peopleRaw) {
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "Invalid data format: missing people array")
	}
	var people []family.Person
	if err := json.Unmarshal(peopleRaw, &people); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode people")
	}

	d := family.New()
	d.People = append(d.People, people...)
	d.ParentChildEdges = optionalArray[family.ParentChildEdge](raw["parentChildEdges"])
	d.SpouseEdges = optionalArray[family.SpouseEdge](raw["spouseEdges"])
	return d, nil
}

func isArray(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func optionalArray[T any](msg json.RawMessage) []T {
	var out []T
	if !isArray(msg) || json.Unmarshal(msg, &out) != nil || out == nil {
		return []T{}
	}
	return out
}

// WriteJSON encodes d to w as indented JSON with all three collections
// present. A nil d is written as an empty family.
func WriteJSON(w io.Writer, d *family.FamilyData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Clone()); err != nil {
		return apperr.Wrap(apperr.ErrCodeInternal, err, "encode family")
	}
	return nil
}

// MarshalJSON returns the [WriteJSON] encoding of d.
func MarshalJSON(d *family.FamilyData) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON is [ReadJSON] over a byte slice.
func UnmarshalJSON(data []byte) (*family.FamilyData, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads the family stored in the JSON file at path.
func ImportJSON(path string) (*family.FamilyData, error) {
	if err := apperr.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "import %s", path)
		}
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "import %s", path)
	}
	defer f.Close()

	d, err := ReadJSON(f)
	if err != nil {
		return nil, apperr.Wrap(apperr.GetCode(err), err, "import %s", path)
	}
	return d, nil
}

// ExportJSON writes d to path, replacing the file atomically.
func ExportJSON(path string, d *family.FamilyData) error {
	if err := apperr.ValidatePath(path); err != nil {
		return err
	}
	data, err := MarshalJSON(d)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
