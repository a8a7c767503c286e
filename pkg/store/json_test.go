package store

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    bool
		wantPeople int
		wantPC     int
		wantSpouse int
	}{
		{name: "complete", input: `{"people":[{"id":"a","firstName":"A","lastName":"B"}],"parentChildEdges":[{"parentId":"a","childId":"b","type":"adopted"}],"spouseEdges":[{"aId":"a","bId":"c"}]}`, wantPeople: 1, wantPC: 1, wantSpouse: 1},
		{name: "edges missing", input: `{"people":[{"id":"a"}]}`, wantPeople: 1},
		{name: "edges null", input: `{"people":[],"parentChildEdges":null,"spouseEdges":null}`},
		{name: "edges malformed", input: `{"people":[{"id":"a"}],"parentChildEdges":{"a":"b"},"spouseEdges":"none"}`, wantPeople: 1},
		{name: "edge element malformed", input: `{"people":[],"parentChildEdges":[42]}`},
		{name: "people missing", input: `{"parentChildEdges":[]}`, wantErr: true},
		{name: "people not array", input: `{"people":{"id":"a"}}`, wantErr: true},
		{name: "people null", input: `{"people":null}`, wantErr: true},
		{name: "person malformed", input: `{"people":[{"id":7}]}`, wantErr: true},
		{name: "not json", input: `family`, wantErr: true},
		{name: "top level array", input: `[]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ReadJSON(strings.NewReader(tt.input))
			if tt.wantErr {
				if !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
					t.Fatalf("error = %v, want INVALID_FORMAT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadJSON: %v", err)
			}
			if d.People == nil || d.ParentChildEdges == nil || d.SpouseEdges == nil {
				t.Fatal("collections must never be nil")
			}
			if len(d.People) != tt.wantPeople || len(d.ParentChildEdges) != tt.wantPC || len(d.SpouseEdges) != tt.wantSpouse {
				t.Errorf("got %d people, %d parent-child, %d spouse edges; want %d, %d, %d",
					len(d.People), len(d.ParentChildEdges), len(d.SpouseEdges), tt.wantPeople, tt.wantPC, tt.wantSpouse)
			}
		})
	}
}

func TestReadJSONMissingPeopleMessage(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{}`))
	if got := apperr.UserMessage(err); got != "Invalid data format: missing people array" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON(nil): %v", err)
	}
	want := "{\n  \"people\": [],\n  \"parentChildEdges\": [],\n  \"spouseEdges\": []\n}\n"
	if buf.String() != want {
		t.Errorf("WriteJSON(nil) =\n%s\nwant\n%s", buf.String(), want)
	}

	data, err := MarshalJSON(family.Demo())
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	back, err := UnmarshalJSON(data)
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !reflect.DeepEqual(back, family.Demo()) {
		t.Error("demo family changed after a JSON round trip")
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")

	if err := ExportJSON(path, family.Demo()); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	d, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(d.People) != 11 {
		t.Errorf("imported %d people, want 11", len(d.People))
	}

	if _, err := ImportJSON(filepath.Join(dir, "missing.json")); !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"spouseEdges":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportJSON(bad); !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
		t.Errorf("bad file error = %v, want INVALID_FORMAT", err)
	}

	if err := ExportJSON("", nil); !apperr.Is(err, apperr.ErrCodeInvalidPath) {
		t.Errorf("empty path error = %v, want INVALID_PATH", err)
	}
}
