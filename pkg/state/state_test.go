package state

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

func TestReduceDoesNotModifyInput(t *testing.T) {
	s := WithData(family.Demo())
	before := len(s.Data.People)

	next, err := Reduce(s, NewAddPerson(family.Person{FirstName: "New", LastName: "Person"}))
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if len(next.Data.People) != before+1 {
		t.Errorf("next has %d people, want %d", len(next.Data.People), before+1)
	}
	if len(s.Data.People) != before {
		t.Error("Reduce modified the input state")
	}
}

func TestDeleteClearsReferences(t *testing.T) {
	s := WithData(family.Demo())
	s.SelectedPersonID = "p3"
	s.FocusPersonID = "p3"

	next, _ := Reduce(s, DeletePerson{ID: "p3"})
	if next.SelectedPersonID != "" || next.FocusPersonID != "" {
		t.Errorf("selection=%q focus=%q, want both cleared", next.SelectedPersonID, next.FocusPersonID)
	}

	s.FocusPersonID = "p1"
	next, _ = Reduce(s, DeletePerson{ID: "p3"})
	if next.FocusPersonID != "p1" {
		t.Errorf("unrelated focus changed to %q", next.FocusPersonID)
	}
	if next.SelectedPersonID != "" {
		t.Errorf("selection = %q, want cleared", next.SelectedPersonID)
	}
}

func TestSetDepthClamps(t *testing.T) {
	tests := []struct {
		anc, desc         int
		wantAnc, wantDesc int
	}{
		{0, 0, 0, 0},
		{3, 5, 3, 5},
		{-1, 7, 0, 6},
		{100, -100, 6, 0},
	}
	for _, tt := range tests {
		next, err := Reduce(New(), SetDepth{Ancestors: tt.anc, Descendants: tt.desc})
		if err != nil {
			t.Fatalf("Reduce: %v", err)
		}
		if next.AncestorDepth != tt.wantAnc || next.DescendantDepth != tt.wantDesc {
			t.Errorf("SetDepth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.anc, tt.desc, next.AncestorDepth, next.DescendantDepth, tt.wantAnc, tt.wantDesc)
		}
	}
}

func TestRejectedActionKeepsState(t *testing.T) {
	s := WithData(family.Demo())
	tests := []struct {
		name     string
		action   Action
		wantCode apperr.Code
	}{
		{"cycle", AddParentChild{Edge: family.ParentChildEdge{ParentID: "p5", ChildID: "p1"}}, apperr.ErrCodeCycle},
		{"self spouse", AddSpouse{Edge: family.SpouseEdge{AID: "p1", BID: "p1"}}, apperr.ErrCodeSelfSpouse},
		{"blank person", NewAddPerson(family.Person{}), apperr.ErrCodeInvalidPerson},
		{"unknown update", UpdatePerson{Person: family.Person{ID: "zz", FirstName: "A", LastName: "B"}}, apperr.ErrCodePersonNotFound},
		{"reused id", AddPerson{Person: family.Person{ID: "p1", FirstName: "A", LastName: "B"}}, apperr.ErrCodeInvalidPerson},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Reduce(s, tt.action)
			if !apperr.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
			if !reflect.DeepEqual(next, s) {
				t.Error("rejected action changed the state")
			}
		})
	}
}

func TestViewActions(t *testing.T) {
	s := WithData(family.Demo())
	s, _ = Reduce(s, SelectPerson{ID: "p2"})
	s, _ = Reduce(s, SetFocus{ID: "p3"})
	if s.SelectedPersonID != "p2" || s.FocusPersonID != "p3" {
		t.Errorf("selection=%q focus=%q", s.SelectedPersonID, s.FocusPersonID)
	}

	s, _ = Reduce(s, LoadData{Data: family.New()})
	if !s.Data.IsEmpty() || s.FocusPersonID != "p3" {
		t.Error("LoadData should only replace the data")
	}

	s, _ = Reduce(s, SetState{State: AppState{AncestorDepth: 9}})
	if s.Data == nil || s.AncestorDepth != 6 || s.FocusPersonID != "" {
		t.Errorf("SetState result = %+v", s)
	}
}

type recordingSaver struct {
	saves int
	err   error
}

func (r *recordingSaver) Save(context.Context, *family.FamilyData) error {
	r.saves++
	return r.err
}

func script() []Action {
	return []Action{
		NewAddPerson(family.Person{FirstName: "Ann", LastName: "Lee", Sex: family.SexFemale}),
		NewAddPerson(family.Person{FirstName: "Bob", LastName: "Lee", Sex: family.SexMale}),
		SelectPerson{ID: "p1"},
		SetDepth{Ancestors: 2, Descendants: 9},
		AddParentChild{Edge: family.ParentChildEdge{ParentID: "p3", ChildID: "p9"}},
		DeletePerson{ID: "p8"},
		RemoveSpouse{AID: "p7", BID: "p1"},
		SetFocus{ID: "p3"},
	}
}

func TestReplayMatchesSession(t *testing.T) {
	saver := &recordingSaver{}
	sess := NewSession(WithData(family.Demo()), saver, nil)
	ctx := context.Background()

	for _, a := range script() {
		if _, err := sess.Dispatch(ctx, a); err != nil {
			t.Fatalf("Dispatch(%s): %v", a.Type(), err)
		}
	}
	// Rejected actions are not logged.
	if _, err := sess.Dispatch(ctx, AddParentChild{Edge: family.ParentChildEdge{ParentID: "p5", ChildID: "p1"}}); err == nil {
		t.Fatal("cycle accepted")
	}

	if got := sess.History().Len(); got != len(script()) {
		t.Errorf("log has %d entries, want %d", got, len(script()))
	}
	if saver.saves != 5 {
		t.Errorf("saves = %d, want 5 (one per mutation)", saver.saves)
	}

	replayed, err := Replay(WithData(family.Demo()), sess.History().Entries())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !reflect.DeepEqual(replayed, sess.State()) {
		t.Errorf("replayed state differs:\n got %+v\nwant %+v", replayed, sess.State())
	}
}

func TestReplayReportsFailingEntry(t *testing.T) {
	log := NewLog()
	log.Append(SetFocus{ID: "p1"})
	log.Append(AddSpouse{Edge: family.SpouseEdge{AID: "p1", BID: "p2"}})

	_, err := Replay(WithData(family.Demo()), log.Entries())
	if err == nil || !strings.Contains(err.Error(), "entry 2 (ADD_SPOUSE)") {
		t.Errorf("Replay error = %v", err)
	}
	if !apperr.Is(err, apperr.ErrCodeDuplicateEdge) {
		t.Errorf("Replay error should keep its code, got %v", err)
	}
}

func TestSessionSaveFailure(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	sess := NewSession(New(), saver, nil)

	next, err := sess.Dispatch(context.Background(), NewAddPerson(family.Person{FirstName: "A", LastName: "B"}))
	if !apperr.Is(err, apperr.ErrCodeStorage) {
		t.Fatalf("error = %v, want STORAGE", err)
	}
	if len(next.Data.People) != 1 || len(sess.State().Data.People) != 1 {
		t.Error("state should advance even when saving fails")
	}
}

func TestEntryJSON(t *testing.T) {
	log := NewLog()
	log.Append(SetDepth{Ancestors: 1, Descendants: 2})

	data, err := json.Marshal(log.Entries())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"seq":1`, `"type":"SET_DEPTH"`, `"payload":{"ancestor":1,"descendant":2}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("%s missing %s", data, want)
		}
	}
}
