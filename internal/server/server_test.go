package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/store"
)

func newTestServer(t *testing.T, d *family.FamilyData) *Server {
	t.Helper()
	st := store.NewMemoryStore()
	if d != nil {
		if err := st.Save(context.Background(), d); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	return New(st)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestStatusCodes(t *testing.T) {
	s := newTestServer(t, family.Demo())

	tests := []struct {
		target string
		want   int
	}{
		{"/healthz", http.StatusOK},
		{"/api/people", http.StatusOK},
		{"/api/people/p3", http.StatusOK},
		{"/api/people/nobody", http.StatusNotFound},
		{"/api/people/p3/relations", http.StatusOK},
		{"/api/people/nobody/relations", http.StatusNotFound},
		{"/api/tree?focus=p1", http.StatusOK},
		{"/api/tree.svg?focus=p1", http.StatusOK},
		{"/api/tree.dot?focus=p1", http.StatusOK},
		{"/api/tree?ancestors=many", http.StatusBadRequest},
		{"/api/tree?descendants=9", http.StatusBadRequest},
		{"/api/tree?palette=neon", http.StatusBadRequest},
		{"/api/check", http.StatusOK},
		{"/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if rec := get(t, s, tt.target); rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d (body %s)", tt.target, rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/healthz")

	if got := rec.Header().Get("Server"); got != buildinfo.UserAgent() {
		t.Errorf("Server header = %q, want %q", got, buildinfo.UserAgent())
	}
	body := decode[map[string]string](t, rec)
	if body["status"] != "ok" || body["version"] != buildinfo.Version {
		t.Errorf("health = %v", body)
	}
}

func TestPeople(t *testing.T) {
	s := newTestServer(t, family.Demo())

	all := decode[[]family.Person](t, get(t, s, "/api/people"))
	if len(all) != 11 {
		t.Errorf("got %d people, want 11", len(all))
	}

	smiths := decode[[]family.Person](t, get(t, s, "/api/people?q=smith"))
	if len(smiths) != 7 {
		t.Errorf("q=smith matched %d people, want 7", len(smiths))
	}

	p := decode[family.Person](t, get(t, s, "/api/people/p3"))
	if p.FirstName != "Robert" {
		t.Errorf("p3 = %+v, want Robert", p)
	}
}

func TestRelations(t *testing.T) {
	s := newTestServer(t, family.Demo())

	rel := decode[family.Relations](t, get(t, s, "/api/people/p3/relations"))
	if strings.Join(rel.Parents, ",") != "p1,p2" {
		t.Errorf("parents = %v", rel.Parents)
	}
	if strings.Join(rel.Children, ",") != "p5,p6" {
		t.Errorf("children = %v", rel.Children)
	}
	if strings.Join(rel.Spouses, ",") != "p4" {
		t.Errorf("spouses = %v", rel.Spouses)
	}
}

func TestTree(t *testing.T) {
	s := newTestServer(t, family.Demo())

	rec := get(t, s, "/api/tree?focus=p1")
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	doc := decode[render.TreeDocument](t, rec)
	if doc.FocusID != "p1" || doc.Nodes != 8 {
		t.Errorf("doc focus=%q nodes=%d, want p1 and 8", doc.FocusID, doc.Nodes)
	}

	// Depths from the query narrow the view.
	doc = decode[render.TreeDocument](t, get(t, s, "/api/tree?focus=p1&ancestors=0&descendants=1"))
	if doc.Nodes != 4 {
		t.Errorf("p1 with one generation of children has %d nodes, want 4", doc.Nodes)
	}

	svg := get(t, s, "/api/tree.svg?focus=p3&selected=p5")
	if ct := svg.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(svg.Body.String(), "<svg") {
		t.Errorf("body does not start with <svg: %.40q", svg.Body.String())
	}

	dot := get(t, s, "/api/tree.dot?focus=p1")
	if !strings.HasPrefix(dot.Body.String(), "digraph family") {
		t.Errorf("dot body = %.40q", dot.Body.String())
	}
}

func TestTreeDefaultsToFirstPerson(t *testing.T) {
	s := newTestServer(t, family.Demo())

	doc := decode[render.TreeDocument](t, get(t, s, "/api/tree"))
	if doc.FocusID != "p1" {
		t.Errorf("FocusID = %q, want the first person p1", doc.FocusID)
	}
}

func TestTreeEmptyFamily(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s, "/api/tree.svg")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), render.EmptyMessage) {
		t.Error("empty family should draw the placeholder")
	}

	doc := decode[render.TreeDocument](t, get(t, s, "/api/tree"))
	if doc.Root != nil {
		t.Error("empty family should have no root")
	}
}

func TestErrorBody(t *testing.T) {
	s := newTestServer(t, family.Demo())

	body := decode[errorBody](t, get(t, s, "/api/people/ghost"))
	if body.Code != "PERSON_NOT_FOUND" {
		t.Errorf("code = %q", body.Code)
	}
	if !strings.Contains(body.Error, "ghost") {
		t.Errorf("error %q should name the id", body.Error)
	}

	body = decode[errorBody](t, get(t, s, "/api/tree?ancestors=7&palette=neon"))
	if body.Code != "INVALID_INPUT" {
		t.Errorf("code = %q", body.Code)
	}
	for _, want := range []string{"ancestors must be at most 6", "palette must be one of default, print"} {
		if !strings.Contains(body.Error, want) {
			t.Errorf("error %q should contain %q", body.Error, want)
		}
	}
}

func TestNonNumericDepthsReportAncestorsFirst(t *testing.T) {
	s := newTestServer(t, family.Demo())

	for range 20 {
		body := decode[errorBody](t, get(t, s, "/api/tree?descendants=lots&ancestors=many"))
		if !strings.Contains(body.Error, `ancestors must be a number, got "many"`) {
			t.Fatalf("error = %q, want the ancestors parameter reported", body.Error)
		}
	}
}

func TestCheck(t *testing.T) {
	d := family.Demo()
	d.SpouseEdges = append(d.SpouseEdges, family.SpouseEdge{AID: "p1", BID: "ghost"})
	s := newTestServer(t, d)

	got := decode[struct {
		People   int      `json:"people"`
		Problems []string `json:"problems"`
	}](t, get(t, s, "/api/check"))
	if got.People != 11 || len(got.Problems) != 1 {
		t.Errorf("check = %+v, want 11 people and one problem", got)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestObserveReportsRoutePattern(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t, family.Demo())
	get(t, s, "/api/people/p1")
	get(t, s, "/api/people/p2/relations")

	want := []string{"GET /api/people/{id}", "GET /api/people/{id}/relations"}
	if strings.Join(hooks.routes, "|") != strings.Join(want, "|") {
		t.Errorf("routes = %v, want %v", hooks.routes, want)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, family.Demo())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
