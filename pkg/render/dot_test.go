package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/tree"
)

func TestToDOT(t *testing.T) {
	root, err := tree.Build(family.Demo(), "p1", tree.DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dot := ToDOT(root, "p1", DOTOptions{})

	for _, want := range []string{
		`"p10" -> "p1";`,
		`"p11" -> "p1";`,
		`"p1" -> "p3";`,
		`"p3" -> "p6";`,
		`"p1" [label="John Smith"`,
		`penwidth=3`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"" ->`) || strings.Contains(dot, `-> ""`) {
		t.Error("synthetic root leaked into DOT edges")
	}
}

func TestToDOTAncestorChain(t *testing.T) {
	// Grandparents sit below parents in the built tree but edges still
	// point from the older generation to the younger.
	root, _ := tree.Build(family.Demo(), "p5", tree.Options{AncestorDepth: 2})
	dot := ToDOT(root, "p5", DOTOptions{Detailed: true})

	for _, want := range []string{`"p3" -> "p5";`, `"p4" -> "p5";`, `"p1" -> "p3";`, `"p2" -> "p3";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
	if !strings.Contains(dot, `label="Emily Smith\n2005 - Present\n[F]"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestToDOTSpouses(t *testing.T) {
	root, _ := tree.Build(couple(), "c", tree.Options{AncestorDepth: 1})
	dot := ToDOT(root, "c", DOTOptions{})

	if got := strings.Count(dot, "style=dashed"); got != 1 {
		t.Errorf("spouse edges = %d, want 1", got)
	}
	if !strings.Contains(dot, `{ rank=same; "a"; "b"; }`) {
		t.Error("partners should share a rank")
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, "", DOTOptions{})
	if !strings.HasPrefix(dot, "digraph family {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("unexpected empty DOT:\n%s", dot)
	}
}

func TestRenderDOT(t *testing.T) {
	root, _ := tree.Build(family.Demo(), "p3", tree.DefaultOptions())
	svg, err := RenderDOT(context.Background(), ToDOT(root, "p3", DOTOptions{}))
	if err != nil {
		t.Fatalf("RenderDOT: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("svg header not normalized:\n%.300s", svg)
	}
	if !strings.Contains(string(svg), "Robert Smith") {
		t.Error("rendered svg missing node label")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Error("svg without viewBox should pass through")
	}
}
