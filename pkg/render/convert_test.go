package render

import (
	"bytes"
	"context"
	"testing"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/tree"
)

func TestConvert(t *testing.T) {
	root := laidOut(t, family.Demo(), "p1", tree.DefaultOptions())
	svg := RenderSVG(root)
	ctx := context.Background()

	if !HasConverter() {
		_, err := ToPNG(ctx, svg, 1)
		if !apperr.Is(err, apperr.ErrCodeUnsupported) {
			t.Errorf("ToPNG without rsvg-convert: error = %v, want UNSUPPORTED", err)
		}
		t.Skip("rsvg-convert not installed")
	}

	png, err := ToPNG(ctx, svg, 2)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("ToPNG output is not a PNG")
	}

	pdf, err := ToPDF(ctx, svg)
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("ToPDF output is not a PDF")
	}
}
