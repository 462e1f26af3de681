package template_test

import (
	"bytes"
	"embed"
	"io/fs"
	"testing"

	"github.com/goliatone/go-seedgen/pkg/template"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func newEngine(t *testing.T, options ...template.Option) *template.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := template.New(append([]template.Option{template.WithFS(templatesFS)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderWritesToOutputs(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	got, err := engine.Render("header", map[string]any{"title": "Users", "table": "users"}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "-- Users for users"
	if got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
	if buf.String() != want {
		t.Fatalf("writer mismatch\nwant: %q\n got: %q", want, buf.String())
	}
}

func TestEngine_AppendsExtension(t *testing.T) {
	engine := newEngine(t)

	withExt, err := engine.Render("header.tpl", map[string]any{"title": "Orders", "table": "orders"})
	if err != nil {
		t.Fatalf("render with extension: %v", err)
	}
	bare, err := engine.Render("header", map[string]any{"title": "Orders", "table": "orders"})
	if err != nil {
		t.Fatalf("render without extension: %v", err)
	}
	if withExt != bare || bare != "-- Orders for orders" {
		t.Fatalf("expected identical output, got %q and %q", withExt, bare)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := template.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
	engine := newEngine(t)
	if _, err := engine.Render("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
