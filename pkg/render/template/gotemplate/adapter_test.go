package gotemplate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	files := fstest.MapFS{
		"greeting.tpl": {Data: []byte(`Hello {{ name|trim }}!`)},
		"global.tpl":   {Data: []byte(`env={{ env }}`)},
		"ids.tpl":      {Data: []byte(`{{ field|fieldid }} {{ field|fieldid:"yes" }}`)},
	}
	engine, err := New(append([]Option{WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateWritesToOutputs(t *testing.T) {
	engine := newTestEngine(t)

	var buf bytes.Buffer
	got, err := engine.RenderTemplate("greeting", map[string]any{"name": "  Ada "}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada!" {
		t.Fatalf("unexpected result %q", got)
	}
	if buf.String() != got {
		t.Fatalf("writer mismatch %q", buf.String())
	}
}

func TestEngine_GlobalData(t *testing.T) {
	engine := newTestEngine(t, WithGlobalData(map[string]any{"env": "staging"}))

	got, err := engine.Render("global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestEngine_FieldIDFilter(t *testing.T) {
	engine := newTestEngine(t)

	got, err := engine.RenderTemplate("ids", map[string]any{"field": "order Status"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "field-order-Status field-order-Status-yes" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestEngine_RenderStringInline(t *testing.T) {
	engine := newTestEngine(t)

	got, err := engine.Render("{% if ok %}yes{% else %}no{% endif %}", map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "yes" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestEngine_RejectsUnsupportedData(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.RenderTemplate("greeting", struct{ Name string }{Name: "Ada"})
	if err == nil || !strings.Contains(err.Error(), "unsupported data type") {
		t.Fatalf("expected unsupported data error, got %v", err)
	}
}

func TestNew_RequiresTemplateSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestEngine_BaseDirShadowsFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "greeting.tpl"), []byte(`Hi {{ name }}`), 0o600); err != nil {
		t.Fatalf("write override: %v", err)
	}
	engine := newTestEngine(t, WithBaseDir(dir), WithGlobalData(map[string]any{"env": "prod"}))

	got, err := engine.RenderTemplate("greeting", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render override: %v", err)
	}
	if got != "Hi Ada" {
		t.Fatalf("expected directory template, got %q", got)
	}

	got, err = engine.RenderTemplate("global", nil)
	if err != nil {
		t.Fatalf("render bundled: %v", err)
	}
	if got != "env=prod" {
		t.Fatalf("expected fs template for names missing on disk, got %q", got)
	}
}

func TestEngine_IncludesResolveAcrossLayers(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.tpl"), []byte(`[{% include "partials/row.tpl" %}]`), 0o600); err != nil {
		t.Fatalf("write override: %v", err)
	}
	files := fstest.MapFS{
		"page.tpl":         {Data: []byte(`bundled`)},
		"partials/row.tpl": {Data: []byte(`row {{ n }}`)},
	}
	engine, err := New(WithBaseDir(dir), WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderTemplate("page", map[string]any{"n": 3})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[row 3]" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestNew_MissingBaseDir(t *testing.T) {
	if _, err := New(WithBaseDir(filepath.Join(t.TempDir(), "nope"))); err == nil {
		t.Fatalf("expected error for missing template directory")
	}
}
