package relaygen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/relayed/internal/errors"
)

const widgetSrc = `package widget

import (
	"sync"
	"time"

	r "github.com/vango-dev/relayed/pkg/relay"
)

type Widget struct {
	title    *r.Cell[string]
	count    r.Cell[int]
	Exported *r.Cell[int]
	hidden   *r.Cell[int] ` + "`relayed:\"-\"`" + `
	seen     *r.Cell[time.Time] ` + "`relayed:\"LastSeen,readonly\"`" + `
	plain    int
	mu       sync.Mutex
	a, b     *r.Cell[bool]
}

type NoCells struct {
	name string
}
`

func TestScanFindsCells(t *testing.T) {
	pkg := scan(t, map[string]string{"widget.go": widgetSrc})

	if pkg.Name != "widget" {
		t.Errorf("Name = %q, want widget", pkg.Name)
	}
	if len(pkg.Types) != 1 {
		t.Fatalf("Types = %d, want 1", len(pkg.Types))
	}

	w := pkg.Types[0]
	if w.Name != "Widget" || w.Receiver != "w" {
		t.Errorf("type = %s receiver %s", w.Name, w.Receiver)
	}

	want := []struct {
		field, accessor, value string
		readOnly              bool
	}{
		{"title", "Title", "string", false},
		{"count", "Count", "int", false},
		{"seen", "LastSeen", "time.Time", true},
		{"a", "A", "bool", false},
		{"b", "B", "bool", false},
	}
	if len(w.Fields) != len(want) {
		t.Fatalf("Fields = %+v, want %d entries", w.Fields, len(want))
	}
	for i, tt := range want {
		f := w.Fields[i]
		if f.Name != tt.field || f.Accessor != tt.accessor || f.ValueType != tt.value || f.ReadOnly != tt.readOnly {
			t.Errorf("Fields[%d] = %+v, want %+v", i, f, tt)
		}
		if f.Relay != "r" {
			t.Errorf("Fields[%d].Relay = %q, want r", i, f.Relay)
		}
	}

	seen := w.Fields[2]
	if len(seen.Imports) != 1 || seen.Imports[0].Path != "time" {
		t.Errorf("seen imports = %+v, want time", seen.Imports)
	}
	if seen.Pos.Line != 15 {
		t.Errorf("seen line = %d, want 15", seen.Pos.Line)
	}
	if pkg.Accessors() != 5 {
		t.Errorf("Accessors() = %d, want 5", pkg.Accessors())
	}
}

func TestScanRequiresRelayImport(t *testing.T) {
	// A Cell from some other package is not a relay cell.
	src := `package other

import "example.com/relay"

type T struct {
	v *relay.Cell[int]
}
`
	_, err := NewScanner(writePackage(t, map[string]string{"t.go": src})).Scan()
	if !errors.Is(err, "R010") {
		t.Errorf("Scan = %v, want R010", err)
	}
}

func TestScanNoCells(t *testing.T) {
	_, err := NewScanner(writePackage(t, map[string]string{
		"a.go": "package a\n\ntype A struct{ n int }\n",
	})).Scan()
	if !errors.Is(err, "R010") {
		t.Errorf("Scan = %v, want R010", err)
	}
}

func TestScanParseError(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"broken.go": "package broken\n\ntype B struct {\n\tv *relay.Cell[\n}\n",
	})

	_, err := NewScanner(dir).Scan()
	if !errors.Is(err, "R011") {
		t.Fatalf("Scan = %v, want R011", err)
	}
	e, _ := errors.As(err)
	if e.Location == nil || e.Location.Line == 0 {
		t.Errorf("parse error should carry a location, got %+v", e.Location)
	}
}

func TestScanMissingDir(t *testing.T) {
	_, err := NewScanner(filepath.Join(t.TempDir(), "nope")).Scan()
	if !errors.Is(err, "R016") {
		t.Errorf("Scan = %v, want R016", err)
	}
}

func TestScanEmptyDir(t *testing.T) {
	_, err := NewScanner(t.TempDir()).Scan()
	if !errors.Is(err, "R016") {
		t.Errorf("Scan = %v, want R016", err)
	}
}

func TestScanMixedPackages(t *testing.T) {
	_, err := NewScanner(writePackage(t, map[string]string{
		"a.go": "package a\n",
		"b.go": "package b\n",
	})).Scan()
	if !errors.Is(err, "R011") {
		t.Errorf("Scan = %v, want R011", err)
	}
}

func TestScanInvalidAccessorName(t *testing.T) {
	src := "package p\n\nimport \"github.com/vango-dev/relayed/pkg/relay\"\n\ntype P struct {\n\tv *relay.Cell[int] `relayed:\"value\"`\n}\n"
	_, err := NewScanner(writePackage(t, map[string]string{"p.go": src})).Scan()
	if !errors.Is(err, "R015") {
		t.Fatalf("Scan = %v, want R015", err)
	}
	e, _ := errors.As(err)
	if e.Location == nil || e.Location.Line != 6 {
		t.Errorf("Location = %+v, want line 6", e.Location)
	}
}

func TestScanReceiverAndMethods(t *testing.T) {
	pkg := scan(t, map[string]string{
		"a_methods.go": "package p\n\nfunc (this *Panel) Title() string { return \"\" }\n",
		"panel.go":     "package p\n\nimport \"github.com/vango-dev/relayed/pkg/relay\"\n\ntype Panel struct {\n\ttitle *relay.Cell[string]\n}\n",
	})

	p := pkg.Types[0]
	if p.Receiver != "this" {
		t.Errorf("Receiver = %q, want the existing receiver name", p.Receiver)
	}
	if !p.Methods["Title"] {
		t.Errorf("Methods = %v, want Title", p.Methods)
	}
}

func TestScanSkipsOutputAndTests(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"panel.go":      "package p\n\nimport \"github.com/vango-dev/relayed/pkg/relay\"\n\ntype Panel struct {\n\ttitle *relay.Cell[string]\n}\n",
		"panel_test.go": "package p\n\nfunc (p *Panel) TrackedTitle() {}\n",
		DefaultOutput:   "package p\n\nfunc (p *Panel) Title() string { return \"\" }\n",
		"notes.txt":     "not go",
		"custom_gen.go": "package p\n\nfunc (p *Panel) SetTitle(string) {}\n",
	})

	pkg, err := NewScanner(dir).Scan()
	if err != nil {
		t.Fatal(err)
	}
	m := pkg.Types[0].Methods
	if m["Title"] || m["TrackedTitle"] {
		t.Errorf("methods from output or test files were scanned: %v", m)
	}
	if !m["SetTitle"] {
		t.Error("methods from other files should be scanned")
	}

	pkg, err = NewScanner(dir, WithOutput("custom_gen.go")).Scan()
	if err != nil {
		t.Fatal(err)
	}
	m = pkg.Types[0].Methods
	if !m["Title"] || m["SetTitle"] {
		t.Errorf("WithOutput should switch the ignored file: %v", m)
	}
}

func TestScanGenericType(t *testing.T) {
	pkg := scan(t, map[string]string{
		"box.go": "package p\n\nimport \"github.com/vango-dev/relayed/pkg/relay\"\n\ntype Box[K comparable, V any] struct {\n\titems *relay.Cell[map[K]V]\n}\n",
	})

	b := pkg.Types[0]
	if got := b.ReceiverType(); got != "Box[K, V]" {
		t.Errorf("ReceiverType() = %q", got)
	}
	if b.Fields[0].ValueType != "map[K]V" {
		t.Errorf("ValueType = %q", b.Fields[0].ValueType)
	}
}

func TestImportName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"time", "time"},
		{"net/http", "http"},
		{"github.com/google/uuid", "uuid"},
		{"github.com/vango-dev/vango/v2", "vango"},
		{"gopkg.in/yaml.v3", "yaml"},
		{"github.com/go-chi/chi/v5", "chi"},
		{"github.com/olekukonko/tablewriter", "tablewriter"},
	}
	for _, tt := range tests {
		if got := importName(tt.path); got != tt.want {
			t.Errorf("importName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExportName(t *testing.T) {
	tests := map[string]string{
		"title":     "Title",
		"nameInput": "NameInput",
		"éclair":    "Éclair",
		"x":         "X",
	}
	for in, want := range tests {
		if got := exportName(in); got != want {
			t.Errorf("exportName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScanSkipsTaggedAndExportedFields(t *testing.T) {
	pkg := scan(t, map[string]string{"widget.go": widgetSrc})
	for _, f := range pkg.Types[0].Fields {
		if f.Name == "hidden" || f.Name == "Exported" {
			t.Errorf("field %s should be skipped", f.Name)
		}
	}
}

func TestScanWritesNothing(t *testing.T) {
	dir := writePackage(t, map[string]string{"widget.go": widgetSrc})
	if _, err := NewScanner(dir).Scan(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultOutput)); !os.IsNotExist(err) {
		t.Error("Scan should not write the output file")
	}
}
