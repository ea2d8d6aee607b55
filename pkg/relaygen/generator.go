package relaygen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/relayed/internal/errors"
)

// Header is the first line of every generated file.
const Header = "// Code generated by relayed gen. DO NOT EDIT."

// Options configures what the generator emits.
type Options struct {
	// Output is the generated file name inside the scanned directory.
	Output string

	// Prefix is prepended to the accessor name for stream accessors.
	Prefix string

	// Getters enables value getters.
	Getters bool

	// Setters enables setters for fields not tagged readonly.
	Setters bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Output:  DefaultOutput,
		Prefix:  "Tracked",
		Getters: true,
		Setters: true,
	}
}

// Generator renders accessors for a scanned package.
type Generator struct {
	pkg  *Package
	opts Options
}

// NewGenerator creates a generator for pkg.
func NewGenerator(pkg *Package, opts Options) *Generator {
	if opts.Prefix == "" {
		opts.Prefix = DefaultOptions().Prefix
	}
	return &Generator{pkg: pkg, opts: opts}
}

// method is one accessor to emit.
type method struct {
	name string
	kind methodKind
	typ  *Type
	fld  Field
}

type methodKind int

const (
	getter methodKind = iota
	setter
	stream
)

// Generate returns the formatted source of the accessor file.
func (g *Generator) Generate() ([]byte, error) {
	methods, err := g.plan()
	if err != nil {
		return nil, err
	}

	imports, err := g.imports(methods)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "package %s\n", g.pkg.Name)

	if len(imports) > 0 {
		b.WriteString("\nimport (\n")
		for _, imp := range imports {
			if imp.Name != "" {
				fmt.Fprintf(&b, "\t%s %s\n", imp.Name, strconv.Quote(imp.Path))
			} else {
				fmt.Fprintf(&b, "\t%s\n", strconv.Quote(imp.Path))
			}
		}
		b.WriteString(")\n")
	}

	for _, m := range methods {
		b.WriteString("\n")
		g.writeMethod(&b, m)
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, errors.New("R012").Wrap(err)
	}
	return src, nil
}

// plan lists the methods to emit in source order and checks them for
// collisions.
func (g *Generator) plan() ([]method, error) {
	var methods []method
	for _, t := range g.pkg.Types {
		emitted := make(map[string]Field)
		for _, f := range t.Fields {
			candidates := []method{
				{name: f.Accessor, kind: getter},
				{name: "Set" + f.Accessor, kind: setter},
				{name: g.opts.Prefix + f.Accessor, kind: stream},
			}
			for _, m := range candidates {
				switch {
				case m.kind == getter && !g.opts.Getters:
					continue
				case m.kind == setter && (!g.opts.Setters || f.ReadOnly):
					continue
				case t.Methods[m.name]:
					continue
				}

				if prev, ok := emitted[m.name]; ok {
					return nil, errors.New("R014").
						WithDetail(fmt.Sprintf("Fields %s and %s of %s both produce %s", prev.Name, f.Name, t.Name, m.name)).
						WithLocation(f.Pos.Filename, f.Pos.Line, f.Pos.Column).
						WithSuggestion("Rename one of them with a `relayed:\"Name\"` tag")
				}
				if t.exported[m.name] {
					return nil, errors.New("R014").
						WithDetail(fmt.Sprintf("Accessor %s for field %s clashes with field %s.%s", m.name, f.Name, t.Name, m.name)).
						WithLocation(f.Pos.Filename, f.Pos.Line, f.Pos.Column)
				}

				emitted[m.name] = f
				m.typ = t
				m.fld = f
				methods = append(methods, m)
			}
		}
	}
	return methods, nil
}

// imports returns the sorted imports the planned methods need.
func (g *Generator) imports(methods []method) ([]Import, error) {
	byName := make(map[string]Import)
	var out []Import

	add := func(imp Import) error {
		local := imp.Name
		if local == "" {
			local = importName(imp.Path)
		}
		if prev, ok := byName[local]; ok {
			if prev.Path != imp.Path {
				return errors.New("R012").
					WithDetail(fmt.Sprintf("Import name %s refers to both %s and %s", local, prev.Path, imp.Path)).
					WithSuggestion("Import the packages under the same names in every file")
			}
			return nil
		}
		byName[local] = imp
		out = append(out, imp)
		return nil
	}

	for _, m := range methods {
		for _, imp := range m.fld.Imports {
			if err := add(imp); err != nil {
				return nil, err
			}
		}
		if m.kind == stream {
			relay := Import{Path: RelayPath}
			if m.fld.Relay != importName(RelayPath) {
				relay.Name = m.fld.Relay
			}
			if err := add(relay); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (g *Generator) writeMethod(b *strings.Builder, m method) {
	recv := m.typ.Receiver
	recvType := m.typ.ReceiverType()
	field := m.fld.Name
	value := m.fld.ValueType

	switch m.kind {
	case getter:
		fmt.Fprintf(b, "// %s returns the current value of %s.\n", m.name, field)
		fmt.Fprintf(b, "func (%s *%s) %s() %s {\n", recv, recvType, m.name, value)
		fmt.Fprintf(b, "\treturn %s.%s.Get()\n", recv, field)
	case setter:
		fmt.Fprintf(b, "// %s sets %s and notifies its subscribers.\n", m.name, field)
		fmt.Fprintf(b, "func (%s *%s) %s(v %s) {\n", recv, recvType, m.name, value)
		fmt.Fprintf(b, "\t%s.%s.Set(v)\n", recv, field)
	case stream:
		fmt.Fprintf(b, "// %s returns a read-only stream of %s.\n", m.name, field)
		fmt.Fprintf(b, "func (%s *%s) %s() %s.Stream[%s] {\n", recv, recvType, m.name, m.fld.Relay, value)
		fmt.Fprintf(b, "\treturn %s.%s.Stream()\n", recv, field)
	}
	b.WriteString("}\n")
}

// Result describes one generator run.
type Result struct {
	// Path is the written file.
	Path string

	// Package is the scan result.
	Package *Package

	// Unchanged is true when the file already had the generated content
	// and was left alone.
	Unchanged bool
}

// Run scans dir, generates accessors and writes them to opts.Output in dir.
func Run(dir string, opts Options, scanOpts ...ScannerOption) (*Result, error) {
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}
	if filepath.Base(opts.Output) != opts.Output {
		return nil, errors.New("R003").
			WithDetail("Output must be a file name, got " + strconv.Quote(opts.Output))
	}

	scanOpts = append([]ScannerOption{WithOutput(opts.Output)}, scanOpts...)
	pkg, err := NewScanner(dir, scanOpts...).Scan()
	if err != nil {
		return nil, err
	}

	src, err := NewGenerator(pkg, opts).Generate()
	if err != nil {
		return nil, err
	}

	res := &Result{Path: filepath.Join(dir, opts.Output), Package: pkg}
	if existing, err := os.ReadFile(res.Path); err == nil && bytes.Equal(existing, src) {
		res.Unchanged = true
		return res, nil
	}

	if err := os.WriteFile(res.Path, src, 0644); err != nil {
		return nil, errors.New("R013").
			WithDetail("Cannot write " + res.Path).
			Wrap(err)
	}
	return res, nil
}
