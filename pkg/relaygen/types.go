package relaygen

import "go/token"

// RelayPath is the import path of the cell package.
const RelayPath = "github.com/vango-dev/relayed/pkg/relay"

// DefaultOutput is the file the generator writes when none is configured.
const DefaultOutput = "relayed_gen.go"

// Package is the scan result for one package directory.
type Package struct {
	// Name is the Go package name.
	Name string

	// Dir is the scanned directory.
	Dir string

	// Types holds every struct type with at least one cell field, in
	// source order.
	Types []*Type
}

// Accessors returns the number of cell fields across all types.
func (p *Package) Accessors() int {
	n := 0
	for _, t := range p.Types {
		n += len(t.Fields)
	}
	return n
}

// Type is a struct type that holds cell fields.
type Type struct {
	// Name is the type name.
	Name string

	// TypeParams are the names of the type's type parameters, if generic.
	TypeParams []string

	// Receiver is the receiver name used by generated methods. It follows
	// the type's existing methods when there are any.
	Receiver string

	// Fields are the type's cell fields in source order.
	Fields []Field

	// Methods is the set of methods the type already declares.
	Methods map[string]bool

	// exported holds the type's exported field names.
	exported map[string]bool
}

// ReceiverType returns the receiver type expression, e.g. "Box[T]".
func (t *Type) ReceiverType() string {
	if len(t.TypeParams) == 0 {
		return t.Name
	}
	s := t.Name + "["
	for i, p := range t.TypeParams {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s + "]"
}

// Field is one cell field and the accessor name derived for it.
type Field struct {
	// Name is the field name.
	Name string

	// Accessor is the exported base name of the generated methods.
	Accessor string

	// ValueType is the cell's type argument as Go source.
	ValueType string

	// ReadOnly suppresses the setter.
	ReadOnly bool

	// Relay is the name the declaring file imports the cell package under.
	Relay string

	// Imports are the imports ValueType refers to.
	Imports []Import

	// Pos is the field's position in its source file.
	Pos token.Position
}

// Import is an import spec needed by generated code.
type Import struct {
	// Name is the explicit import name, empty when the file used none.
	Name string

	// Path is the import path.
	Path string
}
