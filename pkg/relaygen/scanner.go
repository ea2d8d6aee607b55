package relaygen

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/scanner"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vango-dev/relayed/internal/errors"
)

// tagKey is the struct tag key read by the scanner.
const tagKey = "relayed"

// Scanner finds cell fields in one package directory.
type Scanner struct {
	dir    string
	output string
	logger *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithOutput names the generated file so the scanner ignores it.
// Defaults to DefaultOutput.
func WithOutput(name string) ScannerOption {
	return func(s *Scanner) {
		s.output = name
	}
}

// WithLogger sets the logger for skipped fields. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a scanner for dir.
func NewScanner(dir string, opts ...ScannerOption) *Scanner {
	s := &Scanner{dir: dir, output: DefaultOutput}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Scan parses every non-test Go file in the directory, in file name order,
// and returns the struct types that hold cell fields.
func (s *Scanner) Scan() (*Package, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.New("R016").
			WithDetail("Cannot read " + s.dir).
			Wrap(err)
	}

	pkg := &Package{Dir: s.dir}
	fset := token.NewFileSet()
	types := make(map[string]*Type)
	methods := make(map[string]map[string]bool)
	receivers := make(map[string]string)

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		// The previous output is regenerated, not scanned.
		if name == s.output {
			continue
		}

		path := filepath.Join(s.dir, name)
		f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, parseError(path, err)
		}

		if pkg.Name == "" {
			pkg.Name = f.Name.Name
		} else if f.Name.Name != pkg.Name {
			return nil, errors.New("R011").
				WithDetail("Found packages " + pkg.Name + " and " + f.Name.Name + " in " + s.dir)
		}

		imports := fileImports(f)
		relayName := relayImportName(f)
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					st, ok := ts.Type.(*ast.StructType)
					if !ok {
						continue
					}
					t, err := s.scanStruct(fset, ts, st, imports, relayName)
					if err != nil {
						return nil, err
					}
					if t != nil {
						types[t.Name] = t
						pkg.Types = append(pkg.Types, t)
					}
				}
			case *ast.FuncDecl:
				typeName, recv := receiverOf(d)
				if typeName == "" {
					continue
				}
				if methods[typeName] == nil {
					methods[typeName] = make(map[string]bool)
				}
				methods[typeName][d.Name.Name] = true
				if _, seen := receivers[typeName]; !seen && recv != "" && recv != "_" {
					receivers[typeName] = recv
				}
			}
		}
	}

	if pkg.Name == "" {
		return nil, errors.New("R016").
			WithDetail("No Go files in " + s.dir)
	}

	for name, t := range types {
		t.Methods = methods[name]
		if t.Methods == nil {
			t.Methods = make(map[string]bool)
		}
		if recv, ok := receivers[name]; ok {
			t.Receiver = recv
		}
	}

	if len(pkg.Types) == 0 {
		return nil, errors.New("R010").
			WithDetail("Package " + pkg.Name + " in " + s.dir + " has no unexported struct fields of type relay.Cell[T] or *relay.Cell[T].").
			WithSuggestion("Add a field such as `title *relay.Cell[string]` or remove the go:generate line")
	}

	return pkg, nil
}

// scanStruct returns the cell fields of one struct type, or nil if it has
// none.
func (s *Scanner) scanStruct(fset *token.FileSet, ts *ast.TypeSpec, st *ast.StructType, imports map[string]Import, relayName string) (*Type, error) {
	t := &Type{
		Name:     ts.Name.Name,
		Receiver: defaultReceiver(ts.Name.Name),
		exported: make(map[string]bool),
	}
	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			for _, n := range field.Names {
				t.TypeParams = append(t.TypeParams, n.Name)
			}
		}
	}

	for _, field := range st.Fields.List {
		for _, n := range field.Names {
			if n.IsExported() {
				t.exported[n.Name] = true
			}
		}

		if relayName == "" || len(field.Names) == 0 {
			continue
		}
		valueExpr := cellTypeArg(field.Type, relayName)
		if valueExpr == nil {
			continue
		}

		accessor, readOnly, skip := parseTag(field.Tag)
		for _, n := range field.Names {
			pos := fset.Position(n.Pos())
			if skip {
				s.logger.Debug("skipping tagged field", "type", t.Name, "field", n.Name)
				continue
			}
			if n.IsExported() || n.Name == "_" {
				s.logger.Debug("skipping field", "type", t.Name, "field", n.Name, "reason", "not an unexported field")
				continue
			}

			name := accessor
			if name == "" {
				name = exportName(n.Name)
			}
			if !token.IsIdentifier(name) || !token.IsExported(name) {
				return nil, errors.New("R015").
					WithDetail("Accessor name " + strconv.Quote(name) + " for field " + n.Name + " is not an exported identifier").
					WithLocation(pos.Filename, pos.Line, pos.Column)
			}

			valueType, err := exprString(fset, valueExpr)
			if err != nil {
				return nil, errors.New("R012").
					WithLocation(pos.Filename, pos.Line, pos.Column).
					Wrap(err)
			}

			t.Fields = append(t.Fields, Field{
				Name:      n.Name,
				Accessor:  name,
				ValueType: valueType,
				ReadOnly:  readOnly,
				Relay:     relayName,
				Imports:   referencedImports(valueExpr, imports),
				Pos:       pos,
			})
		}
	}

	if len(t.Fields) == 0 {
		return nil, nil
	}
	return t, nil
}

// cellTypeArg returns T for an expression of the form relay.Cell[T] or
// *relay.Cell[T], and nil otherwise.
func cellTypeArg(expr ast.Expr, relayName string) ast.Expr {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	idx, ok := expr.(*ast.IndexExpr)
	if !ok {
		return nil
	}
	sel, ok := idx.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Cell" {
		return nil
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != relayName {
		return nil
	}
	return idx.Index
}

// parseTag reads the relayed tag: `relayed:"Name,readonly"` or `relayed:"-"`.
func parseTag(lit *ast.BasicLit) (name string, readOnly, skip bool) {
	if lit == nil {
		return "", false, false
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false, false
	}
	value, ok := reflect.StructTag(raw).Lookup(tagKey)
	if !ok {
		return "", false, false
	}
	if value == "-" {
		return "", false, true
	}
	parts := strings.Split(value, ",")
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "readonly" {
			readOnly = true
		}
	}
	return strings.TrimSpace(parts[0]), readOnly, false
}

// fileImports maps each usable local import name to its spec.
func fileImports(f *ast.File) map[string]Import {
	imports := make(map[string]Import)
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := Import{Path: path}
		local := importName(path)
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			imp.Name = spec.Name.Name
			local = spec.Name.Name
		}
		imports[local] = imp
	}
	return imports
}

// relayImportName returns the name the file imports the cell package
// under, or "" if it does not import it.
func relayImportName(f *ast.File) string {
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil || path != RelayPath {
			continue
		}
		if spec.Name == nil {
			return "relay"
		}
		if spec.Name.Name != "_" && spec.Name.Name != "." {
			return spec.Name.Name
		}
	}
	return ""
}

// referencedImports returns the imports a type expression qualifies
// identifiers with.
func referencedImports(expr ast.Expr, imports map[string]Import) []Import {
	var out []Import
	seen := make(map[string]bool)
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok {
			if imp, ok := imports[id.Name]; ok && !seen[id.Name] {
				seen[id.Name] = true
				out = append(out, imp)
			}
		}
		return true
	})
	return out
}

// receiverOf returns the base type name and receiver name of a method.
func receiverOf(fn *ast.FuncDecl) (typeName, recv string) {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return "", ""
	}
	field := fn.Recv.List[0]
	if len(field.Names) > 0 {
		recv = field.Names[0].Name
	}

	expr := field.Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name, recv
	}
	return "", ""
}

// importName guesses the package name of an unaliased import from its
// path: the last element, without a major version suffix.
func importName(path string) string {
	elems := strings.Split(path, "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 && isDigits(name[i+2:]) {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.ReplaceAll(name, "-", "")
}

func isMajorVersion(s string) bool {
	return len(s) > 1 && s[0] == 'v' && isDigits(s[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// exportName capitalizes the first rune of a field name.
func exportName(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	return string(unicode.ToUpper(r)) + field[size:]
}

// defaultReceiver is the lowercased first rune of the type name.
func defaultReceiver(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	return string(unicode.ToLower(r))
}

func exprString(fset *token.FileSet, expr ast.Expr) (string, error) {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// parseError converts a parser error into an R011 located at its first
// syntax error.
func parseError(path string, err error) error {
	e := errors.New("R011").WithDetail("Failed to parse " + path).Wrap(err)
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		pos := list[0].Pos
		return e.WithLocation(pos.Filename, pos.Line, pos.Column)
	}
	return e
}
