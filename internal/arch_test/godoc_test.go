package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestExportedSymbolsHaveGoDoc(t *testing.T) {
	t.Parallel()

	root := internalDir(t)
	for _, pkg := range packages(t) {
		fset := token.NewFileSet()
		for _, path := range sourceFiles(t, filepath.Join(root, pkg), false) {
			f := parseFile(t, fset, path)
			if f == nil {
				continue
			}
			for _, name := range undocumented(f) {
				t.Errorf("%s/%s: exported %s has no doc comment", pkg, filepath.Base(path), name)
			}
		}
	}
}

// undocumented returns the exported names in f whose doc comment is missing
// or does not start with the name. Members of a grouped const or var block
// may rely on the block comment or a trailing line comment instead.
func undocumented(f *ast.File) []string {
	var missing []string
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if !d.Name.IsExported() || (d.Recv != nil && !exportedReceiver(d.Recv.List[0].Type)) {
				continue
			}
			if !startsWith(d.Doc, d.Name.Name) {
				missing = append(missing, d.Name.Name)
			}
		case *ast.GenDecl:
			grouped := len(d.Specs) > 1
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					if s.Name.IsExported() && !startsWith(firstDoc(s.Doc, d.Doc), s.Name.Name) {
						missing = append(missing, s.Name.Name)
					}
				case *ast.ValueSpec:
					for _, n := range s.Names {
						if !n.IsExported() {
							continue
						}
						if grouped && (startsWith(s.Doc, n.Name) || hasText(d.Doc) || hasText(s.Comment)) {
							continue
						}
						if !grouped && startsWith(firstDoc(s.Doc, d.Doc), n.Name) {
							continue
						}
						missing = append(missing, n.Name)
					}
				}
			}
		}
	}
	return missing
}

func firstDoc(groups ...*ast.CommentGroup) *ast.CommentGroup {
	for _, g := range groups {
		if g != nil {
			return g
		}
	}
	return nil
}

func hasText(g *ast.CommentGroup) bool {
	return g != nil && strings.TrimSpace(g.Text()) != ""
}

func startsWith(g *ast.CommentGroup, name string) bool {
	return g != nil && strings.HasPrefix(strings.TrimSpace(g.Text()), name)
}

// exportedReceiver reports whether a receiver's base type is exported,
// looking through pointers and type parameters.
func exportedReceiver(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.IsExported()
	case *ast.StarExpr:
		return exportedReceiver(e.X)
	case *ast.IndexExpr:
		return exportedReceiver(e.X)
	case *ast.IndexListExpr:
		return exportedReceiver(e.X)
	}
	return false
}

func TestUndocumented(t *testing.T) {
	t.Parallel()

	src := `package p

// Good is documented.
type Good struct{}

type Bare struct{}

// Run runs.
func (Good) Run() {}

func (Good) Stop() {}

type hidden struct{}

func (hidden) Exported() {}

// Modes of operation.
const (
	ModeA = "a"
	ModeB = "b"
)

var (
	First  = 1 // first
	Second = 2
)

// Wrong name leads this comment.
func Helper() {}
`
	f, err := parser.ParseFile(token.NewFileSet(), "p.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	got := undocumented(f)
	want := []string{"Bare", "Stop", "Second", "Helper"}
	if !slices.Equal(got, want) {
		t.Errorf("undocumented = %v, want %v", got, want)
	}
}
