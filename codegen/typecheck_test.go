package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// typeCheck writes src as a package below testdata and type-checks it with
// the querybuilder package of this module.
func typeCheck(t *testing.T, src []byte) {
	t.Helper()

	if err := os.MkdirAll("testdata", 0o755); err != nil {
		t.Fatalf("failed to create testdata: %v", err)
	}
	dir, err := os.MkdirTemp("testdata", "typecheck-")
	if err != nil {
		t.Fatalf("failed to create package dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	if err := os.WriteFile(filepath.Join(dir, DefaultFilename), src, 0o644); err != nil {
		t.Fatalf("failed to write generated file: %v", err)
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
	}, "./"+filepath.ToSlash(dir))
	if err != nil {
		t.Fatalf("failed to load generated package: %v", err)
	}

	var errs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e.Error())
		}
	})
	if len(errs) > 0 {
		t.Fatalf("generated code does not type-check:\n%s\n\n%s", strings.Join(errs, "\n"), src)
	}
}
