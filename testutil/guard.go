// Package testutil holds test helpers that keep package dependency
// boundaries in place across the ledger.
package testutil

import (
	"go/build"
	"sort"
	"strings"
	"testing"
)

// ModulePrefix is the import path prefix of every package in this module.
const ModulePrefix = "donorledger/"

// Imports returns the imports of the non-test files in dir, sorted.
func Imports(dir string) ([]string, error) {
	pkg, err := build.Default.ImportDir(dir, 0)
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), pkg.Imports...)
	sort.Strings(out)
	return out, nil
}

// LocalImports returns the module-local imports of the non-test files in dir.
func LocalImports(dir string) ([]string, error) {
	imports, err := Imports(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, imp := range imports {
		if strings.HasPrefix(imp, ModulePrefix) {
			out = append(out, imp)
		}
	}
	return out, nil
}

// AssertLocalImports fails t when a non-test file in dir imports a module
// package outside allowed.
func AssertLocalImports(t testing.TB, dir string, allowed ...string) {
	t.Helper()
	imports, err := LocalImports(dir)
	if err != nil {
		t.Fatalf("import dir %s: %v", dir, err)
		return
	}
	permitted := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		permitted[a] = struct{}{}
	}
	for _, imp := range imports {
		if _, ok := permitted[imp]; !ok {
			t.Errorf("unexpected dependency: %s", imp)
		}
	}
}

// AssertStdlibOnly fails t when a non-test file in dir imports anything
// outside the standard library.
func AssertStdlibOnly(t testing.TB, dir string) {
	t.Helper()
	imports, err := Imports(dir)
	if err != nil {
		t.Fatalf("import dir %s: %v", dir, err)
		return
	}
	for _, imp := range NonStdlib(imports) {
		t.Errorf("unexpected dependency: %s", imp)
	}
}

// NonStdlib returns the entries of imports that do not belong to the
// standard library.
func NonStdlib(imports []string) []string {
	var foreign []string
	for _, imp := range imports {
		first, _, _ := strings.Cut(imp, "/")
		if strings.Contains(first, ".") || strings.HasPrefix(imp, ModulePrefix) {
			foreign = append(foreign, imp)
		}
	}
	return foreign
}
