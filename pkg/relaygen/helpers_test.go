package relaygen

import (
	"os"
	"path/filepath"
	"testing"
)

// writePackage writes files into a fresh directory and returns it.
func writePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func scan(t *testing.T, files map[string]string) *Package {
	t.Helper()
	pkg, err := NewScanner(writePackage(t, files)).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return pkg
}

func generate(t *testing.T, opts Options, files map[string]string) string {
	t.Helper()
	src, err := NewGenerator(scan(t, files), opts).Generate()
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	return string(src)
}
