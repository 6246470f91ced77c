package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ValidJS compiles cleanly and exports a global.
const ValidJS = `
// greeting helper
function greet(name) {
    var prefix = "Hello, ";
    return prefix + name + "!";
}
window.greeting = greet("world");
`

// InvalidJS has a syntax error on its second line.
const InvalidJS = `
function broken( {
    return 1;
}
`

// WriteSourceTree writes files (slash-separated relative names to content) under a new temp
// directory and returns the directory.
func WriteSourceTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	return root
}

// StandardSourceTree holds js/valid.js and js/invalid.js.
func StandardSourceTree(t *testing.T) string {
	t.Helper()
	return WriteSourceTree(t, map[string]string{
		"js/valid.js":   ValidJS,
		"js/invalid.js": InvalidJS,
	})
}
