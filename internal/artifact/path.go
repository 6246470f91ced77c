// Package artifact resolves output locations for compiled artifacts and writes them to disk.
package artifact

import "strings"

// ContainingDirectory returns the directory portion of a "/"-delimited path by dropping the
// last segment. Trailing empty segments are ignored, so "a/b/" yields "a". A path without a
// separator yields "", meaning the current directory.
//
//   - "a/b/c"   → "a/b"
//   - "/a/b"    → "/a"
//   - "file.js" → ""
//   - ""        → ""
func ContainingDirectory(path string) string {
	parts := strings.Split(path, "/")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) <= 1 {
		return ""
	}
	return strings.Join(parts[:len(parts)-1], "/")
}
