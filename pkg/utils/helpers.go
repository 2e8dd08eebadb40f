package utils

import (
	"path"
	"strings"
)

// HasExtension reports whether name ends with ext. Matching is case sensitive,
// the same way a plain suffix check on "x.csv" would be.
func HasExtension(name, ext string) bool {
	ext = NormalizeExtension(ext)
	if ext == "" {
		return false
	}
	return strings.HasSuffix(name, ext)
}

// JoinPath joins a directory location (local path or URL) with child segments
func JoinPath(base string, elems ...string) string {
	if !strings.Contains(base, "://") {
		return path.Join(append([]string{base}, elems...)...)
	}
	joined := strings.TrimRight(base, "/")
	for _, e := range elems {
		joined += "/" + strings.Trim(e, "/")
	}
	return joined
}

// IsSameLocation compares two locations ignoring trailing slashes. Plain paths
// and file://localhost URLs are treated as file:/// URLs.
func IsSameLocation(a, b string) bool {
	return canonicalLocation(a) == canonicalLocation(b)
}

func canonicalLocation(location string) string {
	location = strings.TrimRight(location, "/")
	if !strings.Contains(location, "://") {
		location = "file://" + location
	}
	return strings.Replace(location, "file://localhost/", "file:///", 1)
}
