package util

import (
	"path/filepath"
	"strings"
)

// IsValidUploadName reports whether name is a bare Parquet file name, with
// no path components that could escape the data directory.
func IsValidUploadName(name string) bool {
	if name == "" {
		return false
	}
	if filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return false
	}
	if name == "." || name == ".." {
		return false
	}
	return strings.HasSuffix(strings.ToLower(name), ".parquet")
}

func IsValidOrderDir(dir string) bool {
	return dir == "" || dir == "asc" || dir == "desc"
}
