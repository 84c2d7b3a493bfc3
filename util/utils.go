package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves an output path template: the "$version" placeholder is
// replaced with the given version string and a leading "~" is expanded to the
// user's home directory.
func ExpandPath(template, version string) string {
	path := strings.ReplaceAll(template, "$version", version)
	if path == "~" || strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}

func StringPtr(s string) *string {
	return &s
}

func IntPtr(i int) *int {
	return &i
}
