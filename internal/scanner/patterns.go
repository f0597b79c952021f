package scanner

import (
	"path/filepath"
	"strings"
)

const sep = string(filepath.Separator)

// matchDirPattern reports whether relPath, or one of its parent
// directories, matches pattern.
func matchDirPattern(relPath, pattern string) bool {
	// **/name/** matches any path component
	if strings.HasPrefix(pattern, "**/") {
		name := strings.TrimSuffix(strings.TrimPrefix(pattern, "**/"), "/**")
		for _, part := range strings.Split(relPath, sep) {
			if part == name {
				return true
			}
		}
		return false
	}

	// dir/** matches the directory itself and everything below it
	prefix := strings.TrimSuffix(pattern, "/**")
	return relPath == prefix || strings.HasPrefix(relPath, prefix+sep)
}

// matchFilePattern reports whether a file matches pattern by base name or
// by its path relative to the root.
func matchFilePattern(baseName, relPath, pattern string) bool {
	// **/*.ext matches the extension at any depth
	if strings.HasPrefix(pattern, "**/") {
		suffix := strings.TrimPrefix(pattern, "**/")
		if strings.HasPrefix(suffix, "*.") {
			return strings.HasSuffix(baseName, strings.TrimPrefix(suffix, "*"))
		}
		return matchDirPattern(relPath, pattern)
	}

	if strings.HasSuffix(pattern, "/**") {
		return strings.HasPrefix(relPath, strings.TrimSuffix(pattern, "/**")+sep)
	}

	// dir/glob matches files directly inside dir
	if strings.Contains(pattern, sep) {
		if filepath.Dir(relPath) != filepath.Dir(pattern) {
			return false
		}
		matched, err := filepath.Match(filepath.Base(pattern), baseName)
		return err == nil && matched
	}

	matched, err := filepath.Match(pattern, baseName)
	return err == nil && matched
}
