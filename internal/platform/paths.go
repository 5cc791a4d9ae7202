package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath normalizes a path for the current platform
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// BaseName derives the name an input directory contributes to output file
// names: its last path segment, ignoring trailing separators. Relative
// references such as "." or ".." are resolved against the working directory.
func BaseName(dir string) string {
	base := filepath.Base(NormalizePath(dir))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		if abs, err := filepath.Abs(dir); err == nil {
			base = filepath.Base(abs)
		}
	}
	return base
}

// SplitName splits a file name into stem and extension.
// A leading dot does not start an extension, so ".hidden" has no extension.
func SplitName(name string) (stem, ext string) {
	if name == "." || name == ".." {
		return name, ""
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// CopyCommand returns a shell command line copying src to dst, suggested to
// the operator when a file is left for manual handling
func CopyCommand(src, dst string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("copy %q %q", src, dst)
	}
	return fmt.Sprintf("cp %q %q", src, dst)
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	if runtime.GOOS == "windows" {
		invalidChars := []string{"<", ">", "\"", "|", "?", "*"}
		for _, char := range invalidChars {
			if strings.Contains(path, char) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
