package compare

import (
	"context"

	"github.com/sdejongh/phodime/pkg/storage"
)

// Result represents the outcome of comparing a source file with its copy
type Result string

const (
	// Same indicates the copy matches its source
	Same Result = "same"
	// Different indicates the copy does not match its source
	Different Result = "different"
	// Missing indicates the copy is absent
	Missing Result = "missing"
)

// Comparison holds the result of comparing two files
type Comparison struct {
	SourcePath string
	DestPath   string
	Result     Result
	Reason     string
}

// Matches reports whether the comparison found the copy identical
func (c *Comparison) Matches() bool {
	return c != nil && c.Result == Same
}

// Comparator checks a destination file against the source it was copied from.
// Renamed copies are expected, so file names never take part in the comparison.
type Comparator interface {
	// Compare compares sourcePath with destPath on the same backend.
	// The error is reserved for failures to read either file.
	Compare(ctx context.Context, backend storage.Backend, sourcePath, destPath string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}

func newComparison(sourcePath, destPath string, result Result, reason string) *Comparison {
	return &Comparison{SourcePath: sourcePath, DestPath: destPath, Result: result, Reason: reason}
}
