package compare

import (
	"context"
	"strings"

	"github.com/sdejongh/phodime/pkg/storage"
)

// CompositeComparator runs several comparators in order and stops at the
// first one that does not report Same
type CompositeComparator struct {
	stages []Comparator
}

// NewCompositeComparator chains stages, cheapest first
func NewCompositeComparator(stages ...Comparator) *CompositeComparator {
	return &CompositeComparator{stages: stages}
}

// NewVerifier returns the comparator used to check a fresh copy: a size
// check, followed by a SHA-256 content check when useHash is set
func NewVerifier(useHash bool) *CompositeComparator {
	if useHash {
		return NewCompositeComparator(NewSizeComparator(), NewHashComparator(0))
	}
	return NewCompositeComparator(NewSizeComparator())
}

// Compare performs the staged comparison
func (c *CompositeComparator) Compare(ctx context.Context, backend storage.Backend, sourcePath, destPath string) (*Comparison, error) {
	last := newComparison(sourcePath, destPath, Same, "nothing to compare")
	for _, stage := range c.stages {
		cmp, err := stage.Compare(ctx, backend, sourcePath, destPath)
		if err != nil {
			return nil, err
		}
		if !cmp.Matches() {
			return cmp, nil
		}
		last = cmp
	}
	return last, nil
}

// Name returns the comparator name
func (c *CompositeComparator) Name() string {
	names := make([]string, len(c.stages))
	for i, stage := range c.stages {
		names[i] = stage.Name()
	}
	return strings.Join(names, "+")
}
