package merge

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// excluder hides files from detection and merging by name.
// Patterns use doublestar syntax and are matched against the bare file
// name, so "*.tmp" and "Thumbs.db" behave as expected in any directory.
type excluder struct {
	patterns []string
}

func newExcluder(patterns []string) (*excluder, error) {
	x := &excluder{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
		x.patterns = append(x.patterns, p)
	}
	return x, nil
}

// excluded reports whether a file name matches any pattern
func (x *excluder) excluded(name string) bool {
	for _, p := range x.patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
