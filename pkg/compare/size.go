package compare

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/sdejongh/phodime/pkg/storage"
)

// SizeComparator compares files by size only
type SizeComparator struct{}

// NewSizeComparator creates a new size comparator
func NewSizeComparator() *SizeComparator {
	return &SizeComparator{}
}

// Compare compares two files by size
func (c *SizeComparator) Compare(ctx context.Context, backend storage.Backend, sourcePath, destPath string) (*Comparison, error) {
	sourceInfo, err := backend.Stat(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source file: %w", err)
	}

	destInfo, err := backend.Stat(ctx, destPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newComparison(sourcePath, destPath, Missing, "destination does not exist"), nil
		}
		return nil, fmt.Errorf("failed to stat destination file: %w", err)
	}

	if sourceInfo.Size != destInfo.Size {
		return newComparison(sourcePath, destPath, Different,
			fmt.Sprintf("file sizes differ (%d != %d)", sourceInfo.Size, destInfo.Size)), nil
	}

	return newComparison(sourcePath, destPath, Same, "sizes match"), nil
}

// Name returns the comparator name
func (c *SizeComparator) Name() string {
	return "size"
}
