package compare

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/phodime/pkg/storage"
)

// Partial hashing configuration
const (
	// Minimum file size to enable partial hashing (1MB)
	partialHashThreshold = 1 * 1024 * 1024
	// Size of partial hash to compute (256KB)
	partialHashSize = 256 * 1024
	// Default read buffer size
	defaultBufferSize = 64 * 1024
)

// HashComparator compares file contents using SHA-256
type HashComparator struct {
	bufferPool        *sync.Pool
	enablePartialHash bool
}

// NewHashComparator creates a new hash-based comparator.
// A bufferSize below 4KB selects the default.
func NewHashComparator(bufferSize int) *HashComparator {
	if bufferSize < 4096 {
		bufferSize = defaultBufferSize
	}
	return &HashComparator{
		enablePartialHash: true,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetPartialHashEnabled enables or disables the quick first-block check
func (c *HashComparator) SetPartialHashEnabled(enabled bool) {
	c.enablePartialHash = enabled
}

// Compare compares two files by content
func (c *HashComparator) Compare(ctx context.Context, backend storage.Backend, sourcePath, destPath string) (*Comparison, error) {
	sourceInfo, err := backend.Stat(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source file: %w", err)
	}

	// Large files are rejected early when their first block differs
	if c.enablePartialHash && sourceInfo.Size >= partialHashThreshold {
		src, err := c.hashFile(ctx, backend, sourcePath, partialHashSize)
		if err != nil {
			return nil, err
		}
		dst, err := c.hashFile(ctx, backend, destPath, partialHashSize)
		if err != nil {
			return nil, err
		}
		if src != dst {
			return newComparison(sourcePath, destPath, Different, "file partial hashes differ"), nil
		}
	}

	src, err := c.hashFile(ctx, backend, sourcePath, -1)
	if err != nil {
		return nil, err
	}
	dst, err := c.hashFile(ctx, backend, destPath, -1)
	if err != nil {
		return nil, err
	}
	if src != dst {
		return newComparison(sourcePath, destPath, Different, "file hashes differ"), nil
	}

	return newComparison(sourcePath, destPath, Same, "file hashes match"), nil
}

// Sum returns the hex SHA-256 of the file at path
func (c *HashComparator) Sum(ctx context.Context, backend storage.Backend, path string) (string, error) {
	return c.hashFile(ctx, backend, path, -1)
}

// hashFile hashes the first limit bytes of path, or all of it when limit is negative
func (c *HashComparator) hashFile(ctx context.Context, backend storage.Backend, path string, limit int64) (string, error) {
	reader, err := backend.Open(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer reader.Close()

	var r io.Reader = reader
	if limit >= 0 {
		r = io.LimitReader(reader, limit)
	}

	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	hasher := sha256.New()
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := r.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return "hash"
}
