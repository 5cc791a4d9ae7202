package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sdejongh/phodime/pkg/ratelimit"
	"github.com/spf13/afero"
)

// Local is a filesystem-based storage backend on top of afero.
// Production code uses the OS filesystem; tests can hand in a memory one.
type Local struct {
	fs      afero.Fs
	limiter *ratelimit.Limiter
}

// NewLocal creates a backend on the operating system's filesystem
func NewLocal() *Local {
	return NewFS(afero.NewOsFs())
}

// NewFS creates a backend on an arbitrary afero filesystem
func NewFS(fsys afero.Fs) *Local {
	return &Local{fs: fsys}
}

// SetBandwidthLimit throttles copies to bytesPerSecond in total.
// Zero or a negative value removes the limit.
func (l *Local) SetBandwidthLimit(bytesPerSecond int64) {
	l.limiter = ratelimit.NewLimiter(bytesPerSecond)
}

// Fs exposes the underlying filesystem
func (l *Local) Fs() afero.Fs {
	return l.fs
}

// ListFiles returns the regular files directly inside dir
func (l *Local) ListFiles(ctx context.Context, dir string) ([]FileInfo, error) {
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, info := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, toFileInfo(filepath.Join(dir, info.Name()), info))
	}

	return files, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	fi := toFileInfo(path, info)
	return &fi, nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := afero.Exists(l.fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return ok, nil
}

// IsEmpty reports whether a directory has no entries
func (l *Local) IsEmpty(ctx context.Context, dir string) (bool, error) {
	empty, err := afero.IsEmpty(l.fs, dir)
	if err != nil {
		return false, fmt.Errorf("failed to inspect directory: %w", err)
	}
	return empty, nil
}

// MkdirAll creates a directory and all necessary parents
func (l *Local) MkdirAll(ctx context.Context, path string) error {
	if err := l.fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Copy copies src to dst, preserving the source modification time and permissions
func (l *Local) Copy(ctx context.Context, src, dst string, overwrite bool) (int64, error) {
	in, err := l.fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat source file: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	out, err := l.fs.OpenFile(dst, flags, info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file: %w", err)
	}

	r := ratelimit.NewReader(ctx, &ctxReader{ctx: ctx, r: in}, l.limiter)
	written, err := io.Copy(out, r)
	if err != nil {
		out.Close()
		return written, fmt.Errorf("failed to write file: %w", err)
	}

	// Close before Chtimes: closing a written file may reset its mtime
	if err := out.Close(); err != nil {
		return written, fmt.Errorf("failed to close destination file: %w", err)
	}

	if err := l.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return written, fmt.Errorf("failed to set modification time: %w", err)
	}

	return written, nil
}

// Equivalent reports whether a and b exist and name the same directory entry
func (l *Local) Equivalent(ctx context.Context, a, b string) (bool, error) {
	ai, err := l.fs.Stat(a)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", a, err)
	}
	bi, err := l.fs.Stat(b)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", b, err)
	}

	if os.SameFile(ai, bi) {
		return true, nil
	}

	// In-memory filesystems carry no device/inode identity
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b), nil
	}
	return absA == absB, nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func toFileInfo(path string, info fs.FileInfo) FileInfo {
	return FileInfo{
		Path:        path,
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		Permissions: uint32(info.Mode().Perm()),
	}
}

// ctxReader stops a copy once its context is cancelled
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
