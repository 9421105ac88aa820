package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotatingFile is an io.WriteCloser that rotates path to path.1 .. path.N
// once it reaches its size limit.
type RotatingFile struct {
	mu          sync.Mutex
	path        string
	maxBytes    int64
	maxFiles    int
	file        *os.File
	currentSize int64
}

// NewRotatingFile opens path for appending, creating its directory.
// maxSizeMB <= 0 disables rotation.
func NewRotatingFile(path string, maxSizeMB, maxFiles int) (*RotatingFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	r := &RotatingFile{
		path:     path,
		maxBytes: int64(maxSizeMB) * 1024 * 1024,
		maxFiles: maxFiles,
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RotatingFile) open() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", r.path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	r.file = f
	r.currentSize = stat.Size()
	return nil
}

// Write appends p, rotating first when the file is full. A record is never
// split across files.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxBytes > 0 && r.currentSize > 0 && r.currentSize+int64(len(p)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}
	if r.file == nil {
		return 0, os.ErrClosed
	}

	n, err := r.file.Write(p)
	r.currentSize += int64(n)
	return n, err
}

// Close closes the current file.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate shifts path.(N-1) -> path.N ... path -> path.1 and reopens path.
// With maxFiles=3 the rotated set is .1, .2, .3.
func (r *RotatingFile) rotate() error {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}

	if r.maxFiles <= 0 {
		os.Remove(r.path)
		return r.open()
	}

	for i := r.maxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", r.path, i)
		if i == r.maxFiles {
			os.Remove(oldPath)
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", r.path, i+1))
	}

	if err := os.Rename(r.path, r.path+".1"); err != nil && !os.IsNotExist(err) {
		// Keep writing to the same file rather than losing records.
		if openErr := r.open(); openErr != nil {
			return openErr
		}
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return r.open()
}
