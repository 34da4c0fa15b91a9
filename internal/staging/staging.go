// Package staging writes inbound documents to uniquely named scratch files
// and removes them again.
package staging

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

const filePattern = "docparse-*"

// File is a staged document on local disk. It belongs to exactly one request.
type File struct {
	Path string
	Ext  string
	Size int64
}

// Stager creates and releases staged files under a single directory.
type Stager struct {
	dir    string
	logger *zap.Logger
}

// New creates a Stager. An empty dir stages into os.TempDir().
func New(dir string, logger *zap.Logger) *Stager {
	return &Stager{dir: dir, logger: logger.Named("staging")}
}

// Dir returns the directory staged files are created in.
func (s *Stager) Dir() string {
	if s.dir == "" {
		return os.TempDir()
	}
	return s.dir
}

// Stage streams r into a new uniquely named file ending in suffix.
// On error nothing is left on disk.
func (s *Stager) Stage(r io.Reader, suffix string) (*File, error) {
	f, err := os.CreateTemp(s.dir, filePattern+suffix)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("writing temp file: %w", err)
	}

	s.logger.Debug("staged document", zap.String("path", path), zap.Int64("bytes", n))
	return &File{Path: path, Ext: suffix, Size: n}, nil
}

// StageBytes stages an in-memory document.
func (s *Stager) StageBytes(content []byte, suffix string) (*File, error) {
	return s.Stage(bytes.NewReader(content), suffix)
}

// Release deletes a staged file. It is safe to call on a nil handle, more than
// once, or after the file was removed by someone else.
func (s *Stager) Release(f *File) error {
	if f == nil || f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		s.logger.Warn("failed to release staged file", zap.String("path", f.Path), zap.Error(err))
		return fmt.Errorf("removing staged file: %w", err)
	}
	return nil
}

// MeasuredSize stats the staged file on disk. The HTTP path uses it to re-check
// the size limit against what was actually written.
func (s *Stager) MeasuredSize(f *File) (int64, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return 0, fmt.Errorf("stat staged file: %w", err)
	}
	return info.Size(), nil
}
