package importer

import (
	"fmt"
	"io"
	"os"
)

// stagedFileMode is applied before the export is handed to the loader.
// The Prometheus container runs under a different uid/gid than the
// importer, so the compose cp would otherwise fail with a permission
// error on the source file.
const stagedFileMode = 0o644

// StagedExport is a uniquely named temporary file holding one
// category's dump for the duration of its export and load.
//
// Exactly one StagedExport exists per category per run, and the backing
// file never outlives the load step that consumes it: callers must
// defer Remove immediately after creation so removal fires on every
// exit path, success or failure.
type StagedExport struct {
	file   *os.File
	closed bool
}

// NewStagedExport creates the temporary file for one category.
func NewStagedExport(category string) (*StagedExport, error) {
	f, err := os.CreateTemp("", "below-import-"+category+"-*.txt")
	if err != nil {
		return nil, fmt.Errorf("creating staging file for %s: %w", category, err)
	}
	return &StagedExport{file: f}, nil
}

// Path returns the location of the backing file on disk.
func (s *StagedExport) Path() string {
	return s.file.Name()
}

// Writer returns the sink the exporter writes into.
func (s *StagedExport) Writer() io.Writer {
	return s.file
}

// Seal finishes the write side: the file handle is closed and the
// permission bits relaxed for the container-side copy.
func (s *StagedExport) Seal() error {
	if err := s.closeFile(); err != nil {
		return fmt.Errorf("closing staging file %s: %w", s.Path(), err)
	}
	if err := os.Chmod(s.Path(), stagedFileMode); err != nil {
		return fmt.Errorf("relaxing permissions on %s: %w", s.Path(), err)
	}
	return nil
}

// Remove deletes the backing file. It is safe to call after Seal and
// after a failed export; a file already gone is not an error.
func (s *StagedExport) Remove() error {
	_ = s.closeFile()
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *StagedExport) closeFile() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
