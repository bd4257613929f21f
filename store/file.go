package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// FileName is the name of the backing file inside the store directory
const FileName = "feeds.txt"

// FileStore keeps feed identifiers in a plain text file, one per line.
// It knows nothing about identifiers beyond lines of text.
type FileStore struct {
	dir  string
	path string

	// Set when Initialize failed. Reads then degrade to an empty store.
	initErr error
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:  dir,
		path: filepath.Join(dir, FileName),
	}
}

func (s *FileStore) Path() string {
	return s.path
}

// Initialize creates the store directory and an empty backing file if they
// are missing. A failure leaves the store usable: reads return no lines and
// writes report ErrStoreIO.
func (s *FileStore) Initialize() error {
	s.initErr = s.create()
	return s.initErr
}

func (s *FileStore) create() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrStoreInit, s.dir, err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrStoreInit, s.path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrStoreInit, s.path, err)
	}
	return nil
}

// ReadAll returns the raw file contents. A missing file reads as empty, and
// so does any unreadable file after a failed Initialize.
func (s *FileStore) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil && s.initErr != nil {
		log.WithFields(log.Fields{
			"path":  s.path,
			"error": err,
		}).Debug("Reading uninitialized feed store as empty")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStoreIO, s.path, err)
	}
	return data, nil
}

// AppendLine appends a single line. When the file does not end with a line
// terminator one is written first so the new entry starts on its own line.
func (s *FileStore) AppendLine(line string) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrStoreIO, s.path, err)
	}
	defer f.Close()

	prefix, err := separatorFor(f)
	if err != nil {
		return fmt.Errorf("%w: inspect %s: %w", ErrStoreIO, s.path, err)
	}

	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		return fmt.Errorf("%w: append %s: %w", ErrStoreIO, s.path, err)
	}

	return nil
}

func separatorFor(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return "", err
	}
	if last[0] == '\n' {
		return "", nil
	}
	return "\n", nil
}

// RewriteAll replaces the file contents with lines. The new contents are
// written to a temporary file in the same directory and renamed into place,
// so a crash mid-write leaves either the old or the new list.
func (s *FileStore) RewriteAll(lines []string) error {
	tmp, err := os.CreateTemp(s.dir, ".feeds-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temporary file in %s: %w", ErrStoreIO, s.dir, err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
				log.WithFields(log.Fields{
					"path":  tmpPath,
					"error": err,
				}).Warn("Could not remove temporary feed file")
			}
		}
	}()

	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrStoreIO, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %w", ErrStoreIO, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrStoreIO, tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrStoreIO, tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrStoreIO, s.path, err)
	}

	committed = true
	return nil
}
