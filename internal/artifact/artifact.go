// Package artifact owns the transient storage of finished audiobooks. Every artifact lives in
// its own directory, so two runs never contend for a path, and Close removes it.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// BaseName is the suggested download name without extension.
const BaseName = "audiobook"

var contentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"opus": "audio/ogg",
	"aac":  "audio/aac",
	"flac": "audio/flac",
	"wav":  "audio/wav",
}

// ErrClosed is returned when reading an artifact after Close.
var ErrClosed = errors.New("artifact closed")

// Store creates artifacts under a root directory ("" means the OS temp dir).
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Artifact is one encoded audio file in transient storage.
type Artifact struct {
	Path   string
	Format string
	Size   int64

	dir       string
	closeOnce sync.Once
	closeErr  error
	closed    bool
	mu        sync.RWMutex
}

// Materialize writes data into a fresh, uniquely named location. On any failure nothing is left behind.
func (s *Store) Materialize(ctx context.Context, data []byte, format string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.root != "" {
		if err := os.MkdirAll(s.root, 0755); err != nil {
			return nil, fmt.Errorf("create artifact root: %w", err)
		}
	}

	dir, err := os.MkdirTemp(s.root, "narration-*")
	if err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	path := filepath.Join(dir, uuid.NewString()+"."+format)
	if err := os.WriteFile(path, data, 0600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	return &Artifact{
		Path:   path,
		Format: format,
		Size:   int64(len(data)),
		dir:    dir,
	}, nil
}

// Filename is the name offered for download, e.g. "audiobook.mp3".
func (a *Artifact) Filename() string {
	return BaseName + "." + a.Format
}

// ContentType is the MIME type for playback.
func (a *Artifact) ContentType() string {
	if ct, ok := contentTypes[a.Format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Open returns a stream of the audio for playback.
func (a *Artifact) Open() (io.ReadCloser, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, ErrClosed
	}
	return os.Open(a.Path)
}

// Bytes reads the whole audio.
func (a *Artifact) Bytes() ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, ErrClosed
	}
	return os.ReadFile(a.Path)
}

// SaveAs copies the audio to dst.
func (a *Artifact) SaveAs(dst string) error {
	src, err := a.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy artifact: %w", err)
	}
	return out.Close()
}

// Equal reports whether the artifact holds exactly data.
func (a *Artifact) Equal(data []byte) bool {
	b, err := a.Bytes()
	return err == nil && bytes.Equal(b, data)
}

// Close releases the transient storage. It is safe to call more than once.
func (a *Artifact) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()
		a.closeErr = os.RemoveAll(a.dir)
	})
	return a.closeErr
}
