// ABOUTME: Clip store for generated pronunciations
// ABOUTME: Saves WAV containers to a scratch directory, exports downloads and releases files
package clip

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/pronounce/pkg/audio"
	"github.com/harperreed/pronounce/pkg/audio/encode"
)

// Clip is a saved container. Its file lives until Release.
type Clip struct {
	ID       string
	Path     string
	Filename string // download name, e.g. pronunciation_hello.wav
	MIMEType string
	Size     int
	Format   audio.Format
}

// Store manages clip files
type Store struct {
	dir string

	mu    sync.Mutex
	clips map[string]*Clip
}

// NewStore creates a store rooted at dir, creating the directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create clip directory: %w", err)
	}

	return &Store{
		dir:   dir,
		clips: make(map[string]*Clip),
	}, nil
}

// Dir returns the store's directory
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the container to a new file named after a fresh ID
func (s *Store) Save(container *encode.Container, text string) (*Clip, error) {
	id := uuid.New().String()
	path := filepath.Join(s.dir, id+".wav")

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create clip file: %w", err)
	}

	if _, err := container.WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write clip: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write clip: %w", err)
	}

	c := &Clip{
		ID:       id,
		Path:     path,
		Filename: DownloadName(text),
		MIMEType: container.MIMEType(),
		Size:     container.Len(),
		Format:   container.Format(),
	}

	s.mu.Lock()
	s.clips[id] = c
	s.mu.Unlock()

	log.Printf("Clip saved: %s (%d bytes)", path, c.Size)
	return c, nil
}

// Open returns the clip's file for reading
func (s *Store) Open(c *Clip) (*os.File, error) {
	if c == nil {
		return nil, fmt.Errorf("no clip")
	}
	if !s.Has(c) {
		return nil, fmt.Errorf("clip %s has been released", c.ID)
	}
	return os.Open(c.Path)
}

// Has reports whether the clip is still held by the store
func (s *Store) Has(c *Clip) bool {
	if c == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.clips[c.ID]
	return ok
}

// Export copies the clip to dir under its download name and returns the new path
func (s *Store) Export(c *Clip, dir string) (string, error) {
	src, err := s.Open(c)
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	dest := filepath.Join(dir, c.Filename)
	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dest)
		return "", fmt.Errorf("failed to export clip: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to export clip: %w", err)
	}

	log.Printf("Clip exported: %s", dest)
	return dest, nil
}

// Release deletes the clip's file. Releasing nil or an already released clip is a no-op.
func (s *Store) Release(c *Clip) error {
	if c == nil {
		return nil
	}

	s.mu.Lock()
	_, ok := s.clips[c.ID]
	delete(s.clips, c.ID)
	s.mu.Unlock()

	if !ok {
		return nil
	}

	if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove clip: %w", err)
	}
	return nil
}

// Cleanup removes the store directory and everything in it
func (s *Store) Cleanup() error {
	s.mu.Lock()
	s.clips = make(map[string]*Clip)
	s.mu.Unlock()

	return os.RemoveAll(s.dir)
}

var unsafeName = regexp.MustCompile(`[^a-z0-9_-]+`)

// DownloadName builds "pronunciation_<first word>.wav" from the input text,
// falling back to "audio" when no usable word remains
func DownloadName(text string) string {
	word := "audio"
	if fields := strings.Fields(strings.ToLower(text)); len(fields) > 0 {
		if cleaned := unsafeName.ReplaceAllString(fields[0], ""); cleaned != "" {
			word = cleaned
		}
	}
	return fmt.Sprintf("pronunciation_%s.wav", word)
}
