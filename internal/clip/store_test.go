// ABOUTME: Tests for the clip store
// ABOUTME: Tests saving, exporting, idempotent release and download names
package clip

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/pronounce/pkg/audio"
	"github.com/harperreed/pronounce/pkg/audio/encode"
)

func newContainer(t *testing.T) *encode.Container {
	t.Helper()
	container, err := encode.EncodeWAV([]byte{1, 0, 2, 0, 3, 0}, audio.DefaultSpeechFormat)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}
	return container
}

func TestNewStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clips")

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if _, err := os.Stat(store.Dir()); os.IsNotExist(err) {
		t.Error("store directory was not created")
	}
}

func TestSave(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	container := newContainer(t)
	c, err := store.Save(container, "Hello there")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	content, err := os.ReadFile(c.Path)
	if err != nil {
		t.Fatalf("failed to read clip file: %v", err)
	}
	if !bytes.Equal(content, container.Bytes()) {
		t.Error("clip file content differs from container")
	}

	if c.Filename != "pronunciation_hello.wav" {
		t.Errorf("expected filename pronunciation_hello.wav, got %s", c.Filename)
	}
	if c.MIMEType != "audio/wav" {
		t.Errorf("expected MIME type audio/wav, got %s", c.MIMEType)
	}
	if c.Size != container.Len() {
		t.Errorf("expected size %d, got %d", container.Len(), c.Size)
	}
	if c.Format != audio.DefaultSpeechFormat {
		t.Errorf("unexpected format %+v", c.Format)
	}
	if !store.Has(c) {
		t.Error("store should hold the saved clip")
	}
}

func TestSaveUniqueIDs(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	first, err := store.Save(newContainer(t), "same")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	second, err := store.Save(newContainer(t), "same")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if first.ID == second.ID || first.Path == second.Path {
		t.Error("expected distinct clips for repeated saves")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	c, err := store.Save(newContainer(t), "word")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := store.Release(c); err != nil {
			t.Fatalf("Release() call %d failed: %v", i+1, err)
		}
	}

	if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
		t.Error("clip file should be removed after release")
	}
	if store.Has(c) {
		t.Error("store should not hold a released clip")
	}
	if err := store.Release(nil); err != nil {
		t.Errorf("Release(nil) failed: %v", err)
	}
	if _, err := store.Open(c); err == nil {
		t.Error("Open() of a released clip should fail")
	}
}

func TestExport(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	c, err := store.Save(newContainer(t), "Tomato soup")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	exportDir := filepath.Join(t.TempDir(), "downloads")
	path, err := store.Export(c, exportDir)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	if filepath.Base(path) != "pronunciation_tomato.wav" {
		t.Errorf("unexpected export name %s", filepath.Base(path))
	}

	original, _ := os.ReadFile(c.Path)
	exported, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !bytes.Equal(original, exported) {
		t.Error("exported file differs from clip")
	}

	// Releasing the clip leaves the exported download alone
	if err := store.Release(c); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export should survive release: %v", err)
	}
}

func TestCleanup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clips")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	c, err := store.Save(newContainer(t), "x")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := store.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("store directory should be removed")
	}
	if err := store.Release(c); err != nil {
		t.Errorf("Release() after Cleanup() failed: %v", err)
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Hello, how are you today?", "pronunciation_hello.wav"},
		{"  Schedule  ", "pronunciation_schedule.wav"},
		{"aluminium", "pronunciation_aluminium.wav"},
		{"", "pronunciation_audio.wav"},
		{"   ", "pronunciation_audio.wav"},
		{"?!", "pronunciation_audio.wav"},
		{"../etc/passwd", "pronunciation_etcpasswd.wav"},
		{"Worcester-shire sauce", "pronunciation_worcester-shire.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := DownloadName(tt.text); got != tt.expected {
				t.Errorf("DownloadName(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}
