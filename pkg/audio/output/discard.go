// ABOUTME: Output that drops audio
// ABOUTME: Used for headless runs and tests; records what would have been played
package output

import (
	"fmt"
	"sync"

	"github.com/harperreed/pronounce/pkg/audio"
)

// Discard accepts samples without playing them
type Discard struct {
	mu      sync.Mutex
	format  audio.Format
	open    bool
	written int
}

// NewDiscard creates a new Discard output
func NewDiscard() *Discard {
	return &Discard{}
}

// Open records the format
func (d *Discard) Open(format audio.Format) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.format = format
	d.open = true
	return nil
}

// Write counts samples
func (d *Discard) Write(samples []int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return fmt.Errorf("output not initialized")
	}
	d.written += len(samples)
	return nil
}

// Close marks the output closed
func (d *Discard) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	return nil
}

// Format returns the format passed to the last Open
func (d *Discard) Format() audio.Format {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.format
}

// Written returns the number of samples accepted so far
func (d *Discard) Written() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.written
}
