// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays PCM through the system audio device using the oto library
package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/harperreed/pronounce/pkg/audio"
)

// oto allows a single context per process
var (
	otoOnce   sync.Once
	otoCtx    *oto.Context
	otoFormat audio.Format
	otoErr    error
)

// Oto output implementation using oto library
type Oto struct {
	mu     sync.Mutex
	ctx    *oto.Context
	format audio.Format
	ready  bool
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{}
}

// Open initializes the output device. oto only plays 16-bit, so other depths
// are converted on Write.
func (o *Oto) Open(format audio.Format) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if format.BitDepth != 16 {
		log.Printf("Warning: oto only supports 16-bit output, converting from %d-bit", format.BitDepth)
	}

	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-readyChan

		otoCtx = ctx
		otoFormat = format
		log.Printf("Audio output initialized: %dHz, %d channels", format.SampleRate, format.Channels)
	})
	if otoErr != nil {
		return otoErr
	}

	// The context cannot be reinitialized; a different format would play at the wrong speed
	if otoFormat.SampleRate != format.SampleRate || otoFormat.Channels != format.Channels {
		return fmt.Errorf("audio device already opened at %dHz %d channels, cannot play %dHz %d channels",
			otoFormat.SampleRate, otoFormat.Channels, format.SampleRate, format.Channels)
	}

	if err := otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume audio device: %w", err)
	}

	o.ctx = otoCtx
	o.format = format
	o.ready = true
	return nil
}

// Write plays samples and blocks until playback finishes
func (o *Oto) Write(samples []int32) error {
	o.mu.Lock()
	ready, ctx := o.ready, o.ctx
	o.mu.Unlock()

	if !ready {
		return fmt.Errorf("output not initialized")
	}

	output := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.SampleToInt16(s)))
	}

	player := ctx.NewPlayer(bytes.NewReader(output))
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return player.Err()
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ctx != nil && o.ready {
		o.ready = false
		if err := o.ctx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend audio device: %w", err)
		}
	}
	return nil
}
