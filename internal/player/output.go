// ABOUTME: Clip playback through an audio output
// ABOUTME: Parses WAV bytes, applies software volume and writes samples to the device
package player

import (
	"fmt"
	"log"
	"sync"

	"github.com/harperreed/pronounce/pkg/audio/decode"
	"github.com/harperreed/pronounce/pkg/audio/output"
	"github.com/harperreed/pronounce/pkg/audio/resample"
)

// Player plays WAV clips
type Player struct {
	out output.Output

	mu         sync.Mutex
	volume     int
	muted      bool
	outputRate int // 0 plays at the clip's own rate

	// one clip at a time
	playMu sync.Mutex
}

// New creates a player writing to out
func New(out output.Output) *Player {
	return &Player{
		out:    out,
		volume: 100,
		muted:  false,
	}
}

// Play decodes a WAV container and blocks until it has been written to the output
func (p *Player) Play(wavBytes []byte) error {
	wav, err := decode.ParseWAV(wavBytes)
	if err != nil {
		return fmt.Errorf("failed to parse clip: %w", err)
	}

	dec, err := decode.NewPCM(wav.Format)
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	defer dec.Close()

	samples, err := dec.Decode(wav.PCM)
	if err != nil {
		return fmt.Errorf("failed to decode clip: %w", err)
	}

	p.mu.Lock()
	samples = applyVolume(samples, p.volume, p.muted)
	outputRate := p.outputRate
	p.mu.Unlock()

	format := wav.Format
	if outputRate > 0 && outputRate != format.SampleRate {
		samples = resample.New(format.SampleRate, outputRate, format.Channels).Convert(samples)
		format.SampleRate = outputRate
	}

	p.playMu.Lock()
	defer p.playMu.Unlock()

	if err := p.out.Open(format); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	defer p.out.Close()

	log.Printf("Playing clip: %s, %d samples", format, len(samples))
	return p.out.Write(samples)
}

// SetVolume sets the volume (0-100)
func (p *Player) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	p.mu.Lock()
	p.volume = volume
	p.mu.Unlock()
	log.Printf("Volume set to %d", volume)
}

// SetOutputRate resamples clips to rate before playback; 0 disables resampling
func (p *Player) SetOutputRate(rate int) {
	if rate < 0 {
		rate = 0
	}
	p.mu.Lock()
	p.outputRate = rate
	p.mu.Unlock()
}

// SetMuted sets mute state
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
	log.Printf("Muted: %v", muted)
}

// Volume returns current volume
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// IsMuted returns mute state
func (p *Player) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// applyVolume applies volume and mute to samples
func applyVolume(samples []int32, volume int, muted bool) []int32 {
	multiplier := getVolumeMultiplier(volume, muted)
	if multiplier == 1.0 {
		return samples
	}

	result := make([]int32, len(samples))
	for i, sample := range samples {
		result[i] = int32(float64(sample) * multiplier)
	}

	return result
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
