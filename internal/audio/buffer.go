// Package audio implements the in-memory PCM buffer and the signal
// primitives the voice effects are built from.
package audio

import (
	"errors"
	"math"
)

// ErrEmptyBuffer indicates an operation on a buffer with no samples.
var ErrEmptyBuffer = errors.New("audio buffer has no samples")

// Buffer is a mono PCM signal with float64 samples in [-1, 1].
type Buffer struct {
	SampleRate int
	Samples    []float64
}

// NewBuffer wraps samples recorded at the given rate.
func NewBuffer(sampleRate int, samples []float64) *Buffer {
	return &Buffer{SampleRate: sampleRate, Samples: samples}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	samples := make([]float64, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{SampleRate: b.SampleRate, Samples: samples}
}

// DurationMs returns the playback duration in milliseconds.
func (b *Buffer) DurationMs() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate) * 1000
}

// msToSamples converts a millisecond offset to a sample count at the
// buffer's rate.
func (b *Buffer) msToSamples(ms float64) int {
	return int(math.Round(ms / 1000 * float64(b.SampleRate)))
}

// clamp keeps a sample inside the representable range after summing.
func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
