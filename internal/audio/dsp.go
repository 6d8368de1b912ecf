package audio

import (
	"fmt"
	"math"
)

// Resample reinterprets the buffer as if it had been recorded at
// rate*factor and relabels it back to the original rate. The output keeps
// the original sample rate but its duration changes by 1/factor, which
// shifts perceived pitch by factor. This reproduces the classic
// resample-and-relabel artifact rather than true pitch correction.
func Resample(b *Buffer, factor float64) (*Buffer, error) {
	if len(b.Samples) == 0 {
		return nil, ErrEmptyBuffer
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("invalid resample factor %v", factor)
	}

	outLen := int(float64(len(b.Samples)) / factor)
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * factor
		idx := int(pos)
		if idx >= len(b.Samples)-1 {
			out[i] = b.Samples[len(b.Samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = b.Samples[idx]*(1-frac) + b.Samples[idx+1]*frac
	}

	return &Buffer{SampleRate: b.SampleRate, Samples: out}, nil
}

// LowPass applies a first-order RC low-pass filter at cutoffHz.
func LowPass(b *Buffer, cutoffHz float64) (*Buffer, error) {
	if len(b.Samples) == 0 {
		return nil, ErrEmptyBuffer
	}
	if cutoffHz <= 0 {
		return nil, fmt.Errorf("invalid low-pass cutoff %v", cutoffHz)
	}

	rc := 1.0 / (2 * math.Pi * cutoffHz)
	dt := 1.0 / float64(b.SampleRate)
	alpha := dt / (rc + dt)

	out := make([]float64, len(b.Samples))
	out[0] = b.Samples[0] * alpha
	for i := 1; i < len(b.Samples); i++ {
		out[i] = out[i-1] + alpha*(b.Samples[i]-out[i-1])
	}

	return &Buffer{SampleRate: b.SampleRate, Samples: out}, nil
}

// HighPass applies a first-order RC high-pass filter at cutoffHz.
func HighPass(b *Buffer, cutoffHz float64) (*Buffer, error) {
	if len(b.Samples) == 0 {
		return nil, ErrEmptyBuffer
	}
	if cutoffHz <= 0 {
		return nil, fmt.Errorf("invalid high-pass cutoff %v", cutoffHz)
	}

	rc := 1.0 / (2 * math.Pi * cutoffHz)
	dt := 1.0 / float64(b.SampleRate)
	alpha := rc / (rc + dt)

	out := make([]float64, len(b.Samples))
	out[0] = b.Samples[0]
	for i := 1; i < len(b.Samples); i++ {
		out[i] = alpha * (out[i-1] + b.Samples[i] - b.Samples[i-1])
	}

	return &Buffer{SampleRate: b.SampleRate, Samples: out}, nil
}

// Gain scales the signal by db decibels (negative attenuates).
func Gain(b *Buffer, db float64) *Buffer {
	scale := math.Pow(10, db/20)

	out := make([]float64, len(b.Samples))
	for i, s := range b.Samples {
		out[i] = clamp(s * scale)
	}

	return &Buffer{SampleRate: b.SampleRate, Samples: out}
}

// Overlay sums over onto base starting at offsetMs. The result keeps the
// base buffer's length; overlay samples past the end are dropped.
func Overlay(base, over *Buffer, offsetMs float64) (*Buffer, error) {
	if len(base.Samples) == 0 {
		return nil, ErrEmptyBuffer
	}

	out := base.Clone()
	start := out.msToSamples(offsetMs)
	for i, s := range over.Samples {
		pos := start + i
		if pos < 0 {
			continue
		}
		if pos >= len(out.Samples) {
			break
		}
		out.Samples[pos] = clamp(out.Samples[pos] + s)
	}

	return out, nil
}

// TimeStretch speeds playback up by the given factor without shifting
// pitch, using a granular cut-and-crossfade scheme: the signal is split
// into chunks of chunkMs plus the amount to discard, the tail of each
// chunk is dropped, and consecutive chunks are joined with a linear
// crossfade of crossfadeMs.
func TimeStretch(b *Buffer, speed float64, chunkMs, crossfadeMs float64) (*Buffer, error) {
	if len(b.Samples) == 0 {
		return nil, ErrEmptyBuffer
	}
	if speed <= 1 {
		return nil, fmt.Errorf("time stretch requires speed > 1, got %v", speed)
	}

	keep := 1.0 / speed
	removeMs := math.Floor(chunkMs * (1 - keep) / keep)

	chunkSamples := b.msToSamples(chunkMs + removeMs)
	trimSamples := b.msToSamples(removeMs - crossfadeMs)
	fadeSamples := b.msToSamples(crossfadeMs)

	if chunkSamples <= 0 || len(b.Samples) < 2*chunkSamples {
		// too short to stretch, hand back a copy
		return b.Clone(), nil
	}
	if trimSamples < 0 {
		trimSamples = 0
	}

	var chunks [][]float64
	for start := 0; start < len(b.Samples); start += chunkSamples {
		end := start + chunkSamples
		if end > len(b.Samples) {
			end = len(b.Samples)
		}
		chunk := b.Samples[start:end]
		if len(chunk) > trimSamples {
			chunk = chunk[:len(chunk)-trimSamples]
		}
		chunks = append(chunks, chunk)
	}

	out := make([]float64, 0, len(b.Samples))
	out = append(out, chunks[0]...)
	for _, chunk := range chunks[1:] {
		out = appendCrossfade(out, chunk, fadeSamples)
	}

	return &Buffer{SampleRate: b.SampleRate, Samples: out}, nil
}

// appendCrossfade joins next onto out, linearly blending the last fade
// samples of out with the first fade samples of next.
func appendCrossfade(out, next []float64, fade int) []float64 {
	if fade > len(out) {
		fade = len(out)
	}
	if fade > len(next) {
		fade = len(next)
	}

	base := len(out) - fade
	for i := 0; i < fade; i++ {
		t := float64(i+1) / float64(fade+1)
		out[base+i] = out[base+i]*(1-t) + next[i]*t
	}

	return append(out, next[fade:]...)
}
