// Package effects catalogs the named voice transforms and applies them
// with identity fallback on failure.
package effects

import (
	"log/slog"

	"github.com/sedalabs/sedabot/internal/audio"
	"github.com/sedalabs/sedabot/pkg/metrics"
)

// Effect codes. CodeNone is the identity transform and the default for
// every new user.
const (
	CodeNone      = "none"
	CodePitchUp   = "pitch_up"
	CodePitchDown = "pitch_down"
	CodeSpeedUp   = "speed_up"
	CodeSlowDown  = "slow_down"
	CodeRobot     = "robot"
	CodeEcho      = "echo"
	CodeFemale    = "female"
	CodeMale      = "male"
)

// Transform maps an audio buffer to a processed one. Implementations must
// not mutate the input.
type Transform func(*audio.Buffer) (*audio.Buffer, error)

// Definition describes one catalog entry.
type Definition struct {
	Code      string
	Label     string
	Transform Transform
}

// Registry is the immutable, ordered effect catalog.
type Registry struct {
	defs  []Definition
	index map[string]int
	log   *slog.Logger
}

// NewRegistry builds the static effect catalog.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	defs := []Definition{
		{Code: CodeNone, Label: "بدون افکت", Transform: identity},
		{Code: CodePitchUp, Label: "Pitch ↑", Transform: resampled(1.20)},
		{Code: CodePitchDown, Label: "Pitch ↓", Transform: resampled(0.85)},
		{Code: CodeSpeedUp, Label: "Speed ↑", Transform: speedUp},
		{Code: CodeSlowDown, Label: "Slow", Transform: resampled(0.85)},
		{Code: CodeRobot, Label: "Robot 🤖", Transform: robot},
		{Code: CodeEcho, Label: "Echo 🌊", Transform: echo},
		{Code: CodeFemale, Label: "Voice ♀️", Transform: female},
		{Code: CodeMale, Label: "Voice ♂️", Transform: male},
	}

	index := make(map[string]int, len(defs))
	for i, def := range defs {
		index[def.Code] = i
	}

	return &Registry{defs: defs, index: index, log: log}
}

// List returns the catalog in presentation order.
func (r *Registry) List() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Label returns the display label for a code, or the code itself when it
// is not in the catalog.
func (r *Registry) Label(code string) string {
	if i, ok := r.index[code]; ok {
		return r.defs[i].Label
	}
	return code
}

// Apply runs the named transform over the buffer. Unknown codes and any
// transform failure, including panics, fall back to returning the input
// unchanged; the failure is logged and counted but never propagated, so
// the caller always gets a playable buffer.
func (r *Registry) Apply(code string, buf *audio.Buffer) *audio.Buffer {
	i, ok := r.index[code]
	if !ok {
		r.log.Warn("unknown effect code, passing audio through", slog.String("effect", code))
		metrics.RecordEffect(code, "fallback")
		return buf
	}

	def := r.defs[i]
	if def.Code == CodeNone {
		metrics.RecordEffect(def.Code, "ok")
		return buf
	}

	out, err := r.applyTransform(def, buf)
	if err != nil {
		r.log.Error("effect transform failed, passing audio through",
			slog.String("effect", def.Code),
			slog.Any("error", err),
		)
		metrics.RecordEffect(def.Code, "fallback")
		return buf
	}

	metrics.RecordEffect(def.Code, "ok")
	return out
}

func (r *Registry) applyTransform(def Definition, buf *audio.Buffer) (out *audio.Buffer, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = &panicError{value: rec}
		}
	}()

	return def.Transform(buf)
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return "transform panic"
}

func identity(b *audio.Buffer) (*audio.Buffer, error) {
	return b, nil
}

// resampled reproduces the resample-and-relabel trick: pitch moves by the
// factor and duration distorts by its inverse.
func resampled(factor float64) Transform {
	return func(b *audio.Buffer) (*audio.Buffer, error) {
		return audio.Resample(b, factor)
	}
}

// speedUp time-stretches to 1.25x speed with 50 ms chunks and a 10 ms
// crossfade, preserving pitch.
func speedUp(b *audio.Buffer) (*audio.Buffer, error) {
	return audio.TimeStretch(b, 1.25, 50, 10)
}

// robot band-passes an 8 dB quieter copy (low-pass 4 kHz into high-pass
// 200 Hz) and lays the dry signal over it at a 15 ms offset.
func robot(b *audio.Buffer) (*audio.Buffer, error) {
	filtered, err := audio.LowPass(b, 4000)
	if err != nil {
		return nil, err
	}
	filtered, err = audio.HighPass(filtered, 200)
	if err != nil {
		return nil, err
	}
	return audio.Overlay(audio.Gain(filtered, -8), b, 15)
}

// echo sums three decaying copies at 120 ms intervals, each 8 dB quieter
// than the last.
func echo(b *audio.Buffer) (*audio.Buffer, error) {
	out := b
	for i, delayMs := range []float64{120, 240, 360} {
		var err error
		out, err = audio.Overlay(out, audio.Gain(b, -8*float64(i+1)), delayMs)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// female raises pitch by 1.15x and high-passes at 300 Hz.
func female(b *audio.Buffer) (*audio.Buffer, error) {
	out, err := audio.Resample(b, 1.15)
	if err != nil {
		return nil, err
	}
	return audio.HighPass(out, 300)
}

// male lowers pitch by 0.90x and low-passes at 3 kHz.
func male(b *audio.Buffer) (*audio.Buffer, error) {
	out, err := audio.Resample(b, 0.90)
	if err != nil {
		return nil, err
	}
	return audio.LowPass(out, 3000)
}
