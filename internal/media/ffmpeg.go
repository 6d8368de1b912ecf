package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"

	"github.com/sedalabs/sedabot/internal/audio"
	"github.com/sedalabs/sedabot/pkg/config"
)

// FFmpegTranscoder shells out to the ffmpeg binary, exchanging mono
// signed 16-bit little-endian PCM over pipes.
type FFmpegTranscoder struct {
	binary     string
	sampleRate int
	log        *slog.Logger
}

// NewFFmpegTranscoder builds a Transcoder from the audio configuration.
func NewFFmpegTranscoder(cfg config.AudioConfig, log *slog.Logger) *FFmpegTranscoder {
	binary := cfg.FFmpegPath
	if binary == "" {
		binary = "ffmpeg"
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 48000
	}
	if log == nil {
		log = slog.Default()
	}

	return &FFmpegTranscoder{
		binary:     binary,
		sampleRate: rate,
		log:        log,
	}
}

// Decode reads any ffmpeg-supported media file into a mono PCM buffer at
// the configured sample rate.
func (t *FFmpegTranscoder) Decode(ctx context.Context, path string) (*audio.Buffer, error) {
	cmd := exec.CommandContext(ctx, t.binary,
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(t.sampleRate),
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.log.Error("ffmpeg decode failed",
			slog.String("path", path),
			slog.String("stderr", stderr.String()),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("ffmpeg decode: %w", err)
	}

	raw := stdout.Bytes()
	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float64(v) / 32768
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("ffmpeg decode: empty output for %s", path)
	}

	return audio.NewBuffer(t.sampleRate, samples), nil
}

// Encode writes the buffer to path as an Opus-in-Ogg voice file.
func (t *FFmpegTranscoder) Encode(ctx context.Context, buf *audio.Buffer, path string) error {
	if len(buf.Samples) == 0 {
		return fmt.Errorf("ffmpeg encode: empty buffer")
	}

	rate := buf.SampleRate
	if rate <= 0 {
		rate = t.sampleRate
	}

	raw := make([]byte, len(buf.Samples)*2)
	for i, s := range buf.Samples {
		v := int16(math.Round(s * 32767))
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(v))
	}

	cmd := exec.CommandContext(ctx, t.binary,
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-f", "s16le",
		"-ar", strconv.Itoa(rate),
		"-ac", "1",
		"-i", "pipe:0",
		"-c:a", "libopus",
		path,
	)

	var stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(raw)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.log.Error("ffmpeg encode failed",
			slog.String("path", path),
			slog.String("stderr", stderr.String()),
			slog.Any("error", err),
		)
		return fmt.Errorf("ffmpeg encode: %w", err)
	}

	return nil
}
