package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineBuffer(sampleRate int, freqHz float64, durationMs int) *Buffer {
	n := sampleRate * durationMs / 1000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate))
	}
	return NewBuffer(sampleRate, samples)
}

func TestResample_ChangesDurationByInverseFactor(t *testing.T) {
	buf := sineBuffer(48000, 440, 1000)

	testCases := []struct {
		name   string
		factor float64
	}{
		{name: "pitch up", factor: 1.20},
		{name: "pitch down", factor: 0.85},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			out, err := Resample(buf, tc.factor)
			require.NoError(t, err)

			assert.Equal(t, buf.SampleRate, out.SampleRate)
			expected := int(float64(len(buf.Samples)) / tc.factor)
			assert.InDelta(t, expected, len(out.Samples), 2)
		})
	}
}

func TestResample_RejectsBadInputs(t *testing.T) {
	buf := sineBuffer(48000, 440, 100)

	_, err := Resample(buf, 0)
	assert.Error(t, err)

	_, err = Resample(buf, -1.5)
	assert.Error(t, err)

	_, err = Resample(NewBuffer(48000, nil), 1.2)
	assert.ErrorIs(t, err, ErrEmptyBuffer)
}

func TestLowPass_AttenuatesHighFrequency(t *testing.T) {
	high := sineBuffer(48000, 8000, 200)

	out, err := LowPass(high, 400)
	require.NoError(t, err)

	assert.Less(t, rms(out.Samples), rms(high.Samples)*0.5)
}

func TestHighPass_AttenuatesLowFrequency(t *testing.T) {
	low := sineBuffer(48000, 50, 200)

	out, err := HighPass(low, 2000)
	require.NoError(t, err)

	assert.Less(t, rms(out.Samples), rms(low.Samples)*0.5)
}

func TestGain_ScalesAmplitude(t *testing.T) {
	buf := sineBuffer(48000, 440, 100)

	quieter := Gain(buf, -8)
	expected := math.Pow(10, -8.0/20)
	assert.InDelta(t, rms(buf.Samples)*expected, rms(quieter.Samples), 0.01)
}

func TestOverlay_KeepsBaseLengthAndSums(t *testing.T) {
	base := NewBuffer(1000, make([]float64, 1000))
	over := NewBuffer(1000, []float64{0.25, 0.25, 0.25})

	out, err := Overlay(base, over, 120)
	require.NoError(t, err)

	assert.Len(t, out.Samples, 1000)
	assert.Equal(t, 0.25, out.Samples[120])
	assert.Equal(t, 0.0, out.Samples[119])
}

func TestOverlay_DropsSamplesPastEnd(t *testing.T) {
	base := NewBuffer(1000, make([]float64, 10))
	over := NewBuffer(1000, []float64{0.5, 0.5, 0.5, 0.5, 0.5})

	out, err := Overlay(base, over, 8)
	require.NoError(t, err)

	assert.Len(t, out.Samples, 10)
	assert.Equal(t, 0.5, out.Samples[8])
	assert.Equal(t, 0.5, out.Samples[9])
}

func TestTimeStretch_ShortensDurationPreservingRate(t *testing.T) {
	buf := sineBuffer(48000, 440, 2000)

	out, err := TimeStretch(buf, 1.25, 50, 10)
	require.NoError(t, err)

	assert.Equal(t, buf.SampleRate, out.SampleRate)

	ratio := float64(len(buf.Samples)) / float64(len(out.Samples))
	assert.InDelta(t, 1.25, ratio, 0.1)
}

func TestTimeStretch_TooShortInputPassesThrough(t *testing.T) {
	buf := sineBuffer(48000, 440, 40)

	out, err := TimeStretch(buf, 1.25, 50, 10)
	require.NoError(t, err)

	assert.Equal(t, len(buf.Samples), len(out.Samples))
}

func TestClamp_BoundsSummedSamples(t *testing.T) {
	base := NewBuffer(1000, []float64{0.9, -0.9})
	over := NewBuffer(1000, []float64{0.9, -0.9})

	out, err := Overlay(base, over, 0)
	require.NoError(t, err)

	assert.Equal(t, 1.0, out.Samples[0])
	assert.Equal(t, -1.0, out.Samples[1])
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}
