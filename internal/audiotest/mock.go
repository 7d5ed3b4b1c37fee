// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"

	"github.com/ik5/audtrans/audio"
)

// Waveform returns the value of one channel at a sample position.
type Waveform func(sample, channel int) float32

// MockSource is an audio.Source generating a fixed number of samples per
// channel from a Waveform.
type MockSource struct {
	rate     int
	channels int
	total    int
	pos      int
	wave     Waveform

	// MaxFrames caps the frames returned by one ReadSamples call, to
	// exercise callers against short reads. Zero means no cap.
	MaxFrames int
}

var _ audio.Source = (*MockSource)(nil)

// NewMockSource returns a source of totalSamples samples per channel.
func NewMockSource(sampleRate, channels, totalSamples int, wave Waveform) *MockSource {
	return &MockSource{rate: sampleRate, channels: channels, total: totalSamples, wave: wave}
}

func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalSamples, 0)
}

// NewSineSource generates the same sine of frequency Hz on every channel.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	step := 2 * math.Pi * frequency / float64(sampleRate)
	return NewMockSource(sampleRate, channels, totalSamples, func(sample, _ int) float32 {
		return float32(math.Sin(step * float64(sample)))
	})
}

func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 { return value })
}

func (m *MockSource) SampleRate() int { return m.rate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset rewinds the source to its first sample.
func (m *MockSource) Reset() { m.pos = 0 }

// ReadSamples fills dst with whole interleaved frames. The final call
// returns io.EOF together with the last samples.
func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.channels <= 0 {
		return 0, audio.ErrChannelMismatch
	}
	if m.pos >= m.total {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.total-m.pos)
	if m.MaxFrames > 0 {
		frames = min(frames, m.MaxFrames)
	}
	for f := range frames {
		for c := range m.channels {
			dst[f*m.channels+c] = m.wave(m.pos+f, c)
		}
	}
	m.pos += frames

	if m.pos >= m.total {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}
