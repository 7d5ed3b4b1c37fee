package audio

import (
	"io"
	"math"
)

// genSource produces total frames of interleaved samples from wave. The
// audio package cannot import internal/audiotest, which depends on it.
type genSource struct {
	rate, channels int
	total, pos     int
	wave           func(sample, channel int) float32
}

func newMockSource(rate, channels, total int, wave func(sample, channel int) float32) *genSource {
	return &genSource{rate: rate, channels: channels, total: total, wave: wave}
}

func newSilentSource(rate, channels, total int) *genSource {
	return newConstantSource(rate, channels, total, 0)
}

func newConstantSource(rate, channels, total int, v float32) *genSource {
	return newMockSource(rate, channels, total, func(int, int) float32 { return v })
}

func newSineSource(rate, channels, total int, freq float64) *genSource {
	step := 2 * math.Pi * freq / float64(rate)
	return newMockSource(rate, channels, total, func(sample, _ int) float32 {
		return float32(math.Sin(step * float64(sample)))
	})
}

func (s *genSource) SampleRate() int { return s.rate }
func (s *genSource) Channels() int   { return s.channels }
func (s *genSource) BufSize() int    { return 4096 }
func (s *genSource) Close() error    { return nil }

func (s *genSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.total {
		return 0, io.EOF
	}
	frames := min(len(dst)/s.channels, s.total-s.pos)
	for f := range frames {
		for c := range s.channels {
			dst[f*s.channels+c] = s.wave(s.pos+f, c)
		}
	}
	s.pos += frames
	if s.pos == s.total {
		return frames * s.channels, io.EOF
	}
	return frames * s.channels, nil
}
