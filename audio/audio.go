// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// PlanarSource serves per-channel sample slices as an interleaved Source.
type PlanarSource struct {
	sampleRate int
	channels   [][]float32
	pos        int
}

// NewPlanarSource wraps channels, which must all have the same length.
func NewPlanarSource(sampleRate int, channels [][]float32) (*PlanarSource, error) {
	if len(channels) == 0 {
		return nil, ErrChannelMismatch
	}
	for c := range channels {
		if len(channels[c]) != len(channels[0]) {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrChannelMismatch, c, len(channels[c]), len(channels[0]))
		}
	}
	return &PlanarSource{sampleRate: sampleRate, channels: channels}, nil
}

func (s *PlanarSource) SampleRate() int { return s.sampleRate }
func (s *PlanarSource) Channels() int   { return len(s.channels) }
func (s *PlanarSource) BufSize() int    { return 4096 }
func (s *PlanarSource) Close() error    { return nil }

func (s *PlanarSource) ReadSamples(dst []float32) (int, error) {
	channels := len(s.channels)
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}
	total := len(s.channels[0])
	if s.pos >= total {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, total-s.pos)
	for f := range frames {
		for c := range channels {
			dst[f*channels+c] = s.channels[c][s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= total {
		return frames * channels, io.EOF
	}
	return frames * channels, nil
}
