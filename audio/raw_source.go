// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// RawSource reads headerless interleaved PCM in a fixed sample format.
type RawSource struct {
	r          io.Reader
	format     SampleFormat
	sampleRate int
	channels   int
	buf        []byte
}

// NewRawSource reads interleaved samples of format from r. Planar formats
// are rejected: a raw stream has no plane boundaries.
func NewRawSource(r io.Reader, format SampleFormat, sampleRate, channels int) (*RawSource, error) {
	if !format.Valid() || format.IsPlanar() {
		return nil, fmt.Errorf("%w: raw input must be interleaved, got %s", ErrUnsupportedSampleFormat, format)
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidRate
	}
	if channels <= 0 {
		return nil, ErrChannelMismatch
	}
	return &RawSource{
		r:          r,
		format:     format,
		sampleRate: sampleRate,
		channels:   channels,
		buf:        make([]byte, 4096*format.BytesPerSample()),
	}, nil
}

func (s *RawSource) SampleRate() int      { return s.sampleRate }
func (s *RawSource) Channels() int        { return s.channels }
func (s *RawSource) Format() SampleFormat { return s.format }
func (s *RawSource) BufSize() int         { return cap(s.buf) / s.format.BytesPerSample() }

func (s *RawSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close raw input: %w", err)
		}
	}
	return nil
}

func (s *RawSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	width := s.format.BytesPerSample()
	if cap(s.buf) < len(dst)*width {
		s.buf = make([]byte, len(dst)*width)
	}
	s.buf = s.buf[:len(dst)*width]

	n, err := io.ReadFull(s.r, s.buf)
	eof := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
	if err != nil && !eof {
		return 0, fmt.Errorf("read raw input: %w", err)
	}

	// Drop a trailing partial frame.
	frameBytes := width * s.channels
	samples := (n / frameBytes) * s.channels
	for i := range samples {
		v, convErr := ToNormalized(s.format, s.buf, i)
		if convErr != nil {
			return 0, convErr
		}
		dst[i] = v
	}

	if eof {
		return samples, io.EOF
	}
	return samples, nil
}
