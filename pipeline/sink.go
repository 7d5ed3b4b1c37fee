// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/ik5/audtrans/audio"
)

// ChannelSink is the append-only sample stream of one decoded channel.
// Samples are stored as little-endian float32.
type ChannelSink interface {
	audio.ChannelWriter
	// Samples returns everything appended so far.
	Samples() ([]float32, error)
	// Close releases the sink and removes any scratch storage.
	Close() error
}

type memorySink struct {
	buf []byte
}

// NewMemorySink keeps the channel in memory.
func NewMemorySink() ChannelSink {
	return &memorySink{}
}

func (s *memorySink) AppendSamples(samples []float32) error {
	s.buf = appendFloats(s.buf, samples)
	return nil
}

func (s *memorySink) AppendRaw(b []byte) error {
	s.buf = append(s.buf, b...)
	return nil
}

func (s *memorySink) Samples() ([]float32, error) {
	return decodeFloats(s.buf), nil
}

func (s *memorySink) Close() error {
	s.buf = nil
	return nil
}

type fileSink struct {
	path string
	f    *os.File
	w    *bufio.Writer
	tmp  []byte
}

// NewFileSink stores the channel in a scratch file under dir. The file is
// removed by Close.
func NewFileSink(dir, jobID string, channel int) (ChannelSink, error) {
	path := filepath.Join(dir, fmt.Sprintf("audtrans-%s-channel_%d", jobID, channel))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	return &fileSink{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

func (s *fileSink) AppendSamples(samples []float32) error {
	s.tmp = appendFloats(s.tmp[:0], samples)
	return s.AppendRaw(s.tmp)
}

func (s *fileSink) AppendRaw(b []byte) error {
	if _, err := s.w.Write(b); err != nil {
		return fmt.Errorf("write scratch file %s: %w", s.path, err)
	}
	return nil
}

func (s *fileSink) Samples() ([]float32, error) {
	if err := s.w.Flush(); err != nil {
		return nil, fmt.Errorf("flush scratch file %s: %w", s.path, err)
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind scratch file %s: %w", s.path, err)
	}
	data, err := io.ReadAll(s.f)
	if err != nil {
		return nil, fmt.Errorf("read scratch file %s: %w", s.path, err)
	}
	if _, err := s.f.Seek(0, io.SeekEnd); err != nil {
		return nil, fmt.Errorf("seek scratch file %s: %w", s.path, err)
	}
	return decodeFloats(data), nil
}

func (s *fileSink) Close() error {
	closeErr := s.f.Close()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove scratch file %s: %w", s.path, err)
	}
	if closeErr != nil {
		return fmt.Errorf("close scratch file %s: %w", s.path, closeErr)
	}
	return nil
}

func appendFloats(dst []byte, samples []float32) []byte {
	for _, v := range samples {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// decodeFloats reads little-endian float32 values; a trailing partial
// value is ignored.
func decodeFloats(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
