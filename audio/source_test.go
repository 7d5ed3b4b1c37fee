package audio

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestRawSource_ReadsInterleavedS16(t *testing.T) {
	t.Parallel()

	var raw []byte
	for _, v := range []int16{0, 32767, -32767, 16384} {
		raw = append(raw, le16(v)...)
	}

	src, err := NewRawSource(bytes.NewReader(raw), S16, 8000, 2)
	if err != nil {
		t.Fatal(err)
	}
	if src.SampleRate() != 8000 || src.Channels() != 2 || src.Format() != S16 {
		t.Fatalf("metadata = %d Hz, %d channels, %s", src.SampleRate(), src.Channels(), src.Format())
	}

	dst := make([]float32, 8)
	n, err := src.ReadSamples(dst)
	if !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() error = %v, want io.EOF", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() = %d samples, want 4", n)
	}

	want := []float32{0, 1, -1, div(16384, 32767)}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestRawSource_DropsPartialFrame(t *testing.T) {
	t.Parallel()

	// Two stereo u8 frames plus one dangling byte.
	src, _ := NewRawSource(bytes.NewReader([]byte{127, 127, 254, 0, 9}), U8, 8000, 2)

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("first read error = %v", err)
	}
	if n != 4 {
		t.Fatalf("first read = %d samples, want 4", n)
	}

	n, err = src.ReadSamples(dst)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("second read = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestRawSource_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewRawSource(bytes.NewReader(nil), S16P, 8000, 1); !errors.Is(err, ErrUnsupportedSampleFormat) {
		t.Errorf("planar format error = %v", err)
	}
	if _, err := NewRawSource(bytes.NewReader(nil), S16, 0, 1); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("zero rate error = %v", err)
	}
	if _, err := NewRawSource(bytes.NewReader(nil), S16, 8000, 0); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("zero channels error = %v", err)
	}

	src, _ := NewRawSource(bytes.NewReader(nil), S16, 8000, 2)
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("odd dst error = %v", err)
	}
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestRawSource_ClosesReader(t *testing.T) {
	t.Parallel()

	r := &closeRecorder{Reader: bytes.NewReader(nil)}
	src, _ := NewRawSource(r, F32, 48000, 1)
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if !r.closed {
		t.Error("Close() did not close the underlying reader")
	}
}

func TestPlanarSource_Interleaves(t *testing.T) {
	t.Parallel()

	src, err := NewPlanarSource(16000, [][]float32{{1, 2, 3}, {-1, -2, -3}})
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if err != nil || n != 4 {
		t.Fatalf("first read = %d, %v", n, err)
	}
	if dst[0] != 1 || dst[1] != -1 || dst[2] != 2 || dst[3] != -2 {
		t.Errorf("first read = %v", dst)
	}

	n, err = src.ReadSamples(dst)
	if n != 2 || !errors.Is(err, io.EOF) {
		t.Fatalf("second read = %d, %v; want 2, io.EOF", n, err)
	}
	if dst[0] != 3 || dst[1] != -3 {
		t.Errorf("second read = %v", dst[:2])
	}

	if n, err := src.ReadSamples(dst); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("read past end = %d, %v", n, err)
	}
}

func TestNewPlanarSource_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewPlanarSource(8000, nil); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("no channels error = %v", err)
	}
	if _, err := NewPlanarSource(8000, [][]float32{{1, 2}, {1}}); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("ragged channels error = %v", err)
	}
}
