package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
)

// mockMP3Reader simulates the gomp3.Decoder for testing
type mockMP3Reader struct {
	sampleRate   int
	samples      []int16 // interleaved stereo PCM samples
	offset       int
	returnErrors bool
}

func (m *mockMP3Reader) SampleRate() int {
	return m.sampleRate
}

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.returnErrors {
		return 0, errors.New("corrupt frame")
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	samplesToRead := min(len(buf)/2, len(m.samples)-m.offset)
	for i := range samplesToRead {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(m.samples[m.offset+i]))
	}
	m.offset += samplesToRead

	if m.offset >= len(m.samples) {
		return samplesToRead * 2, io.EOF
	}
	return samplesToRead * 2, nil
}

func readFrames(t *testing.T, r *frameReader) ([]int16, []audio.Frame) {
	t.Helper()

	var (
		samples []int16
		frames  []audio.Frame
		f       audio.Frame
	)
	for {
		err := r.ReadFrame(&f)
		if errors.Is(err, io.EOF) {
			return samples, frames
		}
		if err != nil {
			t.Fatalf("ReadFrame() error = %v", err)
		}
		for i := 0; i < f.PlaneSize(); i += 2 {
			samples = append(samples, int16(binary.LittleEndian.Uint16(f.Planes[0][i:])))
		}
		frames = append(frames, audio.Frame{Samples: f.Samples, PTS: f.PTS, SampleRate: f.SampleRate, Format: f.Format, Layout: f.Layout})
	}
}

func TestFrameReader_StereoInterleaving(t *testing.T) {
	t.Parallel()

	in := []int16{100, -100, 200, -200, 300, -300}
	samples, frames := readFrames(t, &frameReader{dec: &mockMP3Reader{sampleRate: 44100, samples: in}})

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	f := frames[0]
	if f.Samples != 3 || f.Format != audio.S16 || f.Layout != audio.LayoutStereo || f.SampleRate != 44100 {
		t.Errorf("frame = %d samples %s %s %d Hz", f.Samples, f.Format, f.Layout, f.SampleRate)
	}
	for i := range in {
		if samples[i] != in[i] {
			t.Errorf("sample %d = %d, want %d", i, samples[i], in[i])
		}
	}
}

func TestFrameReader_SplitsLongStreams(t *testing.T) {
	t.Parallel()

	in := make([]int16, 2*(maxFrameSamples+10))
	samples, frames := readFrames(t, &frameReader{dec: &mockMP3Reader{sampleRate: 22050, samples: in}})

	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Samples != maxFrameSamples || frames[1].Samples != 10 {
		t.Errorf("frame sizes = %d, %d", frames[0].Samples, frames[1].Samples)
	}
	if frames[1].PTS != maxFrameSamples {
		t.Errorf("second frame PTS = %d, want %d", frames[1].PTS, maxFrameSamples)
	}
	if len(samples) != len(in) {
		t.Errorf("got %d samples, want %d", len(samples), len(in))
	}
}

func TestFrameReader_DropsPartialSampleFrame(t *testing.T) {
	t.Parallel()

	// Three int16 values: one full stereo frame plus half of another.
	_, frames := readFrames(t, &frameReader{dec: &mockMP3Reader{sampleRate: 8000, samples: []int16{1, 2, 3}}})
	if len(frames) != 1 || frames[0].Samples != 1 {
		t.Errorf("frames = %+v, want one frame of 1 sample", frames)
	}
}

func TestFrameReader_Error(t *testing.T) {
	t.Parallel()

	r := &frameReader{dec: &mockMP3Reader{sampleRate: 8000, returnErrors: true}}
	var f audio.Frame
	if err := r.ReadFrame(&f); err == nil || errors.Is(err, io.EOF) {
		t.Errorf("ReadFrame() error = %v, want decode failure", err)
	}
}

func TestEngine(t *testing.T) {
	t.Parallel()

	var e Engine
	if e.Name() != CodecName {
		t.Errorf("Name() = %q", e.Name())
	}
	caps := e.Capabilities()
	if len(caps.SampleFormats) != 1 || caps.SampleFormats[0] != audio.S16 {
		t.Errorf("SampleFormats = %v", caps.SampleFormats)
	}

	if _, err := e.OpenDecoder(audio.StreamDescriptor{Codec: "opus"}); !errors.Is(err, codec.ErrCodecOpen) {
		t.Errorf("OpenDecoder(opus) error = %v, want ErrCodecOpen", err)
	}
	if _, err := e.OpenEncoder(codec.NegotiatedFormat{}, codec.EncoderOptions{}); !errors.Is(err, codec.ErrUnsupportedCodec) {
		t.Errorf("OpenEncoder() error = %v, want ErrUnsupportedCodec", err)
	}
}

func TestEngine_DecoderWaitsForFlush(t *testing.T) {
	t.Parallel()

	dec, err := Engine{}.OpenDecoder(audio.StreamDescriptor{Codec: CodecName})
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	if r, err := dec.SendPacket(&audio.Packet{Data: []byte("not an mp3 bitstream")}); r != codec.OK || err != nil {
		t.Fatalf("SendPacket() = %s, %v", r, err)
	}
	var f audio.Frame
	if r, _ := dec.ReceiveFrame(&f); r != codec.Again {
		t.Errorf("ReceiveFrame() before flush = %s, want again", r)
	}
	if _, err := dec.SendPacket(nil); !errors.Is(err, codec.ErrCodecEngine) {
		t.Errorf("flush of invalid data error = %v, want ErrCodecEngine", err)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	var f Format
	if _, err := f.OpenInput(bytes.NewReader([]byte("This is not MP3 data"))); !errors.Is(err, ErrNotMp3File) {
		t.Errorf("OpenInput() error = %v, want ErrNotMp3File", err)
	}
	if _, err := f.OpenOutput(nil); !errors.Is(err, container.ErrUnknownFormat) {
		t.Errorf("OpenOutput() error = %v, want ErrUnknownFormat", err)
	}
}

func BenchmarkFrameReader_ReadFrame(b *testing.B) {
	in := make([]int16, 2*44100)
	var f audio.Frame

	b.ReportAllocs()
	for b.Loop() {
		r := &frameReader{dec: &mockMP3Reader{sampleRate: 44100, samples: in}}
		for r.ReadFrame(&f) == nil {
		}
	}
}
