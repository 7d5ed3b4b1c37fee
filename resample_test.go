package audtrans

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/internal/audiotest"
)

func TestResampleToMono16_Rates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src, dst int
		channels int
	}{
		{"44.1kHz stereo to 8kHz", 44100, 8000, 2},
		{"48kHz stereo to 16kHz", 48000, 16000, 2},
		{"8kHz mono to 16kHz", 8000, 16000, 1},
		{"22.05kHz 5.1 to 8kHz", 22050, 8000, 6},
		{"same rate", 16000, 16000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSineSource(tt.src, tt.channels, tt.src, 440.0)

			pcm16, rate, err := ResampleToMono16(src, tt.dst, 4096)
			if err != nil {
				t.Fatalf("ResampleToMono16() error = %v", err)
			}
			if rate != tt.dst {
				t.Errorf("rate = %d, want %d", rate, tt.dst)
			}

			// One second of input gives one second of output.
			if diff := len(pcm16) - tt.dst; diff < -1 || diff > 1 {
				t.Errorf("got %d samples, want %d +/- 1", len(pcm16), tt.dst)
			}
		})
	}
}

func TestResampleToMono16_Constant(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(16000, 1, 16000, 0.5)

	pcm16, _, err := ResampleToMono16(src, 8000, 4096)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range pcm16 {
		if s < 16380 || s > 16388 {
			t.Fatalf("pcm16[%d] = %d, want about 16384", i, s)
		}
	}
}

func TestResampleToMono16_MixesChannels(t *testing.T) {
	t.Parallel()

	// Opposite channels cancel out.
	src := audiotest.NewMockSource(8000, 2, 800, func(_ int, ch int) float32 {
		if ch == 0 {
			return 0.5
		}
		return -0.5
	})

	pcm16, _, err := ResampleToMono16(src, 8000, 256)
	if err != nil {
		t.Fatal(err)
	}
	if len(pcm16) != 800 {
		t.Fatalf("got %d samples, want 800", len(pcm16))
	}
	for i, s := range pcm16 {
		if s != 0 {
			t.Fatalf("pcm16[%d] = %d, want 0", i, s)
		}
	}
}

func TestResampleToMono16_BufferSizeDoesNotMatter(t *testing.T) {
	t.Parallel()

	// Halving is exact for the interpolator, so any buffer split must
	// produce the same samples.
	var want []int16
	for _, size := range []int{2, 30, 1024, 8000} {
		got, _, err := ResampleToMono16(audiotest.NewSineSource(16000, 2, 4000, 997), 8000, size)
		if err != nil {
			t.Fatal(err)
		}
		if want == nil {
			want = got
			continue
		}
		if len(got) != len(want) {
			t.Fatalf("buffer %d: %d samples, want %d", size, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("buffer %d: sample %d = %d, want %d", size, i, got[i], want[i])
			}
		}
	}
}

func TestResampleToMono16_Silence(t *testing.T) {
	t.Parallel()

	pcm16, _, err := ResampleToMono16(audiotest.NewSilentSource(44100, 2, 44100), 8000, 4096)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range pcm16 {
		if s != 0 {
			t.Fatalf("pcm16[%d] = %d, want 0", i, s)
		}
	}
}

func TestResampleToMono16_EmptySource(t *testing.T) {
	t.Parallel()

	pcm16, rate, err := ResampleToMono16(audiotest.NewSilentSource(44100, 2, 0), 8000, 4096)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 8000 || len(pcm16) != 0 {
		t.Errorf("got %d samples at %d Hz, want none at 8000", len(pcm16), rate)
	}
}

func TestResampleToMono16_Clipping(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 1, 99, func(sample int, _ int) float32 {
		switch sample % 3 {
		case 0:
			return 2
		case 1:
			return -2
		}
		return 0
	})

	pcm16, _, err := ResampleToMono16(src, 8000, 4096)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range pcm16 {
		want := []int16{math.MaxInt16, math.MinInt16, 0}[i%3]
		if s != want {
			t.Fatalf("pcm16[%d] = %d, want %d", i, s, want)
		}
	}
}

type brokenSource struct {
	*audiotest.MockSource
}

var errDevice = errors.New("device unplugged")

func (brokenSource) ReadSamples([]float32) (int, error) { return 0, errDevice }

func TestResampleToMono16_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    audio.Source
		rate   int
		buffer int
		want   error
	}{
		{"no channels", audiotest.NewSilentSource(8000, 0, 10), 8000, 4096, audio.ErrChannelMismatch},
		{"buffer smaller than a frame", audiotest.NewSilentSource(8000, 2, 10), 8000, 1, audio.ErrInvalidDstSize},
		{"invalid target rate", audiotest.NewSilentSource(8000, 1, 10), 0, 4096, audio.ErrInvalidRate},
		{"read failure", brokenSource{audiotest.NewSilentSource(8000, 1, 10)}, 8000, 4096, errDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := ResampleToMono16(tt.src, tt.rate, tt.buffer); !errors.Is(err, tt.want) {
				t.Errorf("ResampleToMono16() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func BenchmarkResampleToMono16(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		src := audiotest.NewSineSource(44100, 2, 44100, 440.0)
		_, _, _ = ResampleToMono16(src, 8000, 4096)
	}
}

func BenchmarkResampleToMono16_SmallBuffer(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		src := audiotest.NewSineSource(44100, 2, 44100, 440.0)
		_, _, _ = ResampleToMono16(src, 8000, 1024)
	}
}

func BenchmarkResampleToMono16_Upsample(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		src := audiotest.NewSineSource(8000, 2, 8000, 440.0)
		_, _, _ = ResampleToMono16(src, 44100, 4096)
	}
}
