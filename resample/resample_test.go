package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audtrans/audio"
)

func frameOf(t testing.TB, format audio.SampleFormat, layout audio.ChannelLayout, rate int, streams [][]float32) *audio.Frame {
	t.Helper()

	f, err := audio.NewFrame(format, layout, rate, len(streams[0]))
	if err != nil {
		t.Fatal(err)
	}
	var mux audio.ChannelMux
	if err := mux.Build(streams, 0, len(streams[0]), f); err != nil {
		t.Fatal(err)
	}
	return f
}

func ramp(n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(math.Sin(float64(i) * 0.05))
	}
	return s
}

// drainAll converts everything pending, then flushes, and returns the
// interleaved output plus the PTS of every emitted frame.
func drainAll(t *testing.T, r *Resampler, dst *audio.Frame) ([]float32, []int64) {
	t.Helper()

	var (
		out []float32
		pts []int64
	)
	take := func(f *audio.Frame) error {
		var demux audio.ChannelDemux
		chans, err := demux.Deinterleave(f, make([][]float32, f.Channels()))
		if err != nil {
			return err
		}
		for i := range f.Samples {
			for c := range chans {
				out = append(out, chans[c][i])
			}
		}
		pts = append(pts, f.PTS)
		return nil
	}

	for r.Pending() > 0 {
		if _, err := r.Convert(dst, nil); err != nil {
			t.Fatal(err)
		}
		if err := take(dst); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Flush(dst, take); err != nil {
		t.Fatal(err)
	}
	return out, pts
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	valid := Config{
		SrcFormat: audio.S16, SrcRate: 8000, SrcLayout: audio.LayoutMono,
		DstFormat: audio.F32, DstRate: 16000, DstLayout: audio.LayoutStereo,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"source format", func(c *Config) { c.SrcFormat = audio.FormatNone }, audio.ErrUnsupportedSampleFormat},
		{"target rate", func(c *Config) { c.DstRate = 0 }, audio.ErrInvalidRate},
		{"source layout", func(c *Config) { c.SrcLayout = 0 }, audio.ErrChannelMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)
			_, err := New(cfg)
			if !errors.Is(err, ErrResample) || !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}

	r, err := New(valid)
	if err != nil {
		t.Fatal(err)
	}
	if r.Config() != valid {
		t.Errorf("Config() = %+v", r.Config())
	}
}

func TestResampler_FormatAndLayoutOnly(t *testing.T) {
	t.Parallel()

	r, err := New(Config{
		SrcFormat: audio.F32P, SrcRate: 8000, SrcLayout: audio.LayoutStereo,
		DstFormat: audio.F32, DstRate: 8000, DstLayout: audio.LayoutMono,
	})
	if err != nil {
		t.Fatal(err)
	}

	src := frameOf(t, audio.F32P, audio.LayoutStereo, 8000, [][]float32{{1, 0.5, 0}, {0, 0.5, -1}})

	var dst audio.Frame
	n, err := r.Convert(&dst, src)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || dst.Format != audio.F32 || dst.Layout != audio.LayoutMono || dst.SampleRate != 8000 {
		t.Fatalf("Convert() = %d samples as %s %s %d Hz", n, dst.Format, dst.Layout, dst.SampleRate)
	}

	want := []float32{0.5, 0.5, -0.5}
	for i := range want {
		v, _ := audio.ToNormalized(audio.F32, dst.Planes[0], i)
		if v != want[i] {
			t.Errorf("sample %d = %v, want %v", i, v, want[i])
		}
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d after full convert", r.Pending())
	}
}

func TestResampler_SmallOutputFrames(t *testing.T) {
	t.Parallel()

	r, _ := New(Config{
		SrcFormat: audio.S16, SrcRate: 8000, SrcLayout: audio.LayoutMono,
		DstFormat: audio.S16, DstRate: 8000, DstLayout: audio.LayoutMono,
	})

	if err := r.Push(frameOf(t, audio.S16, audio.LayoutMono, 8000, [][]float32{ramp(25)})); err != nil {
		t.Fatal(err)
	}

	dst, _ := audio.NewFrame(audio.S16, audio.LayoutMono, 8000, 10)
	out, pts := drainAll(t, r, dst)

	if len(out) != 25 {
		t.Errorf("got %d samples, want 25", len(out))
	}
	wantPTS := []int64{0, 10, 20}
	if len(pts) != len(wantPTS) {
		t.Fatalf("PTS = %v, want %v", pts, wantPTS)
	}
	for i := range wantPTS {
		if pts[i] != wantPTS[i] {
			t.Errorf("PTS = %v, want %v", pts, wantPTS)
		}
	}
}

func TestResampler_RateChangeIsChunkIndependent(t *testing.T) {
	t.Parallel()

	cfg := Config{
		SrcFormat: audio.F32, SrcRate: 16000, SrcLayout: audio.LayoutStereo,
		DstFormat: audio.F32, DstRate: 8000, DstLayout: audio.LayoutStereo,
	}
	left, right := ramp(1000), ramp(1000)
	for i := range right {
		right[i] = -right[i]
	}

	run := func(chunk int) []float32 {
		r, _ := New(cfg)
		for start := 0; start < len(left); start += chunk {
			end := min(start+chunk, len(left))
			f := frameOf(t, audio.F32, audio.LayoutStereo, 16000, [][]float32{left[start:end], right[start:end]})
			if err := r.Push(f); err != nil {
				t.Fatal(err)
			}
		}
		dst, _ := audio.NewFrame(audio.F32, audio.LayoutStereo, 8000, 128)
		out, _ := drainAll(t, r, dst)
		return out
	}

	want := run(len(left))
	if len(want) != 2*500 {
		t.Fatalf("got %d samples, want %d", len(want), 2*500)
	}
	for _, chunk := range []int{1, 33, 256} {
		got := run(chunk)
		if len(got) != len(want) {
			t.Fatalf("chunk %d: %d samples, want %d", chunk, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("chunk %d: sample %d = %v, want %v", chunk, i, got[i], want[i])
			}
		}
	}
}

func TestResampler_Upsample(t *testing.T) {
	t.Parallel()

	r, _ := New(Config{
		SrcFormat: audio.S16, SrcRate: 8000, SrcLayout: audio.LayoutMono,
		DstFormat: audio.F32, DstRate: 48000, DstLayout: audio.LayoutStereo,
	})
	if err := r.Push(frameOf(t, audio.S16, audio.LayoutMono, 8000, [][]float32{ramp(800)})); err != nil {
		t.Fatal(err)
	}

	var dst audio.Frame
	out, _ := drainAll(t, r, &dst)
	if frames := len(out) / 2; frames < 4799 || frames > 4801 {
		t.Errorf("got %d frames, want about 4800", frames)
	}
	for i := 0; i < len(out); i += 2 {
		if out[i] != out[i+1] {
			t.Fatalf("frame %d: channels differ after mono upmix", i/2)
		}
	}
}

func TestResampler_Errors(t *testing.T) {
	t.Parallel()

	r, _ := New(Config{
		SrcFormat: audio.S16, SrcRate: 8000, SrcLayout: audio.LayoutMono,
		DstFormat: audio.F32, DstRate: 16000, DstLayout: audio.LayoutMono,
	})

	wrong := frameOf(t, audio.S16, audio.LayoutStereo, 8000, [][]float32{{0}, {0}})
	if err := r.Push(wrong); !errors.Is(err, ErrResample) {
		t.Errorf("Push(wrong layout) error = %v", err)
	}

	empty, _ := audio.NewFrame(audio.S16, audio.LayoutMono, 8000, 4)
	if err := r.Push(empty); err != nil {
		t.Errorf("Push(empty) error = %v", err)
	}

	var dst audio.Frame
	if err := r.Flush(&dst, func(*audio.Frame) error { return nil }); err != nil {
		t.Fatal(err)
	}
	ok := frameOf(t, audio.S16, audio.LayoutMono, 8000, [][]float32{{0}})
	if err := r.Push(ok); !errors.Is(err, audio.ErrResamplerFlushed) {
		t.Errorf("Push() after Flush error = %v, want ErrResamplerFlushed", err)
	}
}

func TestResampler_FlushEmitError(t *testing.T) {
	t.Parallel()

	r, _ := New(Config{
		SrcFormat: audio.F32, SrcRate: 8000, SrcLayout: audio.LayoutMono,
		DstFormat: audio.F32, DstRate: 8000, DstLayout: audio.LayoutMono,
	})
	_ = r.Push(frameOf(t, audio.F32, audio.LayoutMono, 8000, [][]float32{{0.1, 0.2}}))

	boom := errors.New("sink closed")
	var dst audio.Frame
	if err := r.Flush(&dst, func(*audio.Frame) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Flush() error = %v, want emit error", err)
	}
}

func BenchmarkResampler_Convert(b *testing.B) {
	r, _ := New(Config{
		SrcFormat: audio.S16, SrcRate: 44100, SrcLayout: audio.LayoutStereo,
		DstFormat: audio.F32, DstRate: 48000, DstLayout: audio.LayoutStereo,
	})
	src := frameOf(b, audio.S16, audio.LayoutStereo, 44100, [][]float32{ramp(1024), ramp(1024)})
	dst, _ := audio.NewFrame(audio.F32, audio.LayoutStereo, 48000, 2048)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = r.Convert(dst, src)
	}
}
