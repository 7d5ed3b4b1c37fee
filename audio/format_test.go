package audio

import "testing"

func TestSampleFormat_Properties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  SampleFormat
		name    string
		width   int
		planar  bool
		integer bool
	}{
		{U8, "u8", 1, false, true},
		{S16, "s16", 2, false, true},
		{S32, "s32", 4, false, true},
		{S64, "s64", 8, false, true},
		{F32, "flt", 4, false, false},
		{F64, "dbl", 8, false, false},
		{U8P, "u8p", 1, true, true},
		{S16P, "s16p", 2, true, true},
		{F32P, "fltp", 4, true, false},
		{F64P, "dblp", 8, true, false},
		{FormatNone, "none", 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.format.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.format.BytesPerSample(); got != tt.width {
				t.Errorf("BytesPerSample() = %d, want %d", got, tt.width)
			}
			if got := tt.format.IsPlanar(); got != tt.planar {
				t.Errorf("IsPlanar() = %v, want %v", got, tt.planar)
			}
			if got := tt.format.IsInteger(); got != tt.integer {
				t.Errorf("IsInteger() = %v, want %v", got, tt.integer)
			}
			if got := tt.format.Valid(); got != (tt.width > 0) {
				t.Errorf("Valid() = %v", got)
			}
		})
	}
}

func TestSampleFormat_Twins(t *testing.T) {
	t.Parallel()

	for _, f := range []SampleFormat{U8, S16, S32, S64, F32, F64} {
		p := f.Planar()
		if !p.IsPlanar() || p.Packed() != f || f.Packed() != f || p.Planar() != p {
			t.Errorf("%s: planar %s, packed back %s", f, p, p.Packed())
		}
	}
	if FormatNone.Planar() != FormatNone {
		t.Error("FormatNone.Planar() changed the format")
	}
}

func TestParseSampleFormat(t *testing.T) {
	t.Parallel()

	for f := U8; f <= F64P; f++ {
		got, ok := ParseSampleFormat(f.String())
		if !ok || got != f {
			t.Errorf("ParseSampleFormat(%q) = %s, %v", f.String(), got, ok)
		}
	}
	if got, ok := ParseSampleFormat(" S16P "); !ok || got != S16P {
		t.Errorf("ParseSampleFormat(\" S16P \") = %s, %v", got, ok)
	}
	if _, ok := ParseSampleFormat("s24"); ok {
		t.Error("ParseSampleFormat(\"s24\") succeeded")
	}
}

func TestChannelLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		layout   ChannelLayout
		channels int
		name     string
	}{
		{LayoutMono, 1, "mono"},
		{LayoutStereo, 2, "stereo"},
		{Layout2Point1, 3, "2.1"},
		{LayoutQuad, 4, "quad"},
		{Layout5Point1, 6, "5.1"},
		{Layout7Point1, 8, "7.1"},
		{LayoutSurround, 3, "FL+FR+FC"},
		{0, 0, "none"},
	}

	for _, tt := range tests {
		if got := tt.layout.Channels(); got != tt.channels {
			t.Errorf("%s.Channels() = %d, want %d", tt.name, got, tt.channels)
		}
		if got := tt.layout.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestChannelLayout_IndexAndRoles(t *testing.T) {
	t.Parallel()

	l := Layout5Point1
	roles := l.Roles()
	if len(roles) != 6 {
		t.Fatalf("Roles() = %v, want 6 roles", roles)
	}
	for i, r := range roles {
		if got := l.Index(r); got != i {
			t.Errorf("Index(%s) = %d, want %d", r, got, i)
		}
	}
	if got := l.Index(BackCenter); got != -1 {
		t.Errorf("Index(missing role) = %d, want -1", got)
	}
	if got := l.Index(LayoutStereo); got != -1 {
		t.Errorf("Index(two roles) = %d, want -1", got)
	}
}

func TestDefaultLayout(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 11; n++ {
		if got := DefaultLayout(n).Channels(); got != n {
			t.Errorf("DefaultLayout(%d) has %d channels", n, got)
		}
	}
	if DefaultLayout(0) != 0 {
		t.Error("DefaultLayout(0) != 0")
	}
}

func TestFrame_Alloc(t *testing.T) {
	t.Parallel()

	f, err := NewFrame(S16P, LayoutStereo, 48000, 10)
	if err != nil {
		t.Fatalf("NewFrame() error = %v", err)
	}
	if len(f.Planes) != 2 || len(f.Planes[0]) != 20 {
		t.Fatalf("planar planes = %d x %d bytes, want 2 x 20", len(f.Planes), len(f.Planes[0]))
	}

	// Reallocation to interleaved reuses the first plane.
	first := &f.Planes[0][0]
	if err := f.Alloc(U8, LayoutStereo, 48000, 5); err != nil {
		t.Fatal(err)
	}
	if len(f.Planes) != 1 || len(f.Planes[0]) != 10 || &f.Planes[0][0] != first {
		t.Errorf("interleaved plane not reused: %d planes, %d bytes", len(f.Planes), len(f.Planes[0]))
	}

	f.Samples = 5
	if got := f.PlaneSize(); got != 10 {
		t.Errorf("PlaneSize() = %d, want 10", got)
	}

	if _, err := NewFrame(FormatNone, LayoutMono, 8000, 1); err == nil {
		t.Error("NewFrame(none) succeeded")
	}
	if _, err := NewFrame(S16, 0, 8000, 1); err == nil {
		t.Error("NewFrame(no channels) succeeded")
	}
}

func TestFrame_Silence(t *testing.T) {
	t.Parallel()

	f, _ := NewFrame(U8, LayoutMono, 8000, 4)
	for i := range f.Planes[0] {
		f.Planes[0][i] = 200
	}
	f.Silence(1, 3)

	want := []byte{200, 127, 127, 200}
	for i, b := range f.Planes[0] {
		if b != want[i] {
			t.Errorf("byte %d = %d, want %d", i, b, want[i])
		}
	}
	if v, _ := ToNormalized(U8, f.Planes[0], 1); v != 0 {
		t.Errorf("silent u8 sample normalizes to %v", v)
	}
}

func TestStreamDescriptor_Validate(t *testing.T) {
	t.Parallel()

	ok := StreamDescriptor{Codec: "pcm_s16le", Format: S16, SampleRate: 8000, Channels: 2, Layout: LayoutStereo}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	bad := ok
	bad.Channels = 1
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted channel count not matching layout")
	}
	bad = ok
	bad.SampleRate = 0
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted zero sample rate")
	}
}
