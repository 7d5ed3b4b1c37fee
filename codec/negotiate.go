// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/audtrans/audio"
)

// Defaults used when an engine does not advertise a fixed list.
const (
	DefaultSampleRate = 44100
	DefaultLayout     = audio.LayoutStereo
	DefaultFormat     = audio.F32
)

// NegotiatedFormat is the encoder configuration chosen for a job. Every
// field comes from the engine's capabilities, or from the defaults above
// when the engine advertises nothing for it.
type NegotiatedFormat struct {
	Format     audio.SampleFormat
	SampleRate int
	Layout     audio.ChannelLayout
}

func (n NegotiatedFormat) String() string {
	return fmt.Sprintf("%s %dHz %s", n.Format, n.SampleRate, n.Layout)
}

// Request is what the caller would like to produce. Zero fields leave the
// choice to the negotiator.
type Request struct {
	Format     audio.SampleFormat
	SampleRate int
	Layout     audio.ChannelLayout
}

// Negotiate picks the configuration in caps closest to req.
//
// The sample rate is req.SampleRate when advertised, else the advertised
// rate nearest to it (DefaultSampleRate when req has none). The layout is
// req.Layout when advertised, else the advertised layout with the most
// channels. The sample format must be advertised when req names one.
func Negotiate(req Request, caps Capabilities) (NegotiatedFormat, error) {
	format, err := selectFormat(req.Format, caps.SampleFormats)
	if err != nil {
		return NegotiatedFormat{}, err
	}

	return NegotiatedFormat{
		Format:     format,
		SampleRate: selectSampleRate(req.SampleRate, caps.SampleRates),
		Layout:     selectLayout(req.Layout, caps.Layouts),
	}, nil
}

func selectFormat(want audio.SampleFormat, supported []audio.SampleFormat) (audio.SampleFormat, error) {
	if want == audio.FormatNone {
		if len(supported) == 0 {
			return DefaultFormat, nil
		}
		return supported[0], nil
	}

	if len(supported) == 0 {
		if want.Valid() {
			return want, nil
		}
		return audio.FormatNone, fmt.Errorf("%w: %s", audio.ErrUnsupportedSampleFormat, want)
	}
	for _, f := range supported {
		if f == want {
			return f, nil
		}
	}
	return audio.FormatNone, fmt.Errorf("%w: encoder does not accept %s", audio.ErrUnsupportedSampleFormat, want)
}

func selectSampleRate(want int, supported []int) int {
	if len(supported) == 0 {
		return DefaultSampleRate
	}
	if want <= 0 {
		want = DefaultSampleRate
	}

	best := 0
	for _, rate := range supported {
		if rate == want {
			return rate
		}
		if best == 0 || absInt(want-rate) < absInt(want-best) {
			best = rate
		}
	}
	return best
}

func selectLayout(want audio.ChannelLayout, supported []audio.ChannelLayout) audio.ChannelLayout {
	if len(supported) == 0 {
		return DefaultLayout
	}

	var best audio.ChannelLayout
	for _, layout := range supported {
		if want != 0 && layout == want {
			return layout
		}
		if layout.Channels() > best.Channels() {
			best = layout
		}
	}
	return best
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
