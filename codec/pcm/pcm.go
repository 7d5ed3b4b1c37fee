// SPDX-License-Identifier: EPL-2.0

// Package pcm implements a codec engine for uncompressed little-endian PCM.
// Packets carry interleaved samples; decoded frames use the stream's sample
// format, which may be the planar twin of the packet layout.
package pcm

import (
	"fmt"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// maxFrameSamples bounds the samples per channel of one decoded frame.
const maxFrameSamples = 4096

var codecNames = map[audio.SampleFormat]string{
	audio.U8:  "pcm_u8",
	audio.S16: "pcm_s16le",
	audio.S32: "pcm_s32le",
	audio.S64: "pcm_s64le",
	audio.F32: "pcm_f32le",
	audio.F64: "pcm_f64le",
}

var commonRates = []int{8000, 11025, 16000, 22050, 32000, 44100, 48000, 88200, 96000}

var commonLayouts = []audio.ChannelLayout{
	audio.LayoutMono,
	audio.LayoutStereo,
	audio.Layout2Point1,
	audio.LayoutQuad,
	audio.Layout5Point0,
	audio.Layout5Point1,
	audio.Layout7Point1,
}

// CodecName returns the identifier of the PCM codec storing format.
func CodecName(format audio.SampleFormat) (string, bool) {
	name, ok := codecNames[format.Packed()]
	return name, ok
}

// Engine encodes and decodes one PCM sample format.
type Engine struct {
	format audio.SampleFormat
}

// New returns the engine for format; planar formats map to their packed twin.
func New(format audio.SampleFormat) (*Engine, error) {
	if _, ok := CodecName(format); !ok {
		return nil, fmt.Errorf("%w: no pcm codec for %s", codec.ErrUnsupportedCodec, format)
	}
	return &Engine{format: format.Packed()}, nil
}

// Register adds an engine for every PCM sample format to reg.
func Register(reg *codec.Registry) error {
	for _, f := range []audio.SampleFormat{audio.U8, audio.S16, audio.S32, audio.S64, audio.F32, audio.F64} {
		e, err := New(f)
		if err != nil {
			return err
		}
		if err := reg.Register(e); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) Name() string {
	name, _ := CodecName(e.format)
	return name
}

func (e *Engine) Capabilities() codec.Capabilities {
	return codec.Capabilities{
		SampleFormats: []audio.SampleFormat{e.format, e.format.Planar()},
		SampleRates:   commonRates,
		Layouts:       commonLayouts,
	}
}

func (e *Engine) OpenDecoder(stream audio.StreamDescriptor) (codec.Decoder, error) {
	if err := stream.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrCodecOpen, err)
	}

	out := stream.Format
	if out.Packed() != e.format {
		// Only the packed/planar alternative of the stored format can be requested.
		out = e.format
	}

	d := &decoder{
		stream: stream,
		out:    out,
		frame:  e.format.BytesPerSample() * stream.Channels,
	}
	return d, nil
}

func (e *Engine) OpenEncoder(format codec.NegotiatedFormat, _ codec.EncoderOptions) (codec.Encoder, error) {
	if format.Format.Packed() != e.format {
		return nil, fmt.Errorf("%w: %s encoder cannot take %s", codec.ErrCodecOpen, e.Name(), format.Format)
	}
	if format.SampleRate <= 0 || format.Layout.Channels() == 0 {
		return nil, fmt.Errorf("%w: %s", codec.ErrCodecOpen, format)
	}

	return &encoder{
		stream: audio.StreamDescriptor{
			Codec:      e.Name(),
			Format:     e.format,
			SampleRate: format.SampleRate,
			Channels:   format.Layout.Channels(),
			Layout:     format.Layout,
			BitRate:    format.SampleRate * format.Layout.Channels() * e.format.BytesPerSample() * 8,
		},
		in: format.Format,
	}, nil
}
