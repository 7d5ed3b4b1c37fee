// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"errors"
	"fmt"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// CodecName is the codec identifier of Opus streams.
const CodecName = "opus"

const (
	// DefaultBitRate is used when the job does not name a bit rate.
	DefaultBitRate = 8000

	// granuleRate is the clock of Ogg Opus granule positions.
	granuleRate = 48000

	// maxPacketBytes is enough for any Opus packet.
	maxPacketBytes = 4000

	// maxPacketSamples is the longest packet duration (120 ms) at 48 kHz.
	maxPacketSamples = 5760
)

var (
	ErrNotOpusFile         = errors.New("not an Ogg Opus file")
	ErrUnsupportedChannels = errors.New("opus supports mono and stereo only")
)

var supportedRates = []int{8000, 12000, 16000, 24000, 48000}

// Engine encodes and decodes Opus with gopus.
type Engine struct{}

func (Engine) Name() string { return CodecName }

func (Engine) Capabilities() codec.Capabilities {
	return codec.Capabilities{
		SampleFormats: []audio.SampleFormat{audio.F32},
		SampleRates:   supportedRates,
		Layouts:       []audio.ChannelLayout{audio.LayoutMono, audio.LayoutStereo},
	}
}

func (Engine) OpenDecoder(stream audio.StreamDescriptor) (codec.Decoder, error) {
	if stream.Codec != CodecName {
		return nil, fmt.Errorf("%w: %s is not %s", codec.ErrCodecOpen, stream.Codec, CodecName)
	}
	if err := stream.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrCodecOpen, err)
	}
	return newDecoder(stream)
}

func (Engine) OpenEncoder(format codec.NegotiatedFormat, opts codec.EncoderOptions) (codec.Encoder, error) {
	return newEncoder(format, opts)
}

func validRate(rate int) bool {
	for _, r := range supportedRates {
		if r == rate {
			return true
		}
	}
	return false
}

// toGranule converts a duration in samples at rate to the 48 kHz clock.
func toGranule(samples int64, rate int) int64 {
	if rate == granuleRate || rate <= 0 {
		return samples
	}
	return samples * granuleRate / int64(rate)
}
