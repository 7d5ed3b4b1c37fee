// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
)

// DefaultFrameSamples is the frame size used for encoders that accept any.
const DefaultFrameSamples = 1024

// DecodeOptions configures a decode job.
type DecodeOptions struct {
	Codecs *codec.Registry
	// Formats is used by DecodeFile to pick a demuxer.
	Formats *container.Registry

	// RequestFormat asks the decoder for a sample format, typically the
	// packed or planar twin of the stream's format. Engines that cannot
	// honour it keep their own.
	RequestFormat audio.SampleFormat
	// SampleRate and Layout convert the decoded audio; zero keeps the
	// source value.
	SampleRate int
	Layout     audio.ChannelLayout

	// RawPassthrough copies decoded plane 0 to channel 0 unconverted.
	// It cannot be combined with SampleRate or Layout, and the decoded
	// stream must be mono float32.
	RawPassthrough bool

	// ScratchDir keeps decoded channels in scratch files there instead
	// of memory until the job finishes.
	ScratchDir string

	Log logrus.FieldLogger
	// OnDone is called exactly once, after teardown.
	OnDone func(*DecodeResult, error)
}

// DecodeResult is the outcome of a successful decode job.
type DecodeResult struct {
	// Stream describes the decoded source stream.
	Stream audio.StreamDescriptor
	// Codec is the name of the engine that decoded the stream.
	Codec string
	// SampleRate and Layout describe Channels, after any conversion.
	SampleRate int
	Layout     audio.ChannelLayout
	// Channels holds one normalized buffer per channel; all have the
	// same length.
	Channels [][]float32
}

// EncodeOptions configures an encode job.
type EncodeOptions struct {
	Codecs *codec.Registry
	// Formats is used by EncodeFile to pick a muxer.
	Formats *container.Registry

	// Codec names the target engine; empty lets EncodeFile use the first
	// codec the output container stores.
	Codec string
	// Format, SampleRate and Channels are requests to the negotiator;
	// zero values leave the choice to it.
	Format     audio.SampleFormat
	SampleRate int
	Channels   int
	BitRate    int

	// FrameSamples is used when the encoder takes frames of any size.
	FrameSamples int

	Log    logrus.FieldLogger
	OnDone func(*EncodeResult, error)
}

// EncodeResult is the outcome of a successful encode job.
type EncodeResult struct {
	// Path of the written file, set by EncodeFile.
	Path    string
	Stream  audio.StreamDescriptor
	Packets int
	// Samples per channel handed to the encoder.
	Samples int64
}

func logger(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}
