// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/internal/pulldec"
)

// CodecName is the codec identifier of Vorbis streams.
const CodecName = "vorbis"

const (
	chunkSize       = 16 * 1024
	maxFrameSamples = 4096
)

var ErrNotVorbisFile = errors.New("not an Ogg Vorbis file")

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// Format is the Ogg container carrying Vorbis. Only demuxing is supported.
type Format struct{}

func (Format) Name() string         { return "ogg" }
func (Format) Extensions() []string { return []string{"ogg", "oga"} }
func (Format) Codecs() []string     { return nil }

// OpenInput probes the stream parameters, rewinds r and returns a demuxer
// emitting the raw Ogg pages in chunks.
func (Format) OpenInput(r io.ReadSeeker) (container.Demuxer, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}
	rate, channels := dec.SampleRate(), dec.Channels()
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", container.ErrNotSeekable, err)
	}

	return pulldec.NewChunkDemuxer(r, audio.StreamDescriptor{
		Codec:      CodecName,
		Format:     audio.F32,
		SampleRate: rate,
		Channels:   channels,
		Layout:     audio.DefaultLayout(channels),
	}, chunkSize), nil
}

func (Format) OpenOutput(io.WriteSeeker) (container.Muxer, error) {
	return nil, fmt.Errorf("%w: vorbis output", container.ErrUnknownFormat)
}

// Engine decodes Vorbis with oggvorbis.
type Engine struct{}

func (Engine) Name() string { return CodecName }

func (Engine) Capabilities() codec.Capabilities {
	return codec.Capabilities{SampleFormats: []audio.SampleFormat{audio.F32}}
}

func (Engine) OpenDecoder(stream audio.StreamDescriptor) (codec.Decoder, error) {
	if stream.Codec != CodecName {
		return nil, fmt.Errorf("%w: %s is not %s", codec.ErrCodecOpen, stream.Codec, CodecName)
	}
	layout := stream.Layout
	return pulldec.NewDecoder(func(r io.Reader) (pulldec.FrameReader, error) {
		dec, err := oggvorbis.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open vorbis stream: %w", err)
		}
		if dec.Channels() != layout.Channels() {
			return nil, fmt.Errorf("%w: stream has %d channels, layout %s",
				audio.ErrChannelMismatch, dec.Channels(), layout)
		}
		return &frameReader{dec: dec, layout: layout}, nil
	}), nil
}

func (Engine) OpenEncoder(codec.NegotiatedFormat, codec.EncoderOptions) (codec.Encoder, error) {
	return nil, fmt.Errorf("%w: vorbis encoding", codec.ErrUnsupportedCodec)
}

// frameReader turns oggvorbis output into F32 interleaved frames.
type frameReader struct {
	dec    oggReader
	layout audio.ChannelLayout
	buf    []float32
	pts    int64
}

func (r *frameReader) ReadFrame(f *audio.Frame) error {
	channels := r.layout.Channels()
	if err := f.Alloc(audio.F32, r.layout, r.dec.SampleRate(), maxFrameSamples); err != nil {
		return err
	}

	want := maxFrameSamples * channels
	if cap(r.buf) < want {
		r.buf = make([]float32, want)
	}
	r.buf = r.buf[:want]

	// Read returns the number of values decoded, a multiple of the channel count.
	n, err := r.dec.Read(r.buf)
	samples := n / channels
	if samples == 0 {
		if err == nil {
			err = io.EOF
		}
		return err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	for i, v := range r.buf[:samples*channels] {
		binary.LittleEndian.PutUint32(f.Planes[0][i*4:], math.Float32bits(v))
	}
	f.Samples = samples
	f.PTS = r.pts
	r.pts += int64(samples)
	return nil
}
