// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/internal/pulldec"
)

// CodecName is the codec identifier of MP3 streams.
const CodecName = "mp3"

const (
	chunkSize       = 16 * 1024
	maxFrameSamples = 4096
)

var ErrNotMp3File = errors.New("not an MP3 file")

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// Format is the MP3 elementary stream container. Only demuxing is supported.
type Format struct{}

func (Format) Name() string         { return "mp3" }
func (Format) Extensions() []string { return []string{"mp3"} }
func (Format) Codecs() []string     { return nil }

// OpenInput probes the stream parameters, rewinds r and returns a demuxer
// emitting the raw bitstream in chunks.
func (Format) OpenInput(r io.ReadSeeker) (container.Demuxer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMp3File, err)
	}
	rate := dec.SampleRate()
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", container.ErrNotSeekable, err)
	}

	return pulldec.NewChunkDemuxer(r, audio.StreamDescriptor{
		Codec:      CodecName,
		Format:     audio.S16,
		SampleRate: rate,
		// go-mp3 outputs stereo (2 channels) for every MP3 file
		Channels: 2,
		Layout:   audio.LayoutStereo,
	}, chunkSize), nil
}

func (Format) OpenOutput(io.WriteSeeker) (container.Muxer, error) {
	return nil, fmt.Errorf("%w: mp3 output", container.ErrUnknownFormat)
}

// Engine decodes MP3 with go-mp3.
type Engine struct{}

func (Engine) Name() string { return CodecName }

func (Engine) Capabilities() codec.Capabilities {
	return codec.Capabilities{
		SampleFormats: []audio.SampleFormat{audio.S16},
		SampleRates:   []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000},
		Layouts:       []audio.ChannelLayout{audio.LayoutStereo},
	}
}

func (Engine) OpenDecoder(stream audio.StreamDescriptor) (codec.Decoder, error) {
	if stream.Codec != CodecName {
		return nil, fmt.Errorf("%w: %s is not %s", codec.ErrCodecOpen, stream.Codec, CodecName)
	}
	return pulldec.NewDecoder(func(r io.Reader) (pulldec.FrameReader, error) {
		dec, err := gomp3.NewDecoder(r)
		if err != nil {
			return nil, fmt.Errorf("open mp3 stream: %w", err)
		}
		return &frameReader{dec: dec}, nil
	}), nil
}

func (Engine) OpenEncoder(codec.NegotiatedFormat, codec.EncoderOptions) (codec.Encoder, error) {
	return nil, fmt.Errorf("%w: mp3 encoding", codec.ErrUnsupportedCodec)
}

// frameReader turns go-mp3's byte stream into S16 stereo frames.
type frameReader struct {
	dec mp3Reader
	pts int64
}

func (r *frameReader) ReadFrame(f *audio.Frame) error {
	if err := f.Alloc(audio.S16, audio.LayoutStereo, r.dec.SampleRate(), maxFrameSamples); err != nil {
		return err
	}

	// go-mp3 returns 16-bit little-endian PCM bytes (stereo interleaved)
	// Each sample frame is 4 bytes.
	n, err := io.ReadFull(r.dec, f.Planes[0])
	samples := n / 4
	if samples == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return err
	}
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}

	f.Samples = samples
	f.PTS = r.pts
	r.pts += int64(samples)
	return nil
}
