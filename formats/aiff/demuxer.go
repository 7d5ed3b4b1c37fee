// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec/pcm"
	"github.com/ik5/audtrans/container"
)

// samplesPerPacket is the number of sample frames per demuxed packet.
const samplesPerPacket = 4096

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Format is the AIFF container. Only demuxing is supported.
type Format struct{}

func (Format) Name() string         { return "aiff" }
func (Format) Extensions() []string { return []string{"aiff", "aif"} }
func (Format) Codecs() []string     { return nil }

func (Format) OpenInput(r io.ReadSeeker) (container.Demuxer, error) {
	return NewDemuxer(r)
}

func (Format) OpenOutput(io.WriteSeeker) (container.Muxer, error) {
	return nil, fmt.Errorf("%w: aiff output", container.ErrUnknownFormat)
}

// Demuxer decodes AIFF sample data through go-audio and re-packs it as
// little-endian PCM packets: 8 and 16 bit input as pcm_s16le, 24 and 32
// bit input as pcm_s32le, left-aligned.
type Demuxer struct {
	dec    aiffReader
	stream audio.StreamDescriptor
	shift  uint
	intBuf *goaudio.IntBuffer
	pts    int64
}

func NewDemuxer(r io.ReadSeeker) (*Demuxer, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	// Read file info
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return newDemuxer(dec, format, int(dec.BitDepth))
}

func newDemuxer(dec aiffReader, format *goaudio.Format, bitDepth int) (*Demuxer, error) {
	var (
		sampleFmt audio.SampleFormat
		shift     uint
	)
	switch bitDepth {
	case 8:
		sampleFmt, shift = audio.S16, 8
	case 16:
		sampleFmt = audio.S16
	case 24:
		sampleFmt, shift = audio.S32, 8
	case 32:
		sampleFmt = audio.S32
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bitDepth)
	}

	name, _ := pcm.CodecName(sampleFmt)
	return &Demuxer{
		dec: dec,
		stream: audio.StreamDescriptor{
			Codec:      name,
			Format:     sampleFmt,
			SampleRate: format.SampleRate,
			Channels:   format.NumChannels,
			Layout:     audio.DefaultLayout(format.NumChannels),
			BitRate:    format.SampleRate * format.NumChannels * bitDepth,
		},
		shift: shift,
	}, nil
}

func (d *Demuxer) Streams() []audio.StreamDescriptor {
	return []audio.StreamDescriptor{d.stream}
}

func (d *Demuxer) ReadPacket(pkt *audio.Packet) error {
	channels := d.stream.Channels
	want := samplesPerPacket * channels

	// Resize buffer if needed
	if d.intBuf == nil || cap(d.intBuf.Data) < want {
		d.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, want),
			Format: d.dec.Format(),
		}
	} else {
		d.intBuf.Data = d.intBuf.Data[:want]
	}

	n, err := d.dec.PCMBuffer(d.intBuf)
	n -= n % channels
	if n == 0 {
		if err != nil && err != io.EOF {
			return fmt.Errorf("read aiff samples: %w", err)
		}
		return io.EOF
	}

	width := d.stream.Format.BytesPerSample()
	if cap(pkt.Data) < n*width {
		pkt.Data = make([]byte, n*width)
	}
	pkt.Data = pkt.Data[:n*width]
	for i, v := range d.intBuf.Data[:n] {
		v <<= d.shift
		if width == 2 {
			binary.LittleEndian.PutUint16(pkt.Data[i*2:], uint16(int16(v)))
		} else {
			binary.LittleEndian.PutUint32(pkt.Data[i*4:], uint32(int32(v)))
		}
	}

	samples := int64(n / channels)
	pkt.StreamIndex = d.stream.Index
	pkt.PTS = d.pts
	pkt.DTS = d.pts
	pkt.Duration = samples
	d.pts += samples
	return nil
}

func (d *Demuxer) Close() error { return nil }
