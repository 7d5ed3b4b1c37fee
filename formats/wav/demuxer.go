// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec/pcm"
)

// pcmReader is the subset of go-audio's decoder used after the header has
// been parsed; it allows testing.
type pcmReader interface {
	Read(p []byte) (int, error)
}

// Demuxer reads the data chunk of a WAV file as packets of raw PCM.
type Demuxer struct {
	data   pcmReader
	stream audio.StreamDescriptor
	// 24-bit input is widened to 32 bits per sample.
	widen24 bool
	buf     []byte
	pts     int64
}

// NewDemuxer parses the WAV header of r and positions it at the first sample.
func NewDemuxer(r io.ReadSeeker) (*Demuxer, error) {
	dec := gowav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	format, widen, err := sampleFormat(int(dec.WavAudioFormat), int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}
	if dec.PCMChunk == nil {
		return nil, ErrUnsupportedWavChunks
	}

	name, _ := pcm.CodecName(format)
	channels := int(dec.NumChans)
	return &Demuxer{
		data: dec.PCMChunk,
		stream: audio.StreamDescriptor{
			Codec:      name,
			Format:     format,
			SampleRate: int(dec.SampleRate),
			Channels:   channels,
			Layout:     audio.DefaultLayout(channels),
			BitRate:    int(dec.AvgBytesPerSec) * 8,
		},
		widen24: widen,
	}, nil
}

func sampleFormat(tag, bitDepth int) (audio.SampleFormat, bool, error) {
	switch {
	case tag == formatPCM && bitDepth == 8:
		return audio.U8, false, nil
	case tag == formatPCM && bitDepth == 16:
		return audio.S16, false, nil
	case tag == formatPCM && bitDepth == 24:
		return audio.S32, true, nil
	case tag == formatPCM && bitDepth == 32:
		return audio.S32, false, nil
	case tag == formatFloat && bitDepth == 32:
		return audio.F32, false, nil
	case tag == formatFloat && bitDepth == 64:
		return audio.F64, false, nil
	}
	return audio.FormatNone, false, fmt.Errorf("%w: format %d, %d bits", ErrUnsupportedBitDepth, tag, bitDepth)
}

func (d *Demuxer) Streams() []audio.StreamDescriptor {
	return []audio.StreamDescriptor{d.stream}
}

func (d *Demuxer) ReadPacket(pkt *audio.Packet) error {
	inWidth := d.stream.Format.BytesPerSample()
	if d.widen24 {
		inWidth = 3
	}
	frameBytes := inWidth * d.stream.Channels
	size := samplesPerPacket * frameBytes

	if cap(d.buf) < size {
		d.buf = make([]byte, size)
	}
	d.buf = d.buf[:size]

	n, err := io.ReadFull(d.data, d.buf)
	if n == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return err
	}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("read wav samples: %w", err)
	}

	samples := n / frameBytes
	if samples == 0 {
		return io.EOF
	}

	pkt.StreamIndex = d.stream.Index
	pkt.PTS = d.pts
	pkt.DTS = d.pts
	pkt.Duration = int64(samples)
	if d.widen24 {
		pkt.Data = widen24(pkt.Data[:0], d.buf[:samples*frameBytes])
	} else {
		pkt.Data = append(pkt.Data[:0], d.buf[:samples*frameBytes]...)
	}

	d.pts += int64(samples)
	return nil
}

func (d *Demuxer) Close() error { return nil }

// widen24 converts packed 24-bit little-endian samples to 32-bit ones.
func widen24(dst, src []byte) []byte {
	var tmp [4]byte
	for i := 0; i+3 <= len(src); i += 3 {
		v := uint32(src[i])<<8 | uint32(src[i+1])<<16 | uint32(src[i+2])<<24
		binary.LittleEndian.PutUint32(tmp[:], v)
		dst = append(dst, tmp[:]...)
	}
	return dst
}
