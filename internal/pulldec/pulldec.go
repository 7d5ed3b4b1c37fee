// SPDX-License-Identifier: EPL-2.0

// Package pulldec adapts pull-based decoding libraries, which read the
// whole bitstream from an io.Reader themselves, to the packet-in/frame-out
// codec protocol.
//
// Submitted packets are buffered by the decoder; decoding starts when the
// end of input is signalled, so such engines only produce frames once the
// flow controller flushes them.
package pulldec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// FrameReader yields decoded frames until io.EOF.
type FrameReader interface {
	ReadFrame(f *audio.Frame) error
}

// OpenFunc starts decoding the complete bitstream in r.
type OpenFunc func(r io.Reader) (FrameReader, error)

// Decoder buffers packets and decodes them once flushed.
type Decoder struct {
	open    OpenFunc
	data    bytes.Buffer
	reader  FrameReader
	flushed bool
	done    bool
}

func NewDecoder(open OpenFunc) *Decoder {
	return &Decoder{open: open}
}

func (d *Decoder) SendPacket(pkt *audio.Packet) (codec.Result, error) {
	if d.flushed {
		return codec.EOF, codec.ErrAlreadyFlushed
	}
	if pkt != nil {
		d.data.Write(pkt.Data)
		return codec.OK, nil
	}

	d.flushed = true
	if d.data.Len() == 0 {
		d.done = true
		return codec.OK, nil
	}

	reader, err := d.open(bytes.NewReader(d.data.Bytes()))
	if err != nil {
		return codec.OK, fmt.Errorf("%w: %w", codec.ErrCodecEngine, err)
	}
	d.reader = reader
	return codec.OK, nil
}

func (d *Decoder) ReceiveFrame(f *audio.Frame) (codec.Result, error) {
	if !d.flushed {
		return codec.Again, nil
	}
	if d.done {
		return codec.EOF, nil
	}

	err := d.reader.ReadFrame(f)
	if errors.Is(err, io.EOF) {
		d.done = true
		return codec.EOF, nil
	}
	if err != nil {
		d.done = true
		return codec.OK, fmt.Errorf("%w: %w", codec.ErrCodecEngine, err)
	}
	return codec.OK, nil
}

func (d *Decoder) Close() error {
	d.data.Reset()
	d.reader = nil
	return nil
}

// ChunkDemuxer cuts a bitstream into fixed-size packets of one stream.
type ChunkDemuxer struct {
	r      io.Reader
	stream audio.StreamDescriptor
	size   int
	pos    int64
}

// NewChunkDemuxer reads r in chunks of size bytes.
func NewChunkDemuxer(r io.Reader, stream audio.StreamDescriptor, size int) *ChunkDemuxer {
	return &ChunkDemuxer{r: r, stream: stream, size: size}
}

func (d *ChunkDemuxer) Streams() []audio.StreamDescriptor {
	return []audio.StreamDescriptor{d.stream}
}

func (d *ChunkDemuxer) ReadPacket(pkt *audio.Packet) error {
	if cap(pkt.Data) < d.size {
		pkt.Data = make([]byte, d.size)
	}
	pkt.Data = pkt.Data[:d.size]

	n, err := io.ReadFull(d.r, pkt.Data)
	pkt.Data = pkt.Data[:n]
	if n == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return err
	}
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("decode: %w", err)
	}

	pkt.StreamIndex = d.stream.Index
	// Byte offsets: compressed chunks carry no sample timing.
	pkt.PTS = d.pos
	pkt.DTS = d.pos
	pkt.Duration = 0
	d.pos += int64(n)
	return nil
}

func (d *ChunkDemuxer) Close() error { return nil }
