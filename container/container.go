// SPDX-License-Identifier: EPL-2.0

// Package container defines the boundary to container formats: demuxers
// that split a file into streams of compressed packets, and muxers that
// write packets of one stream back into a file.
package container

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ik5/audtrans/audio"
)

var (
	ErrUnknownFormat    = errors.New("unknown container format")
	ErrHeaderWritten    = errors.New("header already written")
	ErrHeaderMissing    = errors.New("header not written")
	ErrTrailerWritten   = errors.New("trailer already written")
	ErrNotSeekable      = errors.New("container needs a seekable stream")
	ErrUnsupportedCodec = errors.New("codec not supported by container")
)

// Demuxer reads packets from an opened input.
type Demuxer interface {
	// Streams lists the streams found in the input.
	Streams() []audio.StreamDescriptor
	// ReadPacket fills pkt with the next packet of any stream. It returns
	// io.EOF after the last packet.
	ReadPacket(pkt *audio.Packet) error
	Close() error
}

// Muxer writes the packets of one stream to an output.
type Muxer interface {
	WriteHeader(stream audio.StreamDescriptor) error
	WritePacket(pkt *audio.Packet) error
	// WriteTrailer finalizes the container. The muxer cannot be written
	// to afterwards.
	WriteTrailer() error
	Close() error
}

// Format opens demuxers and/or muxers for one container type.
type Format interface {
	Name() string
	// Extensions lists file extensions without the dot.
	Extensions() []string
	// Codecs lists codec identifiers the muxer can store.
	Codecs() []string
	// OpenInput returns ErrUnknownFormat when the format cannot demux.
	OpenInput(r io.ReadSeeker) (Demuxer, error)
	// OpenOutput returns ErrUnknownFormat when the format cannot mux.
	OpenOutput(w io.WriteSeeker) (Muxer, error)
}

// Registry for container formats by file extension.
type Registry struct {
	byExt map[string]Format

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]Format),
		mtx:   &sync.Mutex{},
	}
}

// Register maps every extension of f to f, replacing earlier entries.
func (r *Registry) Register(f Format) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, ext := range f.Extensions() {
		r.byExt[strings.ToLower(ext)] = f
	}
}

func (r *Registry) Get(ext string) (Format, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.byExt[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return f, ok
}

// ForPath returns the format registered for the extension of path.
func (r *Registry) ForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	f, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return f, nil
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether f can store codecName.
func Supports(f Format, codecName string) bool {
	for _, c := range f.Codecs() {
		if strings.EqualFold(c, codecName) {
			return true
		}
	}
	return false
}
