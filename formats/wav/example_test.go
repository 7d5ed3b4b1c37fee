// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/formats/wav"
)

// Example_roundTrip writes 16-bit samples with the muxer and reads them
// back with the demuxer.
func Example_roundTrip() {
	dir, _ := os.MkdirTemp("", "wav-example")
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "tone.wav")

	original := []int16{-1000, -500, 0, 500, 1000}
	var data []byte
	for _, s := range original {
		data = binary.LittleEndian.AppendUint16(data, uint16(s))
	}

	out, err := os.Create(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	mux := wav.NewMuxer(out)
	_ = mux.WriteHeader(audio.StreamDescriptor{
		Codec:      "pcm_s16le",
		Format:     audio.S16,
		SampleRate: 8000,
		Channels:   1,
		Layout:     audio.LayoutMono,
	})
	_ = mux.WritePacket(&audio.Packet{Data: data})
	_ = mux.WriteTrailer()
	_ = out.Close()

	in, err := os.Open(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer in.Close()

	dmx, err := wav.NewDemuxer(in)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Stream:", dmx.Streams()[0])

	var pkt audio.Packet
	for dmx.ReadPacket(&pkt) == nil {
		for i := 0; i+2 <= len(pkt.Data); i += 2 {
			fmt.Print(int16(binary.LittleEndian.Uint16(pkt.Data[i:])), " ")
		}
	}
	fmt.Println()
	// Output:
	// Stream: #0 pcm_s16le s16 8000Hz mono
	// -1000 -500 0 500 1000
}

// Example_errorNotWAV shows the error returned for other data.
func Example_errorNotWAV() {
	_, err := wav.NewDemuxer(bytes.NewReader([]byte("This is not a WAV file")))
	if errors.Is(err, wav.ErrNotWavFile) {
		fmt.Println("Error: not a WAV file")
	}
	// Output:
	// Error: not a WAV file
}

// Example_format lists what the container can store.
func Example_format() {
	var f wav.Format
	fmt.Println(f.Name(), f.Extensions())
	fmt.Println("default codec:", f.Codecs()[0])

	_, err := f.OpenInput(bytes.NewReader(nil))
	fmt.Println("empty input fails:", err != nil && !errors.Is(err, io.EOF))
	// Output:
	// wav [wav wave]
	// default codec: pcm_s16le
	// empty input fails: true
}
