// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"
	"io"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/internal/audiotest"
)

// Example_streamResampler feeds a one second tone through a resampler in
// fixed size chunks.
func Example_streamResampler() {
	source := audiotest.NewSineSource(48000, 1, 48000, 440.0)

	r, err := audio.NewStreamResampler(source.SampleRate(), 16000, source.Channels())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	buf := make([]float32, 4096)
	var out []float32
	total := 0

	for {
		n, err := source.ReadSamples(buf)
		out, _ = r.Process(buf[:n], out[:0])
		total += len(out)
		if err == io.EOF {
			break
		}
	}
	total += len(r.Flush(out[:0]))

	fmt.Printf("Output sample rate: %d Hz\n", r.DstRate())
	fmt.Printf("Total samples: %d\n", total)
	// Output:
	// Output sample rate: 16000 Hz
	// Total samples: 16000
}

// Example_remix downmixes a stereo pair to mono.
func Example_remix() {
	stereo := [][]float32{
		{1.0, 0.5, -1.0},
		{0.0, 0.5, 1.0},
	}

	mono, err := audio.Remix(make([][]float32, 1), stereo, audio.LayoutStereo, audio.LayoutMono)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(mono[0])
	// Output:
	// [0.5 0.5 0]
}

// Example_channelDemux splits an interleaved 16-bit frame into one
// normalized slice per channel.
func Example_channelDemux() {
	frame, _ := audio.NewFrame(audio.S16, audio.LayoutStereo, 8000, 2)

	var mux audio.ChannelMux
	_ = mux.BuildInterleaved([]float32{0.5, -0.5, 0.25, -0.25}, frame)

	var demux audio.ChannelDemux
	channels, err := demux.Deinterleave(frame, make([][]float32, 2))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for c, samples := range channels {
		fmt.Printf("channel %d: %.3f %.3f\n", c, samples[0], samples[1])
	}
	// Output:
	// channel 0: 0.500 0.250
	// channel 1: -0.500 -0.250
}

// Example_sampleFormat lists how formats are described.
func Example_sampleFormat() {
	for _, f := range []audio.SampleFormat{audio.U8, audio.S16, audio.F32P} {
		fmt.Printf("%-4s %d bytes, planar=%v, packed=%s\n", f, f.BytesPerSample(), f.IsPlanar(), f.Packed())
	}
	// Output:
	// u8   1 bytes, planar=false, packed=u8
	// s16  2 bytes, planar=false, packed=s16
	// fltp 4 bytes, planar=true, packed=flt
}

// Example_buffering demonstrates reusing one buffer across reads.
func Example_buffering() {
	source := audiotest.NewSineSource(16000, 1, 16000, 440.0)

	buf := make([]float32, 4096)

	readCount := 0
	for {
		n, err := source.ReadSamples(buf)
		if n > 0 {
			readCount++
		}
		if err == io.EOF {
			break
		}
	}

	fmt.Printf("Completed %d reads with a single buffer\n", readCount)
	// Output:
	// Completed 4 reads with a single buffer
}
