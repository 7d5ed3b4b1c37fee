// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM data model and low-level processing
// primitives shared by codecs, containers and the pipeline.
//
// # Data Model
//
// A StreamDescriptor describes one audio stream of a container. Packets
// carry compressed data read from a demuxer or produced by an encoder;
// Frames carry decoded PCM. Both are reusable scratch values: callers
// allocate them once and pass them to every iteration.
//
// SampleFormat names the storage of one sample (u8, s16, s32, s64, flt,
// dbl) and whether channels are interleaved in one plane or planar with
// one plane per channel. ChannelLayout is a bitmask of channel roles;
// channel order follows the bit order.
//
// # Conversion
//
// ToNormalized and FromNormalized translate single samples between the
// stored little-endian representation and float32. Integer formats are
// scaled by 2^(bits-1) - 1; float formats are not scaled.
//
//	v, err := audio.ToNormalized(audio.S16, plane, i)
//
// ChannelDemux splits a frame into one normalized slice per channel and
// ChannelMux does the inverse:
//
//	var demux audio.ChannelDemux
//	channels, err := demux.Deinterleave(frame, make([][]float32, frame.Channels()))
//
// Samples in a format the converter does not know become silence and a
// warning is logged; the call itself succeeds.
//
// # Resampling and Remixing
//
// StreamResampler changes the sample rate of interleaved float32 samples
// using cubic interpolation. Input may be pushed in chunks of any size;
// the output only depends on the concatenated input:
//
//	r, _ := audio.NewStreamResampler(44100, 16000, 2)
//	out, err := r.Process(in, out[:0])
//	out = r.Flush(out)
//
// Remix converts planar float32 channels between layouts. A mono target
// averages all source channels; a mono source is copied to every target
// channel.
//
// # Sources
//
// The Source interface delivers interleaved float32 samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// RawSource reads headerless PCM in a fixed format and PlanarSource serves
// already decoded channels. ReadSamples returns io.EOF once the stream is
// finished, possibly together with the last samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
