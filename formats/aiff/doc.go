// SPDX-License-Identifier: EPL-2.0

// Package aiff implements reading of AIFF (Audio Interchange File Format)
// files on top of github.com/go-audio/aiff.
//
// AIFF stores big-endian PCM. The Demuxer lets go-audio decode the sample
// data and re-packs it as little-endian packets so the shared PCM codecs
// can decode it:
//   - 8 and 16 bit input becomes pcm_s16le
//   - 24 and 32 bit input becomes pcm_s32le
//
// Narrower samples are shifted left so full scale stays full scale.
//
//	f, _ := os.Open("input.aif")
//	dmx, err := aiff.NewDemuxer(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not an AIFF file
//	}
//
// Writing AIFF is not supported; Format.OpenOutput fails with
// container.ErrUnknownFormat.
package aiff
