// SPDX-License-Identifier: EPL-2.0

package audtrans

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/resample"
	"github.com/ik5/audtrans/utils"
)

// ResampleToMono16 reads src to the end, resamples it to targetRate, mixes
// it down to mono and returns the samples as 16-bit PCM.
//
// bufferSize is the number of interleaved values read from src per call;
// it is rounded down to a multiple of the channel count.
//
// Example:
//
//	res, _ := audtrans.DecodeFile(ctx, "audio.wav", pipeline.DecodeOptions{})
//	src, _ := audio.NewPlanarSource(res.SampleRate, res.Channels)
//	pcm16, rate, err := audtrans.ResampleToMono16(src, 8000, 4096)
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, targetRate, audio.ErrChannelMismatch
	}
	frames := bufferSize / channels
	if frames <= 0 {
		return nil, targetRate, audio.ErrInvalidDstSize
	}

	srcLayout := audio.DefaultLayout(channels)
	rs, err := resample.New(resample.Config{
		SrcFormat: audio.F32,
		SrcRate:   src.SampleRate(),
		SrcLayout: srcLayout,
		DstFormat: audio.F32,
		DstRate:   targetRate,
		DstLayout: audio.LayoutMono,
	})
	if err != nil {
		return nil, targetRate, err
	}

	in, err := audio.NewFrame(audio.F32, srcLayout, src.SampleRate(), frames)
	if err != nil {
		return nil, targetRate, err
	}
	var out audio.Frame

	// Start with about two seconds, grown as needed.
	pcm16 := make([]int16, 0, targetRate*2)
	var (
		demux audio.ChannelDemux
		mono  = make([][]float32, 1)
	)
	collect := func(f *audio.Frame) error {
		var err error
		if mono, err = demux.Deinterleave(f, mono[:1]); err != nil {
			return err
		}
		pcm16 = utils.AppendInt16(pcm16, mono[0])
		mono[0] = mono[0][:0]
		return nil
	}

	var mux audio.ChannelMux
	buf := make([]float32, frames*channels)
	for {
		n, readErr := src.ReadSamples(buf)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, targetRate, fmt.Errorf("read source: %w", readErr)
		}

		if n > 0 {
			if err := mux.BuildInterleaved(buf[:n], in); err != nil {
				return nil, targetRate, err
			}
			if err := rs.Push(in); err != nil {
				return nil, targetRate, err
			}
			for rs.Pending() > 0 {
				if _, err := rs.Convert(&out, nil); err != nil {
					return nil, targetRate, err
				}
				if err := collect(&out); err != nil {
					return nil, targetRate, err
				}
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if err := rs.Flush(&out, collect); err != nil {
		return nil, targetRate, err
	}
	return pcm16, targetRate, nil
}
