// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/flow"
	"github.com/ik5/audtrans/resample"
)

// EncodeFile encodes src into outPath using the muxer registered for its
// extension. The file is removed again when the job fails.
func EncodeFile(ctx context.Context, src audio.Source, outPath string, opts EncodeOptions) (*EncodeResult, error) {
	res, err := encodeFile(ctx, src, outPath, opts)
	if opts.OnDone != nil {
		opts.OnDone(res, err)
	}
	return res, err
}

func encodeFile(ctx context.Context, src audio.Source, outPath string, opts EncodeOptions) (res *EncodeResult, err error) {
	if opts.Formats == nil {
		return nil, newError(StageConfigure, ErrInvalidOptions, errors.New("no container registry"))
	}
	format, err := opts.Formats.ForPath(outPath)
	if err != nil {
		return nil, newError(StageOpenOutput, ErrOutputWrite, err)
	}
	if opts.Codec == "" {
		codecs := format.Codecs()
		if len(codecs) == 0 {
			return nil, newError(StageOpenOutput, ErrOutputWrite,
				fmt.Errorf("%w: %s", container.ErrUnknownFormat, format.Name()))
		}
		opts.Codec = codecs[0]
	}
	if !container.Supports(format, opts.Codec) {
		return nil, newError(StageOpenOutput, codec.ErrUnsupportedCodec,
			fmt.Errorf("%w: %s cannot store %s", container.ErrUnsupportedCodec, format.Name(), opts.Codec))
	}

	f, err := os.Create(outPath)
	if err != nil {
		return nil, newError(StageOpenOutput, ErrOutputWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			res, err = nil, newError(StageTrailer, ErrOutputWrite, cerr)
		}
		if err != nil {
			os.Remove(outPath)
		}
	}()

	mux, err := format.OpenOutput(f)
	if err != nil {
		return nil, newError(StageOpenOutput, ErrOutputWrite, err)
	}
	defer mux.Close()

	opts.Log = logger(opts.Log).WithField("path", outPath)
	res, err = encode(ctx, src, mux, opts)
	if err != nil {
		return nil, err
	}
	res.Path = outPath
	return res, nil
}

// Encode reads src to the end, encodes it with the engine named by
// opts.Codec and writes the packets, header and trailer to mux. Neither src
// nor mux is closed.
func Encode(ctx context.Context, src audio.Source, mux container.Muxer, opts EncodeOptions) (*EncodeResult, error) {
	res, err := encode(ctx, src, mux, opts)
	if opts.OnDone != nil {
		opts.OnDone(res, err)
	}
	return res, err
}

func encode(ctx context.Context, src audio.Source, mux container.Muxer, opts EncodeOptions) (*EncodeResult, error) {
	log := logger(opts.Log).WithFields(logrus.Fields{"job": uuid.NewString(), "codec": opts.Codec})

	if opts.Codecs == nil {
		return nil, newError(StageConfigure, ErrInvalidOptions, errors.New("no codec registry"))
	}
	if src.SampleRate() <= 0 || src.Channels() <= 0 {
		return nil, newError(StageConfigure, ErrInvalidOptions,
			fmt.Errorf("source %d Hz, %d channels", src.SampleRate(), src.Channels()))
	}

	engine, err := opts.Codecs.Lookup(opts.Codec)
	if err != nil {
		return nil, newError(StageOpenCodec, codec.ErrUnsupportedCodec, err)
	}

	req := codec.Request{Format: opts.Format, SampleRate: opts.SampleRate}
	if opts.Channels > 0 {
		req.Layout = audio.DefaultLayout(opts.Channels)
	}
	negotiated, err := codec.Negotiate(req, engine.Capabilities())
	if err != nil {
		return nil, newError(StageNegotiate, audio.ErrUnsupportedSampleFormat, err)
	}
	log.WithField("negotiated", negotiated.String()).Debug("format negotiated")

	enc, err := engine.OpenEncoder(negotiated, codec.EncoderOptions{BitRate: opts.BitRate})
	if err != nil {
		kind := codec.ErrCodecOpen
		if errors.Is(err, codec.ErrContextAllocation) {
			kind = codec.ErrContextAllocation
		}
		return nil, newError(StageOpenCodec, kind, err)
	}
	defer enc.Close()

	srcLayout := audio.DefaultLayout(src.Channels())
	rs, err := resample.New(resample.Config{
		SrcFormat: audio.F32,
		SrcRate:   src.SampleRate(),
		SrcLayout: srcLayout,
		DstFormat: negotiated.Format,
		DstRate:   negotiated.SampleRate,
		DstLayout: negotiated.Layout,
	})
	if err != nil {
		return nil, newError(StageResample, resample.ErrResample, err)
	}

	frameSize := enc.FrameSize()
	if frameSize == 0 {
		frameSize = opts.FrameSamples
	}
	if frameSize <= 0 {
		frameSize = DefaultFrameSamples
	}

	in, err := audio.NewFrame(audio.F32, srcLayout, src.SampleRate(), max(src.BufSize()/src.Channels(), 1))
	if err != nil {
		return nil, newError(StageConfigure, audio.ErrFrameAllocation, err)
	}
	out, err := audio.NewFrame(negotiated.Format, negotiated.Layout, negotiated.SampleRate, frameSize)
	if err != nil {
		return nil, newError(StageConfigure, audio.ErrFrameAllocation, err)
	}

	stream := enc.Stream()
	if err := mux.WriteHeader(stream); err != nil {
		return nil, newError(StageWriteHeader, ErrOutputWrite, err)
	}

	res := &EncodeResult{Stream: stream}
	var pkt audio.Packet
	ctl := flow.New(flow.EncodeDirection(enc), &pkt, func(p *audio.Packet) error {
		if err := mux.WritePacket(p); err != nil {
			return err
		}
		res.Packets++
		return nil
	})
	ctl.Log = log

	submit := func(f *audio.Frame) error {
		res.Samples += int64(f.Samples)
		if err := ctl.Submit(ctx, f); err != nil {
			return encodeFlowError(err)
		}
		return nil
	}

	var chmux audio.ChannelMux
	buf := make([]float32, in.Capacity*src.Channels())
	for {
		if err := ctx.Err(); err != nil {
			return nil, newError(StageRead, err, nil)
		}

		n, readErr := src.ReadSamples(buf)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, newError(StageRead, ErrInputOpen, readErr)
		}

		if n > 0 {
			if err := chmux.BuildInterleaved(buf[:n], in); err != nil {
				return nil, newError(StageResample, resample.ErrResample, err)
			}
			if err := rs.Push(in); err != nil {
				return nil, newError(StageResample, resample.ErrResample, err)
			}
			for rs.Pending() >= frameSize {
				if _, err := rs.Convert(out, nil); err != nil {
					return nil, newError(StageResample, resample.ErrResample, err)
				}
				if err := submit(out); err != nil {
					return nil, err
				}
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	var flowErr error
	if err := rs.Flush(out, func(f *audio.Frame) error {
		if err := submit(f); err != nil {
			flowErr = err
			return err
		}
		return nil
	}); err != nil {
		if flowErr != nil {
			return nil, flowErr
		}
		return nil, newError(StageResample, resample.ErrResample, err)
	}

	if err := ctl.Finish(ctx); err != nil {
		return nil, encodeFlowError(err)
	}
	if err := mux.WriteTrailer(); err != nil {
		return nil, newError(StageTrailer, ErrOutputWrite, err)
	}

	log.WithFields(logrus.Fields{
		"packets": res.Packets,
		"samples": res.Samples,
		"stream":  stream.String(),
	}).Info("encode finished")
	return res, nil
}

func encodeFlowError(err error) error {
	var stageErr *flow.StageError
	if errors.As(err, &stageErr) && stageErr.Stage == flow.StageSink {
		return newError(StageWrite, ErrOutputWrite, stageErr.Err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(StageEncode, nil, err)
	}
	return newError(StageEncode, codec.ErrCodecEngine, err)
}
