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

// DecodeFile opens path with the demuxer registered for its extension and
// decodes its first audio stream.
func DecodeFile(ctx context.Context, path string, opts DecodeOptions) (*DecodeResult, error) {
	res, err := decodeFile(ctx, path, opts)
	if opts.OnDone != nil {
		opts.OnDone(res, err)
	}
	return res, err
}

func decodeFile(ctx context.Context, path string, opts DecodeOptions) (*DecodeResult, error) {
	if opts.Formats == nil {
		return nil, newError(StageConfigure, ErrInvalidOptions, errors.New("no container registry"))
	}
	format, err := opts.Formats.ForPath(path)
	if err != nil {
		return nil, newError(StageOpenInput, ErrInputOpen, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(StageOpenInput, ErrInputOpen, err)
	}
	defer f.Close()

	dmx, err := format.OpenInput(f)
	if err != nil {
		return nil, newError(StageOpenInput, ErrInputOpen, err)
	}
	defer dmx.Close()

	opts.Log = logger(opts.Log).WithField("path", path)
	return decode(ctx, dmx, opts)
}

// Decode decodes the first audio stream of dmx into per-channel buffers.
// Packets of other streams are skipped. dmx is not closed.
func Decode(ctx context.Context, dmx container.Demuxer, opts DecodeOptions) (*DecodeResult, error) {
	res, err := decode(ctx, dmx, opts)
	if opts.OnDone != nil {
		opts.OnDone(res, err)
	}
	return res, err
}

func decode(ctx context.Context, dmx container.Demuxer, opts DecodeOptions) (*DecodeResult, error) {
	jobID := uuid.NewString()
	log := logger(opts.Log).WithField("job", jobID)

	if opts.Codecs == nil {
		return nil, newError(StageConfigure, ErrInvalidOptions, errors.New("no codec registry"))
	}
	if opts.RawPassthrough && (opts.SampleRate != 0 || opts.Layout != 0) {
		return nil, newError(StageConfigure, ErrInvalidOptions,
			errors.New("raw passthrough cannot be combined with conversion"))
	}

	stream, err := firstAudioStream(dmx.Streams())
	if err != nil {
		return nil, newError(StageFindStream, ErrNoAudioStream, err)
	}
	log = log.WithFields(logrus.Fields{"stream": stream.Index, "codec": stream.Codec})

	engine, err := opts.Codecs.Lookup(stream.Codec)
	if err != nil {
		return nil, newError(StageOpenCodec, codec.ErrUnsupportedCodec, err)
	}

	open := stream
	if opts.RequestFormat != audio.FormatNone {
		open.Format = opts.RequestFormat
	}
	if opts.RawPassthrough {
		if err := checkPassthrough(open.Format, open.Layout); err != nil {
			return nil, newError(StageConfigure, ErrInvalidOptions, err)
		}
	}
	dec, err := engine.OpenDecoder(open)
	if err != nil {
		return nil, newError(StageOpenCodec, codec.ErrCodecOpen, err)
	}
	defer dec.Close()

	outRate, outLayout := stream.SampleRate, stream.Layout
	if opts.SampleRate > 0 {
		outRate = opts.SampleRate
	}
	if opts.Layout != 0 {
		outLayout = opts.Layout
	}

	sinks := make([]ChannelSink, 0, outLayout.Channels())
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				log.WithError(err).Warn("cannot release channel sink")
			}
		}
	}()
	for c := range outLayout.Channels() {
		sink := NewMemorySink()
		if opts.ScratchDir != "" {
			if sink, err = NewFileSink(opts.ScratchDir, jobID, c); err != nil {
				return nil, newError(StageSink, ErrOutputWrite, err)
			}
		}
		sinks = append(sinks, sink)
	}
	writers := make([]audio.ChannelWriter, len(sinks))
	for i, s := range sinks {
		writers[i] = s
	}

	j := &decodeJob{
		log:       log,
		demux:     audio.ChannelDemux{RawPassthrough: opts.RawPassthrough, Log: log},
		writers:   writers,
		outRate:   outRate,
		outLayout: outLayout,
	}

	var frame audio.Frame
	ctl := flow.New(flow.DecodeDirection(dec), &frame, j.consume)
	ctl.Log = log

	log.WithFields(logrus.Fields{
		"format": stream.Format.String(),
		"rate":   stream.SampleRate,
		"layout": stream.Layout.String(),
	}).Debug("decoding stream")

	var pkt audio.Packet
	for {
		if err := ctx.Err(); err != nil {
			return nil, newError(StageRead, err, nil)
		}

		pkt.Reset()
		err := dmx.ReadPacket(&pkt)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newError(StageRead, ErrInputOpen, err)
		}
		if pkt.StreamIndex != stream.Index {
			continue
		}

		if err := ctl.Submit(ctx, &pkt); err != nil {
			return nil, j.flowError(err)
		}
	}

	if err := ctl.Finish(ctx); err != nil {
		return nil, j.flowError(err)
	}
	if j.rs != nil {
		if err := j.rs.Flush(&j.converted, j.split); err != nil {
			return nil, newError(StageResample, resample.ErrResample, err)
		}
	}

	channels := make([][]float32, len(sinks))
	for c, s := range sinks {
		if channels[c], err = s.Samples(); err != nil {
			return nil, newError(StageCollect, ErrOutputWrite, err)
		}
	}

	log.WithFields(logrus.Fields{
		"frames":  ctl.Outputs(),
		"samples": len(channels[0]),
	}).Info("decode finished")

	return &DecodeResult{
		Stream:     stream,
		Codec:      engine.Name(),
		SampleRate: outRate,
		Layout:     outLayout,
		Channels:   channels,
	}, nil
}

// decodeJob holds the per-job state the flow sink needs.
type decodeJob struct {
	log       logrus.FieldLogger
	demux     audio.ChannelDemux
	writers   []audio.ChannelWriter
	outRate   int
	outLayout audio.ChannelLayout

	rs        *resample.Resampler
	converted audio.Frame
	failed    Stage
}

func (j *decodeJob) consume(f *audio.Frame) error {
	if j.demux.RawPassthrough {
		if err := checkPassthrough(f.Format, f.Layout); err != nil {
			j.failed = StageConfigure
			return err
		}
		return j.split(f)
	}
	if j.rs == nil && f.SampleRate == j.outRate && f.Layout == j.outLayout {
		return j.split(f)
	}

	if j.rs == nil {
		rs, err := resample.New(resample.Config{
			SrcFormat: f.Format,
			SrcRate:   f.SampleRate,
			SrcLayout: f.Layout,
			DstFormat: audio.F32,
			DstRate:   j.outRate,
			DstLayout: j.outLayout,
		})
		if err != nil {
			j.failed = StageResample
			return err
		}
		j.rs = rs
		j.log.WithFields(logrus.Fields{
			"from": fmt.Sprintf("%dHz %s", f.SampleRate, f.Layout),
			"to":   fmt.Sprintf("%dHz %s", j.outRate, j.outLayout),
		}).Debug("converting decoded audio")
	}

	if err := j.rs.Push(f); err != nil {
		j.failed = StageResample
		return err
	}
	for j.rs.Pending() > 0 {
		if _, err := j.rs.Convert(&j.converted, nil); err != nil {
			j.failed = StageResample
			return err
		}
		if err := j.split(&j.converted); err != nil {
			return err
		}
	}
	return nil
}

func (j *decodeJob) split(f *audio.Frame) error {
	if err := j.demux.Split(f, j.writers); err != nil {
		j.failed = StageSink
		return err
	}
	return nil
}

// flowError maps a controller failure to a job error.
func (j *decodeJob) flowError(err error) error {
	var stageErr *flow.StageError
	if errors.As(err, &stageErr) && stageErr.Stage == flow.StageSink {
		switch j.failed {
		case StageResample:
			return newError(StageResample, resample.ErrResample, stageErr.Err)
		case StageConfigure:
			return newError(StageConfigure, ErrInvalidOptions, stageErr.Err)
		}
		return newError(StageSink, ErrOutputWrite, stageErr.Err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(StageDecode, nil, err)
	}
	return newError(StageDecode, codec.ErrCodecEngine, err)
}

// checkPassthrough reports whether frames of format and layout can be copied
// verbatim into channel buffers. Only float32 samples qualify, and only plane
// 0 reaches channel 0, so every channel would not be filled unless the
// stream is mono.
func checkPassthrough(format audio.SampleFormat, layout audio.ChannelLayout) error {
	if format.Packed() != audio.F32 {
		return fmt.Errorf("raw passthrough needs %s samples, stream is %s", audio.F32, format)
	}
	if layout.Channels() != 1 {
		return fmt.Errorf("raw passthrough needs a mono stream, stream is %s", layout)
	}
	return nil
}

func firstAudioStream(streams []audio.StreamDescriptor) (audio.StreamDescriptor, error) {
	for _, s := range streams {
		if s.Codec == "" {
			continue
		}
		if err := s.Validate(); err != nil {
			continue
		}
		return s, nil
	}
	return audio.StreamDescriptor{}, fmt.Errorf("%d streams, none decodable", len(streams))
}
