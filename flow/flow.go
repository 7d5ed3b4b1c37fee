// SPDX-License-Identifier: EPL-2.0

// Package flow drives the send/receive protocol of codec engines.
//
// A Controller submits one input unit at a time and drains every output
// the engine can produce before the next submission. An engine answering
// codec.Again to a submission is drained and the same unit is offered
// again, so no input is ever dropped. The end of input is signalled with a
// nil unit, after which the controller drains until codec.EOF.
package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

var (
	ErrExhausted = errors.New("codec already exhausted")
	ErrFailed    = errors.New("controller failed earlier")
	ErrStalled   = errors.New("codec made no progress")
)

// State of a Controller.
type State int

const (
	Idle State = iota
	Submitted
	Draining
	Exhausted
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitted:
		return "submitted"
	case Draining:
		return "draining"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Stage names the protocol step that failed.
type Stage string

const (
	StageSend    Stage = "send"
	StageReceive Stage = "receive"
	StageSink    Stage = "sink"
)

// StageError records where the controller failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Codec is one direction of a codec engine. A nil input to Send marks the
// end of input.
type Codec[In, Out any] interface {
	Send(in *In) (codec.Result, error)
	Receive(out *Out) (codec.Result, error)
}

// Sink consumes one output. The output is reused after Sink returns.
type Sink[Out any] func(out *Out) error

// Controller is the flow state machine for one codec direction.
type Controller[In, Out any] struct {
	// Log defaults to logrus.StandardLogger.
	Log logrus.FieldLogger

	codec   Codec[In, Out]
	out     *Out
	sink    Sink[Out]
	state   State
	outputs int
}

// New returns a controller that receives into out and hands every output
// to sink.
func New[In, Out any](c Codec[In, Out], out *Out, sink Sink[Out]) *Controller[In, Out] {
	return &Controller[In, Out]{
		codec: c,
		out:   out,
		sink:  sink,
	}
}

func (c *Controller[In, Out]) State() State { return c.state }

// Outputs returns the number of outputs handed to the sink so far.
func (c *Controller[In, Out]) Outputs() int { return c.outputs }

// Submit sends in and drains the outputs it makes available.
func (c *Controller[In, Out]) Submit(ctx context.Context, in *In) error {
	switch c.state {
	case Exhausted:
		return ErrExhausted
	case Failed:
		return ErrFailed
	}

	for {
		if err := ctx.Err(); err != nil {
			return c.cancel(err)
		}

		c.state = Submitted
		res, err := c.codec.Send(in)
		if err != nil {
			return c.fail(StageSend, err)
		}

		switch res {
		case codec.OK:
			return c.drain(ctx, in == nil)

		case codec.Again:
			before := c.outputs
			if err := c.drain(ctx, false); err != nil {
				return err
			}
			if c.state == Exhausted {
				return c.fail(StageSend, fmt.Errorf("%w: ended with input pending", ErrStalled))
			}
			if c.outputs == before {
				return c.fail(StageSend, fmt.Errorf("%w: send and receive both not ready", ErrStalled))
			}
			c.logger().WithField("drained", c.outputs-before).Debug("codec not ready, retrying input")

		default:
			return c.fail(StageSend, fmt.Errorf("%w: input after end of stream", ErrExhausted))
		}
	}
}

// Finish sends the end-of-input sentinel and drains until the engine is
// exhausted.
func (c *Controller[In, Out]) Finish(ctx context.Context) error {
	if c.state == Exhausted {
		return nil
	}
	if err := c.Submit(ctx, nil); err != nil {
		return err
	}
	c.logger().WithField("outputs", c.outputs).Debug("codec flushed")
	return nil
}

// drain receives until the engine asks for input or ends. When final is
// set the engine is flushing and must end; asking for input is a stall.
func (c *Controller[In, Out]) drain(ctx context.Context, final bool) error {
	c.state = Draining
	for {
		if err := ctx.Err(); err != nil {
			return c.cancel(err)
		}

		res, err := c.codec.Receive(c.out)
		if err != nil {
			return c.fail(StageReceive, err)
		}

		switch res {
		case codec.OK:
			if err := c.sink(c.out); err != nil {
				c.state = Failed
				return &StageError{Stage: StageSink, Err: err}
			}
			c.outputs++

		case codec.Again:
			if final {
				return c.fail(StageReceive, fmt.Errorf("%w: not ready after end of input", ErrStalled))
			}
			c.state = Idle
			return nil

		case codec.EOF:
			c.state = Exhausted
			return nil

		default:
			return c.fail(StageReceive, fmt.Errorf("unknown result %d", res))
		}
	}
}

func (c *Controller[In, Out]) fail(stage Stage, err error) error {
	c.state = Failed
	if !errors.Is(err, codec.ErrCodecEngine) {
		err = fmt.Errorf("%w: %w", codec.ErrCodecEngine, err)
	}
	return &StageError{Stage: stage, Err: err}
}

func (c *Controller[In, Out]) cancel(err error) error {
	c.state = Failed
	return err
}

func (c *Controller[In, Out]) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

type decodeDirection struct{ dec codec.Decoder }

// DecodeDirection adapts a decoder: packets in, frames out.
func DecodeDirection(dec codec.Decoder) Codec[audio.Packet, audio.Frame] {
	return decodeDirection{dec: dec}
}

func (d decodeDirection) Send(pkt *audio.Packet) (codec.Result, error) { return d.dec.SendPacket(pkt) }
func (d decodeDirection) Receive(f *audio.Frame) (codec.Result, error) { return d.dec.ReceiveFrame(f) }

type encodeDirection struct{ enc codec.Encoder }

// EncodeDirection adapts an encoder: frames in, packets out.
func EncodeDirection(enc codec.Encoder) Codec[audio.Frame, audio.Packet] {
	return encodeDirection{enc: enc}
}

func (e encodeDirection) Send(f *audio.Frame) (codec.Result, error) { return e.enc.SendFrame(f) }
func (e encodeDirection) Receive(pkt *audio.Packet) (codec.Result, error) {
	return e.enc.ReceivePacket(pkt)
}
