// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrInputOpen      = errors.New("cannot open input")
	ErrNoAudioStream  = errors.New("no audio stream found")
	ErrOutputWrite    = errors.New("cannot write output")
	ErrInvalidOptions = errors.New("invalid job options")
)

// Stage identifies the step of a job that failed.
type Stage string

const (
	StageOpenInput   Stage = "open-input"
	StageFindStream  Stage = "find-stream"
	StageConfigure   Stage = "configure"
	StageOpenCodec   Stage = "open-codec"
	StageNegotiate   Stage = "negotiate"
	StageResample    Stage = "resample"
	StageSink        Stage = "sink"
	StageRead        Stage = "read"
	StageDecode      Stage = "decode"
	StageEncode      Stage = "encode"
	StageOpenOutput  Stage = "open-output"
	StageWriteHeader Stage = "write-header"
	StageWrite       Stage = "write"
	StageTrailer     Stage = "write-trailer"
	StageCollect     Stage = "collect"
)

// Error is returned by every job. Kind is one of the package sentinels or
// a sentinel of the codec, audio or resample packages; Err is the cause.
// errors.Is matches both.
type Error struct {
	Stage Stage
	Kind  error
	Err   error
}

func newError(stage Stage, kind, err error) *Error {
	return &Error{Stage: stage, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	case e.Kind == nil || errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
