// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	ErrUnsupportedCodec   = errors.New("unsupported codec")
	ErrContextAllocation  = errors.New("cannot allocate codec context")
	ErrCodecOpen          = errors.New("cannot open codec")
	ErrCodecEngine        = errors.New("codec engine failure")
	ErrAlreadyFlushed     = errors.New("codec already flushed")
	ErrDuplicateCodecName = errors.New("codec already registered")
)
