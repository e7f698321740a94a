// SPDX-License-Identifier: EPL-2.0

package aac

import "errors"

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidChannels   = errors.New("only mono and stereo are supported")
	ErrInvalidData       = errors.New("invalid data found when processing input")
	ErrSessionClosed     = errors.New("decoding session closed")

	ErrNoFrames       = errors.New("no ADTS frames found")
	ErrTruncatedFrame = errors.New("truncated ADTS frame")
	ErrConfigChange   = errors.New("unsupported ADTS config change")
	ErrUnsupported    = errors.New("unsupported AAC stream")
)
