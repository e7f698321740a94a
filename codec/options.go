// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"log"

	"github.com/ik5/aacpcm/audio"
	"github.com/ik5/aacpcm/formats/aac"
)

type options struct {
	logger Logger
	codec  audio.Codec
}

// Option configures New.
type Option func(*options)

// WithLogger sets where Send and Receive failures are reported.
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCodec replaces the decoding library. Passing nil makes New fail with
// ErrCodecUnavailable.
func WithCodec(c audio.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

func defaultOptions() options {
	return options{
		logger: NewStdLogger(log.Default()),
		codec:  aac.Codec{},
	}
}
