// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"fmt"
)

var (
	ErrCodecUnavailable = errors.New("AAC codec unavailable")
	ErrSessionAlloc     = errors.New("could not allocate decoding session")
	ErrSessionOpen      = errors.New("could not open decoding session")
	ErrUnexpectedFormat = errors.New("decoded frame is not planar float")
	ErrConversion       = errors.New("PCM16 conversion failed")

	ErrClosed = errors.New("decoder already closed")
)

// FatalError marks a broken assumption about the decoding library. It is
// never returned for conditions a caller is expected to retry.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("codec: fatal: %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err, or a panic value recovered from Receive or
// MustNew, is a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

func fatal(op string, err error) *FatalError {
	return &FatalError{Op: op, Err: err}
}
