// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrAgain = errors.New("resource temporarily unavailable")
	ErrEOF   = errors.New("end of file")

	ErrUnsupportedConversion = errors.New("only planar float to interleaved s16 conversion is supported")
	ErrRateMismatch          = errors.New("input and output sample rates differ")
	ErrLayoutMismatch        = errors.New("input and output channel layouts differ")
	ErrInvalidRate           = errors.New("sample rate must be positive")
	ErrConverterClosed       = errors.New("converter is closed")
	ErrShortBuffer           = errors.New("output buffer too small")
	ErrMissingPlane          = errors.New("missing or short sample plane")
)

// ErrorText describes err the way the decoding library reports it.
func ErrorText(err error) string {
	switch {
	case err == nil:
		return "Success"
	case errors.Is(err, ErrAgain):
		return "Resource temporarily unavailable"
	case errors.Is(err, ErrEOF):
		return "End of file"
	default:
		return err.Error()
	}
}
