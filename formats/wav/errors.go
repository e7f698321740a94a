// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile            = errors.New("not a WAV file")
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")
	ErrInvalidSampleRate     = errors.New("sample rate must be positive")
	ErrInvalidChannels       = errors.New("channel count must be between 1 and 8")
	ErrPartialFrame          = errors.New("sample count is not a multiple of the channel count")
	ErrWriterClosed          = errors.New("WAV writer closed")
)
