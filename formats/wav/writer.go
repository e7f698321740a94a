// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM audio format tag.
const wavFormatPCM = 1

// Writer streams interleaved PCM16 into a seekable WAV file. Sizes in the
// header are patched by Close, so the length does not have to be known up
// front.
type Writer struct {
	enc *gowav.Encoder
	buf *goaudio.IntBuffer

	channels int
	frames   int
	closed   bool
}

func NewWriter(ws io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	if err := validate(sampleRate, channels, 0); err != nil {
		return nil, err
	}

	return &Writer{
		enc: gowav.NewEncoder(ws, sampleRate, bitsPerSample, channels, wavFormatPCM),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitsPerSample,
		},
		channels: channels,
	}, nil
}

// Write appends whole frames of interleaved samples.
func (w *Writer) Write(samples []int16) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channels", ErrPartialFrame, len(samples), w.channels)
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = int(s)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("%w", err)
	}

	w.frames += len(samples) / w.channels
	return nil
}

// Frames is the number of sample frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finalises the header. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
