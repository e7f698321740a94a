// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/aacpcm/utils"
)

// Converter turns planar float32 samples into interleaved little-endian
// int16 samples at the same rate and layout. It is the only conversion the
// decoder output ever needs, so anything else is rejected at construction.
type Converter struct {
	in     StreamFormat
	out    StreamFormat
	closed bool
}

func NewConverter(in, out StreamFormat) (*Converter, error) {
	if in.Sample != SampleFormatFltp || out.Sample != SampleFormatS16 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnsupportedConversion, in.Sample, out.Sample)
	}
	if in.SampleRate <= 0 || out.SampleRate <= 0 {
		return nil, ErrInvalidRate
	}
	if in.SampleRate != out.SampleRate {
		return nil, fmt.Errorf("%w: %d != %d", ErrRateMismatch, in.SampleRate, out.SampleRate)
	}
	if in.NumChannels != out.NumChannels || in.NumChannels < 1 {
		return nil, fmt.Errorf("%w: %d != %d", ErrLayoutMismatch, in.NumChannels, out.NumChannels)
	}

	return &Converter{in: in, out: out}, nil
}

// Convert interleaves samples values per channel from src into dst and
// returns the number of samples converted per channel.
func (c *Converter) Convert(dst []byte, src [][]float32, samples int) (int, error) {
	if c.closed {
		return 0, ErrConverterClosed
	}
	if samples <= 0 {
		return 0, nil
	}

	channels := c.out.NumChannels
	if len(src) < channels {
		return 0, fmt.Errorf("%w: have %d planes, need %d", ErrMissingPlane, len(src), channels)
	}
	for ch := range channels {
		if len(src[ch]) < samples {
			return 0, fmt.Errorf("%w: plane %d has %d samples, need %d", ErrMissingPlane, ch, len(src[ch]), samples)
		}
	}
	if need := samples * channels * 2; len(dst) < need {
		return 0, fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(dst), need)
	}

	switch channels {
	case 1:
		for i, x := range src[0][:samples] {
			utils.PutInt16LE(dst[2*i:], utils.Float32ToInt16(x))
		}
	case 2:
		left, right := src[0][:samples], src[1][:samples]
		for i := range samples {
			idx := i << 2
			utils.PutInt16LE(dst[idx:], utils.Float32ToInt16(left[i]))
			utils.PutInt16LE(dst[idx+2:], utils.Float32ToInt16(right[i]))
		}
	default:
		for i := range samples {
			base := i * channels * 2
			for ch := range channels {
				utils.PutInt16LE(dst[base+2*ch:], utils.Float32ToInt16(src[ch][i]))
			}
		}
	}

	return samples, nil
}

func (c *Converter) Close() error {
	c.closed = true
	return nil
}
