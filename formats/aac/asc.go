// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"bytes"
	"fmt"

	mp4aac "github.com/Eyevinn/mp4ff/aac"
	"github.com/icza/bitio"

	"github.com/ik5/aacpcm/audio"
)

// ObjectTypeLC is the MPEG-4 audio object type for AAC Low Complexity.
const ObjectTypeLC = 2

// explicitRateIndex signals a 24-bit sample rate after the index.
const explicitRateIndex = 0x0f

// ISO/IEC 14496-3 sampling frequency table.
var sampleRates = [...]int{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000,
	7350,
}

// SampleRateIndex returns the table index for rate.
func SampleRateIndex(rate int) (int, bool) {
	for i, r := range sampleRates {
		if r == rate {
			return i, true
		}
	}
	return 0, false
}

// BuildASC encodes an AudioSpecificConfig with an all-zero GASpecificConfig
// (1024-sample frames, no core coder, no extension). Rates outside the table
// use the explicit 24-bit escape.
func BuildASC(objectType, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 || sampleRate >= 1<<24 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if channels < 1 || channels > 7 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)

	w.TryWriteBits(uint64(objectType), 5)
	if idx, ok := SampleRateIndex(sampleRate); ok {
		w.TryWriteBits(uint64(idx), 4)
	} else {
		w.TryWriteBits(explicitRateIndex, 4)
		w.TryWriteBits(uint64(sampleRate), 24)
	}
	w.TryWriteBits(uint64(channels), 4)
	// frameLengthFlag, dependsOnCoreCoder, extensionFlag
	w.TryWriteBits(0, 3)

	if w.TryError != nil {
		return nil, fmt.Errorf("%w", w.TryError)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return buf.Bytes(), nil
}

// ParseASC reads the sample rate and channel count out of an
// AudioSpecificConfig.
func ParseASC(asc []byte) (audio.StreamConfig, error) {
	cfg, err := mp4aac.DecodeAudioSpecificConfig(bytes.NewReader(asc))
	if err != nil {
		return audio.StreamConfig{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if int(cfg.ObjectType) != ObjectTypeLC {
		return audio.StreamConfig{}, fmt.Errorf("%w: object type %d (AAC-LC only)", ErrUnsupported, cfg.ObjectType)
	}

	return audio.StreamConfig{
		SampleRate: cfg.SamplingFrequency,
		Channels:   int(cfg.ChannelConfiguration),
		ASC:        append([]byte(nil), asc...),
	}, nil
}
