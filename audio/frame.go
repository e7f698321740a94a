// SPDX-License-Identifier: EPL-2.0

package audio

import (
	goaudio "github.com/go-audio/audio"
)

// SampleFormat identifies how samples are laid out in memory.
type SampleFormat int

const (
	SampleFormatNone SampleFormat = iota
	SampleFormatU8
	SampleFormatS16
	SampleFormatS32
	SampleFormatFlt
	SampleFormatS16P
	SampleFormatFltp
)

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatU8:
		return "u8"
	case SampleFormatS16:
		return "s16"
	case SampleFormatS32:
		return "s32"
	case SampleFormatFlt:
		return "flt"
	case SampleFormatS16P:
		return "s16p"
	case SampleFormatFltp:
		return "fltp"
	default:
		return "none"
	}
}

// Planar reports whether each channel is stored in its own plane.
func (f SampleFormat) Planar() bool {
	return f == SampleFormatS16P || f == SampleFormatFltp
}

// Layout is a channel layout. Only mono and stereo are used by the AAC path.
type Layout int

const (
	LayoutMono   Layout = 1
	LayoutStereo Layout = 2
)

// LayoutFor picks stereo for two channels and mono for anything else.
func LayoutFor(channels int) Layout {
	if channels == 2 {
		return LayoutStereo
	}
	return LayoutMono
}

func (l Layout) Channels() int { return int(l) }

// StreamFormat describes one side of a conversion.
type StreamFormat struct {
	goaudio.Format
	Sample SampleFormat
}

// NewStreamFormat builds a StreamFormat for layout at rate Hz.
func NewStreamFormat(layout Layout, sample SampleFormat, rate int) StreamFormat {
	return StreamFormat{
		Format: goaudio.Format{
			NumChannels: layout.Channels(),
			SampleRate:  rate,
		},
		Sample: sample,
	}
}

// Packet wraps compressed bytes handed to a Session. The bytes are borrowed:
// a Session must not keep Data once SendPacket returns.
type Packet struct {
	Data []byte
}

// NewPacket wraps data without copying it.
func NewPacket(data []byte) *Packet {
	return &Packet{Data: data}
}

// Size is the length of the wrapped data.
func (p *Packet) Size() int { return len(p.Data) }

// Free drops the reference to the borrowed bytes.
func (p *Packet) Free() {
	p.Data = nil
}

// Frame is one block of decoded audio.
type Frame struct {
	NbSamples  int
	Channels   int
	SampleRate int
	Format     SampleFormat

	// Planes holds one slice per channel for planar formats.
	Planes [][]float32
}

// NewFrame returns an empty frame ready to be filled by ReceiveFrame.
func NewFrame() *Frame {
	return &Frame{}
}

// Free releases the sample planes and resets the frame.
func (f *Frame) Free() {
	*f = Frame{}
}
