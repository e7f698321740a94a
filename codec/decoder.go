// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/aacpcm/audio"
)

// Query selects a value reported by Get.
type Query int

const (
	QueryChannels Query = iota + 1
	QueryBitRate
	QuerySampleRate
)

// Size receives the number of samples per channel decoded by Receive.
type Size struct {
	Samples uint32
}

// AACDecoder owns one decoding session and converts its output to
// interleaved 16-bit PCM. It is not safe for concurrent use; see Locked.
type AACDecoder struct {
	session audio.Session
	log     Logger
	closed  bool
}

// New opens an AAC decoding session for sampleRate Hz and channels (1 or 2).
// Any failure is a *FatalError: the decoding library is expected to be
// present and to accept a plain AAC-LC configuration.
func New(sampleRate, channels uint32, opts ...Option) (*AACDecoder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Discard
	}
	if o.codec == nil {
		return nil, fatal("open", ErrCodecUnavailable)
	}

	session, err := o.codec.Open(int(sampleRate), int(channels))
	if err != nil {
		return nil, fatal("open", fmt.Errorf("%w: %w", ErrSessionOpen, err))
	}
	if session == nil {
		return nil, fatal("open", ErrSessionAlloc)
	}

	return &AACDecoder{
		session: session,
		log:     o.logger,
	}, nil
}

// MustNew is like New but panics with the *FatalError.
func MustNew(sampleRate, channels uint32, opts ...Option) *AACDecoder {
	d, err := New(sampleRate, channels, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Get returns the session's reported value for q, or 0 for an unknown query.
func (d *AACDecoder) Get(q Query) uint32 {
	p := d.session.Params()

	switch q {
	case QueryChannels:
		return uint32(p.Channels)
	case QueryBitRate:
		return uint32(p.BitRate)
	case QuerySampleRate:
		return uint32(p.SampleRate)
	default:
		return 0
	}
}

// Send submits one compressed packet. It returns false, after logging the
// library's reason, when the packet is rejected; the caller decides whether
// to retry. The bytes are not retained.
func (d *AACDecoder) Send(data []byte) bool {
	pkt := audio.NewPacket(data)
	defer pkt.Free()

	if err := d.session.SendPacket(pkt); err != nil {
		warn(d.log, fmt.Sprintf("error sending AAC packet: %s.", audio.ErrorText(err)), err)
		return false
	}

	return true
}

// Receive pulls one decoded frame. It returns false, after logging, when no
// frame is available yet, which usually means more input is needed.
//
// When out is non-nil the frame is written to it as interleaved little-endian
// int16; out must hold at least samples*channels*2 bytes. When size is
// non-nil it receives the number of samples per channel.
//
// A frame that is not planar float, or that cannot be converted, panics
// with a *FatalError.
func (d *AACDecoder) Receive(out []byte, size *Size) bool {
	frame := audio.NewFrame()
	defer frame.Free()

	if err := d.session.ReceiveFrame(frame); err != nil {
		warn(d.log, fmt.Sprintf("error receiving AAC frame: %s.", audio.ErrorText(err)), err)
		return false
	}

	if frame.Format != audio.SampleFormatFltp {
		panic(fatal("receive", fmt.Errorf("%w: got %s", ErrUnexpectedFormat, frame.Format)))
	}

	if out != nil {
		convertFltpToS16(frame.Planes, out, frame.Channels, frame.NbSamples, frame.SampleRate)
	}

	if size != nil {
		size.Samples = uint32(frame.NbSamples)
	}

	return true
}

// Close releases the session. Only the first call reaches the session.
func (d *AACDecoder) Close() error {
	if d.closed {
		return ErrClosed
	}
	d.closed = true

	err := d.session.Close()
	d.session = nil
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func convertFltpToS16(planes [][]float32, out []byte, channels, samples, rate int) {
	layout := audio.LayoutFor(channels)

	conv, err := audio.NewConverter(
		audio.NewStreamFormat(layout, audio.SampleFormatFltp, rate),
		audio.NewStreamFormat(layout, audio.SampleFormatS16, rate),
	)
	if err != nil {
		panic(fatal("convert", fmt.Errorf("%w: %w", ErrConversion, err)))
	}
	defer conv.Close()

	n, err := conv.Convert(out, planes, samples)
	if err != nil {
		panic(fatal("convert", fmt.Errorf("%w: %w", ErrConversion, err)))
	}
	if n <= 0 {
		panic(fatal("convert", fmt.Errorf("%w: converted %d samples", ErrConversion, n)))
	}
}
