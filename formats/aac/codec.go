// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"bytes"
	"fmt"

	aacadts "github.com/skrashevich/go-aac/pkg/adts"
	aacdecoder "github.com/skrashevich/go-aac/pkg/decoder"

	"github.com/ik5/aacpcm/audio"
)

const (
	aacLCProfile  = 2
	maxChannels   = 2
	adtsHeaderLen = 7
	adtsCRCLen    = 2
)

// frameDecoder is the part of the go-aac decoder a session drives.
type frameDecoder interface {
	SetASC(asc []byte) error
	DecodeFrame(au []byte) ([]float32, error)
}

func newGoAACDecoder() frameDecoder {
	return &checkedDecoder{dec: aacdecoder.New()}
}

// Codec opens AAC-LC decoding sessions backed by go-aac. The zero value is
// ready to use.
type Codec struct {
	newDecoder func() frameDecoder
}

var _ audio.Codec = Codec{}

// Open configures a session for raw AAC-LC access units at sampleRate Hz.
// Packets carrying an ADTS header are accepted as well; the header is
// stripped and a change of configuration reopens the decoder.
func (c Codec) Open(sampleRate, channels int) (audio.Session, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if channels < 1 || channels > maxChannels {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	asc, err := BuildASC(ObjectTypeLC, sampleRate, channels)
	if err != nil {
		return nil, err
	}

	newDecoder := c.newDecoder
	if newDecoder == nil {
		newDecoder = newGoAACDecoder
	}

	s := &session{newDecoder: newDecoder}
	if err := s.configure(asc, sampleRate, channels); err != nil {
		return nil, err
	}

	return s, nil
}

type pendingFrame struct {
	planes  [][]float32
	samples int
}

// session follows the send/receive contract of audio.Session: at most one
// decoded frame is buffered, and an empty packet starts draining.
type session struct {
	newDecoder func() frameDecoder
	dec        frameDecoder
	asc        []byte
	params     audio.Params

	pending  *pendingFrame
	draining bool
	closed   bool

	// running totals for the average bit rate, ADTS headers excluded
	inBytes   int64
	outFrames int64
}

func (s *session) configure(asc []byte, sampleRate, channels int) error {
	dec := s.newDecoder()
	if err := dec.SetASC(asc); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}

	s.dec = dec
	s.asc = asc
	s.params = audio.Params{
		SampleRate: sampleRate,
		Channels:   channels,
	}
	s.inBytes, s.outFrames = 0, 0

	return nil
}

func (s *session) SendPacket(pkt *audio.Packet) error {
	switch {
	case s.closed:
		return ErrSessionClosed
	case s.draining:
		return audio.ErrEOF
	case s.pending != nil:
		return audio.ErrAgain
	}

	if pkt == nil || pkt.Size() == 0 {
		s.draining = true
		return nil
	}

	au := pkt.Data
	if isADTS(au) {
		var err error
		if au, err = s.stripADTS(au); err != nil {
			return err
		}
	}

	samples, err := s.dec.DecodeFrame(au)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if len(samples) == 0 {
		return nil
	}

	channels := s.params.Channels
	if len(samples)%channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrInvalidData, len(samples), channels)
	}

	n := len(samples) / channels
	planes := make([][]float32, channels)
	for ch := range planes {
		plane := make([]float32, n)
		for i := range plane {
			plane[i] = samples[i*channels+ch]
		}
		planes[ch] = plane
	}

	s.pending = &pendingFrame{planes: planes, samples: n}
	s.inBytes += int64(len(au))
	s.outFrames += int64(n)
	s.params.BitRate = int(s.inBytes * 8 * int64(s.params.SampleRate) / s.outFrames)

	return nil
}

func (s *session) ReceiveFrame(f *audio.Frame) error {
	if s.closed {
		return ErrSessionClosed
	}

	if s.pending == nil {
		if s.draining {
			return audio.ErrEOF
		}
		return audio.ErrAgain
	}

	p := s.pending
	s.pending = nil

	f.NbSamples = p.samples
	f.Channels = len(p.planes)
	f.SampleRate = s.params.SampleRate
	f.Format = audio.SampleFormatFltp
	f.Planes = p.planes

	return nil
}

func (s *session) Params() audio.Params { return s.params }

func (s *session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}

	s.closed = true
	s.dec = nil
	s.pending = nil

	return nil
}

func isADTS(b []byte) bool {
	return len(b) >= adtsHeaderLen && b[0] == 0xFF && b[1]&0xF6 == 0xF0
}

// stripADTS returns the raw access unit inside one ADTS frame, reopening
// the decoder first when the header announces a different configuration.
func (s *session) stripADTS(b []byte) ([]byte, error) {
	header, err := aacadts.ReadHeaderFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if header.Profile != aacLCProfile {
		return nil, fmt.Errorf("%w: profile %d (AAC-LC only)", ErrUnsupported, header.Profile)
	}
	if header.NumFrames != 1 {
		return nil, fmt.Errorf("%w: %d raw blocks per ADTS frame", ErrUnsupported, header.NumFrames)
	}

	headerLen := adtsHeaderLen
	if !header.ProtectionAbsent {
		headerLen += adtsCRCLen
	}
	if header.FrameLength < headerLen || header.FrameLength > len(b) {
		return nil, fmt.Errorf("%w: length %d, have %d bytes", ErrTruncatedFrame, header.FrameLength, len(b))
	}

	frameASC, err := aacadts.AudioSpecificConfig(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	asc := append([]byte(nil), frameASC[:]...)

	if !bytes.Equal(asc, s.asc) {
		cfg, err := ParseASC(asc)
		if err != nil {
			return nil, err
		}
		if cfg.Channels < 1 || cfg.Channels > maxChannels {
			return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, cfg.Channels)
		}
		if err := s.configure(asc, cfg.SampleRate, cfg.Channels); err != nil {
			return nil, err
		}
	}

	return b[headerLen:header.FrameLength], nil
}
