// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"

	"github.com/ik5/aacpcm/audio"
)

// DefaultFrameSamples matches an AAC-LC frame.
const DefaultFrameSamples = 1024

// Ramp is the waveform every FakeSession frame carries: channel 0 rises
// from 0 towards 0.5 and odd channels mirror it below zero.
func Ramp(sample, channel, n int) float32 {
	v := float32(sample) / float32(n) * 0.5
	if channel%2 == 1 {
		return -v
	}
	return v
}

// FakeSession is an audio.Session that decodes every accepted packet into
// one Ramp frame. It holds at most one frame, like libavcodec.
type FakeSession struct {
	P audio.Params
	// FrameSamples per channel, DefaultFrameSamples when zero.
	FrameSamples int
	// Format stamped on frames, planar float when zero.
	Format audio.SampleFormat
	// Delay is the number of packets swallowed before the first frame.
	Delay int
	// Reject, when set, may refuse a packet with the returned error.
	Reject func(data []byte) error

	// Packets holds a copy of every accepted packet.
	Packets [][]byte
	Frames  int
	Closed  int

	pending  bool
	draining bool
}

func NewFakeSession(sampleRate, channels int) *FakeSession {
	return &FakeSession{
		P: audio.Params{
			SampleRate: sampleRate,
			Channels:   channels,
		},
	}
}

func (s *FakeSession) SendPacket(pkt *audio.Packet) error {
	if s.draining {
		return audio.ErrEOF
	}
	if s.pending {
		return audio.ErrAgain
	}
	if pkt.Size() == 0 {
		s.draining = true
		return nil
	}
	if s.Reject != nil {
		if err := s.Reject(pkt.Data); err != nil {
			return err
		}
	}

	s.Packets = append(s.Packets, append([]byte(nil), pkt.Data...))
	if s.Delay > 0 {
		s.Delay--
		return nil
	}

	s.pending = true
	return nil
}

func (s *FakeSession) ReceiveFrame(f *audio.Frame) error {
	if !s.pending {
		if s.draining {
			return audio.ErrEOF
		}
		return audio.ErrAgain
	}
	s.pending = false

	n := s.FrameSamples
	if n == 0 {
		n = DefaultFrameSamples
	}
	format := s.Format
	if format == audio.SampleFormatNone {
		format = audio.SampleFormatFltp
	}

	planes := make([][]float32, s.P.Channels)
	for ch := range planes {
		planes[ch] = make([]float32, n)
		for i := range n {
			planes[ch][i] = Ramp(i, ch, n)
		}
	}

	f.NbSamples = n
	f.Channels = s.P.Channels
	f.SampleRate = s.P.SampleRate
	f.Format = format
	f.Planes = planes

	s.Frames++
	return nil
}

func (s *FakeSession) Params() audio.Params { return s.P }

func (s *FakeSession) Close() error {
	s.Closed++
	return nil
}

// FakeCodec hands out a FakeSession, or fails the way it is told to.
type FakeCodec struct {
	Session *FakeSession
	OpenErr error
	// NilSession makes Open succeed without a session.
	NilSession bool

	OpenedRate     int
	OpenedChannels int
}

func (c *FakeCodec) Open(sampleRate, channels int) (audio.Session, error) {
	c.OpenedRate, c.OpenedChannels = sampleRate, channels

	if c.OpenErr != nil {
		return nil, c.OpenErr
	}
	if c.NilSession {
		return nil, nil
	}
	if c.Session == nil {
		c.Session = NewFakeSession(sampleRate, channels)
	}

	return c.Session, nil
}

// FakeUnitSource replays fixed access units.
type FakeUnitSource struct {
	Cfg   audio.StreamConfig
	Units [][]byte
	// Err is returned instead of io.EOF once Units run out.
	Err    error
	Closed bool

	index int
}

func (s *FakeUnitSource) Config() audio.StreamConfig { return s.Cfg }

func (s *FakeUnitSource) ReadAccessUnit() ([]byte, error) {
	if s.index >= len(s.Units) {
		if s.Err != nil {
			return nil, s.Err
		}
		return nil, io.EOF
	}

	au := s.Units[s.index]
	s.index++
	return au, nil
}

func (s *FakeUnitSource) Close() error {
	s.Closed = true
	return nil
}
