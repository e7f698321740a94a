// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sync"
)

// Params are the stream values a session reports.
type Params struct {
	SampleRate int
	Channels   int
	BitRate    int
}

type Session interface {
	// SendPacket hands one compressed packet to the decoder.
	// ErrAgain means a decoded frame must be received first.
	SendPacket(pkt *Packet) error
	// ReceiveFrame fills f with the next decoded frame.
	// ErrAgain means more input is needed, ErrEOF that the stream is drained.
	ReceiveFrame(f *Frame) error

	Params() Params

	// Close releases the decoder.
	Close() error
}

// Codec opens decoding sessions.
type Codec interface {
	Open(sampleRate, channels int) (Session, error)
}

// StreamConfig is what a container says about its audio track.
type StreamConfig struct {
	SampleRate int
	Channels   int
	// ASC is the MPEG-4 AudioSpecificConfig for the track.
	ASC []byte
}

// UnitSource yields compressed access units from a container.
type UnitSource interface {
	Config() StreamConfig
	// ReadAccessUnit returns the next access unit. The slice is only valid
	// until the next call. io.EOF marks the end of the track.
	ReadAccessUnit() ([]byte, error)
	Close() error
}

// Demuxer constructs a UnitSource from a container.
type Demuxer interface {
	Demux(r io.ReadSeeker) (UnitSource, error)
}

// Registry for demuxers by container key (e.g., "aac", "m4a").
type Registry struct {
	demuxers map[string]Demuxer

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		demuxers: make(map[string]Demuxer),
		mtx:      &sync.Mutex{},
	}
}

func (r *Registry) Register(container string, d Demuxer) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.demuxers[container] = d
}

func (r *Registry) Get(container string) (Demuxer, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.demuxers[container]
	return d, ok
}
