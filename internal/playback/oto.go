// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/aacpcm/utils"
)

var (
	ErrNotOpen      = errors.New("playback: output not open")
	ErrFormatChange = errors.New("playback: oto context already open with another format")
)

// oto allows a single context per process.
var (
	ctxMu      sync.Mutex
	otoCtx     *oto.Context
	ctxRate    int
	ctxChannel int
)

func sharedContext(sampleRate, channels int) (*oto.Context, error) {
	ctxMu.Lock()
	defer ctxMu.Unlock()

	if otoCtx != nil {
		if ctxRate != sampleRate || ctxChannel != channels {
			return nil, fmt.Errorf("%w: %d Hz %d ch, want %d Hz %d ch",
				ErrFormatChange, ctxRate, ctxChannel, sampleRate, channels)
		}
		return otoCtx, nil
	}

	c, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("playback: oto context: %w", err)
	}
	<-ready

	otoCtx, ctxRate, ctxChannel = c, sampleRate, channels
	return c, nil
}

// Oto plays interleaved PCM16 through the default audio device.
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	buf        []byte
	volume     int
}

// NewOto returns an output at full volume. Call Open before Write.
func NewOto() *Oto {
	return &Oto{volume: 100}
}

// Open starts a player fed through a pipe, so Write blocks at the device's
// pace.
func (o *Oto) Open(sampleRate, channels int) error {
	c, err := sharedContext(sampleRate, channels)
	if err != nil {
		return err
	}

	o.otoCtx = c
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = c.NewPlayer(o.pipeReader)
	o.player.Play()

	return nil
}

// SetVolume sets the software volume, 0 to 100.
func (o *Oto) SetVolume(volume int) {
	o.volume = min(max(volume, 0), 100)
}

func (o *Oto) Volume() int { return o.volume }

// Write queues samples for playback.
func (o *Oto) Write(samples []int16) error {
	if o.pipeWriter == nil {
		return ErrNotOpen
	}

	o.buf = encode(o.buf, samples, o.volume)
	if _, err := o.pipeWriter.Write(o.buf); err != nil {
		return fmt.Errorf("playback: pipe write: %w", err)
	}
	return nil
}

// Drain waits until everything written so far has been played. The output
// cannot be written to afterwards.
func (o *Oto) Drain() {
	if o.pipeWriter == nil {
		return
	}
	o.pipeWriter.Close()

	for o.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
}

// Close stops playback and suspends the device.
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		err := o.otoCtx.Suspend()
		o.otoCtx = nil
		if err != nil {
			return fmt.Errorf("playback: suspend: %w", err)
		}
	}
	return nil
}

// encode scales samples by volume percent into little-endian bytes,
// reusing dst when it is large enough.
func encode(dst []byte, samples []int16, volume int) []byte {
	n := len(samples) * 2
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	for i, s := range samples {
		if volume != 100 {
			s = int16(int32(s) * int32(volume) / 100)
		}
		utils.PutInt16LE(dst[2*i:], s)
	}
	return dst
}
