package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/aacpcm/audio"
	"github.com/ik5/aacpcm/internal/audiotest"
	"github.com/ik5/aacpcm/utils"
)

// warnings collects everything the decoder logs.
type warnings struct {
	msgs []string
}

func (w *warnings) Warn(msg string) { w.msgs = append(w.msgs, msg) }

func newFake(t *testing.T, sampleRate, channels uint32) (*AACDecoder, *audiotest.FakeSession, *warnings) {
	t.Helper()

	fc := &audiotest.FakeCodec{}
	w := &warnings{}

	d, err := New(sampleRate, channels, WithCodec(fc), WithLogger(w))
	if err != nil {
		t.Fatalf("New(%d, %d) error = %v", sampleRate, channels, err)
	}
	return d, fc.Session, w
}

// recoverFatal runs fn and returns the *FatalError it panicked with.
func recoverFatal(t *testing.T, fn func()) (fe *FatalError) {
	t.Helper()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic, got none")
		}
		err, ok := r.(error)
		if !ok || !errors.As(err, &fe) {
			t.Fatalf("panic value = %v, want *FatalError", r)
		}
	}()

	fn()
	return nil
}

func TestNew_EchoesConfiguration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sampleRate uint32
		channels   uint32
	}{
		{"8kHz mono", 8000, 1},
		{"44.1kHz stereo", 44100, 2},
		{"48kHz mono", 48000, 1},
		{"96kHz stereo", 96000, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, _, _ := newFake(t, tt.sampleRate, tt.channels)
			defer d.Close()

			if got := d.Get(QuerySampleRate); got != tt.sampleRate {
				t.Errorf("Get(QuerySampleRate) = %d, want %d", got, tt.sampleRate)
			}
			if got := d.Get(QueryChannels); got != tt.channels {
				t.Errorf("Get(QueryChannels) = %d, want %d", got, tt.channels)
			}
		})
	}
}

func TestNew_DefaultCodec(t *testing.T) {
	t.Parallel()

	d, err := New(44100, 2, WithLogger(Discard))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	if got := d.Get(QuerySampleRate); got != 44100 {
		t.Errorf("Get(QuerySampleRate) = %d, want 44100", got)
	}
	if got := d.Get(QueryChannels); got != 2 {
		t.Errorf("Get(QueryChannels) = %d, want 2", got)
	}
	if got := d.Get(QueryBitRate); got != 0 {
		t.Errorf("Get(QueryBitRate) before decoding = %d, want 0", got)
	}
}

func TestNew_Failures(t *testing.T) {
	t.Parallel()

	libErr := errors.New("no such codec")

	tests := []struct {
		name    string
		codec   audio.Codec
		wantErr error
	}{
		{"no codec", nil, ErrCodecUnavailable},
		{"open rejected", &audiotest.FakeCodec{OpenErr: libErr}, ErrSessionOpen},
		{"no session", &audiotest.FakeCodec{NilSession: true}, ErrSessionAlloc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := New(44100, 2, WithCodec(tt.codec))
			if d != nil {
				t.Error("New() returned a decoder on failure")
			}
			if !IsFatal(err) {
				t.Errorf("New() error = %v, want *FatalError", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("library error kept", func(t *testing.T) {
		t.Parallel()

		_, err := New(44100, 2, WithCodec(&audiotest.FakeCodec{OpenErr: libErr}))
		if !errors.Is(err, libErr) {
			t.Errorf("New() error = %v, want it to wrap %v", err, libErr)
		}
	})

	t.Run("invalid configuration", func(t *testing.T) {
		t.Parallel()

		_, err := New(0, 2, WithLogger(Discard))
		if !IsFatal(err) || !errors.Is(err, ErrSessionOpen) {
			t.Errorf("New(0, 2) error = %v, want fatal %v", err, ErrSessionOpen)
		}
	})
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	fe := recoverFatal(t, func() {
		MustNew(44100, 2, WithCodec(nil))
	})
	if fe != nil && !errors.Is(fe, ErrCodecUnavailable) {
		t.Errorf("MustNew() panic = %v, want %v", fe, ErrCodecUnavailable)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	d, s, _ := newFake(t, 48000, 2)
	defer d.Close()

	s.P.BitRate = 128000

	tests := []struct {
		name string
		q    Query
		want uint32
	}{
		{"channels", QueryChannels, 2},
		{"bit rate", QueryBitRate, 128000},
		{"sample rate", QuerySampleRate, 48000},
		{"zero", Query(0), 0},
		{"unknown", Query(99), 0},
		{"negative", Query(-1), 0},
	}

	for _, tt := range tests {
		if got := d.Get(tt.q); got != tt.want {
			t.Errorf("Get(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestSendReceive(t *testing.T) {
	t.Parallel()

	d, s, w := newFake(t, 44100, 2)
	defer d.Close()

	if !d.Send([]byte{0x21, 0x10, 0x05}) {
		t.Fatalf("Send() = false, warnings %q", w.msgs)
	}

	out := make([]byte, 4096*2*2)
	var size Size
	if !d.Receive(out, &size) {
		t.Fatalf("Receive() = false, warnings %q", w.msgs)
	}

	if size.Samples != audiotest.DefaultFrameSamples {
		t.Errorf("size.Samples = %d, want %d", size.Samples, audiotest.DefaultFrameSamples)
	}
	if len(w.msgs) != 0 {
		t.Errorf("unexpected warnings %q", w.msgs)
	}
	if len(s.Packets) != 1 || !bytes.Equal(s.Packets[0], []byte{0x21, 0x10, 0x05}) {
		t.Errorf("session saw packets % X", s.Packets)
	}
}

func TestReceive_Interleaves(t *testing.T) {
	t.Parallel()

	const sentinel = 0xAA

	tests := []struct {
		name     string
		channels uint32
		samples  int
	}{
		{"mono", 1, 1024},
		{"stereo", 2, 1024},
		{"short stereo frame", 2, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, s, _ := newFake(t, 44100, tt.channels)
			defer d.Close()
			s.FrameSamples = tt.samples

			if !d.Send([]byte{1}) {
				t.Fatal("Send() = false")
			}

			ch := int(tt.channels)
			out := bytes.Repeat([]byte{sentinel}, tt.samples*ch*2+8)
			var size Size
			if !d.Receive(out, &size) {
				t.Fatal("Receive() = false")
			}
			if int(size.Samples) != tt.samples {
				t.Fatalf("size.Samples = %d, want %d", size.Samples, tt.samples)
			}

			pcm := make([]int16, tt.samples*ch)
			if n := utils.BytesToInt16(pcm, out); n != len(pcm) {
				t.Fatalf("decoded %d values, want %d", n, len(pcm))
			}
			for i := range tt.samples {
				for c := range ch {
					want := utils.Float32ToInt16(audiotest.Ramp(i, c, tt.samples))
					if got := pcm[i*ch+c]; got != want {
						t.Fatalf("pcm[%d] (sample %d, channel %d) = %d, want %d", i*ch+c, i, c, got, want)
					}
				}
			}

			for i, b := range out[tt.samples*ch*2:] {
				if b != sentinel {
					t.Fatalf("byte %d past the frame was overwritten", tt.samples*ch*2+i)
				}
			}
		})
	}
}

func TestReceive_NilArguments(t *testing.T) {
	t.Parallel()

	d, _, _ := newFake(t, 44100, 2)
	defer d.Close()

	if !d.Send([]byte{1}) {
		t.Fatal("Send() = false")
	}
	if !d.Receive(nil, nil) {
		t.Error("Receive(nil, nil) = false, want true")
	}

	if !d.Send([]byte{2}) {
		t.Fatal("Send() = false")
	}
	var size Size
	if !d.Receive(nil, &size) || size.Samples != audiotest.DefaultFrameSamples {
		t.Errorf("Receive(nil, &size) size = %d, want %d", size.Samples, audiotest.DefaultFrameSamples)
	}
}

func TestSend_Malformed(t *testing.T) {
	t.Parallel()

	d, s, w := newFake(t, 44100, 2)
	defer d.Close()

	s.Reject = func(data []byte) error {
		return errors.New("invalid data found when processing input")
	}

	if d.Send([]byte{0xde, 0xad}) {
		t.Fatal("Send() = true for a rejected packet")
	}

	want := "error sending AAC packet: invalid data found when processing input."
	if len(w.msgs) != 1 || w.msgs[0] != want {
		t.Errorf("warnings = %q, want [%q]", w.msgs, want)
	}
	if len(s.Packets) != 0 {
		t.Errorf("session kept %d packets", len(s.Packets))
	}

	s.Reject = nil
	if !d.Send([]byte{0x21}) {
		t.Error("Send() after a rejected packet = false")
	}
}

func TestSend_PendingFrame(t *testing.T) {
	t.Parallel()

	d, _, w := newFake(t, 44100, 2)
	defer d.Close()

	if !d.Send([]byte{1}) {
		t.Fatal("first Send() = false")
	}
	if d.Send([]byte{2}) {
		t.Fatal("second Send() = true with a frame pending")
	}

	want := "error sending AAC packet: Resource temporarily unavailable."
	if len(w.msgs) != 1 || w.msgs[0] != want {
		t.Errorf("warnings = %q, want [%q]", w.msgs, want)
	}
}

func TestReceive_NeedsMoreInput(t *testing.T) {
	t.Parallel()

	d, s, w := newFake(t, 44100, 2)
	defer d.Close()
	s.Delay = 1

	out := make([]byte, 4096)
	var size Size

	if d.Receive(out, &size) {
		t.Fatal("Receive() before any Send = true")
	}

	if !d.Send([]byte{1}) {
		t.Fatal("Send() = false")
	}
	if d.Receive(out, &size) {
		t.Fatal("Receive() while the session is priming = true")
	}
	if size.Samples != 0 {
		t.Errorf("size.Samples = %d after failed Receive, want 0", size.Samples)
	}

	want := "error receiving AAC frame: Resource temporarily unavailable."
	if len(w.msgs) != 2 || w.msgs[0] != want || w.msgs[1] != want {
		t.Errorf("warnings = %q, want two of %q", w.msgs, want)
	}
}

func TestReceive_Drained(t *testing.T) {
	t.Parallel()

	d, _, w := newFake(t, 44100, 1)
	defer d.Close()

	if !d.Send(nil) {
		t.Fatal("Send(nil) = false, want drain to start")
	}
	if d.Receive(nil, nil) {
		t.Fatal("Receive() after drain = true")
	}

	want := "error receiving AAC frame: End of file."
	if len(w.msgs) != 1 || w.msgs[0] != want {
		t.Errorf("warnings = %q, want [%q]", w.msgs, want)
	}
}

func TestReceive_UnexpectedFormatPanics(t *testing.T) {
	t.Parallel()

	d, s, _ := newFake(t, 44100, 2)
	defer d.Close()
	s.Format = audio.SampleFormatS16

	if !d.Send([]byte{1}) {
		t.Fatal("Send() = false")
	}

	fe := recoverFatal(t, func() {
		d.Receive(make([]byte, 8192), nil)
	})
	if fe != nil && !errors.Is(fe, ErrUnexpectedFormat) {
		t.Errorf("panic = %v, want %v", fe, ErrUnexpectedFormat)
	}
}

func TestReceive_ShortBufferPanics(t *testing.T) {
	t.Parallel()

	d, _, _ := newFake(t, 44100, 2)
	defer d.Close()

	if !d.Send([]byte{1}) {
		t.Fatal("Send() = false")
	}

	fe := recoverFatal(t, func() {
		d.Receive(make([]byte, 16), nil)
	})
	if fe != nil && (!errors.Is(fe, ErrConversion) || !errors.Is(fe, audio.ErrShortBuffer)) {
		t.Errorf("panic = %v, want %v wrapping %v", fe, ErrConversion, audio.ErrShortBuffer)
	}
}

func TestClose_ReleasesOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		run  func(d *AACDecoder)
	}{
		{"fresh", func(*AACDecoder) {}},
		{"after send", func(d *AACDecoder) { d.Send([]byte{1}) }},
		{"after receive", func(d *AACDecoder) {
			d.Send([]byte{1})
			d.Receive(make([]byte, 8192), nil)
		}},
		{"after failed receive", func(d *AACDecoder) { d.Receive(nil, nil) }},
		{"after drain", func(d *AACDecoder) {
			d.Send(nil)
			d.Receive(nil, nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, s, _ := newFake(t, 44100, 2)
			tt.run(d)

			if err := d.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if err := d.Close(); !errors.Is(err, ErrClosed) {
				t.Errorf("second Close() error = %v, want %v", err, ErrClosed)
			}
			if s.Closed != 1 {
				t.Errorf("session closed %d times, want 1", s.Closed)
			}
		})
	}
}

func TestConvertFltpToS16(t *testing.T) {
	t.Parallel()

	planes := [][]float32{
		{0, 0.5, -0.5, 1},
		{1, -1, 0.25, 0},
	}
	out := make([]byte, 4*2*2)
	convertFltpToS16(planes, out, 2, 4, 48000)

	want := []int16{0, 32767, 16384, -32768, -16384, 8192, 32767, 0}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(out[2*i:])); got != w {
			t.Errorf("out[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestConvertFltpToS16_Panics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		planes   [][]float32
		out      []byte
		channels int
		samples  int
		rate     int
	}{
		{"zero rate", [][]float32{{0}}, make([]byte, 2), 1, 1, 0},
		{"nothing converted", [][]float32{{0}}, make([]byte, 2), 1, 0, 44100},
		{"missing plane", [][]float32{{0}}, make([]byte, 4), 2, 1, 44100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fe := recoverFatal(t, func() {
				convertFltpToS16(tt.planes, tt.out, tt.channels, tt.samples, tt.rate)
			})
			if fe != nil && !errors.Is(fe, ErrConversion) {
				t.Errorf("panic = %v, want %v", fe, ErrConversion)
			}
		})
	}
}
