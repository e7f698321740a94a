package codec

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/ik5/aacpcm/audio"
	"github.com/ik5/aacpcm/internal/audiotest"
)

func TestFatalError(t *testing.T) {
	t.Parallel()

	err := fatal("open", ErrSessionAlloc)

	want := "codec: fatal: open: could not allocate decoding session"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrSessionAlloc) {
		t.Error("errors.Is() failed to unwrap FatalError")
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", ErrClosed, false},
		{"fatal", fatal("convert", ErrConversion), true},
		{"wrapped fatal", fmt.Errorf("decoding: %w", fatal("receive", ErrUnexpectedFormat)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStdLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0))

	l.Warn("error sending AAC packet: End of file.")

	want := "[WARN] error sending AAC packet: End of file.\n"
	if buf.String() != want {
		t.Errorf("logged %q, want %q", buf.String(), want)
	}
}

func TestLoggerFunc(t *testing.T) {
	t.Parallel()

	var got string
	LoggerFunc(func(msg string) { got = msg }).Warn("hello")
	if got != "hello" {
		t.Errorf("LoggerFunc got %q, want %q", got, "hello")
	}

	// must not panic
	Discard.Warn("dropped")
}

func TestSkipRetryable(t *testing.T) {
	t.Parallel()

	w := &warnings{}
	d, err := New(44100, 2, WithCodec(&audiotest.FakeCodec{}), WithLogger(SkipRetryable(w)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	// nothing pending, then nothing left after the flush
	d.Receive(nil, nil)
	d.Send(nil)
	d.Receive(nil, nil)
	d.Send([]byte{0x21})

	want := "error sending AAC packet: End of file."
	if len(w.msgs) != 0 {
		t.Errorf("passed through %q", w.msgs)
	}

	// the message text alone does not decide
	SkipRetryable(w).Warn(want)
	if len(w.msgs) != 1 || w.msgs[0] != want {
		t.Errorf("Warn() passed through %q, want [%q]", w.msgs, want)
	}
}

func TestSkipRetryable_KeepsRejections(t *testing.T) {
	t.Parallel()

	fc := &audiotest.FakeCodec{Session: audiotest.NewFakeSession(44100, 2)}
	fc.Session.Reject = func([]byte) error { return errors.New("invalid data found when processing input") }

	w := &warnings{}
	d, err := New(44100, 2, WithCodec(fc), WithLogger(SkipRetryable(w)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	if d.Send([]byte{0x21}) {
		t.Fatal("Send() = true for a rejected packet")
	}
	if len(w.msgs) != 1 || !strings.HasPrefix(w.msgs[0], "error sending AAC packet: ") {
		t.Errorf("warnings = %q, want one send warning", w.msgs)
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{audio.ErrAgain, true},
		{fmt.Errorf("receive: %w", audio.ErrEOF), true},
		{ErrClosed, false},
	}

	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestWithLogger_Nil(t *testing.T) {
	t.Parallel()

	d, err := New(44100, 2, WithCodec(&audiotest.FakeCodec{}), WithLogger(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	// nil logger falls back to Discard
	if d.Receive(nil, nil) {
		t.Error("Receive() on an empty session = true")
	}
}
