// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"log"

	"github.com/ik5/aacpcm/audio"
)

// Logger receives the warnings the decoder emits on recoverable failures.
type Logger interface {
	Warn(msg string)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(msg string)

func (f LoggerFunc) Warn(msg string) { f(msg) }

// Discard drops every warning.
var Discard Logger = LoggerFunc(func(string) {})

// ErrorLogger is a Logger that also wants the error behind each warning.
// The decoder calls WarnErr instead of Warn when its logger has it.
type ErrorLogger interface {
	Logger
	WarnErr(msg string, err error)
}

func warn(l Logger, msg string, err error) {
	if el, ok := l.(ErrorLogger); ok {
		el.WarnErr(msg, err)
		return
	}
	l.Warn(msg)
}

// IsRetryable reports whether err only means the session wants more input
// or has finished draining.
func IsRetryable(err error) bool {
	return errors.Is(err, audio.ErrAgain) || errors.Is(err, audio.ErrEOF)
}

type skipRetryable struct {
	l Logger
}

// SkipRetryable drops the warnings a streaming loop triggers on purpose:
// a session asking for more input or reporting the end of a drain.
func SkipRetryable(l Logger) Logger {
	return skipRetryable{l: l}
}

func (s skipRetryable) Warn(msg string) { s.l.Warn(msg) }

func (s skipRetryable) WarnErr(msg string, err error) {
	if IsRetryable(err) {
		return
	}
	warn(s.l, msg, err)
}

type stdLogger struct {
	l *log.Logger
}

// NewStdLogger writes warnings to l with a "[WARN]" prefix.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l: l}
}

func (s stdLogger) Warn(msg string) {
	s.l.Printf("[WARN] %s", msg)
}
