package aacpcm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/aacpcm/audio"
	"github.com/ik5/aacpcm/codec"
	"github.com/ik5/aacpcm/formats/aac"
	"github.com/ik5/aacpcm/utils"
)

var (
	ErrUnknownContainer = errors.New("unknown container")
	ErrNoAudio          = errors.New("no audio decoded")
)

// maxFrameSamples bounds one decoded frame per channel. AAC-LC frames are
// 1024 samples; SBR output doubles that.
const (
	maxFrameSamples = 2048
	maxChannels     = 2
)

// PCMDecoder is the submit/retrieve surface Stream drives. Both
// *codec.AACDecoder and *codec.Locked satisfy it.
type PCMDecoder interface {
	Send(data []byte) bool
	Receive(out []byte, size *codec.Size) bool
	Get(q codec.Query) uint32
}

var (
	_ PCMDecoder = (*codec.AACDecoder)(nil)
	_ PCMDecoder = (*codec.Locked)(nil)
)

var registry = newDefaultRegistry()

func newDefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	aac.Register(reg)
	return reg
}

// DefaultRegistry holds the demuxers OpenFile picks from.
func DefaultRegistry() *audio.Registry { return registry }

// Stream feeds every access unit of src to dec and passes each decoded frame
// to fn as interleaved int16 samples. The slice is reused, so fn must copy
// what it keeps.
//
// Pending frames are drained before every send, so a unit the decoder still
// refuses is bad data and is skipped; the decoder has logged why. At
// the end of input an empty packet flushes the decoder.
func Stream(dec PCMDecoder, src audio.UnitSource, fn func(pcm []int16) error) error {
	out := make([]byte, maxFrameSamples*maxChannels*2)
	pcm := make([]int16, maxFrameSamples*maxChannels)
	frames := 0

	drain := func() error {
		var size codec.Size
		for dec.Receive(out, &size) {
			channels := int(dec.Get(codec.QueryChannels))
			n := utils.BytesToInt16(pcm, out[:int(size.Samples)*channels*2])
			frames++

			if err := fn(pcm[:n]); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		au, err := src.ReadAccessUnit()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		if err := drain(); err != nil {
			return err
		}
		dec.Send(au)
	}

	if err := drain(); err != nil {
		return err
	}
	dec.Send(nil)
	if err := drain(); err != nil {
		return err
	}

	if frames == 0 {
		return ErrNoAudio
	}
	return nil
}

// DecodeAll collects everything Stream produces.
func DecodeAll(dec PCMDecoder, src audio.UnitSource) ([]int16, error) {
	var samples []int16

	err := Stream(dec, src, func(pcm []int16) error {
		samples = append(samples, pcm...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return samples, nil
}

// Input is an opened container file.
type Input struct {
	audio.UnitSource

	f *os.File
}

// OpenFile picks a demuxer from DefaultRegistry by file extension.
func OpenFile(path string) (*Input, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	d, ok := registry.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContainer, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src, err := d.Demux(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Input{UnitSource: src, f: f}, nil
}

func (in *Input) Close() error {
	srcErr := in.UnitSource.Close()
	if err := in.f.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return srcErr
}

// Result is a fully decoded file.
type Result struct {
	SampleRate int
	Channels   int
	BitRate    int
	// Samples are interleaved.
	Samples []int16
}

// DecodeFile decodes a whole .aac, .m4a, .m4b or .mp4 file to PCM16.
// opts are passed to codec.New.
func DecodeFile(path string, opts ...codec.Option) (*Result, error) {
	in, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	// streaming hits "need more input" after every frame
	opts = append([]codec.Option{
		codec.WithLogger(codec.SkipRetryable(codec.NewStdLogger(nil))),
	}, opts...)

	cfg := in.Config()
	dec, err := codec.New(uint32(cfg.SampleRate), uint32(cfg.Channels), opts...)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	samples, err := DecodeAll(dec, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Result{
		SampleRate: int(dec.Get(codec.QuerySampleRate)),
		Channels:   int(dec.Get(codec.QueryChannels)),
		BitRate:    int(dec.Get(codec.QueryBitRate)),
		Samples:    samples,
	}, nil
}
