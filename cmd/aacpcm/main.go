// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ik5/aacpcm"
	"github.com/ik5/aacpcm/codec"
	"github.com/ik5/aacpcm/formats/wav"
	"github.com/ik5/aacpcm/internal/cli"
	"github.com/ik5/aacpcm/internal/playback"
)

// version is set via ldflags at build time
var version = "dev"

type Globals struct {
	Quiet   bool             `help:"Discard decoder warnings" env:"AACPCM_QUIET"`
	Version kong.VersionFlag `help:"Show version information"`
}

// logger is what the decoder warns through. Retryable send/receive
// results are expected while streaming and never shown.
func (g *Globals) logger() codec.Logger {
	if g.Quiet {
		return codec.Discard
	}
	return codec.SkipRetryable(codec.NewStdLogger(log.New(os.Stderr, "", 0)))
}

// open configures a decoder from the container's stream config.
func (g *Globals) open(path string) (*aacpcm.Input, *codec.AACDecoder, error) {
	in, err := aacpcm.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}

	cfg := in.Config()
	dec, err := codec.New(uint32(cfg.SampleRate), uint32(cfg.Channels), codec.WithLogger(g.logger()))
	if err != nil {
		in.Close()
		return nil, nil, err
	}

	return in, dec, nil
}

type DecodeCmd struct {
	Input  string `arg:"" help:"AAC input (.aac, .adts, .m4a, .m4b, .mp4)" type:"existingfile"`
	Output string `arg:"" help:"WAV output, or - for stdout"`
}

func (c *DecodeCmd) Run(g *Globals) error {
	in, dec, err := g.open(c.Input)
	if err != nil {
		return err
	}
	defer in.Close()
	defer dec.Close()

	start := time.Now()

	if c.Output == "-" {
		// stdout cannot seek back to patch the header
		samples, err := aacpcm.DecodeAll(dec, in)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := wav.WriteWAV16(&buf, int(dec.Get(codec.QuerySampleRate)), int(dec.Get(codec.QueryChannels)), samples); err != nil {
			return err
		}
		_, err = buf.WriteTo(os.Stdout)
		return err
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := wav.NewWriter(f, int(dec.Get(codec.QuerySampleRate)), int(dec.Get(codec.QueryChannels)))
	if err != nil {
		return err
	}

	if err := aacpcm.Stream(dec, in, w.Write); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	st, err := f.Stat()
	if err != nil {
		return err
	}

	rate := int(dec.Get(codec.QuerySampleRate))
	cli.PrintSuccess(os.Stderr, fmt.Sprintf("%s: %s of audio, %s in %s",
		c.Output,
		cli.FormatDuration(time.Duration(w.Frames())*time.Second/time.Duration(rate)),
		cli.FormatBytes(st.Size()),
		cli.FormatDuration(time.Since(start)),
	))
	return nil
}

type ProbeCmd struct {
	Input string `arg:"" help:"AAC input" type:"existingfile"`
}

func (c *ProbeCmd) Run(g *Globals) error {
	in, dec, err := g.open(c.Input)
	if err != nil {
		return err
	}
	defer in.Close()
	defer dec.Close()

	cfg := in.Config()
	out := os.Stdout

	cli.PrintSection(out, "Container")
	cli.PrintInfo(out, "Sample rate", fmt.Sprintf("%d Hz", cfg.SampleRate))
	cli.PrintInfo(out, "Channels", fmt.Sprint(cfg.Channels))
	cli.PrintInfo(out, "AudioSpecificConfig", fmt.Sprintf("% X", cfg.ASC))

	var samples, frames int
	err = aacpcm.Stream(dec, in, func(pcm []int16) error {
		samples += len(pcm)
		frames++
		return nil
	})
	if err != nil {
		return err
	}

	rate := int(dec.Get(codec.QuerySampleRate))
	channels := int(dec.Get(codec.QueryChannels))

	cli.PrintSection(out, "Decoder")
	cli.PrintInfo(out, "Sample rate", fmt.Sprintf("%d Hz", rate))
	cli.PrintInfo(out, "Channels", fmt.Sprint(channels))
	cli.PrintInfo(out, "Bit rate", fmt.Sprintf("%d kb/s", dec.Get(codec.QueryBitRate)/1000))
	cli.PrintInfo(out, "Frames", fmt.Sprint(frames))
	cli.PrintInfo(out, "Duration", cli.FormatDuration(cli.PCMDuration(samples, channels, rate)))
	return nil
}

type PlayCmd struct {
	Input  string `arg:"" help:"AAC input" type:"existingfile"`
	Volume int    `help:"Playback volume (0-100)" default:"100"`
}

func (c *PlayCmd) Run(g *Globals) error {
	in, dec, err := g.open(c.Input)
	if err != nil {
		return err
	}
	defer in.Close()
	defer dec.Close()

	out := playback.NewOto()
	out.SetVolume(c.Volume)
	if err := out.Open(int(dec.Get(codec.QuerySampleRate)), int(dec.Get(codec.QueryChannels))); err != nil {
		return err
	}
	defer out.Close()

	if err := aacpcm.Stream(dec, in, out.Write); err != nil {
		return err
	}
	out.Drain()
	return nil
}

var CLI struct {
	Globals

	Decode DecodeCmd `cmd:"" help:"Decode to a PCM16 WAV file"`
	Probe  ProbeCmd  `cmd:"" help:"Show stream and decoder parameters"`
	Play   PlayCmd   `cmd:"" help:"Play through the default audio device"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("aacpcm"),
		kong.Description("Decode AAC audio to interleaved 16-bit PCM."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	if err := ctx.Run(&CLI.Globals); err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}
