// SPDX-License-Identifier: EPL-2.0

// Package aacpcm decodes AAC audio into interleaved 16-bit PCM for an
// emulated audio pipeline.
//
// The heavy lifting happens in the subpackages:
//   - codec: the AACDecoder adapter (configure, query, submit, retrieve)
//   - audio: the session contract, frames, packets and the Fltp to S16 converter
//   - formats/aac: the go-aac backed session plus ADTS and MP4 demuxers
//   - formats/wav: PCM16 WAV output
//
// This package ties them together for whole streams.
//
// # Quick Start
//
// The simplest way to decode a file is DecodeFile:
//
//	res, err := aacpcm.DecodeFile("music.m4a")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// res.Samples holds interleaved int16 at res.SampleRate
//
// # Streaming
//
// For long files or live playback, open the container and stream frames as
// they are decoded:
//
//	in, _ := aacpcm.OpenFile("music.aac")
//	defer in.Close()
//
//	cfg := in.Config()
//	dec, _ := codec.New(uint32(cfg.SampleRate), uint32(cfg.Channels))
//	defer dec.Close()
//
//	err := aacpcm.Stream(dec, in, func(pcm []int16) error {
//	    return w.Write(pcm)
//	})
//
// Stream drives any PCMDecoder, so a codec.Locked shared with another
// goroutine works the same way.
//
// # Containers
//
// DefaultRegistry maps file extensions to demuxers: aac and adts for raw
// ADTS streams, m4a, m4b and mp4 for MPEG-4 files.
package aacpcm
