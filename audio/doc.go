// SPDX-License-Identifier: EPL-2.0

// Package audio defines the decoding contract and the buffer types that
// flow through it.
//
// This package contains:
//   - Session and Codec, the send/receive contract of a decoding library
//   - Packet and Frame, the compressed input and decoded output
//   - Converter for planar float to interleaved 16-bit PCM
//   - UnitSource, Demuxer and the container Registry
//
// # Sessions
//
// A Session follows libavcodec's send/receive model. SendPacket returns
// ErrAgain while a decoded frame is waiting, ReceiveFrame returns ErrAgain
// when more input is needed, and after an empty packet starts draining both
// end with ErrEOF:
//
//	for {
//	    err := s.ReceiveFrame(f)
//	    if errors.Is(err, audio.ErrAgain) {
//	        break // feed another packet
//	    }
//	    ...
//	}
//
// ErrorText renders these errors the way the library reports them.
//
// # Conversion
//
// Converter only accepts SampleFormatFltp in and SampleFormatS16 out, at the
// same rate and channel layout. There is no resampling:
//
//	in := audio.NewStreamFormat(audio.LayoutStereo, audio.SampleFormatFltp, 48000)
//	out := audio.NewStreamFormat(audio.LayoutStereo, audio.SampleFormatS16, 48000)
//	conv, err := audio.NewConverter(in, out)
//	n, err := conv.Convert(dst, frame.Planes, frame.NbSamples)
//
// Each float sample is scaled by 32768, rounded and clipped to the int16
// range.
//
// # Registry
//
// The Registry maps container keys to demuxers:
//
//	reg := audio.NewRegistry()
//	reg.Register("aac", aac.ADTSDemuxer{})
//
//	d, ok := reg.Get("aac")
//
// Registry is safe for concurrent use.
package audio
