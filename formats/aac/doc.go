// SPDX-License-Identifier: EPL-2.0

// Package aac provides the AAC-LC decoding backend and container demuxers.
//
// Codec implements audio.Codec on top of github.com/skrashevich/go-aac.
// Sessions take raw access units, or ADTS frames whose header is stripped
// before decoding, and produce planar float frames:
//
//	s, err := aac.Codec{}.Open(44100, 2)
//	if err != nil {
//	    // ErrInvalidSampleRate, ErrInvalidChannels, ErrUnsupported
//	}
//	defer s.Close()
//
// # Containers
//
// ADTSDemuxer indexes raw .aac streams (a leading ID3v2 tag is skipped).
// MP4Demuxer reads the audio track of a progressive MP4 file through
// github.com/Eyevinn/mp4ff. Register installs both in an audio.Registry.
//
// # AudioSpecificConfig
//
// BuildASC writes the two-byte (or five-byte, for non-table rates)
// configuration the decoder is primed with. ParseASC reads one back.
package aac
