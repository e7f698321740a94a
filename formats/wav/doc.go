// SPDX-License-Identifier: EPL-2.0

// Package wav writes decoded PCM16 to WAV files.
//
// # Writing WAV Files
//
// Use WriteWAV16 when all samples are in memory or the destination cannot
// seek (a pipe, stdout):
//
//	samples := []int16{100, -100, 200, -200} // L, R, L, R
//	err := wav.WriteWAV16(os.Stdout, 48000, 2, samples)
//
// Use Writer to stream frames as they are decoded. It is built on
// github.com/go-audio/wav and patches the header sizes on Close:
//
//	f, _ := os.Create("out.wav")
//	w, err := wav.NewWriter(f, 48000, 2)
//	for ... {
//	    err = w.Write(pcm)
//	}
//	err = w.Close()
//
// # Reading
//
// Read16 decodes a whole 16-bit PCM file back into memory, which is mostly
// useful to check what was written.
//
// # Errors
//
//   - ErrInvalidSampleRate, ErrInvalidChannels: bad stream parameters
//   - ErrPartialFrame: the sample count does not split into whole frames
//   - ErrNotWavFile, ErrOnlyPCM16bitSupported: Read16 input problems
package wav
