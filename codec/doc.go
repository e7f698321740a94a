// SPDX-License-Identifier: EPL-2.0

// Package codec adapts an AAC decoding session to the 16-bit PCM an
// emulated audio pipeline consumes.
//
// An AACDecoder owns one audio.Session. Compressed packets go in with Send,
// decoded frames come out with Receive, which converts the session's planar
// float output into interleaved little-endian int16:
//
//	dec, err := codec.New(48000, 2)
//	if err != nil {
//	    log.Fatal(err) // *codec.FatalError
//	}
//	defer dec.Close()
//
//	pcm := make([]byte, 2048*2*2)
//	var size codec.Size
//	if dec.Send(accessUnit) {
//	    for dec.Receive(pcm, &size) {
//	        play(pcm[:size.Samples*2*2])
//	    }
//	}
//
// # Failure Tiers
//
// Send and Receive report recoverable failures as false plus a warning on
// the injected Logger. Receive returning false right after Send is normal:
// the session wants more input before it can produce audio.
//
// Broken assumptions about the decoding library are reported as
// *FatalError: returned from New, and raised as a panic from Receive when a
// frame is not planar float or cannot be converted.
//
// # Concurrency
//
// An AACDecoder must be driven by one goroutine at a time. Wrap it in
// Locked when it has to be shared.
package codec
