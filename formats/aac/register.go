// SPDX-License-Identifier: EPL-2.0

package aac

import "github.com/ik5/aacpcm/audio"

// Register adds the AAC demuxers to reg under their file extensions.
func Register(reg *audio.Registry) {
	reg.Register("aac", ADTSDemuxer{})
	reg.Register("adts", ADTSDemuxer{})

	for _, ext := range []string{"m4a", "m4b", "mp4"} {
		reg.Register(ext, MP4Demuxer{})
	}
}
