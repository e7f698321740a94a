// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	aacadts "github.com/skrashevich/go-aac/pkg/adts"

	"github.com/ik5/aacpcm/audio"
)

const id3HeaderLen = 10

// ADTSDemuxer indexes a raw .aac stream. Access units are whole ADTS frames,
// header included, so a session can follow the header's configuration.
type ADTSDemuxer struct{}

var _ audio.Demuxer = ADTSDemuxer{}

func (ADTSDemuxer) Demux(r io.ReadSeeker) (audio.UnitSource, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	start, err := skipID3v2(r)
	if err != nil {
		return nil, err
	}

	var (
		headerBuf [adtsHeaderLen + adtsCRCLen]byte
		offsets   []int64
		sizes     []int
		asc       []byte
	)

	for offset := start; offset < size; {
		n, err := readAt(r, headerBuf[:], offset)
		if err != nil {
			return nil, err
		}
		if n < adtsHeaderLen || !isADTS(headerBuf[:n]) {
			return nil, fmt.Errorf("%w: no sync word at byte %d", ErrInvalidData, offset)
		}

		header, err := aacadts.ReadHeaderFromBytes(headerBuf[:n])
		if err != nil {
			return nil, fmt.Errorf("%w: header at byte %d: %w", ErrInvalidData, offset, err)
		}
		if header.Profile != aacLCProfile {
			return nil, fmt.Errorf("%w: profile %d (AAC-LC only)", ErrUnsupported, header.Profile)
		}
		if int(header.ChannelConfig) < 1 || int(header.ChannelConfig) > maxChannels {
			return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, header.ChannelConfig)
		}
		if header.NumFrames != 1 {
			return nil, fmt.Errorf("%w: %d raw blocks per ADTS frame", ErrUnsupported, header.NumFrames)
		}

		headerLen := adtsHeaderLen
		if !header.ProtectionAbsent {
			headerLen += adtsCRCLen
		}
		if header.FrameLength < headerLen {
			return nil, fmt.Errorf("%w: frame length %d at byte %d", ErrInvalidData, header.FrameLength, offset)
		}
		if offset+int64(header.FrameLength) > size {
			return nil, fmt.Errorf("%w: at byte %d", ErrTruncatedFrame, offset)
		}

		frameASC, err := aacadts.AudioSpecificConfig(header)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
		}
		if asc == nil {
			asc = append([]byte(nil), frameASC[:]...)
		} else if !bytes.Equal(asc, frameASC[:]) {
			return nil, fmt.Errorf("%w: at byte %d", ErrConfigChange, offset)
		}

		offsets = append(offsets, offset)
		sizes = append(sizes, header.FrameLength)
		offset += int64(header.FrameLength)
	}

	if len(offsets) == 0 {
		return nil, ErrNoFrames
	}

	cfg, err := ParseASC(asc)
	if err != nil {
		return nil, err
	}

	return &adtsSource{
		r:       r,
		cfg:     cfg,
		offsets: offsets,
		sizes:   sizes,
	}, nil
}

// skipID3v2 returns the offset of the first byte after a leading ID3v2 tag.
func skipID3v2(r io.ReadSeeker) (int64, error) {
	var header [id3HeaderLen]byte
	n, err := readAt(r, header[:], 0)
	if err != nil {
		return 0, err
	}
	if n < len(header) || string(header[:3]) != "ID3" {
		return 0, nil
	}

	size := int64(header[6]&0x7f)<<21 |
		int64(header[7]&0x7f)<<14 |
		int64(header[8]&0x7f)<<7 |
		int64(header[9]&0x7f)
	total := id3HeaderLen + size
	// footer present
	if header[5]&0x10 != 0 {
		total += id3HeaderLen
	}

	return total, nil
}

// readAt reads up to len(p) bytes at offset. A short read at the end of the
// stream is not an error.
func readAt(r io.ReadSeeker, p []byte, offset int64) (int, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	n, err := io.ReadFull(r, p)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}

	return n, nil
}

type adtsSource struct {
	r       io.ReadSeeker
	cfg     audio.StreamConfig
	offsets []int64
	sizes   []int
	index   int
	buf     []byte
}

func (s *adtsSource) Config() audio.StreamConfig { return s.cfg }

func (s *adtsSource) ReadAccessUnit() ([]byte, error) {
	if s.index >= len(s.offsets) {
		return nil, io.EOF
	}

	size := s.sizes[s.index]
	if cap(s.buf) < size {
		s.buf = make([]byte, size)
	}
	au := s.buf[:size]

	n, err := readAt(s.r, au, s.offsets[s.index])
	if err != nil {
		return nil, err
	}
	if n < size {
		return nil, fmt.Errorf("%w: at byte %d", ErrTruncatedFrame, s.offsets[s.index])
	}

	s.index++
	return au, nil
}

// Close drops the index. The underlying reader belongs to the caller.
func (s *adtsSource) Close() error {
	s.offsets, s.sizes, s.buf = nil, nil, nil
	return nil
}
