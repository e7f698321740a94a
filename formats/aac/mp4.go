// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/ik5/aacpcm/audio"
)

// MP4Demuxer reads the single AAC-LC track of a progressive MP4 (.m4a,
// .m4b, .mp4). Access units are raw, without ADTS headers. Edit lists are
// not applied, so encoder priming samples are decoded like any other.
type MP4Demuxer struct{}

var _ audio.Demuxer = MP4Demuxer{}

func (MP4Demuxer) Demux(r io.ReadSeeker) (audio.UnitSource, error) {
	file, err := mp4.DecodeFile(r, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding MP4: %w", ErrInvalidData, err)
	}
	if file.IsFragmented() {
		return nil, fmt.Errorf("%w: fragmented MP4", ErrUnsupported)
	}
	if file.Moov == nil {
		return nil, fmt.Errorf("%w: missing moov box", ErrInvalidData)
	}

	var tracks []*mp4.TrakBox
	for _, trak := range file.Moov.Traks {
		if trak != nil && trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "soun" {
			tracks = append(tracks, trak)
		}
	}
	if len(tracks) != 1 {
		return nil, fmt.Errorf("%w: expected one audio track, found %d", ErrUnsupported, len(tracks))
	}

	trak := tracks[0]
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return nil, fmt.Errorf("%w: incomplete sample table", ErrInvalidData)
	}

	stsd := trak.Mdia.Minf.Stbl.Stsd
	if stsd.Enca != nil {
		return nil, fmt.Errorf("%w: encrypted track", ErrUnsupported)
	}
	entry := stsd.Mp4a
	if entry == nil {
		return nil, fmt.Errorf("%w: audio sample entry is not mp4a", ErrUnsupported)
	}
	if entry.Esds == nil ||
		entry.Esds.DecConfigDescriptor == nil ||
		entry.Esds.DecConfigDescriptor.DecSpecificInfo == nil ||
		len(entry.Esds.DecConfigDescriptor.DecSpecificInfo.DecConfig) == 0 {
		return nil, fmt.Errorf("%w: missing AudioSpecificConfig", ErrInvalidData)
	}

	cfg, err := ParseASC(entry.Esds.DecConfigDescriptor.DecSpecificInfo.DecConfig)
	if err != nil {
		return nil, err
	}
	if cfg.Channels < 1 || cfg.Channels > maxChannels {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, cfg.Channels)
	}

	total := int(trak.GetNrSamples())
	if total == 0 {
		return nil, ErrNoFrames
	}

	return &mp4Source{
		r:     r,
		trak:  trak,
		cfg:   cfg,
		total: total,
	}, nil
}

type mp4Source struct {
	r     io.ReadSeeker
	trak  *mp4.TrakBox
	cfg   audio.StreamConfig
	total int
	index int
	buf   []byte
}

func (s *mp4Source) Config() audio.StreamConfig { return s.cfg }

func (s *mp4Source) ReadAccessUnit() ([]byte, error) {
	if s.index >= s.total {
		return nil, io.EOF
	}

	sampleNr := uint32(s.index) + 1
	ranges, err := s.trak.GetRangesForSampleInterval(sampleNr, sampleNr)
	if err != nil {
		return nil, fmt.Errorf("%w: sample %d: %w", ErrInvalidData, sampleNr, err)
	}
	if len(ranges) != 1 {
		return nil, fmt.Errorf("%w: sample %d spans %d ranges", ErrInvalidData, sampleNr, len(ranges))
	}

	size := int(ranges[0].Size)
	if cap(s.buf) < size {
		s.buf = make([]byte, size)
	}
	au := s.buf[:size]

	n, err := readAt(s.r, au, int64(ranges[0].Offset))
	if err != nil {
		return nil, err
	}
	if n < size {
		return nil, fmt.Errorf("%w: sample %d", ErrTruncatedFrame, sampleNr)
	}

	s.index++
	return au, nil
}

func (s *mp4Source) Close() error {
	s.trak, s.buf = nil, nil
	return nil
}
