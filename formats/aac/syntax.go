// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
	"github.com/skrashevich/go-aac/pkg/cce"
	"github.com/skrashevich/go-aac/pkg/cpe"
	aacdecoder "github.com/skrashevich/go-aac/pkg/decoder"
	"github.com/skrashevich/go-aac/pkg/ics"
)

// raw_data_block element IDs.
const (
	idSCE = iota
	idCPE
	idCCE
	idLFE
	idDSE
	idPCE
	idFIL
	idEND
)

// checkedDecoder rejects access units go-aac cannot finish parsing before
// handing them over. go-aac reads zeros past the end of its input and keeps
// adding single channel elements, so a truncated unit never terminates.
type checkedDecoder struct {
	dec *aacdecoder.Decoder
	cfg ics.Config
}

func (c *checkedDecoder) SetASC(asc []byte) error {
	if err := c.dec.SetASC(asc); err != nil {
		return err
	}

	c.cfg = ics.Config{
		SampleIndex: c.dec.Config.SampleIndex,
		FrameLength: c.dec.Config.FrameLength,
		Profile:     c.dec.Config.Profile,
	}
	return nil
}

func (c *checkedDecoder) DecodeFrame(au []byte) (samples []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			samples, err = nil, fmt.Errorf("%w: decoder panic: %v", ErrInvalidData, r)
		}
	}()

	if err := scanRawDataBlock(au, c.cfg); err != nil {
		return nil, err
	}
	return c.dec.DecodeFrame(au)
}

// bitReader adapts bitio to go-aac's BitReader. After the first failed
// read it returns zeros, like go-aac's own bitstream, and keeps the error.
type bitReader struct {
	r   *bitio.Reader
	err error
}

func newBitReader(b []byte) *bitReader {
	return &bitReader{r: bitio.NewReader(bytes.NewReader(b))}
}

func (b *bitReader) ReadBits(n int) uint32 {
	if b.err != nil {
		return 0
	}
	if n < 0 || n > 32 {
		b.err = fmt.Errorf("%w: read of %d bits", ErrInvalidData, n)
		return 0
	}

	v := b.r.TryReadBits(uint8(n))
	if b.r.TryError != nil {
		b.err = fmt.Errorf("%w: %w", ErrTruncatedFrame, b.r.TryError)
		return 0
	}
	return uint32(v)
}

func (b *bitReader) skip(bits int) {
	for ; bits > 0 && b.err == nil; bits -= 32 {
		b.ReadBits(min(bits, 32))
	}
}

// scanRawDataBlock walks the elements of one raw access unit with go-aac's
// element parsers and fails unless an END element is reached inside au.
func scanRawDataBlock(au []byte, cfg ics.Config) error {
	// go-aac would take this for an ADTS header
	if len(au) >= 2 && au[0] == 0xFF && au[1]&0xF0 == 0xF0 {
		return fmt.Errorf("%w: raw access unit starts with an ADTS syncword", ErrInvalidData)
	}

	r := newBitReader(au)

	for {
		elementType := r.ReadBits(3)
		if r.err != nil {
			return r.err
		}
		if elementType == idEND {
			return nil
		}

		id := int(r.ReadBits(4))

		var err error
		switch elementType {
		case idSCE, idLFE:
			var s *ics.ICStream
			if s, err = ics.New(cfg); err == nil {
				err = s.Decode(r, cfg, false)
			}
		case idCPE:
			var e *cpe.Element
			if e, err = cpe.New(cfg); err == nil {
				err = e.Decode(r, cfg)
			}
		case idCCE:
			var e *cce.Element
			if e, err = cce.New(cfg); err == nil {
				err = e.Decode(r, cfg)
			}
		case idDSE:
			align := r.ReadBits(1)
			count := int(r.ReadBits(8))
			if count == 255 {
				count += int(r.ReadBits(8))
			}
			if align != 0 {
				r.r.Align()
			}
			r.skip(count * 8)
		case idPCE:
			err = fmt.Errorf("%w: program config element", ErrUnsupported)
		case idFIL:
			if id == 15 {
				id += int(r.ReadBits(8)) - 1
			}
			r.skip(id * 8)
		}

		if r.err != nil {
			return r.err
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidData, err)
		}
	}
}
