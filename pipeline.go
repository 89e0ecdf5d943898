package cnv

import (
	"errors"
	"fmt"
)

// Pipeline converts bytes of one codec directly into bytes of another through
// a UTF-16 pivot buffer. Pivot contents survive between calls, so a conversion
// interrupted by a full destination resumes without losing units.
type Pipeline struct {
	from *Converter
	to   *Converter

	pivot      []uint16
	start, end int

	// drained is set once the source has been decoded with flush.
	drained bool

	// pending is a source error held back until the pivot is empty.
	pending error
}

// NewPipeline creates a pipeline decoding with from and encoding with to.
// A pivotSize of 0 selects the default size.
func NewPipeline(from, to *Converter, pivotSize int) (*Pipeline, error) {
	if err := from.checkOpen(); err != nil {
		return nil, err
	}
	if err := to.checkOpen(); err != nil {
		return nil, err
	}
	if pivotSize < 0 {
		return nil, fmt.Errorf("%w: pivot size %d", ErrIllegalArgument, pivotSize)
	}
	if pivotSize == 0 {
		pivotSize = chunkSize
	}
	return &Pipeline{
		from:  from,
		to:    to,
		pivot: make([]uint16, pivotSize),
	}, nil
}

// Convert converts src into dst and returns the bytes written and consumed.
// Outcomes mirror Converter.Decode. With flush true, Convert returns nil only
// after the source is fully decoded and the target encoder has been returned to
// its initial state.
func (p *Pipeline) Convert(dst, src []byte, flush bool) (int, int, error) {
	nDst, nSrc := 0, 0
	for {
		if p.start < p.end {
			n, used, err := p.to.Encode(dst[nDst:], p.pivot[p.start:p.end], nil, false)
			nDst += n
			p.start += used
			// ErrTruncated means a high surrogate is now buffered by the encoder.
			if err != nil && !errors.Is(err, ErrTruncated) {
				return nDst, nSrc, err
			}
		}
		p.start, p.end = 0, 0

		if p.pending != nil {
			err := p.pending
			p.pending = nil
			return nDst, nSrc, err
		}

		if !p.drained {
			n, used, err := p.from.Decode(p.pivot, src[nSrc:], nil, flush)
			p.end = n
			nSrc += used
			switch {
			case err == nil:
				if flush {
					p.drained = true
				} else if n == 0 {
					return nDst, nSrc, nil
				}
			case errors.Is(err, ErrOutputExhausted):
			default:
				p.pending = err
			}
			continue
		}

		// Source finished: return the target to its initial state.
		n, _, err := p.to.Encode(dst[nDst:], nil, nil, true)
		nDst += n
		if err != nil {
			return nDst, nSrc, err
		}
		p.drained = false
		return nDst, nSrc, nil
	}
}

// Reset resets both converters and discards the pivot.
func (p *Pipeline) Reset() {
	p.from.Reset()
	p.to.Reset()
	p.start, p.end = 0, 0
	p.drained = false
	p.pending = nil
}
