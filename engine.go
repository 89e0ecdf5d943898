package cnv

import (
	"fmt"
	"io"
	"unicode/utf16"
)

// stepResult classifies one attempt to convert a single sequence.
type stepResult uint8

const (
	stepOK stepResult = iota
	stepShort
	stepIllegal
	stepUnassigned
	stepFatal
)

// noOutput is the rune of a step that only changed converter state, such as a
// shift byte or an escape sequence.
const noOutput rune = -1

// encodeScratch is large enough for the bytes of one scalar in any family,
// shift prefix included.
const encodeScratch = 8

// step is the outcome of decoding the sequence at the start of a window.
type step struct {
	r   rune
	n   int
	res stepResult
	err error
}

// familyCodec converts single sequences for one family. Steps may only change
// converter state when they succeed.
type familyCodec interface {
	// decodeStep examines the sequence at the start of src. A short result means
	// src holds a valid prefix only. Illegal and unassigned results report the
	// length of the minimal offending unit in n.
	decodeStep(c *Converter, src []byte) step

	// encodeStep writes the bytes of r to dst.
	encodeStep(c *Converter, r rune, dst []byte) (int, stepResult)

	// encodeFlush writes the bytes that return the encoder to its initial state.
	encodeFlush(c *Converter, dst []byte) int
}

var families = [familyCount]familyCodec{
	FamilySBCS:           sbcsCodec{},
	FamilyDBCS:           dbcsCodec{},
	FamilyMBCS:           mbcsCodec{},
	FamilyLatin1:         latin1Codec{},
	FamilyUTF8:           utf8Codec{},
	FamilyUTF16BE:        utf16Codec{bigEndian: true},
	FamilyUTF16LE:        utf16Codec{},
	FamilyEBCDICStateful: ebcdicCodec{},
	FamilyISO2022:        iso2022Codec{},
}

func isHighSurrogate(u uint16) bool { return u >= 0xD800 && u < 0xDC00 }

func isLowSurrogate(u uint16) bool { return u >= 0xDC00 && u < 0xE000 }

func checkOffsets(offsets []int, capacity int) error {
	if offsets != nil && len(offsets) < capacity {
		return fmt.Errorf("%w: offsets length %d shorter than output capacity %d",
			ErrIllegalArgument, len(offsets), capacity)
	}
	return nil
}

// Decode converts codec bytes from src into code units in dst.
//
// It returns the units written and the bytes consumed. A nil error means all of
// src was consumed. ErrOutputExhausted means dst filled up; call again with the
// rest of src and more room. ErrTruncated (flush false only) means src ended
// inside a sequence that the converter now buffers; call again with more input.
// When flush is true, src is the end of the stream and incomplete sequences are
// handed to the decode callback.
//
// If offsets is not nil, offsets[i] receives the position in src of the
// sequence that produced dst[i]. Units delivered from earlier calls get 0.
func (c *Converter) Decode(dst []uint16, src []byte, offsets []int, flush bool) (int, int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, 0, err
	}
	if err := checkOffsets(offsets, len(dst)); err != nil {
		return 0, 0, err
	}

	run := decodeRun{c: c, dst: dst}
	run.nDst = c.units.drain(dst)
	for i := 0; offsets != nil && i < run.nDst; i++ {
		offsets[i] = 0
	}
	if c.units.len() > 0 {
		return run.nDst, 0, ErrOutputExhausted
	}

	width := c.desc.family.fixedWidth()
	if offsets != nil && width == 0 {
		run.offsets = offsets
	}
	start := run.nDst
	nSrc, err := run.loop(src, flush)
	if offsets != nil && width > 0 {
		last := max(nSrc-1, 0)
		for i := start; i < run.nDst; i++ {
			offsets[i] = min((i-start)*width, last)
		}
	}
	return run.nDst, nSrc, err
}

// Encode converts code units from src into codec bytes in dst. Outcomes mirror
// Decode. With flush true the encoder also writes any bytes needed to return to
// its initial shift state, and a trailing high surrogate is handed to the
// encode callback as truncated input.
func (c *Converter) Encode(dst []byte, src []uint16, offsets []int, flush bool) (int, int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, 0, err
	}
	if err := checkOffsets(offsets, len(dst)); err != nil {
		return 0, 0, err
	}

	run := encodeRun{c: c, dst: dst}
	run.nDst = c.bytes.drain(dst)
	for i := 0; offsets != nil && i < run.nDst; i++ {
		offsets[i] = 0
	}
	if c.bytes.len() > 0 {
		return run.nDst, 0, ErrOutputExhausted
	}

	width := c.desc.family.fixedWidth()
	if offsets != nil && width == 0 {
		run.offsets = offsets
	}
	start := run.nDst
	nSrc, err := run.loop(src, flush)
	if offsets != nil && width > 0 {
		last := max(nSrc-1, 0)
		for i := start; i < run.nDst; i++ {
			offsets[i] = min((i-start)/width, last)
		}
	}
	return run.nDst, nSrc, err
}

// NextRune decodes one scalar value from src and returns it with the number of
// bytes consumed. Units held back by an earlier Decode are returned first.
// It returns io.EOF when nothing is left and ErrTruncated when src ends inside a
// sequence. Bad input is reported as a *ConversionError without consulting the
// decode callback.
func (c *Converter) NextRune(src []byte) (rune, int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, 0, err
	}
	if u, ok := c.units.pop(); ok {
		if isHighSurrogate(u) {
			if lo, ok := c.units.peek(); ok && isLowSurrogate(lo) {
				c.units.pop()
				return utf16.DecodeRune(rune(u), rune(lo)), 0, nil
			}
		}
		return rune(u), 0, nil
	}

	fc := families[c.desc.family]
	var scratch [2 * pendingCapacity]byte
	nSrc := 0
	for {
		rest := src[nSrc:]
		in, pend := c.window(&scratch, rest)
		if len(in) == 0 {
			return 0, nSrc, io.EOF
		}
		off := nSrc
		if pend > 0 {
			off = 0
		}

		st := fc.decodeStep(c, in)
		switch st.res {
		case stepOK:
			nSrc += c.consume(st.n, pend)
			if st.r != noOutput {
				return st.r, nSrc, nil
			}
		case stepShort:
			if (pend == 0 || len(in)-pend == len(rest)) && c.stash(in) {
				return 0, len(src), ErrTruncated
			}
			return 0, nSrc, c.sequenceError(ReasonIllegal, in[:1], off)
		case stepIllegal, stepUnassigned:
			return 0, nSrc, c.sequenceError(reasonOf(st.res), in[:clampStep(st.n, len(in))], off)
		default:
			return 0, nSrc, newFatalError(c.desc.name, DirectionDecode, off, st.err)
		}
	}
}

func reasonOf(res stepResult) Reason {
	if res == stepUnassigned {
		return ReasonUnassigned
	}
	return ReasonIllegal
}

func clampStep(n, limit int) int {
	if n < 1 {
		return 1
	}
	return min(n, limit)
}

func (c *Converter) sequenceError(reason Reason, seq []byte, off int) error {
	return &ConversionError{
		Err:       reason.Err(),
		Codec:     c.desc.name,
		Direction: DirectionDecode,
		Reason:    reason,
		Offset:    off,
		Bytes:     append([]byte(nil), seq...),
	}
}

// window returns the bytes the next decode step sees: partial input buffered by
// an earlier call followed by as much of src as fits in scratch.
func (c *Converter) window(scratch *[2 * pendingCapacity]byte, src []byte) ([]byte, int) {
	pend := c.dec.npending
	if pend == 0 {
		return src, 0
	}
	in := append(scratch[:0], c.dec.pending[:pend]...)
	in = append(in, src[:min(len(src), len(scratch)-pend)]...)
	return in, pend
}

// consume advances past n bytes of a window that began with pend buffered bytes
// and returns how many bytes of the caller's input that used.
func (c *Converter) consume(n, pend int) int {
	if pend == 0 {
		return n
	}
	if n < pend {
		copy(c.dec.pending[:], c.dec.pending[n:pend])
		c.dec.npending = pend - n
		return 0
	}
	c.dec.npending = 0
	return n - pend
}

// stash buffers an incomplete sequence until the next call.
func (c *Converter) stash(in []byte) bool {
	if len(in) > pendingCapacity {
		return false
	}
	c.dec.npending = copy(c.dec.pending[:], in)
	return true
}

func (c *Converter) observeCallback(dir Direction, reason Reason) {
	if c.reg != nil {
		c.reg.metrics.callback(dir, reason)
	}
}

// callbackOutcome turns the result of a callback into the engine's error.
func (c *Converter) callbackOutcome(dir Direction, reason Reason, off int, b []byte, u []uint16, writeErr, err error) error {
	if err == nil {
		if writeErr != nil {
			return newFatalError(c.desc.name, dir, off, writeErr)
		}
		return nil
	}
	ce := &ConversionError{
		Err:       ErrFatal,
		Codec:     c.desc.name,
		Direction: dir,
		Reason:    reason,
		Offset:    off,
		Bytes:     b,
		Units:     u,
	}
	if sentinel := stopError(err); sentinel != nil {
		ce.Err = sentinel
	} else {
		ce.Cause = err
	}
	return ce
}

type decodeRun struct {
	c       *Converter
	dst     []uint16
	offsets []int
	nDst    int
}

// emit writes one unit to the output window, or to the carry-over once the
// window is full.
func (r *decodeRun) emit(u uint16, off int) error {
	if r.nDst < len(r.dst) {
		r.dst[r.nDst] = u
		if r.offsets != nil {
			r.offsets[r.nDst] = off
		}
		r.nDst++
		return nil
	}
	return r.c.units.push(u)
}

func (r *decodeRun) emitRune(v rune, off int) error {
	if v > 0xFFFF {
		hi, lo := utf16.EncodeRune(v)
		if err := r.emit(uint16(hi), off); err != nil {
			return err
		}
		return r.emit(uint16(lo), off)
	}
	return r.emit(uint16(v), off)
}

func (r *decodeRun) loop(src []byte, flush bool) (int, error) {
	c := r.c
	fc := families[c.desc.family]
	var scratch [2 * pendingCapacity]byte
	nSrc := 0
	for {
		if c.units.len() > 0 {
			return nSrc, ErrOutputExhausted
		}
		rest := src[nSrc:]
		in, pend := c.window(&scratch, rest)
		if len(in) == 0 {
			return nSrc, nil
		}
		if r.nDst == len(r.dst) {
			return nSrc, ErrOutputExhausted
		}
		off := nSrc
		if pend > 0 {
			off = 0
		}

		st := fc.decodeStep(c, in)
		if st.res == stepShort && pend > 0 && len(in)-pend < len(rest) {
			// Longer than any sequence the converter can buffer.
			st = step{n: 1, res: stepIllegal}
		}

		switch st.res {
		case stepOK:
			nSrc += c.consume(st.n, pend)
			if st.r == noOutput {
				continue
			}
			if err := r.emitRune(st.r, off); err != nil {
				return nSrc, newFatalError(c.desc.name, DirectionDecode, off, err)
			}

		case stepShort:
			if !flush {
				if !c.stash(in) {
					return nSrc, newFatalError(c.desc.name, DirectionDecode, off,
						fmt.Errorf("partial sequence of %d bytes exceeds buffer", len(in)))
				}
				return len(src), ErrTruncated
			}
			if err := r.callback(ReasonTruncated, in, off); err != nil {
				return nSrc, err
			}
			c.dec.npending = 0
			nSrc = len(src)

		case stepIllegal, stepUnassigned:
			n := clampStep(st.n, len(in))
			if err := r.callback(reasonOf(st.res), in[:n], off); err != nil {
				return nSrc, err
			}
			nSrc += c.consume(n, pend)

		default:
			return nSrc, newFatalError(c.desc.name, DirectionDecode, off, st.err)
		}
	}
}

func (r *decodeRun) callback(reason Reason, seq []byte, off int) error {
	c := r.c
	c.observeCallback(DirectionDecode, reason)
	ev := &DecodeEvent{
		Codec:        c.desc.name,
		Reason:       reason,
		Bytes:        append([]byte(nil), seq...),
		Offset:       off,
		Substitution: c.Substitution(),
		run:          r,
	}
	err := c.onDecode(ev)
	return c.callbackOutcome(DirectionDecode, reason, off, ev.Bytes, nil, ev.err, err)
}

type encodeRun struct {
	c       *Converter
	dst     []byte
	offsets []int
	nDst    int
}

// emit writes bytes to the output window and holds back what does not fit.
func (r *encodeRun) emit(b []byte, off int) error {
	for i, v := range b {
		if r.nDst == len(r.dst) {
			return r.c.bytes.push(b[i:]...)
		}
		r.dst[r.nDst] = v
		if r.offsets != nil {
			r.offsets[r.nDst] = off
		}
		r.nDst++
	}
	return nil
}

func (r *encodeRun) loop(src []uint16, flush bool) (int, error) {
	c := r.c
	fc := families[c.desc.family]
	var scratch [encodeScratch]byte
	nSrc := 0
	for {
		if c.bytes.len() > 0 {
			return nSrc, ErrOutputExhausted
		}

		if nSrc == len(src) {
			if c.enc.high != 0 {
				if !flush {
					return nSrc, ErrTruncated
				}
				if err := r.callback(ReasonTruncated, []uint16{c.enc.high}, -1, 0); err != nil {
					return nSrc, err
				}
				c.enc.high = 0
				continue
			}
			if flush {
				if n := fc.encodeFlush(c, scratch[:]); n > 0 {
					if err := r.emit(scratch[:n], max(nSrc-1, 0)); err != nil {
						return nSrc, newFatalError(c.desc.name, DirectionEncode, nSrc, err)
					}
					continue
				}
			}
			return nSrc, nil
		}

		if r.nDst == len(r.dst) {
			return nSrc, ErrOutputExhausted
		}

		u := src[nSrc]
		off := nSrc
		n := 1
		var v rune
		switch {
		case c.enc.high != 0:
			if !isLowSurrogate(u) {
				if err := r.callback(ReasonIllegal, []uint16{c.enc.high}, -1, 0); err != nil {
					return nSrc, err
				}
				c.enc.high = 0
				continue
			}
			v = utf16.DecodeRune(rune(c.enc.high), rune(u))
			off = 0
		case isHighSurrogate(u):
			if nSrc+1 == len(src) {
				if !flush {
					c.enc.high = u
					return len(src), ErrTruncated
				}
				if err := r.callback(ReasonTruncated, src[nSrc:nSrc+1], -1, off); err != nil {
					return nSrc, err
				}
				nSrc++
				continue
			}
			if !isLowSurrogate(src[nSrc+1]) {
				if err := r.callback(ReasonIllegal, src[nSrc:nSrc+1], -1, off); err != nil {
					return nSrc, err
				}
				nSrc++
				continue
			}
			v = utf16.DecodeRune(rune(u), rune(src[nSrc+1]))
			n = 2
		case isLowSurrogate(u):
			if err := r.callback(ReasonIllegal, src[nSrc:nSrc+1], -1, off); err != nil {
				return nSrc, err
			}
			nSrc++
			continue
		default:
			v = rune(u)
		}

		k, res := fc.encodeStep(c, v, scratch[:])
		if res == stepOK {
			if err := r.emit(scratch[:k], off); err != nil {
				return nSrc, newFatalError(c.desc.name, DirectionEncode, off, err)
			}
		} else {
			units := src[nSrc : nSrc+n]
			if c.enc.high != 0 {
				units = []uint16{c.enc.high, u}
			}
			if err := r.callback(ReasonUnassigned, units, v, off); err != nil {
				return nSrc, err
			}
		}
		c.enc.high = 0
		nSrc += n
	}
}

func (r *encodeRun) callback(reason Reason, units []uint16, v rune, off int) error {
	c := r.c
	c.observeCallback(DirectionEncode, reason)
	ev := &EncodeEvent{
		Codec:        c.desc.name,
		Reason:       reason,
		Units:        append([]uint16(nil), units...),
		Rune:         v,
		Offset:       off,
		Substitution: c.Substitution(),
		run:          r,
	}
	err := c.onEncode(ev)
	return c.callbackOutcome(DirectionEncode, reason, off, nil, ev.Units, ev.err, err)
}
