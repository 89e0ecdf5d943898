package cnv

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

// DecodeCallback decides what happens to input the decoder cannot convert.
// Returning nil resumes after the offending bytes, with whatever the callback
// wrote in their place. Returning ErrIllegalSequence, ErrUnassigned or
// ErrTruncated (or an error wrapping one) stops the conversion with the input
// cursor on the offending bytes. Any other error aborts with ErrFatal.
type DecodeCallback func(ev *DecodeEvent) error

// EncodeCallback is the encoding counterpart of DecodeCallback.
type EncodeCallback func(ev *EncodeEvent) error

// DecodeEvent describes undecodable input.
type DecodeEvent struct {
	Codec        string
	Reason       Reason
	Bytes        []byte // offending bytes
	Offset       int    // offset of Bytes[0] in the current input window
	Substitution []byte

	run *decodeRun
	err error
}

// WriteUnits emits code units in place of the offending bytes. Units that do not
// fit in the output window are held back and delivered by the next call.
func (e *DecodeEvent) WriteUnits(units ...uint16) error {
	for _, u := range units {
		if err := e.run.emit(u, e.Offset); err != nil {
			e.err = err
			return err
		}
	}
	return nil
}

// WriteRune emits r as one or two code units.
func (e *DecodeEvent) WriteRune(r rune) error {
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		return e.WriteUnits(uint16(hi), uint16(lo))
	}
	return e.WriteUnits(uint16(r))
}

// EncodeEvent describes unencodable input.
type EncodeEvent struct {
	Codec        string
	Reason       Reason
	Units        []uint16 // offending code units
	Rune         rune     // scalar value of Units, or -1 when Units is not a valid scalar
	Offset       int      // offset of Units[0] in the current input window
	Substitution []byte

	run *encodeRun
	err error
}

// WriteBytes emits raw bytes in place of the offending units.
func (e *EncodeEvent) WriteBytes(b ...byte) error {
	if err := e.run.emit(b, e.Offset); err != nil {
		e.err = err
		return err
	}
	return nil
}

// WriteSubstitution emits the converter's substitution bytes. Stateful codecs
// shift into the plane matching the substitution length first.
func (e *EncodeEvent) WriteSubstitution() error {
	if c := e.run.c; c.desc.family == FamilyEBCDICStateful {
		mode := shiftSingle
		if len(e.Substitution) > 1 {
			mode = shiftDouble
		}
		var shift [1]byte
		if n := shiftTo(c, mode, shift[:]); n > 0 {
			if err := e.WriteBytes(shift[:n]...); err != nil {
				return err
			}
		}
	}
	return e.WriteBytes(e.Substitution...)
}

// WriteText encodes s with the converter's own codec and emits the result.
func (e *EncodeEvent) WriteText(s string) error {
	var scratch [encodeScratch]byte
	c := e.run.c
	fc := families[c.desc.family]
	for _, r := range s {
		n, res := fc.encodeStep(c, r, scratch[:])
		if res != stepOK {
			e.err = fmt.Errorf("cannot encode %U in %s", r, c.desc.name)
			return e.err
		}
		if err := e.WriteBytes(scratch[:n]...); err != nil {
			return err
		}
	}
	return nil
}

// DecodeStop stops at the offending input.
func DecodeStop(ev *DecodeEvent) error {
	return ev.Reason.Err()
}

// DecodeSkip drops the offending input.
func DecodeSkip(*DecodeEvent) error {
	return nil
}

// DecodeSubstitute replaces the offending input with U+FFFD.
func DecodeSubstitute(ev *DecodeEvent) error {
	return ev.WriteUnits(0xFFFD)
}

// DecodeEscape replaces each offending byte with %XHH.
func DecodeEscape(ev *DecodeEvent) error {
	for _, b := range ev.Bytes {
		if err := ev.WriteUnits('%', 'X', hexDigit(b>>4), hexDigit(b&0x0F)); err != nil {
			return err
		}
	}
	return nil
}

// EncodeStop stops at the offending input.
func EncodeStop(ev *EncodeEvent) error {
	return ev.Reason.Err()
}

// EncodeSkip drops the offending input.
func EncodeSkip(*EncodeEvent) error {
	return nil
}

// EncodeSubstitute replaces the offending input with the substitution bytes.
func EncodeSubstitute(ev *EncodeEvent) error {
	return ev.WriteSubstitution()
}

// EncodeEscape replaces each offending code unit with %UXXXX.
func EncodeEscape(ev *EncodeEvent) error {
	for _, u := range ev.Units {
		if err := ev.WriteText(fmt.Sprintf("%%U%04X", u)); err != nil {
			return err
		}
	}
	return nil
}

func hexDigit(v byte) uint16 {
	const digits = "0123456789ABCDEF"
	return uint16(digits[v&0x0F])
}

// stopError maps a callback result onto the engine outcome. It returns the
// matched sentinel for a stop, or nil when err is not a stop.
func stopError(err error) error {
	for _, sentinel := range []error{ErrIllegalSequence, ErrUnassigned, ErrTruncated} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}
