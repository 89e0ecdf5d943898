package cnv

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"
)

type latin1Codec struct{}

func (latin1Codec) decodeStep(_ *Converter, src []byte) step {
	return step{r: rune(src[0]), n: 1}
}

func (latin1Codec) encodeStep(_ *Converter, r rune, dst []byte) (int, stepResult) {
	if r > 0xFF {
		return 0, stepUnassigned
	}
	dst[0] = byte(r)
	return 1, stepOK
}

func (latin1Codec) encodeFlush(*Converter, []byte) int { return 0 }

type utf8Codec struct{}

func (utf8Codec) decodeStep(_ *Converter, src []byte) step {
	if src[0] < utf8.RuneSelf {
		return step{r: rune(src[0]), n: 1}
	}
	if !utf8.FullRune(src) {
		return step{res: stepShort}
	}
	r, n := utf8.DecodeRune(src)
	if r == utf8.RuneError && n == 1 {
		return step{n: 1, res: stepIllegal}
	}
	return step{r: r, n: n}
}

func (utf8Codec) encodeStep(_ *Converter, r rune, dst []byte) (int, stepResult) {
	return utf8.EncodeRune(dst, r), stepOK
}

func (utf8Codec) encodeFlush(*Converter, []byte) int { return 0 }

type utf16Codec struct {
	bigEndian bool
}

func (c utf16Codec) order() binary.ByteOrder {
	if c.bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (c utf16Codec) decodeStep(_ *Converter, src []byte) step {
	if len(src) < 2 {
		return step{res: stepShort}
	}
	order := c.order()
	u := order.Uint16(src)
	switch {
	case isHighSurrogate(u):
		if len(src) < 4 {
			return step{res: stepShort}
		}
		lo := order.Uint16(src[2:])
		if !isLowSurrogate(lo) {
			return step{n: 2, res: stepIllegal}
		}
		return step{r: utf16.DecodeRune(rune(u), rune(lo)), n: 4}
	case isLowSurrogate(u):
		return step{n: 2, res: stepIllegal}
	default:
		return step{r: rune(u), n: 2}
	}
}

func (c utf16Codec) encodeStep(_ *Converter, r rune, dst []byte) (int, stepResult) {
	order := c.order()
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		order.PutUint16(dst, uint16(hi))
		order.PutUint16(dst[2:], uint16(lo))
		return 4, stepOK
	}
	order.PutUint16(dst, uint16(r))
	return 2, stepOK
}

func (utf16Codec) encodeFlush(*Converter, []byte) int { return 0 }
