// Package testing provides test utilities for cnv.
package testing

import (
	"errors"
	"testing"
	"unicode/utf16"

	"github.com/zoobzio/cnv"
)

// Sample is mixed-script text used by round-trip tests. Not every codec can
// encode all of it.
const Sample = "Grüße, 안녕하세요! 日本語 😀"

// MustOpen opens name and closes the converter when the test ends.
func MustOpen(tb testing.TB, reg *cnv.Registry, name string) *cnv.Converter {
	tb.Helper()
	c, err := reg.Open(name)
	if err != nil {
		tb.Fatalf("Open(%q) error: %v", name, err)
	}
	tb.Cleanup(c.Close)
	return c
}

// Units returns the UTF-16 code units of s.
func Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// String returns the text held in UTF-16 code units.
func String(units []uint16) string {
	return string(utf16.Decode(units))
}

// resumable reports whether err only asks for another call.
func resumable(err error) bool {
	return errors.Is(err, cnv.ErrOutputExhausted) || errors.Is(err, cnv.ErrTruncated)
}

// DecodeChunked decodes src in pieces of inSize bytes with room for outSize
// units per call and returns everything decoded.
func DecodeChunked(tb testing.TB, c *cnv.Converter, src []byte, inSize, outSize int) []uint16 {
	tb.Helper()
	var out []uint16
	buf := make([]uint16, outSize)
	for pos := 0; ; {
		end := min(pos+inSize, len(src))
		flush := end == len(src)
		n, used, err := c.Decode(buf, src[pos:end], nil, flush)
		out = append(out, buf[:n]...)
		pos += used
		if err == nil && flush {
			return out
		}
		if err != nil && !resumable(err) {
			tb.Fatalf("Decode() error: %v", err)
		}
	}
}

// EncodeChunked encodes src in pieces of inSize units with room for outSize
// bytes per call and returns everything encoded.
func EncodeChunked(tb testing.TB, c *cnv.Converter, src []uint16, inSize, outSize int) []byte {
	tb.Helper()
	var out []byte
	buf := make([]byte, outSize)
	for pos := 0; ; {
		end := min(pos+inSize, len(src))
		flush := end == len(src)
		n, used, err := c.Encode(buf, src[pos:end], nil, flush)
		out = append(out, buf[:n]...)
		pos += used
		if err == nil && flush {
			return out
		}
		if err != nil && !resumable(err) {
			tb.Fatalf("Encode() error: %v", err)
		}
	}
}

// ConvertChunked runs src through p in pieces of inSize bytes with room for
// outSize bytes per call and returns everything written.
func ConvertChunked(tb testing.TB, p *cnv.Pipeline, src []byte, inSize, outSize int) []byte {
	tb.Helper()
	var out []byte
	buf := make([]byte, outSize)
	for pos := 0; ; {
		end := min(pos+inSize, len(src))
		flush := end == len(src)
		n, used, err := p.Convert(buf, src[pos:end], flush)
		out = append(out, buf[:n]...)
		pos += used
		if err == nil && flush {
			return out
		}
		if err != nil && !resumable(err) {
			tb.Fatalf("Convert() error: %v", err)
		}
	}
}
