package cnv

import (
	"context"
	"errors"
	"fmt"
)

// shiftState is the mode of a stateful codec.
type shiftState uint8

const (
	shiftSingle shiftState = iota
	shiftDouble
)

// pendingCapacity bounds the partial input a converter buffers between calls.
// It covers the longest sequence of every family, escape sequences included.
const pendingCapacity = 8

type decodeState struct {
	shift    shiftState
	pending  [pendingCapacity]byte
	npending int
}

type encodeState struct {
	shift shiftState
	high  uint16 // buffered high surrogate, 0 if none
}

// Converter is one conversion session over a codec. It holds the streaming state
// between calls and is not safe for concurrent use.
type Converter struct {
	desc *Descriptor
	reg  *Registry

	dec          decodeState
	enc          encodeState
	substitution []byte
	onDecode     DecodeCallback
	onEncode     EncodeCallback

	units carry[uint16]
	bytes carry[byte]

	// nested is the sub-codec activated by an ISO-2022 designation.
	nested *Converter
	closed bool
}

func newConverter(reg *Registry, desc *Descriptor) *Converter {
	c := &Converter{
		desc:         desc,
		reg:          reg,
		substitution: append([]byte(nil), desc.substitution...),
		onDecode:     DecodeSubstitute,
		onEncode:     EncodeSubstitute,
	}
	c.dec.shift = desc.defaults
	c.enc.shift = desc.defaults
	return c
}

func (c *Converter) checkOpen() error {
	if c == nil || c.desc == nil {
		return fmt.Errorf("%w: nil converter", ErrIllegalArgument)
	}
	if c.closed {
		return ErrClosed
	}
	return nil
}

// Reset returns the converter to the state it had when opened. Callbacks and the
// substitution bytes are kept. An ISO-2022 converter with an active designation
// closes it and queues ESC % B so the next encoded output starts in the base codec.
func (c *Converter) Reset() {
	if c.checkOpen() != nil {
		return
	}
	c.dec = decodeState{shift: c.desc.defaults}
	c.enc = encodeState{shift: c.desc.defaults}
	c.units.reset()
	c.bytes.reset()
	if c.nested != nil {
		c.nested.Close()
		c.nested = nil
		if err := c.bytes.push([]byte(escReturn)...); err != nil {
			// The carry was emptied above and escReturn is shorter than carryCapacity.
			panic(err)
		}
	}
}

// Close releases the converter's hold on its descriptor. It is safe to call
// more than once and on a nil converter.
func (c *Converter) Close() {
	if c == nil || c.closed || c.desc == nil {
		return
	}
	if c.nested != nil {
		c.nested.Close()
		c.nested = nil
	}
	c.closed = true
	if c.reg != nil {
		c.reg.release(c.desc)
	}
}

// Name returns the canonical codec name.
func (c *Converter) Name() string { return c.desc.name }

// Family returns the codec family.
func (c *Converter) Family() Family { return c.desc.family }

// Platform returns the vendor of the code page number.
func (c *Converter) Platform() Platform { return c.desc.platform }

// CCSID returns the code page number, or 0.
func (c *Converter) CCSID() int { return c.desc.ccsid }

// MinBytesPerUnit returns the smallest byte length of one code unit.
func (c *Converter) MinBytesPerUnit() int { return c.desc.minBytes }

// MaxBytesPerUnit returns the largest byte length of one code unit.
func (c *Converter) MaxBytesPerUnit() int { return c.desc.maxBytes }

// Fingerprint returns the table digest recorded by the loader.
func (c *Converter) Fingerprint() string { return c.desc.fingerprint }

// Descriptor returns the shared codec metadata.
func (c *Converter) Descriptor() *Descriptor { return c.desc }

// Substitution returns a copy of the bytes written for unmappable input when encoding.
func (c *Converter) Substitution() []byte {
	return append([]byte(nil), c.substitution...)
}

// SetSubstitution replaces the substitution bytes. The length must lie within the
// codec's bytes-per-unit range.
func (c *Converter) SetSubstitution(sub []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if n := len(sub); n < c.desc.minBytes || n > c.desc.maxBytes {
		return fmt.Errorf("%w: substitution length %d outside [%d, %d]",
			ErrIllegalArgument, n, c.desc.minBytes, c.desc.maxBytes)
	}
	c.substitution = append(c.substitution[:0], sub...)
	return nil
}

// DecodeCallback returns the callback invoked on undecodable input.
func (c *Converter) DecodeCallback() DecodeCallback { return c.onDecode }

// SetDecodeCallback installs cb and returns the previous callback. A nil cb
// restores DecodeSubstitute.
func (c *Converter) SetDecodeCallback(cb DecodeCallback) DecodeCallback {
	prev := c.onDecode
	if cb == nil {
		cb = DecodeSubstitute
	}
	c.onDecode = cb
	return prev
}

// EncodeCallback returns the callback invoked on unencodable input.
func (c *Converter) EncodeCallback() EncodeCallback { return c.onEncode }

// SetEncodeCallback installs cb and returns the previous callback. A nil cb
// restores EncodeSubstitute.
func (c *Converter) SetEncodeCallback(cb EncodeCallback) EncodeCallback {
	prev := c.onEncode
	if cb == nil {
		cb = EncodeSubstitute
	}
	c.onEncode = cb
	return prev
}

// DisplayName returns the localized name of the codec. When no localized name
// exists the canonical name is returned without error.
func (c *Converter) DisplayName(locale string) (string, error) {
	if err := c.checkOpen(); err != nil {
		return "", err
	}
	if c.reg == nil || c.reg.namer == nil {
		return c.desc.name, nil
	}
	name, err := c.reg.namer.DisplayName(c.desc.name, locale)
	switch {
	case err == nil:
		return name, nil
	case errors.Is(err, ErrNotFound):
		return c.desc.name, nil
	default:
		return c.desc.name, err
	}
}

// Starters returns the lead bytes of two-byte sequences. Only MBCS codecs have them.
func (c *Converter) Starters() ([256]bool, error) {
	if err := c.checkOpen(); err != nil {
		return [256]bool{}, err
	}
	if c.desc.family != FamilyMBCS {
		return [256]bool{}, fmt.Errorf("%w: %s is not a multi-byte codec", ErrIllegalArgument, c.desc.name)
	}
	return c.desc.table.Starters(), nil
}

// openNested activates the sub-codec named by an escape designation.
func (c *Converter) openNested(name string) error {
	if c.reg == nil {
		return fmt.Errorf("%w: no registry to open %s", ErrFatal, name)
	}
	if c.nested != nil && c.nested.desc.name == name {
		return nil
	}
	next, err := c.reg.open(context.Background(), name)
	if err != nil {
		return err
	}
	if c.nested != nil {
		c.nested.Close()
	}
	c.nested = next
	return nil
}

func (c *Converter) closeNested() {
	if c.nested != nil {
		c.nested.Close()
		c.nested = nil
	}
}
