package cnv

// Shift bytes of stateful EBCDIC codecs.
const (
	shiftOut byte = 0x0E
	shiftIn  byte = 0x0F
)

func decodeSingle(t *Table, src []byte) step {
	r := t.single[src[0]]
	if r == NoMapping {
		return step{n: 1, res: stepUnassigned}
	}
	return step{r: r, n: 1}
}

// decodeDouble looks up a two-byte code. A second byte that never appears in
// the table is illegal and only the first byte is reported.
func decodeDouble(t *Table, src []byte) step {
	if len(src) < 2 {
		return step{res: stepShort}
	}
	if !t.trails[src[1]] {
		return step{n: 1, res: stepIllegal}
	}
	r, ok := t.double[uint16(src[0])<<8|uint16(src[1])]
	if !ok {
		return step{n: 2, res: stepUnassigned}
	}
	return step{r: r, n: 2}
}

func encodeDouble(t *Table, r rune, dst []byte) (int, stepResult) {
	code, ok := t.encodeDouble(r)
	if !ok {
		return 0, stepUnassigned
	}
	dst[0] = byte(code >> 8)
	dst[1] = byte(code)
	return 2, stepOK
}

type sbcsCodec struct{}

func (sbcsCodec) decodeStep(c *Converter, src []byte) step {
	return decodeSingle(c.desc.table, src)
}

func (sbcsCodec) encodeStep(c *Converter, r rune, dst []byte) (int, stepResult) {
	b, ok := c.desc.table.encodeSingle(r)
	if !ok {
		return 0, stepUnassigned
	}
	dst[0] = b
	return 1, stepOK
}

func (sbcsCodec) encodeFlush(*Converter, []byte) int { return 0 }

type dbcsCodec struct{}

func (dbcsCodec) decodeStep(c *Converter, src []byte) step {
	return decodeDouble(c.desc.table, src)
}

func (dbcsCodec) encodeStep(c *Converter, r rune, dst []byte) (int, stepResult) {
	return encodeDouble(c.desc.table, r, dst)
}

func (dbcsCodec) encodeFlush(*Converter, []byte) int { return 0 }

type mbcsCodec struct{}

func (mbcsCodec) decodeStep(c *Converter, src []byte) step {
	t := c.desc.table
	if !t.starters[src[0]] {
		return decodeSingle(t, src)
	}
	return decodeDouble(t, src)
}

func (mbcsCodec) encodeStep(c *Converter, r rune, dst []byte) (int, stepResult) {
	t := c.desc.table
	if b, ok := t.encodeSingle(r); ok {
		dst[0] = b
		return 1, stepOK
	}
	return encodeDouble(t, r, dst)
}

func (mbcsCodec) encodeFlush(*Converter, []byte) int { return 0 }

// ebcdicCodec switches between the single and double planes of its table with
// SO and SI.
type ebcdicCodec struct{}

func (ebcdicCodec) decodeStep(c *Converter, src []byte) step {
	switch src[0] {
	case shiftOut:
		c.dec.shift = shiftDouble
		return step{r: noOutput, n: 1}
	case shiftIn:
		c.dec.shift = shiftSingle
		return step{r: noOutput, n: 1}
	}
	if c.dec.shift == shiftDouble {
		return decodeDouble(c.desc.table, src)
	}
	return decodeSingle(c.desc.table, src)
}

func (ebcdicCodec) encodeStep(c *Converter, r rune, dst []byte) (int, stepResult) {
	t := c.desc.table
	if b, ok := t.encodeSingle(r); ok {
		n := shiftTo(c, shiftSingle, dst)
		dst[n] = b
		return n + 1, stepOK
	}
	if _, ok := t.encodeDouble(r); ok {
		n := shiftTo(c, shiftDouble, dst)
		k, _ := encodeDouble(t, r, dst[n:])
		return n + k, stepOK
	}
	return 0, stepUnassigned
}

func (ebcdicCodec) encodeFlush(c *Converter, dst []byte) int {
	return shiftTo(c, c.desc.defaults, dst)
}

// shiftTo writes the shift byte that moves the encoder into mode, if needed.
func shiftTo(c *Converter, mode shiftState, dst []byte) int {
	if c.enc.shift == mode {
		return 0
	}
	c.enc.shift = mode
	if mode == shiftDouble {
		dst[0] = shiftOut
	} else {
		dst[0] = shiftIn
	}
	return 1
}
