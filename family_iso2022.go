package cnv

import "strings"

// escReturn switches an ISO-2022 stream back to its UTF-8 base.
const escReturn = "\x1b%B"

const escape byte = 0x1B

type escapeMatch uint8

const (
	escapeNone escapeMatch = iota
	escapePartial
	escapeFull
)

func matchEscape(src []byte, seq string) escapeMatch {
	if len(src) >= len(seq) {
		if string(src[:len(seq)]) == seq {
			return escapeFull
		}
		return escapeNone
	}
	if strings.HasPrefix(seq, string(src)) {
		return escapePartial
	}
	return escapeNone
}

// iso2022Codec decodes UTF-8 until an escape designation hands the stream to
// a nested converter. Encoding always produces the UTF-8 base.
type iso2022Codec struct{}

func (iso2022Codec) decodeStep(c *Converter, src []byte) step {
	if src[0] == escape {
		return decodeDesignation(c, src)
	}
	if c.nested != nil {
		return families[c.nested.desc.family].decodeStep(c.nested, src)
	}
	return utf8Codec{}.decodeStep(c, src)
}

func decodeDesignation(c *Converter, src []byte) step {
	partial := false
	switch matchEscape(src, escReturn) {
	case escapeFull:
		c.closeNested()
		return step{r: noOutput, n: len(escReturn)}
	case escapePartial:
		partial = true
	}

	for seq, name := range c.desc.table.designations {
		switch matchEscape(src, seq) {
		case escapeFull:
			if err := c.openNested(name); err != nil {
				return step{n: len(seq), res: stepFatal, err: err}
			}
			return step{r: noOutput, n: len(seq)}
		case escapePartial:
			partial = true
		}
	}
	if partial {
		return step{res: stepShort}
	}
	return step{n: 1, res: stepIllegal}
}

func (iso2022Codec) encodeStep(c *Converter, r rune, dst []byte) (int, stepResult) {
	return utf8Codec{}.encodeStep(c, r, dst)
}

func (iso2022Codec) encodeFlush(*Converter, []byte) int { return 0 }
