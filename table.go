package cnv

import (
	"fmt"
	"strings"
)

// NoMapping marks a single byte with no Unicode mapping.
const NoMapping rune = -1

// TableConfig describes the mapping data of a table-driven codec.
type TableConfig struct {
	// Single maps each byte to a scalar value, or NoMapping. For MBCS codecs the
	// entries of lead bytes are ignored.
	Single [256]rune

	// Starters marks the lead bytes of two-byte sequences (MBCS only).
	Starters [256]bool

	// Double maps a big-endian two-byte code to a scalar value.
	Double map[uint16]rune

	// Designations maps an escape sequence to the codec it activates (ISO-2022 only).
	Designations map[string]string
}

// Table is the immutable mapping data shared by every converter of a codec.
type Table struct {
	single       [256]rune
	starters     [256]bool
	double       map[uint16]rune
	designations map[string]string

	// trails marks bytes that appear as the second byte of some two-byte code.
	trails [256]bool

	fromSingle map[rune]byte
	fromDouble map[rune]uint16
	maxEscape  int
}

// NewTable builds a table and derives its reverse mappings. When several bytes map
// to the same scalar the lowest byte wins, so encoding is deterministic.
func NewTable(cfg TableConfig) (*Table, error) {
	t := &Table{
		single:       cfg.Single,
		starters:     cfg.Starters,
		double:       make(map[uint16]rune, len(cfg.Double)),
		designations: make(map[string]string, len(cfg.Designations)),
		fromSingle:   make(map[rune]byte, 256),
		fromDouble:   make(map[rune]uint16, len(cfg.Double)),
	}

	for b := 255; b >= 0; b-- {
		r := cfg.Single[b]
		if r == NoMapping || cfg.Starters[b] {
			continue
		}
		if r < 0 || r > 0x10FFFF {
			return nil, fmt.Errorf("%w: byte %02X maps to invalid scalar %X", ErrIllegalArgument, b, r)
		}
		t.fromSingle[r] = byte(b)
	}

	for code, r := range cfg.Double {
		if r < 0 || r > 0x10FFFF {
			return nil, fmt.Errorf("%w: code %04X maps to invalid scalar %X", ErrIllegalArgument, code, r)
		}
		t.double[code] = r
		t.trails[byte(code)] = true
		if prev, ok := t.fromDouble[r]; !ok || code < prev {
			t.fromDouble[r] = code
		}
	}

	for esc, name := range cfg.Designations {
		if len(esc) < 2 || esc[0] != 0x1B {
			return nil, fmt.Errorf("%w: designation %q is not an escape sequence", ErrIllegalArgument, esc)
		}
		t.designations[esc] = name
		if len(esc) > t.maxEscape {
			t.maxEscape = len(esc)
		}
	}
	if len(t.designations) > 0 && len(escReturn) > t.maxEscape {
		t.maxEscape = len(escReturn)
	}
	if t.maxEscape > pendingCapacity {
		return nil, fmt.Errorf("%w: escape sequence of %d bytes exceeds the %d-byte pending buffer",
			ErrIllegalArgument, t.maxEscape, pendingCapacity)
	}
	if err := checkPrefixFree(t.designations); err != nil {
		return nil, err
	}

	return t, nil
}

// checkPrefixFree rejects designations that are a prefix of one another or of
// the return sequence; such a stream would match more than one escape.
func checkPrefixFree(designations map[string]string) error {
	for esc := range designations {
		if strings.HasPrefix(escReturn, esc) || strings.HasPrefix(esc, escReturn) {
			return fmt.Errorf("%w: designation %q overlaps the return sequence", ErrIllegalArgument, esc)
		}
		for other := range designations {
			if other != esc && strings.HasPrefix(other, esc) {
				return fmt.Errorf("%w: designation %q is a prefix of %q", ErrIllegalArgument, esc, other)
			}
		}
	}
	return nil
}

// MaxEscape returns the length of the longest escape sequence, or 0.
func (t *Table) MaxEscape() int {
	return t.maxEscape
}

// Single returns the scalar value of a single byte, or NoMapping.
func (t *Table) Single(b byte) rune {
	return t.single[b]
}

// Starters returns the lead-byte flags.
func (t *Table) Starters() [256]bool {
	return t.starters
}

// Double returns the scalar value of a two-byte code.
func (t *Table) Double(code uint16) (rune, bool) {
	r, ok := t.double[code]
	return r, ok
}

// DoubleLen returns the number of two-byte mappings.
func (t *Table) DoubleLen() int {
	return len(t.double)
}

// Designation returns the codec name activated by an escape sequence.
func (t *Table) Designation(esc string) (string, bool) {
	name, ok := t.designations[esc]
	return name, ok
}

// Designations returns a copy of the escape sequence map.
func (t *Table) Designations() map[string]string {
	out := make(map[string]string, len(t.designations))
	for k, v := range t.designations {
		out[k] = v
	}
	return out
}

func (t *Table) encodeSingle(r rune) (byte, bool) {
	b, ok := t.fromSingle[r]
	return b, ok
}

func (t *Table) encodeDouble(r rune) (uint16, bool) {
	code, ok := t.fromDouble[r]
	return code, ok
}
