package cnv

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"unicode/utf16"
)

// Codec names served by testLoader.
const (
	testUTF8    = "UTF-8"
	testUTF16BE = "UTF-16BE"
	testUTF16LE = "UTF-16LE"
	testLatin1  = "ISO-8859-1"
	testSBCS    = "test-sbcs"
	testMBCS    = "test-mbcs"
	testDBCS    = "test-dbcs"
	testEBCDIC  = "test-ebcdic"
	testISO2022 = "test-iso2022"
)

const testDesignation = "\x1b$)C"

// testLoader builds small descriptors for every family and counts loads.
type testLoader struct {
	mu    sync.Mutex
	loads map[string]int
}

func newTestLoader() *testLoader {
	return &testLoader{loads: make(map[string]int)}
}

func (l *testLoader) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[name]
}

func (l *testLoader) Load(name string) (*Descriptor, error) {
	cfg, err := testConfig(name)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.loads[name]++
	l.mu.Unlock()
	return NewDescriptor(cfg)
}

func unmapped() [256]rune {
	var single [256]rune
	for i := range single {
		single[i] = NoMapping
	}
	return single
}

func asciiSingles() [256]rune {
	single := unmapped()
	for b := 0; b < 0x80; b++ {
		single[b] = rune(b)
	}
	return single
}

func mustTable(cfg TableConfig) *Table {
	t, err := NewTable(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

func testConfig(name string) (DescriptorConfig, error) {
	switch name {
	case testUTF8:
		return DescriptorConfig{Name: name, Family: FamilyUTF8, MinBytesPerUnit: 1, MaxBytesPerUnit: 4,
			Platform: PlatformIBM, CCSID: 1208, Substitution: []byte{0xEF, 0xBF, 0xBD}}, nil
	case testUTF16BE:
		return DescriptorConfig{Name: name, Family: FamilyUTF16BE, MinBytesPerUnit: 2, MaxBytesPerUnit: 4,
			Substitution: []byte{0xFF, 0xFD}}, nil
	case testUTF16LE:
		return DescriptorConfig{Name: name, Family: FamilyUTF16LE, MinBytesPerUnit: 2, MaxBytesPerUnit: 4,
			Substitution: []byte{0xFD, 0xFF}}, nil
	case testLatin1:
		return DescriptorConfig{Name: name, Family: FamilyLatin1, MinBytesPerUnit: 1, MaxBytesPerUnit: 1,
			Platform: PlatformIBM, CCSID: 819, Substitution: []byte{0x1A}}, nil

	case testSBCS:
		single := asciiSingles()
		single[0x80] = 0x20AC // €
		single[0xA4] = 0x20AC // duplicate, 0x80 wins when encoding
		single[0xE9] = 0x00E9 // é
		return DescriptorConfig{Name: name, Family: FamilySBCS, MinBytesPerUnit: 1, MaxBytesPerUnit: 1,
			Platform: PlatformIBM, CCSID: 5348, Substitution: []byte{0x1A},
			Table: mustTable(TableConfig{Single: single})}, nil

	case testMBCS:
		cfg := TableConfig{Single: asciiSingles(), Double: map[uint16]rune{
			0x8140: 0x4E00,  // 一
			0x8141: 0x4E8C,  // 二
			0x8142: 0x1F600, // 😀
		}}
		cfg.Starters[0x81] = true
		return DescriptorConfig{Name: name, Family: FamilyMBCS, MinBytesPerUnit: 1, MaxBytesPerUnit: 2,
			Substitution: []byte{'?'}, Table: mustTable(cfg)}, nil

	case testDBCS:
		return DescriptorConfig{Name: name, Family: FamilyDBCS, MinBytesPerUnit: 2, MaxBytesPerUnit: 2,
			Substitution: []byte{0x21, 0x21}, Table: mustTable(TableConfig{Single: unmapped(), Double: map[uint16]rune{
				0x2121: 0x3000,
				0x2122: 0x3001,
				0x3021: 0xAC00, // 가
				0x3022: 0xAC01,
			}})}, nil

	case testEBCDIC:
		single := unmapped()
		single[0x40] = ' '
		single[0xC1] = 'A'
		single[0xC2] = 'B'
		single[0x6F] = '?'
		return DescriptorConfig{Name: name, Family: FamilyEBCDICStateful, MinBytesPerUnit: 1, MaxBytesPerUnit: 2,
			Platform: PlatformIBM, CCSID: 933, Substitution: []byte{0x6F},
			Table: mustTable(TableConfig{Single: single, Double: map[uint16]rune{
				0x4141: 0xAC00,
				0x4142: 0xAC01,
			}})}, nil

	case testISO2022:
		return DescriptorConfig{Name: name, Family: FamilyISO2022, MinBytesPerUnit: 1, MaxBytesPerUnit: 4,
			Substitution: []byte{0x1A}, Table: mustTable(TableConfig{
				Single:       unmapped(),
				Designations: map[string]string{testDesignation: testDBCS},
			})}, nil
	}
	return DescriptorConfig{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// testResolver resolves a few aliases and lists every test codec.
type testResolver struct{}

func (testResolver) Resolve(alias string) (string, bool) {
	switch alias {
	case "utf8", "UTF-8":
		return testUTF8, true
	case "ibm-5348", testSBCS:
		return testSBCS, true
	}
	for _, name := range testNames {
		if name == alias {
			return name, true
		}
	}
	return "", false
}

func (testResolver) Names() []string {
	return append([]string(nil), testNames...)
}

var testNames = []string{
	testISO2022, testLatin1, testUTF16BE, testUTF16LE, testUTF8,
	testDBCS, testEBCDIC, testMBCS, testSBCS,
}

func newTestRegistry(opts ...Option) *Registry {
	base := []Option{WithResolver(testResolver{}), WithDefaultName(testUTF8)}
	return NewRegistry(newTestLoader(), append(base, opts...)...)
}

func mustOpen(t *testing.T, reg *Registry, name string) *Converter {
	t.Helper()
	c, err := reg.Open(name)
	if err != nil {
		t.Fatalf("Open(%q) error: %v", name, err)
	}
	t.Cleanup(c.Close)
	return c
}

func units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// decodeChunked feeds src in inSize pieces with outSize units of room per call.
func decodeChunked(t *testing.T, c *Converter, src []byte, inSize, outSize int) []uint16 {
	t.Helper()
	var out []uint16
	buf := make([]uint16, outSize)
	pos := 0
	for {
		end := min(pos+inSize, len(src))
		flush := end == len(src)
		n, used, err := c.Decode(buf, src[pos:end], nil, flush)
		out = append(out, buf[:n]...)
		pos += used
		switch {
		case err == nil:
			if flush {
				return out
			}
		case errors.Is(err, ErrOutputExhausted), errors.Is(err, ErrTruncated):
		default:
			t.Fatalf("Decode() error: %v", err)
		}
	}
}

// encodeChunked feeds src in inSize pieces with outSize bytes of room per call.
func encodeChunked(t *testing.T, c *Converter, src []uint16, inSize, outSize int) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, outSize)
	pos := 0
	for {
		end := min(pos+inSize, len(src))
		flush := end == len(src)
		n, used, err := c.Encode(buf, src[pos:end], nil, flush)
		out = append(out, buf[:n]...)
		pos += used
		switch {
		case err == nil:
			if flush {
				return out
			}
		case errors.Is(err, ErrOutputExhausted), errors.Is(err, ErrTruncated):
		default:
			t.Fatalf("Encode() error: %v", err)
		}
	}
}
