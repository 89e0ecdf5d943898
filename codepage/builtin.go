package codepage

import (
	"unicode/utf8"

	"github.com/zoobzio/cnv"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Canonical names of the built-in codecs.
const (
	UTF8          = "UTF-8"
	UTF16BE       = "UTF-16BE"
	UTF16LE       = "UTF-16LE"
	ISO88591      = "ISO-8859-1"
	Windows1252   = "windows-1252"
	IBM437        = "ibm-437"
	IBM037        = "ibm-037"
	IBM850        = "ibm-850"
	ISO885915     = "ISO-8859-15"
	KOI8R         = "KOI8-R"
	Macintosh     = "macintosh"
	ShiftJIS      = "Shift_JIS"
	EUCKR         = "EUC-KR"
	GBK           = "GBK"
	KSC5601       = "KS_C_5601-1987"
	IBM037KSC     = "x-ibm-037-ksc-stateful"
	ISO2022       = "ISO-2022"
	DefaultCodec  = UTF8
	escapeKSC5601 = "\x1b$)C"
	escapeLatin1  = "\x1b-A"
)

// definition describes how to build one codec.
type definition struct {
	name         string
	family       cnv.Family
	min, max     int
	platform     cnv.Platform
	ccsid        int
	substitution []byte
	startShifted bool

	// table builds the mapping data; nil for arithmetic families.
	table func() (cnv.TableConfig, error)
}

func builtins() []definition {
	return []definition{
		{name: UTF8, family: cnv.FamilyUTF8, min: 1, max: 4, platform: cnv.PlatformIBM, ccsid: 1208,
			substitution: []byte{0xEF, 0xBF, 0xBD}},
		{name: UTF16BE, family: cnv.FamilyUTF16BE, min: 2, max: 4, platform: cnv.PlatformIBM, ccsid: 1200,
			substitution: []byte{0xFF, 0xFD}},
		{name: UTF16LE, family: cnv.FamilyUTF16LE, min: 2, max: 4, platform: cnv.PlatformIBM, ccsid: 1202,
			substitution: []byte{0xFD, 0xFF}},
		{name: ISO88591, family: cnv.FamilyLatin1, min: 1, max: 1, platform: cnv.PlatformIBM, ccsid: 819,
			substitution: []byte{0x1A}},

		sbcs(Windows1252, 1252, charmap.Windows1252, 0x1A),
		sbcs(IBM437, 437, charmap.CodePage437, 0x1A),
		sbcs(IBM037, 37, charmap.CodePage037, 0x3F),
		sbcs(IBM850, 850, charmap.CodePage850, 0x1A),
		sbcs(ISO885915, 923, charmap.ISO8859_15, 0x1A),
		sbcs(KOI8R, 878, charmap.KOI8R, 0x1A),
		sbcs(Macintosh, 1275, charmap.Macintosh, 0x1A),

		mbcs(ShiftJIS, 943, japanese.ShiftJIS),
		mbcs(EUCKR, 1363, korean.EUCKR),
		mbcs(GBK, 1386, simplifiedchinese.GBK),

		{name: KSC5601, family: cnv.FamilyDBCS, min: 2, max: 2, platform: cnv.PlatformIBM, ccsid: 971,
			substitution: []byte{0x2F, 0x7E}, table: kscTable},
		{name: IBM037KSC, family: cnv.FamilyEBCDICStateful, min: 1, max: 2, platform: cnv.PlatformIBM, ccsid: 933,
			substitution: []byte{0x3F}, table: ebcdicKSCTable},
		{name: ISO2022, family: cnv.FamilyISO2022, min: 1, max: 4,
			substitution: []byte{0x1A}, table: iso2022Table},
	}
}

func sbcs(name string, ccsid int, cm *charmap.Charmap, sub byte) definition {
	return definition{
		name:         name,
		family:       cnv.FamilySBCS,
		min:          1,
		max:          1,
		platform:     cnv.PlatformIBM,
		ccsid:        ccsid,
		substitution: []byte{sub},
		table: func() (cnv.TableConfig, error) {
			return cnv.TableConfig{Single: charmapSingle(cm)}, nil
		},
	}
}

func mbcs(name string, ccsid int, enc encoding.Encoding) definition {
	return definition{
		name:         name,
		family:       cnv.FamilyMBCS,
		min:          1,
		max:          2,
		platform:     cnv.PlatformIBM,
		ccsid:        ccsid,
		substitution: []byte{0x3F},
		table: func() (cnv.TableConfig, error) {
			return multiByteTable(enc), nil
		},
	}
}

// charmapSingle reads the byte mappings of a single-byte charmap.
func charmapSingle(cm *charmap.Charmap) [256]rune {
	var single [256]rune
	for b := 0; b < 256; b++ {
		r := cm.DecodeByte(byte(b))
		if r == utf8.RuneError {
			r = cnv.NoMapping
		}
		single[b] = r
	}
	return single
}

// multiByteTable probes enc for every single byte and every two-byte code and
// records the sequences that decode to exactly one scalar value.
func multiByteTable(enc encoding.Encoding) cnv.TableConfig {
	p := newProbe(enc)
	cfg := cnv.TableConfig{Double: make(map[uint16]rune)}

	for lead := 0x80; lead <= 0xFF; lead++ {
		for trail := 0x40; trail <= 0xFF; trail++ {
			if r, ok := p.decode(byte(lead), byte(trail)); ok {
				cfg.Double[uint16(lead)<<8|uint16(trail)] = r
				cfg.Starters[lead] = true
			}
		}
	}
	for b := 0; b < 256; b++ {
		cfg.Single[b] = cnv.NoMapping
		if cfg.Starters[b] {
			continue
		}
		if r, ok := p.decode(byte(b)); ok {
			cfg.Single[b] = r
		}
	}
	return cfg
}

type probe struct {
	dec *encoding.Decoder
	out [16]byte
}

func newProbe(enc encoding.Encoding) *probe {
	return &probe{dec: enc.NewDecoder()}
}

func (p *probe) decode(src ...byte) (rune, bool) {
	p.dec.Reset()
	n, used, err := p.dec.Transform(p.out[:], src, true)
	if err != nil || used != len(src) || n == 0 {
		return 0, false
	}
	r, size := utf8.DecodeRune(p.out[:n])
	if size != n || r == utf8.RuneError {
		return 0, false
	}
	return r, true
}

// kscPlane returns the KS C 5601 double-byte plane of EUC-KR, keyed by its EUC codes.
func kscPlane() map[uint16]rune {
	p := newProbe(korean.EUCKR)
	plane := make(map[uint16]rune)
	for lead := 0xA1; lead <= 0xFE; lead++ {
		for trail := 0xA1; trail <= 0xFE; trail++ {
			if r, ok := p.decode(byte(lead), byte(trail)); ok {
				plane[uint16(lead)<<8|uint16(trail)] = r
			}
		}
	}
	return plane
}

// kscTable is KS C 5601 in its 7-bit form, as carried in ISO-2022 streams.
func kscTable() (cnv.TableConfig, error) {
	cfg := cnv.TableConfig{Single: noSingles(), Double: make(map[uint16]rune)}
	for code, r := range kscPlane() {
		cfg.Double[code&0x7F7F] = r
	}
	return cfg, nil
}

// ebcdicKSCTable pairs the ibm-037 single plane with the KS C 5601 double plane.
func ebcdicKSCTable() (cnv.TableConfig, error) {
	single := charmapSingle(charmap.CodePage037)
	single[0x0E] = cnv.NoMapping
	single[0x0F] = cnv.NoMapping
	return cnv.TableConfig{Single: single, Double: kscPlane()}, nil
}

func iso2022Table() (cnv.TableConfig, error) {
	return cnv.TableConfig{
		Single: noSingles(),
		Designations: map[string]string{
			escapeKSC5601: KSC5601,
			escapeLatin1:  ISO88591,
		},
	}, nil
}

func noSingles() [256]rune {
	var single [256]rune
	for i := range single {
		single[i] = cnv.NoMapping
	}
	return single
}
