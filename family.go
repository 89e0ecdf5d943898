package cnv

import "strings"

// Family selects the conversion algorithm that handles a codec.
type Family int

const (
	// FamilySBCS is a table-driven single-byte codec.
	FamilySBCS Family = iota

	// FamilyDBCS is a table-driven codec where every character is two bytes.
	FamilyDBCS

	// FamilyMBCS mixes single bytes with two-byte sequences introduced by lead bytes.
	FamilyMBCS

	// FamilyLatin1 is ISO-8859-1, mapped arithmetically.
	FamilyLatin1

	// FamilyUTF8 is UTF-8.
	FamilyUTF8

	// FamilyUTF16BE is big-endian UTF-16.
	FamilyUTF16BE

	// FamilyUTF16LE is little-endian UTF-16.
	FamilyUTF16LE

	// FamilyEBCDICStateful switches between single and double bytes with SO/SI.
	FamilyEBCDICStateful

	// FamilyISO2022 switches sub-codecs with escape sequences over a UTF-8 base.
	FamilyISO2022

	familyCount
)

var familyNames = [familyCount]string{
	FamilySBCS:           "sbcs",
	FamilyDBCS:           "dbcs",
	FamilyMBCS:           "mbcs",
	FamilyLatin1:         "latin1",
	FamilyUTF8:           "utf8",
	FamilyUTF16BE:        "utf16be",
	FamilyUTF16LE:        "utf16le",
	FamilyEBCDICStateful: "ebcdic-stateful",
	FamilyISO2022:        "iso2022",
}

// Valid returns true if f is a known family.
func (f Family) Valid() bool {
	return f >= 0 && f < familyCount
}

func (f Family) String() string {
	if !f.Valid() {
		return "unknown"
	}
	return familyNames[f]
}

// ParseFamily returns the family with the given name. Matching ignores case.
func ParseFamily(name string) (Family, bool) {
	for f, n := range familyNames {
		if strings.EqualFold(n, name) {
			return Family(f), true
		}
	}
	return 0, false
}

// fixedWidth returns the byte width of one code unit for families whose offsets
// can be computed arithmetically, or 0 for variable-width families.
func (f Family) fixedWidth() int {
	switch f {
	case FamilySBCS, FamilyLatin1:
		return 1
	case FamilyDBCS, FamilyUTF16BE, FamilyUTF16LE:
		return 2
	default:
		return 0
	}
}

// tableDriven reports whether the family needs a Table.
func (f Family) tableDriven() bool {
	switch f {
	case FamilySBCS, FamilyDBCS, FamilyMBCS, FamilyEBCDICStateful, FamilyISO2022:
		return true
	default:
		return false
	}
}

// Platform identifies the vendor a code page number belongs to.
type Platform string

const (
	// PlatformUnknown is used for codecs without a vendor code page number.
	PlatformUnknown Platform = ""

	// PlatformIBM is the IBM CCSID numbering.
	PlatformIBM Platform = "ibm"
)

// Reason says why the engine invoked a callback.
type Reason int

const (
	// ReasonIllegal means the input is malformed.
	ReasonIllegal Reason = iota

	// ReasonUnassigned means the input is well formed but has no mapping.
	ReasonUnassigned

	// ReasonTruncated means the input ended inside a sequence while flushing.
	ReasonTruncated
)

func (r Reason) String() string {
	switch r {
	case ReasonIllegal:
		return "illegal"
	case ReasonUnassigned:
		return "unassigned"
	case ReasonTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error reported when a callback stops on r.
func (r Reason) Err() error {
	switch r {
	case ReasonUnassigned:
		return ErrUnassigned
	case ReasonTruncated:
		return ErrTruncated
	default:
		return ErrIllegalSequence
	}
}
