// Package cnv provides streaming conversion between byte encodings and UTF-16
// code units.
//
// A Registry resolves codec names to shared, immutable descriptors and hands out
// Converters. Each Converter carries the state of one stream: partial input,
// shift modes and output that did not fit the caller's window. Conversion is
// chunk-invariant: feeding the same input in any split produces the same output.
//
// # Streaming
//
// Decode and Encode convert as much as the windows allow and report what was
// consumed and produced:
//
//	n, used, err := conv.Decode(units, data, nil, false)
//	switch {
//	case err == nil:
//	    // all of data consumed
//	case errors.Is(err, cnv.ErrOutputExhausted):
//	    // drain units, call again with data[used:]
//	case errors.Is(err, cnv.ErrTruncated):
//	    // data ended inside a sequence, call again with more input
//	}
//
// Pass flush=true with the final chunk so incomplete sequences are reported and
// stateful encoders return to their initial mode.
//
// # Families
//
// Every codec belongs to one family, which selects its algorithm:
//
//   - sbcs: table-driven single byte
//   - dbcs: table-driven double byte
//   - mbcs: single bytes mixed with lead-byte introduced pairs
//   - latin1: ISO-8859-1
//   - utf8, utf16be, utf16le
//   - ebcdic-stateful: single and double planes switched with SO/SI
//   - iso2022: UTF-8 base with escape designations to nested codecs
//
// # Callbacks
//
// Undecodable and unencodable input goes to the converter's callback. The
// built-in policies are:
//
//   - Stop: report the error with the input cursor on the offending unit
//   - Skip: drop the offending unit
//   - Substitute: write U+FFFD (decode) or the substitution bytes (encode)
//   - Escape: write %XHH per byte (decode) or %UXXXX per code unit (encode)
//
// Substitute is the default.
//
// # Whole Buffers
//
// DecodeAll and EncodeAll convert a complete buffer in one call. When the
// destination is too small they return an *OverflowError carrying the exact
// capacity required. Registry.Convert and Pipeline convert directly between two
// codecs through a UTF-16 pivot buffer.
//
// # Code Pages
//
// The codepage subpackage supplies a Loader with built-in tables, aliases and
// localized display names:
//
//	reg := codepage.Default()
//	conv, err := reg.Open("shift_jis")
//	defer conv.Close()
package cnv

// Loader builds descriptors from canonical codec names. A loader must return a
// fresh Descriptor on every call; tables may be shared. Unknown names must be
// reported with an error wrapping ErrNotFound.
type Loader interface {
	Load(name string) (*Descriptor, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string) (*Descriptor, error)

// Load calls f(name).
func (f LoaderFunc) Load(name string) (*Descriptor, error) {
	return f(name)
}

// Resolver maps aliases to canonical codec names.
type Resolver interface {
	// Resolve returns the canonical name for alias.
	Resolve(alias string) (string, bool)

	// Names returns every canonical name, in a stable order.
	Names() []string
}

// DisplayNamer supplies localized codec names.
type DisplayNamer interface {
	// DisplayName returns the name of codec in locale, or an error wrapping
	// ErrNotFound when there is none.
	DisplayName(codec, locale string) (string, error)
}

// Format marshals codec table documents. Implementations live in the json,
// yaml, xml, msgpack and bson subpackages.
type Format interface {
	// ContentType returns the MIME type of the format (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
