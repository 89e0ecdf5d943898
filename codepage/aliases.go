package codepage

import (
	"slices"
	"sort"
)

// builtinAliases maps alternative names to canonical codec names.
var builtinAliases = map[string][]string{
	UTF8:        {"utf8", "ibm-1208", "cp1208", "cp65001", "unicode-1-1-utf-8"},
	UTF16BE:     {"ibm-1200", "x-utf-16be", "UnicodeBigUnmarked"},
	UTF16LE:     {"ibm-1202", "x-utf-16le", "UnicodeLittleUnmarked"},
	ISO88591:    {"latin1", "l1", "ibm-819", "cp819", "iso-ir-100", "csISOLatin1"},
	Windows1252: {"cp1252", "ibm-1252", "ibm-5348"},
	IBM437:      {"cp437", "437", "csPC8CodePage437"},
	IBM037:      {"ibm-37", "cp037", "ebcdic-cp-us", "ebcdic-cp-ca", "csIBM037"},
	IBM850:      {"cp850", "850", "csPC850Multilingual"},
	ISO885915:   {"latin9", "l9", "ibm-923"},
	KOI8R:       {"ibm-878", "cp878", "csKOI8R"},
	Macintosh:   {"mac", "macroman", "ibm-1275", "csMacintosh"},
	ShiftJIS:    {"sjis", "ms_kanji", "ibm-943", "csShiftJIS"},
	EUCKR:       {"cp949", "windows-949", "ibm-1363", "csEUCKR"},
	GBK:         {"cp936", "windows-936", "ibm-1386"},
	KSC5601:     {"ksc5601", "ks_c_5601", "ibm-971", "csKSC56011987"},
	IBM037KSC:   {"ibm-933", "cp933"},
	ISO2022:     {"iso2022", "x-iso-2022-utf8"},
}

// Aliases resolves codec names and aliases to canonical names. Matching ignores
// case and the separators '-', '_', '.' and ' '. Canonical names win over
// built-in aliases, which win over document aliases. Lookups read through the
// loader, so codecs added to it later resolve too. It implements cnv.Resolver.
type Aliases struct {
	loader  *Loader
	builtin map[string]string // folded alias → canonical name
}

// NewAliases builds a resolver over every codec of loader, with the built-in
// aliases and the aliases declared by loaded documents.
func NewAliases(loader *Loader) *Aliases {
	a := &Aliases{
		loader:  loader,
		builtin: make(map[string]string, len(builtinAliases)*4),
	}
	for name, aliases := range builtinAliases {
		if _, ok := loader.canonical(fold(name)); !ok {
			continue
		}
		for _, alias := range aliases {
			a.builtin[fold(alias)] = name
		}
	}
	return a
}

// Resolve returns the canonical name for alias.
func (a *Aliases) Resolve(alias string) (string, bool) {
	key := fold(alias)
	if name, ok := a.loader.canonical(key); ok {
		return name, true
	}
	if name, ok := a.builtin[key]; ok {
		return name, true
	}
	return a.loader.documentAlias(key)
}

// Names returns the canonical names, sorted.
func (a *Aliases) Names() []string {
	return a.loader.Names()
}

// AliasesOf returns the folded form of every alias that resolves to name,
// the canonical name included, sorted.
func (a *Aliases) AliasesOf(name string) []string {
	candidates := []string{fold(name)}
	for alias := range a.builtin {
		candidates = append(candidates, alias)
	}
	for alias := range a.loader.DocumentAliases() {
		candidates = append(candidates, alias)
	}

	var out []string
	for _, alias := range candidates {
		if got, ok := a.Resolve(alias); ok && got == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return slices.Compact(out)
}
