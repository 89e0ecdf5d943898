package codepage

import (
	"fmt"
	"strings"

	"github.com/zoobzio/cnv"
	"golang.org/x/text/language"
)

var displayData = map[string]map[string]string{
	"en": {
		UTF8:        "Unicode (UTF-8)",
		UTF16BE:     "Unicode (UTF-16 Big-Endian)",
		UTF16LE:     "Unicode (UTF-16 Little-Endian)",
		ISO88591:    "Western European (ISO-8859-1)",
		Windows1252: "Western European (Windows)",
		IBM437:      "OEM United States",
		IBM037:      "IBM EBCDIC (US-Canada)",
		IBM850:      "Western European (DOS)",
		ISO885915:   "Latin 9 (ISO-8859-15)",
		KOI8R:       "Cyrillic (KOI8-R)",
		Macintosh:   "Western European (Mac)",
		ShiftJIS:    "Japanese (Shift-JIS)",
		EUCKR:       "Korean (EUC-KR)",
		GBK:         "Chinese Simplified (GBK)",
		KSC5601:     "Korean (KS C 5601)",
		IBM037KSC:   "IBM EBCDIC (Korean Mixed)",
		ISO2022:     "ISO-2022 (UTF-8 Base)",
	},
	"en-GB": {
		ISO2022: "ISO-2022 (UTF-8 base)",
	},
	"de": {
		UTF8:        "Unicode (UTF-8)",
		ISO88591:    "Westeuropäisch (ISO-8859-1)",
		Windows1252: "Westeuropäisch (Windows)",
		IBM437:      "OEM Vereinigte Staaten",
		KOI8R:       "Kyrillisch (KOI8-R)",
		ShiftJIS:    "Japanisch (Shift-JIS)",
		EUCKR:       "Koreanisch (EUC-KR)",
	},
	"fr": {
		ISO88591:    "Europe occidentale (ISO-8859-1)",
		Windows1252: "Europe occidentale (Windows)",
		ShiftJIS:    "Japonais (Shift-JIS)",
	},
	"ja": {
		UTF8:     "Unicode (UTF-8)",
		ShiftJIS: "日本語 (シフト JIS)",
		EUCKR:    "韓国語 (EUC-KR)",
		GBK:      "簡体字中国語 (GBK)",
	},
}

// DisplayNames supplies localized codec names. A locale without a name for the
// codec falls back to its parent locales, so "de-AT" is served by "de". It
// implements cnv.DisplayNamer.
type DisplayNames struct {
	data map[string]map[string]string
}

// NewDisplayNames returns the built-in localized names.
func NewDisplayNames() *DisplayNames {
	return &DisplayNames{data: displayData}
}

// DisplayName returns the name of codec in locale.
func (d *DisplayNames) DisplayName(codec, locale string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: locale %q: %v", cnv.ErrNotFound, locale, err)
	}
	for {
		if names, ok := d.data[tag.String()]; ok {
			if name, ok := names[codec]; ok {
				return name, nil
			}
		}
		if tag == language.Und {
			break
		}
		tag = tag.Parent()
	}
	return "", fmt.Errorf("%w: display name of %s in %s", cnv.ErrNotFound, codec, locale)
}
