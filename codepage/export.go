package codepage

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/zoobzio/cnv"
)

// Document returns the table document of a codec, checksum included. Loading
// the document under another name gives a codec with the same conversions.
func (l *Loader) Document(name string) (*Document, error) {
	l.mu.RLock()
	e, ok := l.entries[fold(name)]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: codec %q", cnv.ErrNotFound, name)
	}

	def := e.def
	doc := &Document{
		Name:         def.name,
		Family:       def.family.String(),
		MinBytes:     def.min,
		MaxBytes:     def.max,
		Platform:     string(def.platform),
		CCSID:        def.ccsid,
		Substitution: hex.EncodeToString(def.substitution),
		Aliases:      slices.Clone(builtinAliases[def.name]),
	}
	for alias, codec := range l.DocumentAliases() {
		if codec == def.name {
			doc.Aliases = append(doc.Aliases, alias)
		}
	}
	if def.table == nil {
		return doc, nil
	}

	cfg, err := def.table()
	if err != nil {
		return nil, fmt.Errorf("building table for %s: %w", def.name, err)
	}
	for b, r := range cfg.Single {
		if r != cnv.NoMapping {
			doc.Single = append(doc.Single, Mapping{Code: b, Rune: int(r)})
		}
	}
	for b, lead := range cfg.Starters {
		if lead {
			doc.Starters = append(doc.Starters, b)
		}
	}
	for code, r := range cfg.Double {
		doc.Double = append(doc.Double, Mapping{Code: int(code), Rune: int(r)})
	}
	sort.Slice(doc.Double, func(i, j int) bool { return doc.Double[i].Code < doc.Double[j].Code })
	for esc, codec := range cfg.Designations {
		doc.Designations = append(doc.Designations, Designation{Escape: hex.EncodeToString([]byte(esc)), Codec: codec})
	}
	sort.Slice(doc.Designations, func(i, j int) bool { return doc.Designations[i].Escape < doc.Designations[j].Escape })
	doc.Checksum = Fingerprint(cfg)
	return doc, nil
}

// Export encodes the table document of a codec with format.
func (l *Loader) Export(name string, format cnv.Format) ([]byte, error) {
	doc, err := l.Document(name)
	if err != nil {
		return nil, err
	}
	data, err := format.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding %s as %s: %w", name, format.ContentType(), err)
	}
	return data, nil
}

// ExportFile writes the table document of a codec to path, choosing the format
// by file extension.
func (l *Loader) ExportFile(name, path string) error {
	format, err := FormatFor(filepath.Ext(path))
	if err != nil {
		return err
	}
	data, err := l.Export(name, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing table document: %w", err)
	}
	return nil
}
