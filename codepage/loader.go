// Package codepage supplies code page tables, aliases and localized names for
// cnv registries.
//
// The built-in tables cover the Unicode encodings, ISO-8859-1, a set of
// single-byte code pages, the East Asian multi-byte code pages of
// golang.org/x/text, KS C 5601 as a double-byte codec, a stateful EBCDIC codec
// and an ISO-2022 composite. Further tables can be loaded from documents in
// JSON, YAML, XML, MessagePack or BSON.
//
//	reg := codepage.Default()
//	conv, err := reg.Open("cp437")
package codepage

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/zoobzio/cnv"
	"golang.org/x/crypto/blake2b"
)

// Loader builds cnv descriptors from built-in and document tables.
// Tables are built on first use and shared by every descriptor of the codec.
// Loader is safe for concurrent use.
type Loader struct {
	mu      sync.RWMutex
	entries map[string]*entry // folded name → entry
	aliases map[string]string // folded alias → canonical name, from documents
}

type entry struct {
	def definition

	once        sync.Once
	table       *cnv.Table
	fingerprint string
	err         error
}

// NewLoader returns a loader holding the built-in tables.
func NewLoader() *Loader {
	l := &Loader{
		entries: make(map[string]*entry),
		aliases: make(map[string]string),
	}
	for _, def := range builtins() {
		l.entries[fold(def.name)] = &entry{def: def}
	}
	return l
}

// Load builds a descriptor for the canonical codec name.
func (l *Loader) Load(name string) (*cnv.Descriptor, error) {
	l.mu.RLock()
	e, ok := l.entries[fold(name)]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: codec %q", cnv.ErrNotFound, name)
	}

	e.once.Do(e.build)
	if e.err != nil {
		return nil, e.err
	}

	return cnv.NewDescriptor(cnv.DescriptorConfig{
		Name:            e.def.name,
		Family:          e.def.family,
		MinBytesPerUnit: e.def.min,
		MaxBytesPerUnit: e.def.max,
		Platform:        e.def.platform,
		CCSID:           e.def.ccsid,
		Substitution:    e.def.substitution,
		Table:           e.table,
		Fingerprint:     e.fingerprint,
		StartShifted:    e.def.startShifted,
	})
}

func (e *entry) build() {
	if e.def.table == nil {
		return
	}
	cfg, err := e.def.table()
	if err != nil {
		e.err = fmt.Errorf("building table for %s: %w", e.def.name, err)
		return
	}
	e.table, e.err = cnv.NewTable(cfg)
	if e.err != nil {
		return
	}
	e.fingerprint = Fingerprint(cfg)
}

// Names returns the canonical names of every codec, sorted.
func (l *Loader) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		names = append(names, e.def.name)
	}
	sort.Strings(names)
	return names
}

// DocumentAliases returns the folded aliases declared by loaded documents.
func (l *Loader) DocumentAliases() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.aliases))
	for k, v := range l.aliases {
		out[k] = v
	}
	return out
}

// AddDocument registers the codec described by doc. Registries over the loader
// can open it at once; a registry that has already enumerated its codecs keeps
// reporting the earlier CountAvailable and NameAt list.
func (l *Loader) AddDocument(doc *Document) error {
	def, err := doc.definition()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	key := fold(def.name)
	if _, exists := l.entries[key]; exists {
		return fmt.Errorf("%w: codec %q already defined", ErrInvalidDocument, def.name)
	}
	l.entries[key] = &entry{def: def}
	for _, alias := range doc.Aliases {
		l.aliases[fold(alias)] = def.name
	}
	return nil
}

// canonical returns the canonical name of a folded codec name.
func (l *Loader) canonical(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[key]
	if !ok {
		return "", false
	}
	return e.def.name, true
}

// documentAlias returns the codec a folded document alias names.
func (l *Loader) documentAlias(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	name, ok := l.aliases[key]
	return name, ok
}

// LoadDocument parses data with format and registers the codec it describes.
func (l *Loader) LoadDocument(data []byte, format cnv.Format) error {
	doc, err := ParseDocument(data, format)
	if err != nil {
		return err
	}
	return l.AddDocument(doc)
}

// LoadFile reads a table document, choosing the format by file extension.
func (l *Loader) LoadFile(path string) error {
	format, err := FormatFor(filepath.Ext(path))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading table document: %w", err)
	}
	return l.LoadDocument(data, format)
}

// Fingerprint returns the hex blake2b-256 digest of a table's mapping data.
func Fingerprint(cfg cnv.TableConfig) string {
	h, _ := blake2b.New256(nil)
	var buf [4]byte

	for _, r := range cfg.Single {
		binary.BigEndian.PutUint32(buf[:], uint32(r))
		h.Write(buf[:])
	}
	for b, lead := range cfg.Starters {
		if lead {
			h.Write([]byte{byte(b)})
		}
	}

	codes := make([]int, 0, len(cfg.Double))
	for code := range cfg.Double {
		codes = append(codes, int(code))
	}
	sort.Ints(codes)
	for _, code := range codes {
		binary.BigEndian.PutUint16(buf[:2], uint16(code))
		h.Write(buf[:2])
		binary.BigEndian.PutUint32(buf[:], uint32(cfg.Double[uint16(code)]))
		h.Write(buf[:])
	}

	escapes := make([]string, 0, len(cfg.Designations))
	for esc := range cfg.Designations {
		escapes = append(escapes, esc)
	}
	sort.Strings(escapes)
	for _, esc := range escapes {
		h.Write([]byte(esc))
		h.Write([]byte(cfg.Designations[esc]))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// fold normalizes a codec name for comparison: case is ignored, as are the
// separators '-', '_', '.' and ' '.
func fold(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch r {
		case '-', '_', '.', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
