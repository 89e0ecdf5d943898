package cnv

import (
	"fmt"
	"strings"
)

// MaxBytesPerUnit is the largest number of bytes any codec uses for one code unit.
const MaxBytesPerUnit = 4

// DescriptorConfig describes a codec to NewDescriptor.
type DescriptorConfig struct {
	Name            string
	Family          Family
	MinBytesPerUnit int
	MaxBytesPerUnit int
	Platform        Platform
	CCSID           int
	Substitution    []byte
	Table           *Table
	Fingerprint     string

	// StartShifted starts stateful codecs in double-byte mode.
	StartShifted bool
}

// Descriptor is the immutable metadata of one codec, shared by all of its
// converters. Its reference count is owned by the Registry that published it.
type Descriptor struct {
	name         string
	family       Family
	minBytes     int
	maxBytes     int
	platform     Platform
	ccsid        int
	substitution []byte
	table        *Table
	fingerprint  string
	defaults     shiftState

	// refs is guarded by the owning registry's mutex.
	refs int
}

// NewDescriptor validates cfg and builds a descriptor.
func NewDescriptor(cfg DescriptorConfig) (*Descriptor, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: descriptor name is empty", ErrIllegalArgument)
	}
	if !cfg.Family.Valid() {
		return nil, fmt.Errorf("%w: unknown family %d for %s", ErrIllegalArgument, int(cfg.Family), cfg.Name)
	}
	if cfg.MinBytesPerUnit < 1 || cfg.MaxBytesPerUnit < cfg.MinBytesPerUnit || cfg.MaxBytesPerUnit > MaxBytesPerUnit {
		return nil, fmt.Errorf("%w: bytes per unit [%d, %d] for %s", ErrIllegalArgument,
			cfg.MinBytesPerUnit, cfg.MaxBytesPerUnit, cfg.Name)
	}
	if n := len(cfg.Substitution); n < cfg.MinBytesPerUnit || n > cfg.MaxBytesPerUnit {
		return nil, fmt.Errorf("%w: substitution length %d for %s", ErrIllegalArgument, n, cfg.Name)
	}
	if cfg.Family.tableDriven() && cfg.Table == nil {
		return nil, fmt.Errorf("%w: %s codec %s has no table", ErrIllegalArgument, cfg.Family, cfg.Name)
	}

	d := &Descriptor{
		name:         cfg.Name,
		family:       cfg.Family,
		minBytes:     cfg.MinBytesPerUnit,
		maxBytes:     cfg.MaxBytesPerUnit,
		platform:     cfg.Platform,
		ccsid:        cfg.CCSID,
		substitution: append([]byte(nil), cfg.Substitution...),
		table:        cfg.Table,
		fingerprint:  cfg.Fingerprint,
	}
	if cfg.StartShifted && cfg.Family == FamilyEBCDICStateful {
		d.defaults = shiftDouble
	}
	return d, nil
}

// Name returns the canonical codec name.
func (d *Descriptor) Name() string { return d.name }

// Family returns the dispatch family.
func (d *Descriptor) Family() Family { return d.family }

// MinBytesPerUnit returns the smallest byte length of one code unit.
func (d *Descriptor) MinBytesPerUnit() int { return d.minBytes }

// MaxBytesPerUnit returns the largest byte length of one code unit.
func (d *Descriptor) MaxBytesPerUnit() int { return d.maxBytes }

// Platform returns the vendor of the code page number.
func (d *Descriptor) Platform() Platform { return d.platform }

// CCSID returns the code page number, or 0.
func (d *Descriptor) CCSID() int { return d.ccsid }

// Substitution returns a copy of the default substitution bytes.
func (d *Descriptor) Substitution() []byte {
	return append([]byte(nil), d.substitution...)
}

// Table returns the mapping table, or nil for arithmetic families.
func (d *Descriptor) Table() *Table { return d.table }

// Fingerprint returns the digest of the table contents recorded by the loader.
func (d *Descriptor) Fingerprint() string { return d.fingerprint }
