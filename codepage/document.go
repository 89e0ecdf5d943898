package codepage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/zoobzio/cnv"
	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("table")
}

// ErrInvalidDocument indicates a table document that cannot describe a codec.
var ErrInvalidDocument = errors.New("invalid table document")

// Document is the serialized form of a codec table. Fields tagged
// table:"required" must be present.
type Document struct {
	Name         string        `json:"name" yaml:"name" xml:"name,attr" msgpack:"name" bson:"name" table:"required"`
	Family       string        `json:"family" yaml:"family" xml:"family,attr" msgpack:"family" bson:"family" table:"required"`
	MinBytes     int           `json:"min_bytes" yaml:"min_bytes" xml:"min_bytes,attr" msgpack:"min_bytes" bson:"min_bytes" table:"required"`
	MaxBytes     int           `json:"max_bytes" yaml:"max_bytes" xml:"max_bytes,attr" msgpack:"max_bytes" bson:"max_bytes" table:"required"`
	Platform     string        `json:"platform,omitempty" yaml:"platform,omitempty" xml:"platform,attr,omitempty" msgpack:"platform,omitempty" bson:"platform,omitempty"`
	CCSID        int           `json:"ccsid,omitempty" yaml:"ccsid,omitempty" xml:"ccsid,attr,omitempty" msgpack:"ccsid,omitempty" bson:"ccsid,omitempty"`
	Substitution string        `json:"substitution" yaml:"substitution" xml:"substitution" msgpack:"substitution" bson:"substitution" table:"required"`
	Aliases      []string      `json:"aliases,omitempty" yaml:"aliases,omitempty" xml:"aliases>alias" msgpack:"aliases,omitempty" bson:"aliases,omitempty"`
	Single       []Mapping     `json:"single,omitempty" yaml:"single,omitempty" xml:"single>map" msgpack:"single,omitempty" bson:"single,omitempty"`
	Double       []Mapping     `json:"double,omitempty" yaml:"double,omitempty" xml:"double>map" msgpack:"double,omitempty" bson:"double,omitempty"`
	Starters     []int         `json:"starters,omitempty" yaml:"starters,omitempty" xml:"starters>byte" msgpack:"starters,omitempty" bson:"starters,omitempty"`
	Designations []Designation `json:"designations,omitempty" yaml:"designations,omitempty" xml:"designations>designation" msgpack:"designations,omitempty" bson:"designations,omitempty"`
	Checksum     string        `json:"checksum,omitempty" yaml:"checksum,omitempty" xml:"checksum,omitempty" msgpack:"checksum,omitempty" bson:"checksum,omitempty"`
}

// Mapping pairs a byte code with a scalar value.
type Mapping struct {
	Code int `json:"code" yaml:"code" xml:"code,attr" msgpack:"code" bson:"code"`
	Rune int `json:"rune" yaml:"rune" xml:"rune,attr" msgpack:"rune" bson:"rune"`
}

// Designation maps a hex-encoded escape sequence to the codec it activates.
type Designation struct {
	Escape string `json:"escape" yaml:"escape" xml:"escape,attr" msgpack:"escape" bson:"escape"`
	Codec  string `json:"codec" yaml:"codec" xml:"codec,attr" msgpack:"codec" bson:"codec"`
}

// ParseDocument decodes a table document and validates it.
func ParseDocument(data []byte, format cnv.Format) (*Document, error) {
	var doc Document
	if err := format.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, format.ContentType(), err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that every required field is set.
func (d *Document) Validate() error {
	spec := sentinel.Scan[Document]()
	v := reflect.ValueOf(d).Elem()

	var missing []string
	for _, field := range spec.Fields {
		if field.Tags["table"] != "required" {
			continue
		}
		if v.FieldByIndex(field.Index).IsZero() {
			missing = append(missing, field.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDocument, strings.Join(missing, ", "))
	}
	return nil
}

// TableConfig converts the document's mappings into a table configuration.
func (d *Document) TableConfig() (cnv.TableConfig, error) {
	cfg := cnv.TableConfig{Single: noSingles()}

	for _, m := range d.Single {
		if m.Code < 0 || m.Code > 0xFF {
			return cnv.TableConfig{}, fmt.Errorf("%w: single-byte code %X", ErrInvalidDocument, m.Code)
		}
		cfg.Single[m.Code] = rune(m.Rune)
	}
	if len(d.Double) > 0 {
		cfg.Double = make(map[uint16]rune, len(d.Double))
	}
	for _, m := range d.Double {
		if m.Code < 0 || m.Code > 0xFFFF {
			return cnv.TableConfig{}, fmt.Errorf("%w: double-byte code %X", ErrInvalidDocument, m.Code)
		}
		cfg.Double[uint16(m.Code)] = rune(m.Rune)
	}
	for _, b := range d.Starters {
		if b < 0 || b > 0xFF {
			return cnv.TableConfig{}, fmt.Errorf("%w: lead byte %X", ErrInvalidDocument, b)
		}
		cfg.Starters[b] = true
	}
	if len(d.Designations) > 0 {
		cfg.Designations = make(map[string]string, len(d.Designations))
	}
	for _, des := range d.Designations {
		esc, err := hex.DecodeString(des.Escape)
		if err != nil {
			return cnv.TableConfig{}, fmt.Errorf("%w: escape %q: %v", ErrInvalidDocument, des.Escape, err)
		}
		cfg.Designations[string(esc)] = des.Codec
	}
	return cfg, nil
}

// Sum returns the fingerprint of the document's table, the value expected in
// Checksum.
func (d *Document) Sum() (string, error) {
	cfg, err := d.TableConfig()
	if err != nil {
		return "", err
	}
	return Fingerprint(cfg), nil
}

func (d *Document) definition() (definition, error) {
	if err := d.Validate(); err != nil {
		return definition{}, err
	}
	family, ok := cnv.ParseFamily(d.Family)
	if !ok {
		return definition{}, fmt.Errorf("%w: unknown family %q", ErrInvalidDocument, d.Family)
	}
	sub, err := hex.DecodeString(d.Substitution)
	if err != nil {
		return definition{}, fmt.Errorf("%w: substitution %q: %v", ErrInvalidDocument, d.Substitution, err)
	}
	cfg, err := d.TableConfig()
	if err != nil {
		return definition{}, err
	}
	if d.Checksum != "" {
		if sum := Fingerprint(cfg); !strings.EqualFold(sum, d.Checksum) {
			return definition{}, fmt.Errorf("%w: checksum mismatch for %s: got %s, want %s",
				ErrInvalidDocument, d.Name, sum, d.Checksum)
		}
	}

	def := definition{
		name:         d.Name,
		family:       family,
		min:          d.MinBytes,
		max:          d.MaxBytes,
		platform:     cnv.Platform(strings.ToLower(d.Platform)),
		ccsid:        d.CCSID,
		substitution: sub,
	}
	if len(d.Single) > 0 || len(d.Double) > 0 || len(d.Designations) > 0 {
		def.table = func() (cnv.TableConfig, error) { return cfg, nil }
	}
	return def, nil
}
