// Package xml reads and writes codec table documents as XML.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/cnv"
)

// Extensions lists the file extensions of XML table documents.
var Extensions = []string{".xml"}

// xmlFormat implements cnv.Format for XML.
type xmlFormat struct{}

// New returns an XML format.
func New() cnv.Format {
	return &xmlFormat{}
}

// ContentType returns the MIME type for XML.
func (f *xmlFormat) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (f *xmlFormat) Marshal(v any) ([]byte, error) {
	return xml.Marshal(v)
}

// Unmarshal decodes XML data into v.
func (f *xmlFormat) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
