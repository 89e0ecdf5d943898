// Package yaml reads and writes codec table documents as YAML.
package yaml

import (
	"github.com/zoobzio/cnv"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions of YAML table documents.
var Extensions = []string{".yaml", ".yml"}

// yamlFormat implements cnv.Format for YAML.
type yamlFormat struct{}

// New returns a YAML format.
func New() cnv.Format {
	return &yamlFormat{}
}

// ContentType returns the MIME type for YAML.
func (f *yamlFormat) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (f *yamlFormat) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal decodes YAML data into v.
func (f *yamlFormat) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
