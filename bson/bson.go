// Package bson reads and writes codec table documents as BSON.
package bson

import (
	"github.com/zoobzio/cnv"
	"go.mongodb.org/mongo-driver/bson"
)

// Extensions lists the file extensions of BSON table documents.
var Extensions = []string{".bson"}

// bsonFormat implements cnv.Format for BSON.
type bsonFormat struct{}

// New returns a BSON format.
func New() cnv.Format {
	return &bsonFormat{}
}

// ContentType returns the MIME type for BSON.
func (f *bsonFormat) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (f *bsonFormat) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (f *bsonFormat) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
