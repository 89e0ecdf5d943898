// Package msgpack reads and writes codec table documents as MessagePack.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/cnv"
)

// Extensions lists the file extensions of MessagePack table documents.
var Extensions = []string{".msgpack", ".mpk"}

// msgpackFormat implements cnv.Format for MessagePack.
type msgpackFormat struct{}

// New returns a MessagePack format.
func New() cnv.Format {
	return &msgpackFormat{}
}

// ContentType returns the MIME type for MessagePack.
func (f *msgpackFormat) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (f *msgpackFormat) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes MessagePack data into v.
func (f *msgpackFormat) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
