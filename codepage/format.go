package codepage

import (
	"fmt"
	"strings"

	"github.com/zoobzio/cnv"
	"github.com/zoobzio/cnv/bson"
	"github.com/zoobzio/cnv/json"
	"github.com/zoobzio/cnv/msgpack"
	"github.com/zoobzio/cnv/xml"
	"github.com/zoobzio/cnv/yaml"
)

var formats = []struct {
	extensions []string
	format     func() cnv.Format
}{
	{json.Extensions, json.New},
	{yaml.Extensions, yaml.New},
	{xml.Extensions, xml.New},
	{msgpack.Extensions, msgpack.New},
	{bson.Extensions, bson.New},
}

// FormatFor returns the table document format for a file extension such as ".yaml".
func FormatFor(ext string) (cnv.Format, error) {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	for _, f := range formats {
		for _, e := range f.extensions {
			if e == ext {
				return f.format(), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no table format for extension %q", cnv.ErrNotFound, ext)
}
