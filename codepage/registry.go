package codepage

import (
	"sync"

	"github.com/zoobzio/cnv"
)

// NewRegistry returns a registry over loader that resolves aliases and
// localized names and opens UTF-8 for an empty name. opts are applied after
// the defaults.
func NewRegistry(loader *Loader, opts ...cnv.Option) *cnv.Registry {
	base := []cnv.Option{
		cnv.WithResolver(NewAliases(loader)),
		cnv.WithDisplayNamer(NewDisplayNames()),
		cnv.WithDefaultName(DefaultCodec),
	}
	return cnv.NewRegistry(loader, append(base, opts...)...)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *cnv.Registry
)

// Default returns the process-wide registry over the built-in tables. It is
// created on first use.
func Default() *cnv.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(NewLoader())
	})
	return defaultRegistry
}
