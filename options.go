package cnv

// Option configures a Registry.
type Option func(*Registry)

// WithResolver sets the alias resolver. Without one, names are used as given
// and the list of available names is empty.
func WithResolver(r Resolver) Option {
	return func(reg *Registry) {
		reg.resolver = r
	}
}

// WithDisplayNamer sets the source of localized codec names.
func WithDisplayNamer(n DisplayNamer) Option {
	return func(reg *Registry) {
		reg.namer = n
	}
}

// WithDefaultName sets the codec opened for an empty name.
func WithDefaultName(name string) Option {
	return func(reg *Registry) {
		reg.defaultName = name
	}
}

// WithMetrics enables prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(reg *Registry) {
		reg.metrics = m
	}
}

// ConvertOption configures Registry.Convert.
type ConvertOption func(*convertConfig)

type convertConfig struct {
	pivotSize int
	onDecode  DecodeCallback
	onEncode  EncodeCallback
}

// WithPivotSize sets the number of code units in the pivot buffer.
func WithPivotSize(n int) ConvertOption {
	return func(cfg *convertConfig) {
		cfg.pivotSize = n
	}
}

// WithDecodeCallback sets the callback of the source converter.
func WithDecodeCallback(cb DecodeCallback) ConvertOption {
	return func(cfg *convertConfig) {
		cfg.onDecode = cb
	}
}

// WithEncodeCallback sets the callback of the target converter.
func WithEncodeCallback(cb EncodeCallback) ConvertOption {
	return func(cfg *convertConfig) {
		cfg.onEncode = cb
	}
}
