package cnv

import (
	"context"
	"errors"
	"time"
)

// chunkSize is the scratch capacity used to measure output that did not fit,
// and the default pivot size.
const chunkSize = 5 * 1024

// DecodeAll resets the converter and decodes all of src into dst. When dst is
// too small it returns the units written with an *OverflowError reporting the
// capacity required.
func (c *Converter) DecodeAll(dst []uint16, src []byte) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	c.Reset()
	n, used, err := c.Decode(dst, src, nil, true)
	if !errors.Is(err, ErrOutputExhausted) {
		return n, err
	}

	required := n
	scratch := make([]uint16, chunkSize)
	rest := src[used:]
	for errors.Is(err, ErrOutputExhausted) {
		var k int
		k, used, err = c.Decode(scratch, rest, nil, true)
		required += k
		rest = rest[used:]
	}
	if err != nil {
		return n, err
	}
	return n, &OverflowError{Required: required}
}

// EncodeAll resets the converter and encodes all of src into dst. When dst is
// too small it returns the bytes written with an *OverflowError reporting the
// capacity required.
func (c *Converter) EncodeAll(dst []byte, src []uint16) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	c.Reset()
	n, used, err := c.Encode(dst, src, nil, true)
	if !errors.Is(err, ErrOutputExhausted) {
		return n, err
	}

	required := n
	scratch := make([]byte, chunkSize)
	rest := src[used:]
	for errors.Is(err, ErrOutputExhausted) {
		var k int
		k, used, err = c.Encode(scratch, rest, nil, true)
		required += k
		rest = rest[used:]
	}
	if err != nil {
		return n, err
	}
	return n, &OverflowError{Required: required}
}

// Convert converts src from codec fromName into codec toName, writing the result
// to dst. Both converters are opened for the call and closed before it returns.
// When dst is too small it returns the bytes written with an *OverflowError
// reporting the capacity required.
func (r *Registry) Convert(ctx context.Context, toName, fromName string, dst, src []byte, opts ...ConvertOption) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	cfg := convertConfig{pivotSize: chunkSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	emitConvertStart(ctx, fromName, toName)
	n, err := r.convert(ctx, toName, fromName, dst, src, cfg)
	emitConvertComplete(ctx, fromName, toName, n, time.Since(start), err)
	return n, err
}

func (r *Registry) convert(ctx context.Context, toName, fromName string, dst, src []byte, cfg convertConfig) (int, error) {
	from, err := r.open(ctx, fromName)
	if err != nil {
		return 0, err
	}
	defer from.Close()

	to, err := r.open(ctx, toName)
	if err != nil {
		return 0, err
	}
	defer to.Close()

	if cfg.onDecode != nil {
		from.SetDecodeCallback(cfg.onDecode)
	}
	if cfg.onEncode != nil {
		to.SetEncodeCallback(cfg.onEncode)
	}

	p, err := NewPipeline(from, to, cfg.pivotSize)
	if err != nil {
		return 0, err
	}
	n, used, err := p.Convert(dst, src, true)
	if !errors.Is(err, ErrOutputExhausted) {
		return n, err
	}

	required := n
	scratch := make([]byte, chunkSize)
	rest := src[used:]
	for errors.Is(err, ErrOutputExhausted) {
		var k int
		k, used, err = p.Convert(scratch, rest, true)
		required += k
		rest = rest[used:]
	}
	if err != nil {
		return n, err
	}
	return n, &OverflowError{Required: required}
}
