package cnv

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for conversion events.
var (
	SignalDescriptorLoaded = capitan.NewSignal("cnv.descriptor.loaded", "Codec descriptor loaded into the cache")
	SignalConverterOpened  = capitan.NewSignal("cnv.converter.opened", "Converter opened")
	SignalConverterClosed  = capitan.NewSignal("cnv.converter.closed", "Converter closed")
	SignalCacheFlushed     = capitan.NewSignal("cnv.cache.flushed", "Unreferenced descriptors evicted")
	SignalConvertStart     = capitan.NewSignal("cnv.convert.start", "Codec to codec conversion beginning")
	SignalConvertComplete  = capitan.NewSignal("cnv.convert.complete", "Codec to codec conversion finished")
)

// Keys for typed event data.
var (
	KeyCodec    = capitan.NewStringKey("codec")
	KeyFamily   = capitan.NewStringKey("family")
	KeyFrom     = capitan.NewStringKey("from")
	KeyTo       = capitan.NewStringKey("to")
	KeyRefs     = capitan.NewIntKey("refs")
	KeyRemoved  = capitan.NewIntKey("removed")
	KeyCached   = capitan.NewIntKey("cached")
	KeySize     = capitan.NewIntKey("size")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyError    = capitan.NewErrorKey("error")
)

// emitDescriptorLoaded emits an event when a descriptor enters the cache.
func emitDescriptorLoaded(ctx context.Context, codec, family string) {
	capitan.Emit(ctx, SignalDescriptorLoaded,
		KeyCodec.Field(codec),
		KeyFamily.Field(family),
	)
}

// emitConverterOpened emits an event when a converter is opened.
func emitConverterOpened(ctx context.Context, codec string, refs int) {
	capitan.Emit(ctx, SignalConverterOpened,
		KeyCodec.Field(codec),
		KeyRefs.Field(refs),
	)
}

// emitConverterClosed emits an event when a converter is closed.
func emitConverterClosed(ctx context.Context, codec string, refs int) {
	capitan.Emit(ctx, SignalConverterClosed,
		KeyCodec.Field(codec),
		KeyRefs.Field(refs),
	)
}

// emitCacheFlushed emits an event after unreferenced descriptors are evicted.
func emitCacheFlushed(ctx context.Context, removed, cached int) {
	capitan.Emit(ctx, SignalCacheFlushed,
		KeyRemoved.Field(removed),
		KeyCached.Field(cached),
	)
}

// emitConvertStart emits an event when a codec to codec conversion begins.
func emitConvertStart(ctx context.Context, from, to string) {
	capitan.Emit(ctx, SignalConvertStart,
		KeyFrom.Field(from),
		KeyTo.Field(to),
	)
}

// emitConvertComplete emits an event when a codec to codec conversion finishes.
func emitConvertComplete(ctx context.Context, from, to string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFrom.Field(from),
		KeyTo.Field(to),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalConvertComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalConvertComplete, fields...)
	}
}
