package cnv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitDescriptorLoaded(_ *testing.T) {
	// Should not panic
	emitDescriptorLoaded(context.Background(), "UTF-8", "utf8")
}

func TestEmitConverterOpened(_ *testing.T) {
	emitConverterOpened(context.Background(), "UTF-8", 1)
}

func TestEmitConverterClosed(_ *testing.T) {
	emitConverterClosed(context.Background(), "UTF-8", 0)
}

func TestEmitCacheFlushed(_ *testing.T) {
	emitCacheFlushed(context.Background(), 2, 1)
}

func TestEmitConvertStart(_ *testing.T) {
	emitConvertStart(context.Background(), "UTF-8", "ibm-037")
}

func TestEmitConvertComplete_Success(_ *testing.T) {
	emitConvertComplete(context.Background(), "UTF-8", "ibm-037", 64, 100*time.Millisecond, nil)
}

func TestEmitConvertComplete_Error(_ *testing.T) {
	emitConvertComplete(context.Background(), "UTF-8", "ibm-037", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalDescriptorLoaded", SignalDescriptorLoaded},
		{"SignalConverterOpened", SignalConverterOpened},
		{"SignalConverterClosed", SignalConverterClosed},
		{"SignalCacheFlushed", SignalCacheFlushed},
		{"SignalConvertStart", SignalConvertStart},
		{"SignalConvertComplete", SignalConvertComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyCodec", KeyCodec},
		{"KeyFamily", KeyFamily},
		{"KeyFrom", KeyFrom},
		{"KeyTo", KeyTo},
		{"KeyRefs", KeyRefs},
		{"KeyRemoved", KeyRemoved},
		{"KeyCached", KeyCached},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
