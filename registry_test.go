package cnv

import (
	"errors"
	"sync"
	"testing"
)

func TestRegistry_RefCountLifecycle(t *testing.T) {
	loader := newTestLoader()
	reg := NewRegistry(loader, WithResolver(testResolver{}))

	c1, err := reg.Open(testUTF8)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	c2, err := reg.Open("utf8")
	if err != nil {
		t.Fatalf("Open(alias) error: %v", err)
	}
	if c1.Descriptor() != c2.Descriptor() {
		t.Error("converters of one codec should share the descriptor")
	}
	if refs, _ := reg.RefCount(testUTF8); refs != 2 {
		t.Errorf("RefCount() = %d, want 2", refs)
	}
	if n := loader.count(testUTF8); n != 1 {
		t.Errorf("loader called %d times, want 1", n)
	}

	c1.Close()
	if refs, _ := reg.RefCount(testUTF8); refs != 1 {
		t.Errorf("RefCount() after one close = %d, want 1", refs)
	}
	if removed := reg.FlushCache(); removed != 0 {
		t.Errorf("FlushCache() with open converter = %d, want 0", removed)
	}

	reg.Close(c2)
	if removed := reg.FlushCache(); removed != 1 {
		t.Errorf("FlushCache() = %d, want 1", removed)
	}
	if _, ok := reg.RefCount(testUTF8); ok {
		t.Error("descriptor should be evicted after FlushCache")
	}

	c3 := mustOpen(t, reg, testUTF8)
	if n := loader.count(testUTF8); n != 2 {
		t.Errorf("loader called %d times after eviction, want 2", n)
	}
	if c3.Descriptor() == c2.Descriptor() {
		t.Error("reopened codec should get a fresh descriptor")
	}
}

func TestRegistry_CloseTwice(t *testing.T) {
	reg := newTestRegistry()
	mustOpen(t, reg, testSBCS)
	c, err := reg.Open(testSBCS)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	c.Close()
	c.Close()

	if refs, _ := reg.RefCount(testSBCS); refs != 1 {
		t.Errorf("RefCount() = %d, want 1", refs)
	}
}

func TestRegistry_OpenErrors(t *testing.T) {
	tests := []struct {
		name     string
		reg      *Registry
		codec    string
		sentinel error
	}{
		{
			name:     "unknown alias",
			reg:      newTestRegistry(),
			codec:    "ibm-9999",
			sentinel: ErrNotFound,
		},
		{
			name:     "unknown without resolver",
			reg:      NewRegistry(newTestLoader()),
			codec:    "ibm-9999",
			sentinel: ErrNotFound,
		},
		{
			name: "loader failure",
			reg: NewRegistry(LoaderFunc(func(string) (*Descriptor, error) {
				return nil, errors.New("disk")
			})),
			codec:    "x",
			sentinel: ErrFatal,
		},
		{
			name: "loader returns nothing",
			reg: NewRegistry(LoaderFunc(func(string) (*Descriptor, error) {
				return nil, nil
			})),
			codec:    "x",
			sentinel: ErrFatal,
		},
		{
			name:     "no default",
			reg:      NewRegistry(newTestLoader()),
			codec:    "",
			sentinel: ErrIllegalArgument,
		},
		{
			name:     "no loader",
			reg:      NewRegistry(nil),
			codec:    "x",
			sentinel: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.reg.Open(tt.codec)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("Open(%q) error = %v, want %v", tt.codec, err, tt.sentinel)
			}
			if c != nil {
				t.Error("Open() should not return a converter on error")
			}
			var re *RegistryError
			if !errors.As(err, &re) {
				t.Errorf("error %T is not a *RegistryError", err)
			}
		})
	}
}

func TestRegistry_DefaultName(t *testing.T) {
	reg := newTestRegistry()
	if got := reg.DefaultName(); got != testUTF8 {
		t.Errorf("DefaultName() = %q, want %q", got, testUTF8)
	}

	c := mustOpen(t, reg, "")
	if c.Name() != testUTF8 {
		t.Errorf("Open(\"\").Name() = %q, want %q", c.Name(), testUTF8)
	}

	reg.SetDefaultName(testSBCS)
	c = mustOpen(t, reg, "")
	if c.Name() != testSBCS {
		t.Errorf("Open(\"\").Name() after SetDefaultName = %q, want %q", c.Name(), testSBCS)
	}
}

func TestRegistry_OpenCCSID(t *testing.T) {
	reg := newTestRegistry()

	c, err := reg.OpenCCSID(5348, PlatformIBM)
	if err != nil {
		t.Fatalf("OpenCCSID() error: %v", err)
	}
	defer c.Close()
	if c.Name() != testSBCS || c.CCSID() != 5348 || c.Platform() != PlatformIBM {
		t.Errorf("OpenCCSID() = %s ccsid %d platform %q", c.Name(), c.CCSID(), c.Platform())
	}

	invalid := []struct {
		codepage int
		platform Platform
	}{
		{0, PlatformIBM},
		{-5, PlatformIBM},
		{437, PlatformUnknown},
	}
	for _, tt := range invalid {
		if _, err := reg.OpenCCSID(tt.codepage, tt.platform); !errors.Is(err, ErrIllegalArgument) {
			t.Errorf("OpenCCSID(%d, %q) error = %v, want ErrIllegalArgument", tt.codepage, tt.platform, err)
		}
	}

	if _, err := reg.OpenCCSID(9999, PlatformIBM); !errors.Is(err, ErrNotFound) {
		t.Errorf("OpenCCSID(9999) error = %v, want ErrNotFound", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := newTestRegistry()

	if got := reg.CountAvailable(); got != len(testNames) {
		t.Fatalf("CountAvailable() = %d, want %d", got, len(testNames))
	}
	for i, want := range testNames {
		got, err := reg.NameAt(i)
		if err != nil {
			t.Fatalf("NameAt(%d) error: %v", i, err)
		}
		if got != want {
			t.Errorf("NameAt(%d) = %q, want %q", i, got, want)
		}
	}
	for _, i := range []int{-1, len(testNames)} {
		if _, err := reg.NameAt(i); !errors.Is(err, ErrNotFound) {
			t.Errorf("NameAt(%d) error = %v, want ErrNotFound", i, err)
		}
	}

	if got := NewRegistry(newTestLoader()).CountAvailable(); got != 0 {
		t.Errorf("CountAvailable() without resolver = %d, want 0", got)
	}
}

func TestRegistry_ConcurrentOpenClose(t *testing.T) {
	loader := newTestLoader()
	reg := NewRegistry(loader, WithResolver(testResolver{}))
	mustOpen(t, reg, testMBCS)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				c, err := reg.Open(testMBCS)
				if err != nil {
					t.Errorf("Open() error: %v", err)
					return
				}
				c.Close()
			}
		}()
	}
	wg.Wait()

	if refs, _ := reg.RefCount(testMBCS); refs != 1 {
		t.Errorf("RefCount() = %d, want 1", refs)
	}
	if got := reg.Cached(); got != 1 {
		t.Errorf("Cached() = %d, want 1", got)
	}
}

func TestRegistry_ConcurrentFirstLoad(t *testing.T) {
	reg := newTestRegistry()

	var wg sync.WaitGroup
	convs := make([]*Converter, 8)
	for i := range convs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := reg.Open(testDBCS)
			if err != nil {
				t.Errorf("Open() error: %v", err)
				return
			}
			convs[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range convs {
		if c != nil && c.Descriptor() != convs[0].Descriptor() {
			t.Error("concurrent first opens should share one descriptor")
		}
	}
	if refs, _ := reg.RefCount(testDBCS); refs != len(convs) {
		t.Errorf("RefCount() = %d, want %d", refs, len(convs))
	}
	for _, c := range convs {
		c.Close()
	}
	if removed := reg.FlushCache(); removed != 1 {
		t.Errorf("FlushCache() = %d, want 1", removed)
	}
}
