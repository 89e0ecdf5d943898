package cnv

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// Registry caches codec descriptors by canonical name and opens converters.
// Descriptors are shared by every converter of their codec and stay cached
// until FlushCache finds them unreferenced.
type Registry struct {
	loader   Loader
	resolver Resolver
	namer    DisplayNamer
	metrics  *Metrics

	mu          sync.Mutex
	descriptors map[string]*Descriptor
	defaultName string

	namesOnce sync.Once
	names     []string
}

// NewRegistry creates a registry that loads descriptors with loader.
func NewRegistry(loader Loader, opts ...Option) *Registry {
	r := &Registry{
		loader:      loader,
		descriptors: make(map[string]*Descriptor),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open returns a new converter for the named codec. The name may be an alias;
// an empty name opens the default codec.
func (r *Registry) Open(name string) (*Converter, error) {
	return r.open(context.Background(), name)
}

// OpenCCSID opens the codec registered for a vendor code page number, such as
// ibm-437.
func (r *Registry) OpenCCSID(codepage int, platform Platform) (*Converter, error) {
	if platform == PlatformUnknown || codepage <= 0 {
		return nil, newRegistryError(ErrIllegalArgument, "open", fmt.Sprintf("%s-%d", platform, codepage), nil)
	}
	return r.Open(fmt.Sprintf("%s-%d", platform, codepage))
}

func (r *Registry) open(ctx context.Context, name string) (*Converter, error) {
	if name == "" {
		name = r.DefaultName()
	}
	if name == "" {
		return nil, newRegistryError(ErrIllegalArgument, "open", "", errors.New("no default codec"))
	}
	canonical, err := r.resolve(name)
	if err != nil {
		return nil, err
	}

	desc, refs, err := r.acquire(ctx, canonical)
	if err != nil {
		return nil, err
	}

	r.metrics.opened(canonical)
	emitConverterOpened(ctx, canonical, refs)
	return newConverter(r, desc), nil
}

func (r *Registry) resolve(name string) (string, error) {
	if r.resolver == nil {
		return name, nil
	}
	canonical, ok := r.resolver.Resolve(name)
	if !ok {
		return "", newRegistryError(ErrNotFound, "open", name, nil)
	}
	return canonical, nil
}

// acquire returns the cached descriptor for name with one more reference,
// loading it on first use.
func (r *Registry) acquire(ctx context.Context, name string) (*Descriptor, int, error) {
	// Fast path: cached descriptor
	r.mu.Lock()
	if d, ok := r.descriptors[name]; ok {
		d.refs++
		refs := d.refs
		r.mu.Unlock()
		return d, refs, nil
	}
	r.mu.Unlock()

	// Slow path: load outside the lock, then publish
	if r.loader == nil {
		return nil, 0, newRegistryError(ErrNotFound, "load", name, errors.New("no loader"))
	}
	loaded, err := r.loader.Load(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, 0, newRegistryError(ErrNotFound, "load", name, err)
		}
		return nil, 0, newRegistryError(ErrFatal, "load", name, err)
	}
	if loaded == nil {
		return nil, 0, newRegistryError(ErrFatal, "load", name, errors.New("loader returned no descriptor"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check pattern
	if d, ok := r.descriptors[name]; ok {
		d.refs++
		return d, d.refs, nil
	}

	loaded.refs = 1
	r.descriptors[name] = loaded
	r.metrics.cached(len(r.descriptors))
	emitDescriptorLoaded(ctx, name, loaded.family.String())
	return loaded, 1, nil
}

// release drops one reference to d.
func (r *Registry) release(d *Descriptor) {
	r.mu.Lock()
	if d.refs > 0 {
		d.refs--
	}
	refs := d.refs
	r.mu.Unlock()

	r.metrics.closed(d.name)
	emitConverterClosed(context.Background(), d.name, refs)
}

// Close closes c. It is equivalent to c.Close().
func (r *Registry) Close(c *Converter) {
	c.Close()
}

// FlushCache evicts every descriptor no converter references and returns how
// many were evicted.
func (r *Registry) FlushCache() int {
	r.mu.Lock()
	removed := 0
	for name, d := range r.descriptors {
		if d.refs == 0 {
			delete(r.descriptors, name)
			removed++
		}
	}
	cached := len(r.descriptors)
	r.mu.Unlock()

	r.metrics.evicted(removed)
	r.metrics.cached(cached)
	emitCacheFlushed(context.Background(), removed, cached)
	return removed
}

// RefCount returns the number of open converters of a cached codec. The name may
// be an alias.
func (r *Registry) RefCount(name string) (int, bool) {
	canonical, err := r.resolve(name)
	if err != nil {
		return 0, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.descriptors[canonical]
	if !ok {
		return 0, false
	}
	return d.refs, true
}

// Cached returns the number of cached descriptors.
func (r *Registry) Cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.descriptors)
}

// CountAvailable returns the number of codecs the registry can open.
func (r *Registry) CountAvailable() int {
	return len(r.available())
}

// NameAt returns the canonical name of the i-th available codec.
func (r *Registry) NameAt(i int) (string, error) {
	names := r.available()
	if i < 0 || i >= len(names) {
		return "", newRegistryError(ErrNotFound, "name", strconv.Itoa(i), nil)
	}
	return names[i], nil
}

func (r *Registry) available() []string {
	r.namesOnce.Do(func() {
		if r.resolver != nil {
			r.names = r.resolver.Names()
		}
	})
	return r.names
}

// DefaultName returns the codec opened for an empty name.
func (r *Registry) DefaultName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defaultName
}

// SetDefaultName changes the codec opened for an empty name.
func (r *Registry) SetDefaultName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultName = name
}
