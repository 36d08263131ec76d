package importer

import "context"

// Adapter decodes one source format and maps its records onto the run's
// reconciliation caches.
type Adapter interface {
	Keyword() string
	Import(ctx context.Context, ic *Context, data []byte) error
}

type Factory func() Adapter

// Registry is a literal keyword-to-factory table; no reflection, no
// dynamic loading.
type Registry struct {
	factories map[string]Factory
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

func (r *Registry) Register(keyword string, factory Factory) {
	if _, dup := r.factories[keyword]; !dup {
		r.order = append(r.order, keyword)
	}
	r.factories[keyword] = factory
}

func (r *Registry) Resolve(keyword string) (Adapter, error) {
	factory, ok := r.factories[keyword]
	if !ok {
		return nil, FormatErrorf("unknown import format: %q", keyword)
	}
	return factory(), nil
}

// Keywords lists registered formats in registration order.
func (r *Registry) Keywords() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
