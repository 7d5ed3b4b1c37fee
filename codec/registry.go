// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry for codec engines by codec identifier (e.g., "pcm_s16le", "mp3", "opus").
type Registry struct {
	engines map[string]Engine

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]Engine),
		mtx:     &sync.Mutex{},
	}
}

// Register adds e under its name. Registering the same name twice fails.
func (r *Registry) Register(e Engine) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	name := strings.ToLower(e.Name())
	if _, ok := r.engines[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCodecName, name)
	}
	r.engines[name] = e
	return nil
}

func (r *Registry) Get(name string) (Engine, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	e, ok := r.engines[strings.ToLower(name)]
	return e, ok
}

// Lookup is Get returning ErrUnsupportedCodec for unknown names.
func (r *Registry) Lookup(name string) (Engine, error) {
	e, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, name)
	}
	return e, nil
}

// Names returns the registered codec identifiers, sorted.
func (r *Registry) Names() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
