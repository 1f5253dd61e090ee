package goschema

import (
	"sort"
	"strings"
	"sync"
)

// Registry maps simple and fully-qualified schema names to schema types. It is
// what lets a Nested field name a schema that is defined later, or one that
// refers back to the schema holding the field.
//
// Layout:
//
//	"User"             -> [users.User, admin.User]   (ambiguous until qualified)
//	"app/users.User"   -> [users.User]
//	"app/admin.User"   -> [admin.User]
type Registry struct {
	mu     sync.RWMutex
	byName map[string][]*SchemaType
	byFull map[string][]*SchemaType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: map[string][]*SchemaType{},
		byFull: map[string][]*SchemaType{},
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by Define unless
// WithRegistry is given. It starts empty and only grows.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register records t under name and under t's fully-qualified name.
//
// Under the simple name, a type from a package not yet present is appended
// (the name becomes ambiguous), while a type from a package already present
// replaces that package's entry. Under the fully-qualified name the entry is
// always replaced, so redefining a type takes effect.
func (r *Registry) Register(name string, t *SchemaType) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// copy-on-write: resolvers read the old slice without holding the lock
	entries := append([]*SchemaType(nil), r.byName[name]...)
	replaced := false
	for i, e := range entries {
		if e.pkg == t.pkg {
			entries[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, t)
	}
	r.byName[name] = entries

	_, redefined := r.byFull[t.fullName]
	r.byFull[t.fullName] = []*SchemaType{t}

	switch {
	case redefined:
		logger().Debug().Str("name", name).Str("fqn", t.fullName).Msg("schema type redefined")
	case !replaced && len(entries) > 1:
		logger().Warn().Str("name", name).Int("candidates", len(entries)).Msg("schema name is now ambiguous; use the fully-qualified name")
	default:
		logger().Debug().Str("name", name).Str("fqn", t.fullName).Msg("schema type registered")
	}
}

// Resolve returns the single type registered under name, which may be simple
// or fully-qualified. It fails with a not_found error when nothing is
// registered and with an ambiguous_name error when a simple name has more
// than one candidate.
func (r *Registry) Resolve(name string) (*SchemaType, error) {
	r.mu.RLock()
	entries, ok := r.byName[name]
	if !ok {
		entries, ok = r.byFull[name]
	}
	r.mu.RUnlock()

	if !ok || len(entries) == 0 {
		logger().Debug().Str("name", name).Msg("schema type not found")
		return nil, NewError(CodeNotFound, map[string]any{"name": name})
	}
	if len(entries) > 1 {
		cands := make([]string, len(entries))
		for i, e := range entries {
			cands[i] = e.fullName
		}
		logger().Warn().Str("name", name).Strs("candidates", cands).Msg("ambiguous schema name")
		return nil, NewError(CodeAmbiguousName, map[string]any{"name": name, "candidates": strings.Join(cands, ", ")})
	}
	return entries[0], nil
}

// Names returns every registered key (simple and fully-qualified) in sorted
// order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(r.byName)+len(r.byFull))
	for k := range r.byName {
		seen[k] = struct{}{}
	}
	for k := range r.byFull {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Resolve looks name up in the default registry.
func Resolve(name string) (*SchemaType, error) { return defaultRegistry.Resolve(name) }
