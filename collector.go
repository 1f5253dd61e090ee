package goschema

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/reoring/goschema/internal/mro"
)

// fieldTable is an insertion-ordered name -> Field map. Set on an existing key
// replaces the value and keeps the original position.
type fieldTable = orderedmap.OrderedMap[string, Field]

// CollectDeclaredFields computes the declared-field table of t.
//
// Ancestors are visited from the most distant to the nearest (reverse C3
// order, t itself excluded), each contributing its own declared table; t's
// own declarations are merged last. A name keeps the position of its first
// declaration; a later declaration of the same name only replaces the field.
func CollectDeclaredFields(t *SchemaType) (*fieldTable, error) {
	order, err := mro.Linearize(t, func(n *SchemaType) []*SchemaType { return n.bases })
	if err != nil {
		return nil, &Error{Kind: CodeInvalidSchema, Detail: fmt.Sprintf("schema %s: %v", t.name, err), Cause: err}
	}
	out := orderedmap.New[string, Field]()
	for i := len(order) - 1; i >= 1; i-- {
		base := order[i]
		if base.declared == nil {
			return nil, Errorf(CodeInvalidSchema, fmt.Sprintf("schema %s: base %s is not defined", t.name, base.name))
		}
		for p := base.declared.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, p.Value)
		}
	}
	for _, d := range t.own {
		out.Set(d.Name, d.Field)
	}
	return out, nil
}
