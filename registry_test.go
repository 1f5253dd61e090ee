package goschema_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/fields"
)

func defineIn(t *testing.T, reg *goschema.Registry, pkg, name string, decls ...goschema.Decl) *goschema.SchemaType {
	t.Helper()
	st, err := goschema.Define(name, decls, goschema.WithRegistry(reg), goschema.InPackage(pkg))
	require.NoError(t, err)
	return st
}

func TestRegistry_AmbiguousSimpleName(t *testing.T) {
	reg := goschema.NewRegistry()
	users := defineIn(t, reg, "app/users", "User", goschema.F("id", fields.Integer()))
	admins := defineIn(t, reg, "app/admin", "User", goschema.F("id", fields.Integer()))

	_, err := reg.Resolve("User")
	require.Error(t, err)
	assert.True(t, errors.Is(err, goschema.ErrAmbiguousName))
	assert.True(t, goschema.IsConfigError(err))
	assert.Contains(t, err.Error(), "app/users.User")
	assert.Contains(t, err.Error(), "app/admin.User")

	got, err := reg.Resolve("app/users.User")
	require.NoError(t, err)
	assert.Same(t, users, got)
	got, err = reg.Resolve("app/admin.User")
	require.NoError(t, err)
	assert.Same(t, admins, got)
}

func TestRegistry_NotFound(t *testing.T) {
	reg := goschema.NewRegistry()
	_, err := reg.Resolve("Nope")
	assert.True(t, errors.Is(err, goschema.ErrNotFound))
	assert.True(t, goschema.IsConfigError(err))
	assert.Equal(t, "schema Nope was not found", err.Error())
}

// A second definition in the same package wins under both names rather than
// keeping the first one, so reloaded definition files take effect. The simple
// name still holds a single entry and does not become ambiguous.
func TestRegistry_RedefinitionReplaces(t *testing.T) {
	reg := goschema.NewRegistry()
	first := defineIn(t, reg, "app/users", "User", goschema.F("id", fields.Integer()))
	second := defineIn(t, reg, "app/users", "User", goschema.F("id", fields.String()))
	require.NotSame(t, first, second)

	got, err := reg.Resolve("User")
	require.NoError(t, err)
	assert.Same(t, second, got)
	got, err = reg.Resolve("app/users.User")
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, []string{"User", "app/users.User"}, reg.Names())
}

func TestRegistry_Names(t *testing.T) {
	reg := goschema.NewRegistry()
	defineIn(t, reg, "p", "B")
	defineIn(t, reg, "p", "A")
	assert.Equal(t, []string{"A", "B", "p.A", "p.B"}, reg.Names())
}

func TestRegistry_Unregistered(t *testing.T) {
	reg := goschema.NewRegistry()
	_, err := goschema.Define("Hidden", nil, goschema.WithRegistry(reg), goschema.Unregistered())
	require.NoError(t, err)
	_, err = reg.Resolve("Hidden")
	assert.True(t, errors.Is(err, goschema.ErrNotFound))
}

func TestDefine_InvalidName(t *testing.T) {
	for _, name := range []string{"", "a.b"} {
		_, err := goschema.Define(name, nil, goschema.Unregistered())
		assert.True(t, errors.Is(err, goschema.ErrInvalidSchema), name)
	}
	_, err := goschema.Define("X", []goschema.Decl{{Name: "f"}}, goschema.Unregistered())
	assert.True(t, errors.Is(err, goschema.ErrInvalidSchema))
}

func TestDefine_CallerPackage(t *testing.T) {
	st := goschema.MustDefine("CallerPkg", nil, goschema.WithRegistry(goschema.NewRegistry()))
	assert.Equal(t, "github.com/reoring/goschema_test", st.Package())
	assert.Equal(t, "github.com/reoring/goschema_test.CallerPkg", st.FullName())
}

func TestDefaultRegistry(t *testing.T) {
	st := goschema.MustDefine("DefaultRegistryProbe", []goschema.Decl{goschema.F("v", fields.Integer())})
	got, err := goschema.Resolve("DefaultRegistryProbe")
	require.NoError(t, err)
	assert.Same(t, st, got)
	assert.Same(t, goschema.DefaultRegistry(), st.Registry())
}

func TestNested_ForwardReference(t *testing.T) {
	reg := goschema.NewRegistry()
	// Author refers to Book before Book exists.
	author := defineIn(t, reg, "lib", "Author",
		goschema.F("name", fields.String(fields.Required())),
		goschema.F("books", fields.Nested("Book", fields.Many())),
	)
	s := author.New()

	_, err := s.Load(context.Background(), map[string]any{"name": "a", "books": []any{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, goschema.ErrNotFound))
	assert.Equal(t, "books: schema Book was not found", err.Error())

	defineIn(t, reg, "lib", "Book",
		goschema.F("title", fields.String(fields.Required())),
		goschema.F("author", fields.Nested("Author")),
	)
	out, err := s.Load(context.Background(), map[string]any{
		"name": "a",
		"books": []any{
			map[string]any{"title": "t1", "author": map[string]any{"name": "b"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name": "a",
		"books": []any{
			map[string]any{"title": "t1", "author": map[string]any{"name": "b"}},
		},
	}, out)

	_, err = s.Load(context.Background(), map[string]any{
		"name":  "a",
		"books": []any{map[string]any{"title": "t1"}, map[string]any{"author": map[string]any{}}},
	})
	require.Error(t, err)
	assert.Equal(t, "books[2].title: required property missing", err.Error())
}

func TestNested_SelfReference(t *testing.T) {
	reg := goschema.NewRegistry()
	node := defineIn(t, reg, "tree", "Node",
		goschema.F("v", fields.Integer(fields.Required())),
		goschema.F("next", fields.Nested("Node")),
	)
	_, err := node.New().Load(context.Background(), map[string]any{
		"v": 1, "next": map[string]any{"v": 2, "next": map[string]any{"next": map[string]any{}}},
	})
	require.Error(t, err)
	assert.Equal(t, "next.next.v: required property missing", err.Error())
}

func TestNested_AmbiguousIsFatal(t *testing.T) {
	reg := goschema.NewRegistry()
	defineIn(t, reg, "a", "Dup")
	defineIn(t, reg, "b", "Dup")
	holder := defineIn(t, reg, "c", "Holder", goschema.F("d", fields.Nested("Dup")))
	_, err := holder.New().Load(context.Background(), map[string]any{"d": map[string]any{}})
	assert.True(t, errors.Is(err, goschema.ErrAmbiguousName))

	qualified := defineIn(t, reg, "c", "Holder2", goschema.F("d", fields.Nested("a.Dup")))
	_, err = qualified.New().Load(context.Background(), map[string]any{"d": map[string]any{}})
	assert.NoError(t, err)
}

func TestRegistry_ConcurrentRegisterResolve(t *testing.T) {
	reg := goschema.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := goschema.Define(fmt.Sprintf("T%d", i), nil, goschema.WithRegistry(reg), goschema.InPackage("conc"))
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = reg.Resolve(fmt.Sprintf("T%d", i))
		}(i)
	}
	wg.Wait()
	for i := 0; i < 20; i++ {
		_, err := reg.Resolve(fmt.Sprintf("conc.T%d", i))
		assert.NoError(t, err)
	}
}
