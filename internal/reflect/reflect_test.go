package reflect

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gadget struct{ id int }

func TestTypeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, reflect.TypeOf((*gadget)(nil)), TypeOf[*gadget]())
	assert.Equal(t, reflect.TypeOf(0), TypeOf[int]())

	// Interface types are not representable with reflect.TypeOf alone.
	it := TypeOf[io.Reader]()
	require.NotNil(t, it)
	assert.Equal(t, reflect.Interface, it.Kind())
}

func TestSatisfies(t *testing.T) {
	t.Parallel()

	gadgetType := reflect.TypeOf((*gadget)(nil))
	readerType := TypeOf[io.Reader]()

	assert.True(t, Satisfies(gadgetType, gadgetType))
	assert.False(t, Satisfies(gadgetType, reflect.TypeOf(0)))
	assert.True(t, Satisfies(reflect.TypeOf(&reader{}), readerType))
	assert.False(t, Satisfies(gadgetType, readerType))
}

type reader struct{}

func (r *reader) Read([]byte) (int, error) { return 0, io.EOF }

func TestIsAny(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAny(TypeOf[any]()))
	assert.False(t, IsAny(TypeOf[io.Reader]()))
	assert.False(t, IsAny(reflect.TypeOf(0)))
}

func TestInspectFactory(t *testing.T) {
	t.Parallel()

	t.Run("plain return", func(t *testing.T) {
		t.Parallel()

		fac, err := InspectFactory(func(n int) *gadget { return &gadget{id: n} })
		require.NoError(t, err)
		assert.Equal(t, []reflect.Type{reflect.TypeOf(0)}, fac.Params)
		assert.Equal(t, reflect.TypeOf((*gadget)(nil)), fac.Produces)
		assert.False(t, fac.HasErr)
	})

	t.Run("with error return", func(t *testing.T) {
		t.Parallel()

		fac, err := InspectFactory(func() (*gadget, error) { return nil, nil })
		require.NoError(t, err)
		assert.True(t, fac.HasErr)
	})

	t.Run("rejects non-functions", func(t *testing.T) {
		t.Parallel()

		_, err := InspectFactory(42)
		assert.Error(t, err)
		_, err = InspectFactory(nil)
		assert.Error(t, err)
	})

	t.Run("rejects bad shapes", func(t *testing.T) {
		t.Parallel()

		_, err := InspectFactory(func() {})
		assert.Error(t, err)
		_, err = InspectFactory(func() error { return nil })
		assert.Error(t, err)
		_, err = InspectFactory(func() (*gadget, int) { return nil, 0 })
		assert.Error(t, err)
		_, err = InspectFactory(func(ns ...int) *gadget { return nil })
		assert.Error(t, err)
	})
}

func TestFactoryCall(t *testing.T) {
	t.Parallel()

	fac, err := InspectFactory(func(n int) (*gadget, error) {
		if n < 0 {
			return nil, errors.New("negative")
		}
		return &gadget{id: n}, nil
	})
	require.NoError(t, err)

	v, err := fac.Call([]reflect.Value{reflect.ValueOf(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, v.(*gadget).id)

	_, err = fac.Call([]reflect.Value{reflect.ValueOf(-1)})
	assert.EqualError(t, err, "negative")
}

type tagged struct {
	Store    *gadget `wire:""`
	Named    *gadget `wire:"primary"`
	Optional *gadget `wire:"cache,optional"`
	Plain    *gadget
}

func TestStructFields(t *testing.T) {
	t.Parallel()

	fields, err := StructFields[*tagged]("wire")
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, "Store", fields[0].Name)
	assert.Empty(t, fields[0].Named)
	assert.False(t, fields[0].Optional)

	assert.Equal(t, "primary", fields[1].Named)

	assert.Equal(t, "cache", fields[2].Named)
	assert.True(t, fields[2].Optional)
}

func TestStructFieldsRejectsUnexported(t *testing.T) {
	t.Parallel()

	_, err := StructFields[*hidden]("wire")
	assert.Error(t, err)
}

type hidden struct {
	store *gadget `wire:""`
}

func (h *hidden) use() *gadget { return h.store }

func TestStructFieldsRejectsNonStruct(t *testing.T) {
	t.Parallel()

	_, err := StructFields[int]("wire")
	assert.Error(t, err)
}

type hooked struct {
	pinged bool
}

func (h *hooked) Ping()             { h.pinged = true }
func (h *hooked) Fail() error       { return errors.New("fail hook") }
func (h *hooked) TooMany(int) error { return nil }

func TestCallMethod(t *testing.T) {
	t.Parallel()

	h := &hooked{}
	require.NoError(t, CallMethod(h, "Ping"))
	assert.True(t, h.pinged)

	assert.EqualError(t, CallMethod(h, "Fail"), "fail hook")
	assert.Error(t, CallMethod(h, "TooMany"))
	assert.Error(t, CallMethod(h, "Missing"))
	assert.Error(t, CallMethod(nil, "Ping"))
}

func TestFuncName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "namedFactory", FuncName(namedFactory))
	assert.NotEmpty(t, FuncName(func() {}))
}

func namedFactory() *gadget { return nil }

func TestNameOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "int", NameOf(reflect.TypeOf(0)))
	assert.Contains(t, NameOf(reflect.TypeOf((*gadget)(nil))), "gadget")
	assert.Equal(t, "<nil>", NameOf(nil))
}
