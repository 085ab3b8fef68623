package reflect

import (
	"fmt"
	"reflect"
	"strings"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Factory is the inspected shape of a registered factory function:
// positional parameter types plus the produced type, with an optional
// trailing error return.
type Factory struct {
	Fn       reflect.Value
	Params   []reflect.Type
	Produces reflect.Type
	HasErr   bool
}

// InspectFactory validates fn as a factory and extracts its signature.
// Accepted shapes: func(deps...) T and func(deps...) (T, error).
func InspectFactory(fn any) (*Factory, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("factory must be a function, got %T", fn)
	}

	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("variadic factories are not supported; declare a trailing map[string]any parameter instead")
	}

	switch t.NumOut() {
	case 1:
		if t.Out(0) == errType {
			return nil, fmt.Errorf("factory must produce a value, not just an error")
		}
	case 2:
		if t.Out(1) != errType {
			return nil, fmt.Errorf("factory's second return value must be error, got %s", t.Out(1))
		}
	default:
		return nil, fmt.Errorf("factory must return T or (T, error), got %d return values", t.NumOut())
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	return &Factory{
		Fn:       v,
		Params:   params,
		Produces: t.Out(0),
		HasErr:   t.NumOut() == 2,
	}, nil
}

// Call invokes the factory with already-bound arguments. The caller is
// responsible for panic recovery.
func (f *Factory) Call(args []reflect.Value) (any, error) {
	results := f.Fn.Call(args)
	if f.HasErr && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// Field describes one injectable struct field.
type Field struct {
	Name     string
	Index    int
	Type     reflect.Type
	Named    string
	Optional bool
}

// StructFields lists the fields of T carrying the given tag. Untagged
// fields are never injected.
func StructFields[T any](tag string) ([]Field, error) {
	t := TypeOf[T]()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct type, got %s", t.Kind())
	}

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		value, ok := sf.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if !sf.IsExported() {
			return nil, fmt.Errorf("cannot inject unexported field %s.%s", t.Name(), sf.Name)
		}

		field := Field{
			Name:  sf.Name,
			Index: i,
			Type:  sf.Type,
		}

		parts := strings.Split(value, ",")
		field.Named = parts[0]
		for _, opt := range parts[1:] {
			if opt == "optional" {
				field.Optional = true
			}
		}

		fields = append(fields, field)
	}

	return fields, nil
}

// CallMethod invokes a zero-argument method by name on instance.
// Accepted shapes: func() and func() error. The caller is responsible
// for panic recovery.
func CallMethod(instance any, name string) error {
	v := reflect.ValueOf(instance)
	if !v.IsValid() {
		return fmt.Errorf("cannot call %s on nil instance", name)
	}

	method := v.MethodByName(name)
	if !method.IsValid() {
		return fmt.Errorf("no method %s on %s", name, NameOf(v.Type()))
	}

	t := method.Type()
	if t.NumIn() != 0 {
		return fmt.Errorf("method %s on %s must take no arguments", name, NameOf(v.Type()))
	}

	switch t.NumOut() {
	case 0:
		method.Call(nil)
		return nil
	case 1:
		if t.Out(0) != errType {
			return fmt.Errorf("method %s on %s must return nothing or error", name, NameOf(v.Type()))
		}
		results := method.Call(nil)
		if !results[0].IsNil() {
			return results[0].Interface().(error)
		}
		return nil
	default:
		return fmt.Errorf("method %s on %s must return nothing or error", name, NameOf(v.Type()))
	}
}
