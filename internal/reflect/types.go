package reflect

import (
	"reflect"
	"runtime"
	"strings"
	"sync"
)

var typeNameCache sync.Map

// TypeOf returns the reflect.Type for T, including interface types
// (reflect.TypeOf on a zero interface value yields nil, so indirect
// through a pointer).
func TypeOf[T any]() reflect.Type {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	return t
}

func TypeName[T any]() string {
	return NameOf(TypeOf[T]())
}

// NameOf renders a stable, human-readable name for a type, used in
// error messages and graph output.
func NameOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := typeNameCache.Load(t); ok {
		return cached.(string)
	}
	name := buildName(t)
	typeNameCache.Store(t, name)
	return name
}

func buildName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildName(t.Elem())
	case reflect.Slice:
		return "[]" + buildName(t.Elem())
	case reflect.Map:
		return "map[" + buildName(t.Key()) + "]" + buildName(t.Elem())
	case reflect.Chan:
		return "chan " + buildName(t.Elem())
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.String()
	}
}

// IsAny reports whether t is the empty interface. Parameters declared
// as `any` carry no usable type information for binding.
func IsAny(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface && t.NumMethod() == 0
}

// Satisfies reports whether a value of runtime type got can bind to a
// parameter or query of type want. Exact matches and interface
// satisfaction count identically.
func Satisfies(got, want reflect.Type) bool {
	if got == nil || want == nil {
		return false
	}
	if got == want {
		return true
	}
	if want.Kind() == reflect.Interface {
		return got.Implements(want)
	}
	return got.AssignableTo(want)
}

func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// FuncName derives a registration name from a factory function,
// e.g. "github.com/acme/app.NewServer" -> "NewServer". Anonymous
// functions yield names like "func1"; callers that register those
// should name them explicitly.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	pc := runtime.FuncForPC(v.Pointer())
	if pc == nil {
		return ""
	}
	name := pc.Name()
	name = strings.TrimSuffix(name, "-fm")
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[idx+1:]
	}
	return name
}
