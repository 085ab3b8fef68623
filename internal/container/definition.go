package container

import (
	"fmt"
	"reflect"
)

// ParamKind selects the binding strategy for one factory parameter.
type ParamKind int

const (
	// ParamPositional binds by declared type: exactly one definition in
	// the registry must produce a matching type.
	ParamPositional ParamKind = iota

	// ParamNamed binds the bean registered under the parameter's name,
	// falling back to a declared default when the name is absent.
	ParamNamed

	// ParamCatchAll binds every remaining bean not consumed by another
	// parameter of the same factory, keyed by bean name. The Go
	// parameter must be a map[string]any in last position.
	ParamCatchAll
)

func (k ParamKind) String() string {
	switch k {
	case ParamPositional:
		return "positional"
	case ParamNamed:
		return "named"
	case ParamCatchAll:
		return "catch-all"
	default:
		return "unknown"
	}
}

// ParameterSpec describes how one factory argument is resolved.
type ParameterSpec struct {
	Kind       ParamKind
	Name       string       // bean name, for ParamNamed
	Type       reflect.Type // declared Go type of the parameter
	HasDefault bool
	Default    any
}

// ConstructFunc produces the bean value from resolved arguments, one
// per ParameterSpec. A catch-all argument arrives as map[string]any.
type ConstructFunc func(args []any) (any, error)

// BeanDefinition is the declarative recipe for one bean: a named
// factory plus its dependency signature and lifecycle hook names.
type BeanDefinition struct {
	Name      string
	Produces  reflect.Type // static produced type; nil when not knowable
	Params    []ParameterSpec
	Construct ConstructFunc

	// Hook method names invoked on the instance, in declaration order.
	PostConstruct []string
	PreDestroy    []string
}

// Validate checks the structural well-formedness of the definition
// before it enters the registry.
func (d *BeanDefinition) Validate() error {
	if d.Name == "" {
		return NewError(ErrCodeInvalidDefinition, "bean name must not be empty", nil)
	}
	if d.Construct == nil {
		return NewError(ErrCodeInvalidDefinition, "bean has no construct function", nil).WithBean(d.Name)
	}

	for i, p := range d.Params {
		switch p.Kind {
		case ParamNamed:
			if p.Name == "" {
				return NewError(
					ErrCodeInvalidDefinition,
					fmt.Sprintf("parameter %d binds by name but has no name", i),
					nil,
				).WithBean(d.Name)
			}
		case ParamCatchAll:
			if i != len(d.Params)-1 {
				return NewError(
					ErrCodeInvalidDefinition,
					"catch-all parameter must be last",
					nil,
				).WithBean(d.Name)
			}
		}
	}

	return nil
}
