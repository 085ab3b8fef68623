package appctx

import (
	"fmt"
	reflectPkg "reflect"

	"github.com/wssccc/appctx/internal/container"
	"github.com/wssccc/appctx/internal/reflect"
)

// TagKey is the struct tag consulted by Struct and BuildStruct:
// `appctx:""` injects by type, `appctx:"name"` by bean name, and
// `appctx:"name,optional"` leaves the field zero when the name is
// absent. Untagged fields are never touched.
const TagKey = "appctx"

// Struct registers a constructible type: T (a struct or pointer to
// struct) is built by resolving its tagged fields like factory
// parameters. The bean name defaults to the struct type's name.
func Struct[T any](c *ApplicationContext, opts ...BeanOption) error {
	cfg := &beanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	fields, err := reflect.StructFields[T](TagKey)
	if err != nil {
		return container.NewError(container.ErrCodeInvalidDefinition, "invalid struct bean", err)
	}

	produces := reflect.TypeOf[T]()

	name := cfg.name
	if name == "" {
		name = shortTypeName(produces)
	}

	specs := make([]container.ParameterSpec, len(fields))
	for i, f := range fields {
		if f.Named == "" {
			if f.Optional {
				return container.NewError(
					container.ErrCodeInvalidDefinition,
					fmt.Sprintf("optional field %s needs a bean name in its tag", f.Name),
					nil,
				).WithBean(name)
			}
			specs[i] = container.ParameterSpec{Kind: container.ParamPositional, Type: f.Type}
			continue
		}
		specs[i] = container.ParameterSpec{
			Kind:       container.ParamNamed,
			Name:       f.Named,
			Type:       f.Type,
			HasDefault: f.Optional,
		}
	}

	def := &container.BeanDefinition{
		Name:          name,
		Produces:      produces,
		Params:        specs,
		Construct:     buildStruct[T](fields),
		PostConstruct: cfg.postConstruct,
		PreDestroy:    cfg.preDestroy,
	}

	if err := c.internal.Registry().Register(def); err != nil {
		return err
	}

	c.observeRegister(name)
	return nil
}

func MustStruct[T any](c *ApplicationContext, opts ...BeanOption) {
	if err := Struct[T](c, opts...); err != nil {
		panic(err)
	}
}

func buildStruct[T any](fields []reflect.Field) container.ConstructFunc {
	return func(args []any) (any, error) {
		t := reflect.TypeOf[T]()
		isPtr := t.Kind() == reflectPkg.Ptr
		if isPtr {
			t = t.Elem()
		}

		structVal := reflectPkg.New(t).Elem()
		for i, f := range fields {
			if args[i] == nil {
				continue
			}
			v := reflectPkg.ValueOf(args[i])
			fieldVal := structVal.Field(f.Index)
			if !v.Type().AssignableTo(fieldVal.Type()) {
				return nil, fmt.Errorf("cannot assign %s to field %s of type %s", v.Type(), f.Name, fieldVal.Type())
			}
			fieldVal.Set(v)
		}

		if isPtr {
			ptr := reflectPkg.New(t)
			ptr.Elem().Set(structVal)
			return ptr.Interface(), nil
		}
		return structVal.Interface(), nil
	}
}

// BuildStruct fills a fresh T from the already-constructed store
// without registering anything: tagged fields resolve by type or by
// name against the refreshed context. A one-off injection utility for
// values the container should not own.
func BuildStruct[T any](c *ApplicationContext) (T, error) {
	var zero T

	fields, err := reflect.StructFields[T](TagKey)
	if err != nil {
		return zero, container.NewError(container.ErrCodeInvalidDefinition, "invalid struct target", err)
	}

	t := reflect.TypeOf[T]()
	isPtr := t.Kind() == reflectPkg.Ptr
	if isPtr {
		t = t.Elem()
	}
	if t.Kind() != reflectPkg.Struct {
		return zero, container.NewError(
			container.ErrCodeInvalidDefinition,
			fmt.Sprintf("BuildStruct needs a struct type, got %s", t.Kind()),
			nil,
		)
	}

	structVal := reflectPkg.New(t).Elem()
	for _, f := range fields {
		var value any
		var lookupErr error
		if f.Named != "" {
			value, lookupErr = c.internal.GetByName(f.Named)
		} else {
			value, lookupErr = c.internal.GetByType(f.Type)
		}
		if lookupErr != nil {
			if f.Optional {
				continue
			}
			return zero, lookupErr
		}

		v := reflectPkg.ValueOf(value)
		fieldVal := structVal.Field(f.Index)
		if !v.Type().AssignableTo(fieldVal.Type()) {
			return zero, fmt.Errorf("cannot assign %s to field %s of type %s", v.Type(), f.Name, fieldVal.Type())
		}
		fieldVal.Set(v)
	}

	if isPtr {
		ptr := reflectPkg.New(t)
		ptr.Elem().Set(structVal)
		return ptr.Interface().(T), nil
	}
	return structVal.Interface().(T), nil
}
