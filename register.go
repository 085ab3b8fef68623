package appctx

import (
	"fmt"
	reflectPkg "reflect"

	"github.com/wssccc/appctx/internal/container"
	"github.com/wssccc/appctx/internal/reflect"
)

type BeanOption func(*beanConfig)

type beanConfig struct {
	name          string
	params        []Param
	postConstruct []string
	preDestroy    []string
}

// Named overrides the bean name, which otherwise defaults to the
// factory's function name (or the produced type's name for values and
// structs).
func Named(name string) BeanOption {
	return func(cfg *beanConfig) {
		cfg.name = name
	}
}

// Params supplies explicit binding specs, one per factory parameter,
// in order.
func Params(params ...Param) BeanOption {
	return func(cfg *beanConfig) {
		cfg.params = params
	}
}

// PostConstruct declares hook method names invoked on the instance
// after the whole registry has been built, in the given order. Methods
// must take no arguments and return nothing or error.
func PostConstruct(methods ...string) BeanOption {
	return func(cfg *beanConfig) {
		cfg.postConstruct = append(cfg.postConstruct, methods...)
	}
}

// PreDestroy declares hook method names invoked by Close, same method
// shape as PostConstruct.
func PreDestroy(methods ...string) BeanOption {
	return func(cfg *beanConfig) {
		cfg.preDestroy = append(cfg.preDestroy, methods...)
	}
}

// Bean registers a factory. Accepted shapes: func(deps...) T and
// func(deps...) (T, error). Parameter types are read from the
// signature; every parameter binds by type unless Params overrides it.
func Bean[T any](c *ApplicationContext, factory any, opts ...BeanOption) error {
	cfg := &beanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	fac, err := reflect.InspectFactory(factory)
	if err != nil {
		return container.NewError(container.ErrCodeInvalidDefinition, "invalid factory", err)
	}

	expected := reflect.TypeOf[T]()
	if !reflect.Satisfies(fac.Produces, expected) {
		return container.NewError(
			container.ErrCodeInvalidDefinition,
			fmt.Sprintf("factory returns %s, expected %s", reflect.NameOf(fac.Produces), reflect.NameOf(expected)),
			nil,
		)
	}

	name := cfg.name
	if name == "" {
		name = reflect.FuncName(factory)
	}

	specs, err := paramSpecs(fac, cfg.params, name)
	if err != nil {
		return err
	}

	def := &container.BeanDefinition{
		Name:          name,
		Produces:      fac.Produces,
		Params:        specs,
		Construct:     adaptFactory(fac),
		PostConstruct: cfg.postConstruct,
		PreDestroy:    cfg.preDestroy,
	}

	if err := c.internal.Registry().Register(def); err != nil {
		return err
	}

	c.observeRegister(name)
	return nil
}

func MustBean[T any](c *ApplicationContext, factory any, opts ...BeanOption) {
	if err := Bean[T](c, factory, opts...); err != nil {
		panic(err)
	}
}

// Value registers a pre-built singleton. Its name defaults to the
// value's type name.
func Value[T any](c *ApplicationContext, value T, opts ...BeanOption) error {
	cfg := &beanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	produces := reflectPkg.TypeOf(value)
	if produces == nil {
		produces = reflect.TypeOf[T]()
	}

	name := cfg.name
	if name == "" {
		name = shortTypeName(produces)
	}

	def := &container.BeanDefinition{
		Name:     name,
		Produces: produces,
		Construct: func([]any) (any, error) {
			return value, nil
		},
		PostConstruct: cfg.postConstruct,
		PreDestroy:    cfg.preDestroy,
	}

	if err := c.internal.Registry().Register(def); err != nil {
		return err
	}

	c.observeRegister(name)
	return nil
}

func MustValue[T any](c *ApplicationContext, value T, opts ...BeanOption) {
	if err := Value(c, value, opts...); err != nil {
		panic(err)
	}
}

var restMapType = reflectPkg.TypeOf(map[string]any(nil))

func paramSpecs(fac *reflect.Factory, params []Param, bean string) ([]container.ParameterSpec, error) {
	if len(params) == 0 {
		specs := make([]container.ParameterSpec, len(fac.Params))
		for i, t := range fac.Params {
			if i == len(fac.Params)-1 && t == restMapType {
				specs[i] = container.ParameterSpec{Kind: container.ParamCatchAll, Type: t}
				continue
			}
			specs[i] = container.ParameterSpec{Kind: container.ParamPositional, Type: t}
		}
		return specs, nil
	}

	if len(params) != len(fac.Params) {
		return nil, container.NewError(
			container.ErrCodeInvalidDefinition,
			fmt.Sprintf("Params lists %d spec(s) but the factory takes %d parameter(s)", len(params), len(fac.Params)),
			nil,
		).WithBean(bean)
	}

	specs := make([]container.ParameterSpec, len(params))
	for i, p := range params {
		t := fac.Params[i]
		switch p.kind {
		case container.ParamPositional:
			specs[i] = container.ParameterSpec{Kind: container.ParamPositional, Type: t}

		case container.ParamNamed:
			if p.hasDefault && p.defValue != nil && !reflectPkg.TypeOf(p.defValue).AssignableTo(t) {
				return nil, container.NewError(
					container.ErrCodeInvalidDefinition,
					fmt.Sprintf("default for parameter %q has type %T, want %s", p.name, p.defValue, t),
					nil,
				).WithBean(bean)
			}
			specs[i] = container.ParameterSpec{
				Kind:       container.ParamNamed,
				Name:       p.name,
				Type:       t,
				HasDefault: p.hasDefault,
				Default:    p.defValue,
			}

		case container.ParamCatchAll:
			if t != restMapType {
				return nil, container.NewError(
					container.ErrCodeInvalidDefinition,
					fmt.Sprintf("catch-all parameter %d must be map[string]any, got %s", i, t),
					nil,
				).WithBean(bean)
			}
			specs[i] = container.ParameterSpec{Kind: container.ParamCatchAll, Type: t}
		}
	}
	return specs, nil
}

// adaptFactory bridges resolved arguments to a reflective call. A nil
// argument (a named parameter's absent default) becomes the zero value
// of the parameter type.
func adaptFactory(fac *reflect.Factory) container.ConstructFunc {
	return func(args []any) (any, error) {
		in := make([]reflectPkg.Value, len(args))
		for i, arg := range args {
			pt := fac.Params[i]
			if arg == nil {
				in[i] = reflectPkg.Zero(pt)
				continue
			}
			v := reflectPkg.ValueOf(arg)
			if !v.Type().AssignableTo(pt) {
				return nil, fmt.Errorf("argument %d has type %s, want %s", i, v.Type(), pt)
			}
			in[i] = v
		}
		return fac.Call(in)
	}
}

func shortTypeName(t reflectPkg.Type) string {
	for t.Kind() == reflectPkg.Ptr {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
