package appctx

import "github.com/wssccc/appctx/internal/container"

// Module groups related bean registrations so a composition root can
// assemble a context from named building blocks. Modules register
// nothing until applied.
type Module struct {
	name          string
	registrations []func(c *ApplicationContext) error
	submodules    []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

// Include nests another module; its registrations apply first.
func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *Module) apply(c *ApplicationContext) error {
	for _, sub := range m.submodules {
		if err := sub.apply(c); err != nil {
			return err
		}
	}
	for _, register := range m.registrations {
		if err := register(c); err != nil {
			return err
		}
	}
	return nil
}

// Apply registers every module's beans into the context, in order.
func (c *ApplicationContext) Apply(modules ...*Module) error {
	for _, m := range modules {
		if err := m.apply(c); err != nil {
			return container.NewError(
				container.ErrCodeInvalidDefinition,
				"failed to apply module "+m.name,
				err,
			)
		}
	}
	return nil
}

func ModuleBean[T any](m *Module, factory any, opts ...BeanOption) *Module {
	m.registrations = append(m.registrations, func(c *ApplicationContext) error {
		return Bean[T](c, factory, opts...)
	})
	return m
}

func ModuleValue[T any](m *Module, value T, opts ...BeanOption) *Module {
	m.registrations = append(m.registrations, func(c *ApplicationContext) error {
		return Value(c, value, opts...)
	})
	return m
}

func ModuleStruct[T any](m *Module, opts ...BeanOption) *Module {
	m.registrations = append(m.registrations, func(c *ApplicationContext) error {
		return Struct[T](c, opts...)
	})
	return m
}
