package appctx

import (
	"fmt"

	"github.com/wssccc/appctx/internal/container"
	"github.com/wssccc/appctx/internal/reflect"
)

// BeanOf returns the unique constructed bean matching type T, exact or
// subtype. More than one match is an ambiguity error, none is not
// found.
func BeanOf[T any](c *ApplicationContext) (T, error) {
	var zero T

	value, err := c.internal.GetByType(reflect.TypeOf[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, container.NewError(
			container.ErrCodeNotFound,
			fmt.Sprintf("bean does not implement %s", reflect.TypeName[T]()),
			nil,
		)
	}
	return typed, nil
}

func MustBeanOf[T any](c *ApplicationContext) T {
	v, err := BeanOf[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// NamedBeanOf returns the bean registered under name, asserted to T.
func NamedBeanOf[T any](c *ApplicationContext, name string) (T, error) {
	var zero T

	value, err := c.internal.GetByName(name)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, container.NewError(
			container.ErrCodeNotFound,
			fmt.Sprintf("bean %q is not a %s", name, reflect.TypeName[T]()),
			nil,
		).WithBean(name)
	}
	return typed, nil
}

func MustNamedBeanOf[T any](c *ApplicationContext, name string) T {
	v, err := NamedBeanOf[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}

// BeansOf returns every constructed bean matching type T,
// subtype-inclusive; empty if none.
func BeansOf[T any](c *ApplicationContext) []T {
	values := c.internal.GetAllByType(reflect.TypeOf[T]())

	typed := make([]T, 0, len(values))
	for _, v := range values {
		if t, ok := v.(T); ok {
			typed = append(typed, t)
		}
	}
	return typed
}

// Has reports whether exactly one constructed bean matches type T.
func Has[T any](c *ApplicationContext) bool {
	_, err := c.internal.GetByType(reflect.TypeOf[T]())
	return err == nil
}

func HasNamed(c *ApplicationContext, name string) bool {
	return c.internal.HasInstance(name)
}
