package appctx

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/wssccc/appctx/internal/container"
)

// ApplicationContext is a Spring-style dependency injection container:
// it accepts declarative bean definitions, resolves their dependencies
// by type and by name during Refresh, and exposes the constructed
// singletons for lookup.
//
// The context is single-threaded during registration and Refresh.
// Lookups are read-only afterwards and safe for concurrent readers;
// registering or refreshing concurrently with anything else is
// undefined behavior and the caller's responsibility to avoid.
type ApplicationContext struct {
	internal *container.Engine
	config   *contextConfig
}

type contextConfig struct {
	logger     *slog.Logger
	onResolve  []ResolveObserver
	onRefresh  []RefreshObserver
	onRegister []RegisterObserver
}

// New creates an empty application context.
func New(opts ...Option) *ApplicationContext {
	cfg := &contextConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	internal := container.New(
		&container.Config{
			Logger:           cfg.logger,
			ResolveObservers: cfg.onResolve,
			RefreshObservers: cfg.onRefresh,
		},
	)

	return &ApplicationContext{
		internal: internal,
		config:   cfg,
	}
}

var (
	defaultCtx  *ApplicationContext
	defaultOnce sync.Once
)

// Default returns the process-wide convenience context, created on
// first use. Meant for an application's top-level composition point
// only; libraries should accept an explicit *ApplicationContext.
func Default() *ApplicationContext {
	defaultOnce.Do(func() {
		defaultCtx = New()
	})
	return defaultCtx
}

// Refresh drains the registered definitions through the resolution
// engine: every bean is constructed in registration order with its
// transitive dependencies built first, then post-construct hooks run
// in a second pass. It reports the complete set of per-bean failures
// as a *RefreshError; beans that failed are absent from the store
// while resolved siblings remain retrievable.
//
// Calling Refresh again rebuilds everything from scratch — the outcome
// is the same for an unchanged registry, but instances are replaced.
func (c *ApplicationContext) Refresh() error {
	return c.internal.Refresh()
}

// Close runs pre-destroy hooks over constructed beans in reverse
// registration order, collecting hook failures rather than stopping.
func (c *ApplicationContext) Close(ctx context.Context) error {
	return c.internal.Close(ctx)
}

// Validate checks the registered definitions for missing, ambiguous,
// and circular references without constructing anything, reporting
// every problem found.
func (c *ApplicationContext) Validate() error {
	return c.internal.Validate()
}

// GetBean looks up a constructed bean. The key is either a bean name
// (string) or a reflect.Type; type lookup counts exact and subtype
// matches identically and fails when more than one bean matches.
func (c *ApplicationContext) GetBean(key any) (any, error) {
	switch k := key.(type) {
	case string:
		return c.internal.GetByName(k)
	case reflect.Type:
		return c.internal.GetByType(k)
	default:
		return nil, container.NewError(
			container.ErrCodeNotFound,
			"bean key must be a name (string) or a reflect.Type",
			nil,
		)
	}
}

// GetBeans returns all constructed beans whose runtime type matches t,
// subtype-inclusive. An empty result is not an error.
func (c *ApplicationContext) GetBeans(t reflect.Type) []any {
	return c.internal.GetAllByType(t)
}

// BeanNames returns the registered bean names in registration order,
// constructed or not.
func (c *ApplicationContext) BeanNames() []string {
	return c.internal.Registry().Names()
}

// Size reports the number of registered definitions.
func (c *ApplicationContext) Size() int {
	return c.internal.Registry().Size()
}

// Clear resets the context to empty: definitions and instances alike.
// Meant for test isolation and re-composition.
func (c *ApplicationContext) Clear() {
	c.internal = container.New(
		&container.Config{
			Logger:           c.config.logger,
			ResolveObservers: c.config.onResolve,
			RefreshObservers: c.config.onRefresh,
		},
	)
}

func (c *ApplicationContext) observeRegister(name string) {
	for _, hook := range c.config.onRegister {
		hook(name)
	}
}
