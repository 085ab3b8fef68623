package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	ref "github.com/wssccc/appctx/internal/reflect"
)

// BeanInstance is one constructed singleton, indexed by name and by
// runtime type in the engine's store.
type BeanInstance struct {
	Name  string
	Type  reflect.Type
	Value any
}

// ResolveObserver is notified once per bean build attempt during
// Refresh, with the build duration and outcome.
type ResolveObserver func(bean string, duration time.Duration, err error)

// RefreshObserver is notified once per Refresh pass.
type RefreshObserver func(duration time.Duration, err error)

// Engine consumes a registry's definitions during Refresh and owns the
// resulting instance store. Lookups are read-only after Refresh and
// safe for concurrent readers; concurrent Register/Refresh is caller
// responsibility.
type Engine struct {
	mu       sync.RWMutex
	registry *Registry
	logger   *slog.Logger

	onResolve []ResolveObserver
	onRefresh []RefreshObserver

	byName  map[string]*BeanInstance
	ordered []*BeanInstance
}

type Config struct {
	Logger           *slog.Logger
	ResolveObservers []ResolveObserver
	RefreshObservers []RefreshObserver
}

func New(cfg *Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		registry:  NewRegistry(),
		logger:    logger,
		onResolve: cfg.ResolveObservers,
		onRefresh: cfg.RefreshObservers,
		byName:    make(map[string]*BeanInstance),
	}
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// Refresh drains the registry through the resolution engine: every
// definition is built in registration order (dependencies first), then
// post-construct hooks run in a second pass. Re-running Refresh
// rebuilds the whole store from scratch; previous instances are
// replaced, not reused.
//
// Refresh fails with a *RefreshError carrying every per-bean failure.
// Beans that failed to construct, or whose hooks failed, are absent
// from the store; siblings that resolved stay retrievable.
func (e *Engine) Refresh() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	run := newResolution(e)
	for _, def := range run.defs {
		_, _ = run.build(def.Name)
	}
	run.runPostConstruct()

	byName := make(map[string]*BeanInstance, len(run.built))
	ordered := make([]*BeanInstance, 0, len(run.built))
	for _, def := range run.defs {
		if inst, ok := run.built[def.Name]; ok {
			byName[def.Name] = inst
			ordered = append(ordered, inst)
		}
	}
	e.byName = byName
	e.ordered = ordered

	var err error
	if len(run.failures) > 0 {
		err = &RefreshError{Failures: run.failures}
	}

	for _, hook := range e.onRefresh {
		hook(time.Since(start), err)
	}

	e.logger.Debug("refresh completed",
		"beans", len(ordered),
		"failed", len(run.failures),
	)

	return err
}

// Close runs pre-destroy hooks over the constructed beans in reverse
// registration order. Hook failures are collected, not fatal. The
// instance store stays intact; a later Refresh rebuilds it.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for i := len(e.ordered) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("close deadline exceeded: %w", err))
			break
		}

		inst := e.ordered[i]
		def, exists := e.registry.Get(inst.Name)
		if !exists {
			continue
		}

		for _, hook := range destroyHooks(def, inst.Value) {
			e.logger.Debug("running pre-destroy hook", "bean", inst.Name, "hook", hook)
			if err := callHook(inst.Value, hook); err != nil {
				errs = append(errs, NewError(
					ErrCodePreDestroy,
					fmt.Sprintf("pre-destroy hook %s failed", hook),
					err,
				).WithBean(inst.Name))
			}
		}
	}

	return errors.Join(errs...)
}

// GetByName returns the instance registered under name.
func (e *Engine) GetByName(name string) (any, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	inst, exists := e.byName[name]
	if !exists {
		return nil, NewError(
			ErrCodeNotFound,
			fmt.Sprintf("no bean named %q", name),
			nil,
		).WithBean(name)
	}
	return inst.Value, nil
}

// GetByType returns the unique instance whose runtime type matches t,
// counting exact and subtype matches identically.
func (e *Engine) GetByType(t reflect.Type) (any, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	matches := e.matchType(t)
	switch len(matches) {
	case 0:
		return nil, NewError(
			ErrCodeNotFound,
			fmt.Sprintf("no bean of type %s", ref.NameOf(t)),
			nil,
		)
	case 1:
		return matches[0].Value, nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, NewError(
			ErrCodeAmbiguousBean,
			fmt.Sprintf("multiple beans match type %s: %v", ref.NameOf(t), names),
			nil,
		)
	}
}

// GetAllByType returns every instance matching t; empty if none.
func (e *Engine) GetAllByType(t reflect.Type) []any {
	e.mu.RLock()
	defer e.mu.RUnlock()

	matches := e.matchType(t)
	values := make([]any, len(matches))
	for i, m := range matches {
		values[i] = m.Value
	}
	return values
}

func (e *Engine) matchType(t reflect.Type) []*BeanInstance {
	var matches []*BeanInstance
	for _, inst := range e.ordered {
		if ref.Satisfies(inst.Type, t) {
			matches = append(matches, inst)
		}
	}
	return matches
}

func (e *Engine) HasInstance(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, exists := e.byName[name]
	return exists
}

// InstanceNames returns the names of constructed beans in registration
// order.
func (e *Engine) InstanceNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, len(e.ordered))
	for i, inst := range e.ordered {
		names[i] = inst.Name
	}
	return names
}

// Instances returns the constructed beans in registration order.
func (e *Engine) Instances() []*BeanInstance {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instances := make([]*BeanInstance, len(e.ordered))
	copy(instances, e.ordered)
	return instances
}

func (e *Engine) observeResolve(bean string, duration time.Duration, err error) {
	for _, hook := range e.onResolve {
		hook(bean, duration, err)
	}
}
