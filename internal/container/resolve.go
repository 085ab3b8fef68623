package container

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ref "github.com/wssccc/appctx/internal/reflect"
)

type resolveState int

const (
	stateUnvisited resolveState = iota
	stateInProgress
	stateResolved
	stateFailed
)

// resolution is the transient state of one Refresh pass: per-bean
// resolve states for cycle detection, the current build stack, built
// instances and per-bean failures. Discarded once Refresh returns.
type resolution struct {
	engine   *Engine
	defs     []*BeanDefinition
	byName   map[string]*BeanDefinition
	state    map[string]resolveState
	stack    []string
	built    map[string]*BeanInstance
	failures map[string]error
}

func newResolution(e *Engine) *resolution {
	defs := e.registry.All()
	byName := make(map[string]*BeanDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	return &resolution{
		engine:   e,
		defs:     defs,
		byName:   byName,
		state:    make(map[string]resolveState, len(defs)),
		built:    make(map[string]*BeanInstance, len(defs)),
		failures: make(map[string]error),
	}
}

// build ensures an instance exists for name, constructing it and its
// transitive dependencies depth-first. Results are memoized: a bean is
// constructed at most once per Refresh, successes and failures alike.
func (r *resolution) build(name string) (*BeanInstance, error) {
	switch r.state[name] {
	case stateResolved:
		return r.built[name], nil
	case stateFailed:
		return nil, r.failures[name]
	case stateInProgress:
		path := r.cyclePath(name)
		return nil, NewError(
			ErrCodeCircularDependency,
			"circular reference: "+strings.Join(path, " -> "),
			nil,
		).WithBean(name).WithCycle(path)
	}

	def := r.byName[name]
	r.state[name] = stateInProgress
	r.stack = append(r.stack, name)
	start := time.Now()

	inst, err := r.construct(def)

	r.stack = r.stack[:len(r.stack)-1]
	r.engine.observeResolve(name, time.Since(start), err)

	if err != nil {
		r.state[name] = stateFailed
		r.failures[name] = err
		return nil, err
	}

	r.state[name] = stateResolved
	r.built[name] = inst
	return inst, nil
}

// cyclePath slices the build stack from the first occurrence of name
// and closes the loop, e.g. [a b a].
func (r *resolution) cyclePath(name string) []string {
	for i, n := range r.stack {
		if n == name {
			path := make([]string, 0, len(r.stack)-i+1)
			path = append(path, r.stack[i:]...)
			return append(path, name)
		}
	}
	return []string{name, name}
}

func (r *resolution) construct(def *BeanDefinition) (*BeanInstance, error) {
	args := make([]any, len(def.Params))
	consumed := make(map[string]bool, len(def.Params))

	for i, p := range def.Params {
		switch p.Kind {
		case ParamPositional:
			value, depName, err := r.bindPositional(def, i, p)
			if err != nil {
				return nil, err
			}
			args[i] = value
			consumed[depName] = true

		case ParamNamed:
			value, bound, err := r.bindNamed(def, p)
			if err != nil {
				return nil, err
			}
			args[i] = value
			if bound {
				consumed[p.Name] = true
			}

		case ParamCatchAll:
			args[i] = r.bindCatchAll(def, consumed)
		}
	}

	value, err := r.call(def, args)
	if err != nil {
		return nil, err
	}

	inst := &BeanInstance{Name: def.Name, Value: value}
	inst.Type = def.Produces
	if rt := runtimeType(value); rt != nil {
		inst.Type = rt
	}
	return inst, nil
}

// bindPositional resolves a typed positional parameter: exactly one
// definition anywhere in the registry must produce a matching type.
// Names are never consulted, even when they coincide.
func (r *resolution) bindPositional(def *BeanDefinition, index int, p ParameterSpec) (any, string, error) {
	if p.Type == nil || ref.IsAny(p.Type) {
		return nil, "", NewError(
			ErrCodeMissingDependency,
			fmt.Sprintf("positional parameter %d of bean %q has no usable declared type", index, def.Name),
			nil,
		).WithBean(def.Name)
	}

	var candidates []*BeanDefinition
	for _, d := range r.defs {
		if d.Produces != nil && ref.Satisfies(d.Produces, p.Type) {
			candidates = append(candidates, d)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, "", NewError(
			ErrCodeMissingDependency,
			fmt.Sprintf("no bean produces type %s (parameter %d of bean %q)", ref.NameOf(p.Type), index, def.Name),
			nil,
		).WithBean(def.Name)
	case 1:
		dep := candidates[0]
		inst, err := r.build(dep.Name)
		if err != nil {
			return nil, "", r.wrapDependencyFailure(def,
				fmt.Sprintf("parameter %d (%s)", index, ref.NameOf(p.Type)), err)
		}
		return inst.Value, dep.Name, nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Name
		}
		return nil, "", NewError(
			ErrCodeAmbiguousBean,
			fmt.Sprintf("multiple beans produce type %s: %v (parameter %d of bean %q)", ref.NameOf(p.Type), names, index, def.Name),
			nil,
		).WithBean(def.Name)
	}
}

// bindNamed resolves a name-only parameter: the bean registered under
// the parameter's name, else the declared default, else a missing
// dependency. bound reports whether a registry bean was consumed.
func (r *resolution) bindNamed(def *BeanDefinition, p ParameterSpec) (any, bool, error) {
	dep, exists := r.byName[p.Name]
	if !exists {
		if p.HasDefault {
			return p.Default, false, nil
		}
		return nil, false, NewError(
			ErrCodeMissingDependency,
			fmt.Sprintf("no bean named %q and no default (bean %q)", p.Name, def.Name),
			nil,
		).WithBean(def.Name)
	}

	inst, err := r.build(dep.Name)
	if err != nil {
		return nil, false, r.wrapDependencyFailure(def, fmt.Sprintf("parameter %q", p.Name), err)
	}

	if p.Type != nil && !ref.IsAny(p.Type) && inst.Type != nil && !ref.Satisfies(inst.Type, p.Type) {
		return nil, false, NewError(
			ErrCodeMissingDependency,
			fmt.Sprintf("bean %q has type %s, not assignable to parameter %q of bean %q (%s)",
				p.Name, ref.NameOf(inst.Type), p.Name, def.Name, ref.NameOf(p.Type)),
			nil,
		).WithBean(def.Name)
	}

	return inst.Value, true, nil
}

// bindCatchAll gathers every remaining resolvable bean not consumed by
// another parameter of this factory, keyed by registered name. Absence
// is never an error; beans that fail to build are simply left out
// (their own failures are already recorded).
//
// A speculative build started here can collide with a bean still on
// the build stack — typically a bean that depends on the catch-all's
// own owner. That is not a declared cycle, just the catch-all running
// too early, so the affected beans are rolled back to unvisited and
// omitted from the map; the outer Refresh pass builds them normally
// once the owner is resolved.
func (r *resolution) bindCatchAll(def *BeanDefinition, consumed map[string]bool) map[string]any {
	rest := make(map[string]any)
	for _, d := range r.defs {
		if d.Name == def.Name || consumed[d.Name] {
			continue
		}
		inst, err := r.build(d.Name)
		if err != nil {
			if r.cycleThroughStack(err) {
				r.rollBackStackCollisions()
			}
			continue
		}
		rest[d.Name] = inst.Value
	}
	return rest
}

// cycleThroughStack reports whether err is a circular dependency whose
// cycle passes through a bean still being constructed. Genuine cycles
// have fully unwound by the time the catch-all sees them, so their
// participants are in stateFailed, never stateInProgress.
func (r *resolution) cycleThroughStack(err error) bool {
	var ce *Error
	if !errors.As(err, &ce) || ce.Code != ErrCodeCircularDependency {
		return false
	}
	for _, name := range ce.Cycle {
		if r.state[name] == stateInProgress {
			return true
		}
	}
	return false
}

// rollBackStackCollisions forgets every recorded failure caused by a
// collision with the current build stack, making those beans eligible
// for a clean rebuild.
func (r *resolution) rollBackStackCollisions() {
	for name, ferr := range r.failures {
		if r.cycleThroughStack(ferr) {
			r.state[name] = stateUnvisited
			delete(r.failures, name)
		}
	}
}

// wrapDependencyFailure propagates a dependency's failure to the
// consuming bean. Structural errors (missing, ambiguous, circular)
// keep their code so the root cause stays diagnosable up the build
// stack; construction and hook failures surface to dependents as
// missing dependencies.
func (r *resolution) wrapDependencyFailure(def *BeanDefinition, what string, cause error) error {
	code := ErrCodeMissingDependency

	var ce *Error
	if errors.As(cause, &ce) {
		switch ce.Code {
		case ErrCodeMissingDependency, ErrCodeAmbiguousBean, ErrCodeCircularDependency:
			code = ce.Code
		}
	}

	wrapped := NewError(code, "cannot resolve "+what, cause).WithBean(def.Name)
	if code == ErrCodeCircularDependency && ce != nil {
		wrapped.Cycle = ce.Cycle
	}
	return wrapped
}

func (r *resolution) call(def *BeanDefinition, args []any) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			value = nil
			err = NewError(
				ErrCodeConstruction,
				fmt.Sprintf("factory panicked: %v", rec),
				nil,
			).WithBean(def.Name)
		}
	}()

	value, cerr := def.Construct(args)
	if cerr != nil {
		return nil, NewError(ErrCodeConstruction, "factory returned error", cerr).WithBean(def.Name)
	}
	return value, nil
}
