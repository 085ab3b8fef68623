package container

import (
	"fmt"
	"reflect"

	ref "github.com/wssccc/appctx/internal/reflect"
)

// PostConstructor is the opt-in hook interface: beans implementing it
// get PostConstruct invoked after the whole registry has been built,
// without declaring the hook name explicitly.
type PostConstructor interface {
	PostConstruct() error
}

// PreDestroyer is the opt-in teardown counterpart, invoked by Close in
// reverse registration order.
type PreDestroyer interface {
	PreDestroy() error
}

// runPostConstruct is the second Refresh pass: for every successfully
// resolved bean, in registration order (not dependency order), invoke
// its hooks in declaration order. A failing hook marks the bean failed
// retroactively and removes it from the store. Beans that captured a
// reference to it during construction keep that reference; the engine
// does not roll back or re-resolve them.
func (r *resolution) runPostConstruct() {
	for _, def := range r.defs {
		inst, ok := r.built[def.Name]
		if !ok {
			continue
		}

		for _, hook := range constructHooks(def, inst.Value) {
			r.engine.logger.Debug("running post-construct hook", "bean", def.Name, "hook", hook)
			if err := callHook(inst.Value, hook); err != nil {
				r.failures[def.Name] = NewError(
					ErrCodePostConstruct,
					fmt.Sprintf("post-construct hook %s failed", hook),
					err,
				).WithBean(def.Name)
				r.state[def.Name] = stateFailed
				delete(r.built, def.Name)
				break
			}
		}
	}
}

// constructHooks lists the bean's post-construct hooks: declared names
// first, then the PostConstructor interface method unless already
// declared.
func constructHooks(def *BeanDefinition, instance any) []string {
	hooks := def.PostConstruct
	if _, ok := instance.(PostConstructor); ok && !containsHook(hooks, "PostConstruct") {
		hooks = append(append([]string(nil), hooks...), "PostConstruct")
	}
	return hooks
}

func destroyHooks(def *BeanDefinition, instance any) []string {
	hooks := def.PreDestroy
	if _, ok := instance.(PreDestroyer); ok && !containsHook(hooks, "PreDestroy") {
		hooks = append(append([]string(nil), hooks...), "PreDestroy")
	}
	return hooks
}

func containsHook(hooks []string, name string) bool {
	for _, h := range hooks {
		if h == name {
			return true
		}
	}
	return false
}

// callHook invokes a zero-argument hook method by name, converting
// panics into errors so one misbehaving bean cannot abort the pass.
func callHook(instance any, name string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("hook %s panicked: %v", name, rec)
		}
	}()

	return ref.CallMethod(instance, name)
}

func runtimeType(value any) reflect.Type {
	if value == nil {
		return nil
	}
	return reflect.TypeOf(value)
}
