package container

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wssccc/appctx/internal/graph"
	ref "github.com/wssccc/appctx/internal/reflect"
)

// DependencyGraph derives the static bean reference graph from the
// registered definitions: positional parameters edge to their unique
// type candidate, named parameters to their bean name. Catch-all
// parameters contribute no edges; they bind whatever remains at
// resolve time. Zero- or multi-candidate type references contribute no
// edge either — Validate reports those separately.
func (e *Engine) DependencyGraph() *graph.Graph {
	defs := e.registry.All()
	g := graph.New()
	for _, def := range defs {
		g.Add(def.Name, staticReferences(def, defs))
	}
	return g
}

func staticReferences(def *BeanDefinition, defs []*BeanDefinition) []string {
	var refs []string
	for _, p := range def.Params {
		switch p.Kind {
		case ParamPositional:
			if candidates := typeCandidates(defs, p); len(candidates) == 1 {
				refs = append(refs, candidates[0].Name)
			}
		case ParamNamed:
			if !p.HasDefault || hasDefinition(defs, p.Name) {
				refs = append(refs, p.Name)
			}
		}
	}
	return refs
}

func typeCandidates(defs []*BeanDefinition, p ParameterSpec) []*BeanDefinition {
	if p.Type == nil || ref.IsAny(p.Type) {
		return nil
	}
	var candidates []*BeanDefinition
	for _, d := range defs {
		if d.Produces != nil && ref.Satisfies(d.Produces, p.Type) {
			candidates = append(candidates, d)
		}
	}
	return candidates
}

func hasDefinition(defs []*BeanDefinition, name string) bool {
	for _, d := range defs {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Validate checks the registry for unsatisfiable or ambiguous
// references and for cycles, without constructing anything. It reports
// every problem found, not just the first.
func (e *Engine) Validate() error {
	defs := e.registry.All()

	var problems []error
	for _, def := range defs {
		for i, p := range def.Params {
			switch p.Kind {
			case ParamPositional:
				if p.Type == nil || ref.IsAny(p.Type) {
					problems = append(problems, NewError(
						ErrCodeMissingDependency,
						fmt.Sprintf("positional parameter %d of bean %q has no usable declared type", i, def.Name),
						nil,
					).WithBean(def.Name))
					continue
				}
				candidates := typeCandidates(defs, p)
				switch len(candidates) {
				case 0:
					problems = append(problems, NewError(
						ErrCodeMissingDependency,
						fmt.Sprintf("no bean produces type %s (parameter %d of bean %q)", ref.NameOf(p.Type), i, def.Name),
						nil,
					).WithBean(def.Name))
				case 1:
				default:
					names := make([]string, len(candidates))
					for j, c := range candidates {
						names[j] = c.Name
					}
					problems = append(problems, NewError(
						ErrCodeAmbiguousBean,
						fmt.Sprintf("multiple beans produce type %s: %v (parameter %d of bean %q)", ref.NameOf(p.Type), names, i, def.Name),
						nil,
					).WithBean(def.Name))
				}

			case ParamNamed:
				if !hasDefinition(defs, p.Name) && !p.HasDefault {
					problems = append(problems, NewError(
						ErrCodeMissingDependency,
						fmt.Sprintf("no bean named %q and no default (bean %q)", p.Name, def.Name),
						nil,
					).WithBean(def.Name))
				}
			}
		}
	}

	if g := e.DependencyGraph(); g.HasCycle() {
		for _, path := range g.CyclePaths() {
			problems = append(problems, NewError(
				ErrCodeCircularDependency,
				"circular reference: "+strings.Join(path, " -> "),
				nil,
			).WithBean(path[0]).WithCycle(path))
		}
	}

	if len(problems) > 0 {
		return NewError(
			ErrCodeValidationFailed,
			fmt.Sprintf("%d problem(s) found", len(problems)),
			errors.Join(problems...),
		)
	}
	return nil
}
