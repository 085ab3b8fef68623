package appctx

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

type GraphInfo struct {
	Beans []BeanInfo

	// Missing lists referenced bean names with no registration, sorted.
	// Non-empty only for registries that Validate would reject.
	Missing []string
}

type BeanInfo struct {
	Name        string
	References  []string
	Referrers   []string
	Constructed bool
}

// Graph returns the statically-derivable bean reference graph, sorted
// by name. References follow parameter bindings; catch-all parameters
// are not represented.
func (c *ApplicationContext) Graph() GraphInfo {
	names := c.internal.Registry().Names()
	sort.Strings(names)

	g := c.internal.DependencyGraph()
	beans := make([]BeanInfo, 0, len(names))

	for _, name := range names {
		beans = append(beans, BeanInfo{
			Name:        name,
			References:  g.References(name),
			Referrers:   g.Referrers(name),
			Constructed: c.internal.HasInstance(name),
		})
	}

	missing := g.Missing()
	sort.Strings(missing)

	return GraphInfo{Beans: beans, Missing: missing}
}

func (c *ApplicationContext) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *ApplicationContext) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Beans) == 0 {
		_, _ = fmt.Fprintln(w, "(empty context)")
		return
	}

	for _, b := range info.Beans {
		status := "○"
		if b.Constructed {
			status = "●"
		}

		if len(b.References) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s\n", status, b.Name)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s ← %s\n", status, b.Name, strings.Join(b.References, ", "))
		}
	}

	for _, name := range info.Missing {
		_, _ = fmt.Fprintf(w, "? %s (not registered)\n", name)
	}
}

func (c *ApplicationContext) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *ApplicationContext) PrintGraphDOT() {
	c.FprintGraphDOT(os.Stdout)
}

// FprintGraphDOT writes the reference graph in Graphviz DOT format.
func (c *ApplicationContext) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph beans {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, b := range info.Beans {
		style := ""
		if b.Constructed {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", b.Name, b.Name, style)
	}

	for _, name := range info.Missing {
		_, _ = fmt.Fprintf(w, "  %q [label=%q, style=dashed];\n", name, name)
	}

	_, _ = fmt.Fprintln(w)

	for _, b := range info.Beans {
		for _, r := range b.References {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", b.Name, r)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *ApplicationContext) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}
