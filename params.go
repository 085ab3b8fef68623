package appctx

import "github.com/wssccc/appctx/internal/container"

// Param overrides how one factory parameter is resolved. The default
// for every parameter is ByType; use Params to supply one Param per
// factory parameter when any of them bind differently.
type Param struct {
	kind       container.ParamKind
	name       string
	hasDefault bool
	defValue   any
}

// ByType binds the parameter to the unique bean producing a matching
// type. Zero candidates fail as missing, several as ambiguous; the
// parameter name is never consulted.
func ByType() Param {
	return Param{kind: container.ParamPositional}
}

// ByName binds the parameter to the bean registered under name.
func ByName(name string) Param {
	return Param{kind: container.ParamNamed, name: name}
}

// ByNameDefault binds like ByName, falling back to def when no bean
// carries the name.
func ByNameDefault(name string, def any) Param {
	return Param{kind: container.ParamNamed, name: name, hasDefault: true, defValue: def}
}

// Rest marks a catch-all parameter: it receives every remaining bean
// not consumed by another parameter of the same factory, keyed by bean
// name. The Go parameter must be a map[string]any in last position. A
// trailing map[string]any parameter is treated as Rest automatically.
func Rest() Param {
	return Param{kind: container.ParamCatchAll}
}
