// Package appctxtest provides fail-fast helpers for wiring an
// ApplicationContext inside tests: registrations and lookups report
// through testing.TB, and the context is closed on cleanup.
package appctxtest

import (
	"context"

	"github.com/wssccc/appctx"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

type TestContext struct {
	*appctx.ApplicationContext
	tb TB
}

// New creates a context bound to the test: Close runs automatically on
// cleanup.
func New(tb TB, opts ...appctx.Option) *TestContext {
	tb.Helper()

	c := appctx.New(opts...)
	tb.Cleanup(func() {
		_ = c.Close(context.Background())
	})

	return &TestContext{
		ApplicationContext: c,
		tb:                 tb,
	}
}

// MustRefresh refreshes the context and fails the test on any error.
func (tc *TestContext) MustRefresh() {
	tc.tb.Helper()
	if err := tc.Refresh(); err != nil {
		tc.tb.Fatalf("refresh failed: %v", err)
	}
}

func Bean[T any](tc *TestContext, factory any, opts ...appctx.BeanOption) {
	tc.tb.Helper()
	if err := appctx.Bean[T](tc.ApplicationContext, factory, opts...); err != nil {
		tc.tb.Fatalf("register bean: %v", err)
	}
}

func Value[T any](tc *TestContext, value T, opts ...appctx.BeanOption) {
	tc.tb.Helper()
	if err := appctx.Value(tc.ApplicationContext, value, opts...); err != nil {
		tc.tb.Fatalf("register value: %v", err)
	}
}

func Struct[T any](tc *TestContext, opts ...appctx.BeanOption) {
	tc.tb.Helper()
	if err := appctx.Struct[T](tc.ApplicationContext, opts...); err != nil {
		tc.tb.Fatalf("register struct: %v", err)
	}
}

func BeanOf[T any](tc *TestContext) T {
	tc.tb.Helper()
	v, err := appctx.BeanOf[T](tc.ApplicationContext)
	if err != nil {
		tc.tb.Fatalf("lookup bean: %v", err)
	}
	return v
}

func NamedBeanOf[T any](tc *TestContext, name string) T {
	tc.tb.Helper()
	v, err := appctx.NamedBeanOf[T](tc.ApplicationContext, name)
	if err != nil {
		tc.tb.Fatalf("lookup bean %q: %v", name, err)
	}
	return v
}
