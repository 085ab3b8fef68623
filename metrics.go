package appctx

import "github.com/wssccc/appctx/internal/container"

// ResolveObserver is notified once per bean build attempt during
// Refresh, with the build duration and outcome.
type ResolveObserver = container.ResolveObserver

// RefreshObserver is notified once per Refresh pass.
type RefreshObserver = container.RefreshObserver

// RegisterObserver is notified after each successful registration.
type RegisterObserver func(bean string)
