package appctx

import "log/slog"

type Option func(*contextConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *contextConfig) {
		cfg.logger = logger
	}
}

func WithResolveObserver(hook ResolveObserver) Option {
	return func(cfg *contextConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithRefreshObserver(hook RefreshObserver) Option {
	return func(cfg *contextConfig) {
		cfg.onRefresh = append(cfg.onRefresh, hook)
	}
}

func WithRegisterObserver(hook RegisterObserver) Option {
	return func(cfg *contextConfig) {
		cfg.onRegister = append(cfg.onRegister, hook)
	}
}
