package config

import "context"

type contextKey string

const managerCtxKey contextKey = "config_manager"

// ContextWithManager attaches m so commands can reach the loaded
// configuration without global state.
func ContextWithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerCtxKey, m)
}

func ManagerFromContext(ctx context.Context) *Manager {
	if ctx == nil {
		return nil
	}
	m, _ := ctx.Value(managerCtxKey).(*Manager)
	return m
}

// FromContext returns the current configuration, or nil when none has
// been loaded.
func FromContext(ctx context.Context) *Config {
	m := ManagerFromContext(ctx)
	if m == nil {
		return nil
	}
	return m.Get()
}
