package common

import (
	"context"
	"strings"
)

type contextNameKey struct{}

// WithContextName records the --context selection for commands resolving
// their context lazily.
func WithContextName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, contextNameKey{}, strings.TrimSpace(name))
}

func ContextName(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	name, _ := ctx.Value(contextNameKey{}).(string)
	return name
}
