package span

import (
	"context"

	"go.scnd.dev/open/upgrader"
)

type ContextKey struct {
	Name string
}

var (
	ContextKeyUpgrader = ContextKey{
		Name: "upgrader",
	}
	ContextKeySpan = ContextKey{
		Name: "upgrader.span",
	}
)

func NewContext(upgrader upgrader.Upgrader, ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyUpgrader, upgrader)
}

func FromContext(ctx context.Context) upgrader.Upgrader {
	u, ok := ctx.Value(ContextKeyUpgrader).(upgrader.Upgrader)
	if !ok {
		return nil
	}

	return u
}
