package upgrader

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type Span interface {
	Started() *time.Time
	Variable(key string, value any)
	Trace() trace.Span
	Error(message string, err error) error
	End()
}

// With opens a span under the layer-less root; replaced by core.New.
var With func(ctx context.Context) (Span, context.Context)
