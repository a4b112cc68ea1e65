package upgrader

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Upgrader interface {
	Config() *Config
	Layer(name string, typ string) Layer
	Tracer() trace.Tracer
	Instrument() Instrument
	Logger() *zap.Logger
	Shutdown(ctx context.Context) error
}

type Layer interface {
	With(ctx context.Context) (Span, context.Context)
}

type Instrument interface {
	FileRewritten(ctx context.Context, step string, path string)
	FileMoved(ctx context.Context, path string)
	ElementAppended(ctx context.Context, name string)
}
