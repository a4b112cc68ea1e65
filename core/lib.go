package core

import (
	"context"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.scnd.dev/open/upgrader"
	"go.scnd.dev/open/upgrader/package/span"
	"go.scnd.dev/open/upgrader/package/telemetry"
	"go.uber.org/zap"
)

type Instance struct {
	config    *upgrader.Config
	telemetry *telemetry.Telemetry
	logger    *zap.Logger
}

func New(config *upgrader.Config, logger *zap.Logger) (_ upgrader.Upgrader, err error) {
	i := &Instance{
		config:    config,
		telemetry: nil,
		logger:    logger,
	}

	if i.logger == nil {
		i.logger = zap.NewNop()
	}

	i.telemetry, err = telemetry.New(config)
	if err != nil {
		return nil, err
	}

	upgrader.With = span.NewLayer(i, "", "").With

	return i, nil
}

func (r *Instance) Config() *upgrader.Config {
	return r.config
}

func (r *Instance) Layer(name string, typ string) upgrader.Layer {
	return span.NewLayer(r, name, typ)
}

func (r *Instance) Tracer() oteltrace.Tracer {
	return r.telemetry.Tracer
}

func (r *Instance) Instrument() upgrader.Instrument {
	return r.telemetry.Instrument
}

func (r *Instance) Logger() *zap.Logger {
	return r.logger
}

func (r *Instance) Shutdown(ctx context.Context) error {
	_ = r.logger.Sync()
	return r.telemetry.Shutdown(ctx)
}

func init() {
	upgrader.With = span.NewLayer(nil, "", "").With
}
