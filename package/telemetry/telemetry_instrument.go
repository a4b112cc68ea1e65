package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Instrument struct {
	FileRewrittenCounter   metric.Int64Counter
	FileMovedCounter       metric.Int64Counter
	ElementAppendedCounter metric.Int64Counter
}

func NewInstrument(meter metric.Meter) (*Instrument, error) {
	fileRewrittenCounter, err := meter.Int64Counter(
		"upgrader.file.rewritten",
		metric.WithDescription("Number of template files rewritten in place"),
	)
	if err != nil {
		return nil, err
	}

	fileMovedCounter, err := meter.Int64Counter(
		"upgrader.file.moved",
		metric.WithDescription("Number of cell views relocated into the elements folder"),
	)
	if err != nil {
		return nil, err
	}

	elementAppendedCounter, err := meter.Int64Counter(
		"upgrader.element.appended",
		metric.WithDescription("Number of fixed element definitions appended"),
	)
	if err != nil {
		return nil, err
	}

	return &Instrument{
		FileRewrittenCounter:   fileRewrittenCounter,
		FileMovedCounter:       fileMovedCounter,
		ElementAppendedCounter: elementAppendedCounter,
	}, nil
}

func (r *Instrument) FileRewritten(ctx context.Context, step string, path string) {
	r.FileRewrittenCounter.Add(
		ctx,
		1,
		metric.WithAttributes(
			attribute.String("upgrader.step", step),
			attribute.String("file.path", path),
		),
	)
}

func (r *Instrument) FileMoved(ctx context.Context, path string) {
	r.FileMovedCounter.Add(
		ctx,
		1,
		metric.WithAttributes(
			attribute.String("file.path", path),
		),
	)
}

func (r *Instrument) ElementAppended(ctx context.Context, name string) {
	r.ElementAppendedCounter.Add(
		ctx,
		1,
		metric.WithAttributes(
			attribute.String("element.name", name),
		),
	)
}
