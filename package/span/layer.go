package span

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.scnd.dev/open/upgrader"
)

type Layer struct {
	Upgrader upgrader.Upgrader `json:"-"`
	Name     string            `json:"name,omitempty"`
	Type     string            `json:"type,omitempty"`
	Caller   *Caller           `json:"caller,omitempty"`
}

func NewLayer(upgrader upgrader.Upgrader, name string, typ string) *Layer {
	caller := NewCaller()

	return &Layer{
		Upgrader: upgrader,
		Name:     name,
		Type:     typ,
		Caller:   caller,
	}
}

func (r *Layer) With(ctx context.Context) (upgrader.Span, context.Context) {
	parent, ok := ctx.Value(ContextKeySpan).(*Span)
	caller := NewCaller()
	name := caller.String()
	now := time.Now()

	var layer *Layer
	if r.Name != "" {
		layer = r
	}

	var u upgrader.Upgrader
	if r.Upgrader != nil {
		u = r.Upgrader
	} else {
		u = FromContext(ctx)
	}

	// * open tracing span when an upgrader is reachable
	var tracingSpan trace.Span
	if u != nil && u.Tracer() != nil {
		ctx, tracingSpan = u.Tracer().Start(ctx, name)
		tracingSpan.SetAttributes(attribute.String("span.layer", fmt.Sprintf("%s/%s", r.Type, r.Name)))
	}

	s := &Span{
		Name:      &name,
		Path:      []*string{},
		Layer:     layer,
		Caller:    caller,
		Variables: make(map[string]any),
		Started:   &now,
		Ended:     nil,
		Children:  []*Span{},
		TraceSpan: tracingSpan,
	}

	if ok {
		s.Path = append(append(s.Path, parent.Path...), parent.Name)
		parent.Children = append(parent.Children, s)
	}

	return &Wrapper{Span: s}, context.WithValue(ctx, ContextKeySpan, s)
}
