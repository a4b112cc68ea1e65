package span

import (
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Span struct {
	Name      *string        `json:"name,omitempty"`
	Path      []*string      `json:"path,omitempty"`
	Layer     *Layer         `json:"layer,omitempty"`
	Caller    *Caller        `json:"caller,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
	Started   *time.Time     `json:"started,omitempty"`
	Ended     *time.Time     `json:"ended,omitempty"`
	Children  []*Span        `json:"children,omitempty"`
	TraceSpan trace.Span     `json:"-"`
}

func (r *Span) Variable(key string, value any) {
	r.Variables[key] = value
}

func (r *Span) Error(message string, err error) error {
	if r.TraceSpan != nil && err != nil {
		r.TraceSpan.RecordError(err)
		r.TraceSpan.SetStatus(codes.Error, message)
	}

	return NewError(r, message, err)
}

func (r *Span) End() {
	end := time.Now()
	r.Ended = &end
	if r.TraceSpan != nil {
		r.TraceSpan.End()
	}
}
