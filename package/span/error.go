package span

import (
	"errors"
	"strings"
)

type Error struct {
	Items []*ErrorItem `json:"items,omitempty"`
}

func (r *Error) Error() string {
	// * outermost message first, cause last
	parts := make([]string, 0, len(r.Items)+1)
	for i := len(r.Items) - 1; i >= 0; i-- {
		if r.Items[i].Message != nil && *r.Items[i].Message != "" {
			parts = append(parts, *r.Items[i].Message)
		}
	}
	if cause := r.Unwrap(); cause != nil {
		parts = append(parts, cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (r *Error) Unwrap() error {
	if len(r.Items) == 0 {
		return nil
	}
	return r.Items[0].Error
}

type ErrorItem struct {
	Span    *Span   `json:"span,omitempty"`
	Trace   *Caller `json:"trace,omitempty"`
	Message *string `json:"message,omitempty"`
	Error   error   `json:"error,omitempty"`
}

func NewError(span *Span, message string, err error) error {
	trace := NewCaller()
	if err == nil {
		return &Error{
			Items: []*ErrorItem{
				{
					Span:    span,
					Trace:   trace,
					Message: &message,
					Error:   nil,
				},
			},
		}
	}

	var e *Error
	if errors.As(err, &e) {
		e.Items = append(e.Items, &ErrorItem{
			Span:    span,
			Trace:   trace,
			Message: &message,
			Error:   nil,
		})
		return e
	}

	return &Error{
		Items: []*ErrorItem{
			{
				Span:    span,
				Trace:   trace,
				Message: &message,
				Error:   err,
			},
		},
	}
}
