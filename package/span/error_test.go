package span

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/upgrader/package/erroring"
)

func TestErrorChain(t *testing.T) {
	layer := NewLayer(nil, "migrate", "package")
	outer, ctx := layer.With(context.Background())
	inner, _ := layer.With(ctx)

	cause := &erroring.ConfigReadError{Path: "cells.yml", Err: errors.New("boom")}
	err := inner.Error("failed to load cells", cause)
	err = outer.Error("failed to convert cells", err)

	require.Equal(t, "failed to convert cells: failed to load cells: unable to read config cells.yml: boom", err.Error())

	var typed *erroring.ConfigReadError
	require.ErrorAs(t, err, &typed)
	require.Equal(t, erroring.KindConfigRead, erroring.KindOf(err))

	var chain *Error
	require.ErrorAs(t, err, &chain)
	require.Len(t, chain.Items, 2)
	require.NotNil(t, chain.Items[0].Trace)
}

func TestWithNestsSpans(t *testing.T) {
	layer := NewLayer(nil, "migrate", "package")
	outer, ctx := layer.With(context.Background())
	inner, _ := layer.With(ctx)
	inner.Variable("path", "cells.yml")
	inner.End()
	outer.End()

	parent := outer.(*Wrapper).Span
	require.Len(t, parent.Children, 1)
	require.Equal(t, "cells.yml", parent.Children[0].Variables["path"])
	require.NotNil(t, parent.Ended)
	require.NotNil(t, outer.Trace())
}

func TestNewErrorWithoutCause(t *testing.T) {
	err := NewError(nil, "nothing to do", nil)
	require.Equal(t, "nothing to do", err.Error())
	require.Nil(t, errors.Unwrap(err))
}
