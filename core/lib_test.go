package core

import (
	"context"
	"testing"

	"github.com/bsthun/gut"
	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/upgrader"
)

func TestNew(t *testing.T) {
	config := &upgrader.Config{Namespace: gut.Ptr("alchemy")}
	u, err := New(config, nil)
	require.NoError(t, err)

	require.Same(t, config, u.Config())
	require.NotNil(t, u.Logger())
	require.NotNil(t, u.Instrument())

	s, ctx := u.Layer("migrate", "package").With(context.Background())
	require.NotNil(t, ctx)
	require.NotNil(t, s.Trace())
	s.End()

	require.NoError(t, u.Shutdown(context.Background()))
}
