package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsthun/gut"
	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/upgrader"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWithoutCommand(t *testing.T) {
	generator := New(&upgrader.Config{Root: gut.Ptr("."), DryRun: gut.Ptr(false)}, nil, nil)
	require.IsType(t, &Nop{}, generator)
}

func TestNewDryRun(t *testing.T) {
	generator := New(&upgrader.Config{
		Root:             gut.Ptr("."),
		DryRun:           gut.Ptr(true),
		GeneratorCommand: []string{"bin/rails", "generate"},
	}, nil, nil)
	require.IsType(t, &Nop{}, generator)
}

func TestCommandInvoke(t *testing.T) {
	root := t.TempDir()
	generator := New(&upgrader.Config{
		Root:             gut.Ptr(root),
		DryRun:           gut.Ptr(false),
		GeneratorCommand: []string{"sh", "-c", `printf '%s ' "$@" > generated.txt`, "sh"},
	}, nil, new(bytes.Buffer))

	generator.Invoke(context.Background(), "alchemy:elements", "--skip")

	content, err := os.ReadFile(filepath.Join(root, "generated.txt"))
	require.NoError(t, err)
	require.Equal(t, "alchemy:elements --skip ", string(content))
}

func TestCommandFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	generator := &Command{
		Root:    t.TempDir(),
		Command: []string{"sh", "-c", "exit 3", "sh"},
		Output:  new(bytes.Buffer),
		Logger:  zap.New(core),
	}

	generator.Invoke(context.Background(), "alchemy:elements", "--skip")
	require.Equal(t, 1, logs.FilterMessage("generator failed").Len())
}
