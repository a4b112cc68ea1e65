package generator

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"go.scnd.dev/open/upgrader"
	"go.uber.org/zap"
)

// Generator runs a project code generator. Invocation is fire and forget:
// failures are logged and never abort the upgrade.
type Generator interface {
	Invoke(ctx context.Context, name string, args ...string)
}

type Nop struct {
	Logger *zap.Logger
}

func (r *Nop) Invoke(ctx context.Context, name string, args ...string) {
	r.Logger.Debug("generator not configured", zap.String("generator", name), zap.Strings("args", args))
}

// Command appends the generator name and arguments to a configured command
// line such as `bin/rails generate` and runs it inside the project root.
type Command struct {
	Root    string
	Command []string
	Output  io.Writer
	Logger  *zap.Logger
}

func (r *Command) Invoke(ctx context.Context, name string, args ...string) {
	argv := append(append(append([]string{}, r.Command[1:]...), name), args...)
	command := exec.CommandContext(ctx, r.Command[0], argv...)
	command.Dir = r.Root
	command.Stdout = r.Output
	command.Stderr = r.Output

	r.Logger.Debug("invoke generator", zap.String("command", r.Command[0]), zap.Strings("args", argv))
	if err := command.Run(); err != nil {
		r.Logger.Warn("generator failed", zap.String("command", strings.Join(append([]string{r.Command[0]}, argv...), " ")), zap.Error(err))
	}
}

func New(config *upgrader.Config, logger *zap.Logger, out io.Writer) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(config.GeneratorCommand) == 0 || config.DryRun == nil || *config.DryRun {
		return &Nop{Logger: logger}
	}

	return &Command{
		Root:    *config.Root,
		Command: config.GeneratorCommand,
		Output:  out,
		Logger:  logger,
	}
}
