package cells

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bsthun/gut"
	"go.scnd.dev/open/upgrader"
	"go.scnd.dev/open/upgrader/command/upgrader/app"
	"go.scnd.dev/open/upgrader/command/upgrader/index"
	"go.scnd.dev/open/upgrader/command/upgrader/procedure/printer"
	"go.scnd.dev/open/upgrader/compat/common"
	"go.scnd.dev/open/upgrader/core"
	"go.scnd.dev/open/upgrader/package/backup"
	"go.scnd.dev/open/upgrader/package/generator"
	"go.scnd.dev/open/upgrader/package/mapper"
	"go.scnd.dev/open/upgrader/package/migrate"
	"go.scnd.dev/open/upgrader/package/project"
	"go.scnd.dev/open/upgrader/package/span"
	"go.scnd.dev/open/upgrader/package/workspace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Command struct {
	Root             string   `help:"Project root directory." default:"." type:"existingdir"`
	Namespace        string   `help:"Namespace of the CMS config and view folders (default alchemy)."`
	DryRun           bool     `help:"Report what would change without writing anything."`
	GeneratorCommand []string `help:"Command line running project generators, e.g. bin/rails,generate."`
}

func (r *Command) Run(app *app.App) error {
	return Run(app, r)
}

func (r *Command) Overrides(verbose bool) *upgrader.Config {
	overrides := &upgrader.Config{
		GeneratorCommand: r.GeneratorCommand,
	}
	if r.Namespace != "" {
		overrides.Namespace = gut.Ptr(r.Namespace)
	}
	if r.DryRun {
		overrides.DryRun = gut.Ptr(true)
	}
	if verbose {
		overrides.Verbose = gut.Ptr(true)
	}
	return overrides
}

func Run(app index.App, command *Command) error {
	s, ctx := upgrader.With(context.Background())
	defer s.End()

	root, err := filepath.Abs(command.Root)
	if err != nil {
		return s.Error("failed to resolve project root", err)
	}

	// * resolve configuration
	config, err := common.Config(root, command.Overrides(*app.Verbose()))
	if err != nil {
		return s.Error("failed to resolve configuration", err)
	}

	logger, err := common.Logger(*config.Verbose)
	if err != nil {
		return s.Error("failed to initialize logger", err)
	}

	// * wire components
	var u upgrader.Upgrader
	var summary *migrate.Summary
	var paths *project.Paths
	var runErr error
	application := fx.New(
		fx.NopLogger,
		fx.Supply(config, logger),
		fx.Provide(
			func() io.Writer { return app.Output() },
			core.New,
			project.New,
			workspace.New,
			mapper.New,
			backup.New,
			generator.New,
			migrate.New,
		),
		fx.Populate(&u),
		fx.Invoke(func(lc fx.Lifecycle, u upgrader.Upgrader) {
			lc.Append(fx.Hook{
				OnStop: u.Shutdown,
			})
		}),
		fx.Invoke(func(lc fx.Lifecycle, migrator *migrate.Migrator) {
			paths = migrator.Paths
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					summary, runErr = migrator.Run(ctx)
					return runErr
				},
			})
		}),
	)
	if err := application.Err(); err != nil {
		return s.Error("failed to initialize upgrader", err)
	}

	// * trace the run with the resolved upgrader
	ctx = span.NewContext(u, ctx)
	run, ctx := span.NewLayer(nil, "cells", "subcommand").With(ctx)

	// * run and flush telemetry
	err = application.Start(ctx)
	run.End()
	if err != nil {
		if runErr != nil {
			return runErr
		}
		return err
	}
	if err := application.Stop(ctx); err != nil {
		logger.Warn("failed to shut down", zap.Error(err))
	}

	if *config.Verbose && summary != nil {
		tree, err := printer.PrintSummary(paths, summary)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(app.Output(), tree)
	}

	return nil
}
