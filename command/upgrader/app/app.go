package app

import (
	"io"
	"os"
)

type App struct {
	verbose bool
	output  io.Writer
}

func New(verbose bool, output io.Writer) *App {
	if output == nil {
		output = os.Stdout
	}

	return &App{
		verbose: verbose,
		output:  output,
	}
}

func (r *App) Verbose() *bool {
	return &r.verbose
}

func (r *App) Output() io.Writer {
	return r.output
}
