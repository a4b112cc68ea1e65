package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.scnd.dev/open/upgrader/command/upgrader/app"
	"go.scnd.dev/open/upgrader/command/upgrader/subcommand/cells"
	"go.scnd.dev/open/upgrader/command/upgrader/subcommand/version"
)

type Command struct {
	Verbose bool             `help:"Enable verbose output." short:"v"`
	Cells   *cells.Command   `cmd:"cells" help:"Convert cells into unique fixed nestable elements."`
	Version *version.Command `cmd:"version" help:"Print the upgrader version."`
}

func New(out io.Writer) (*kong.Kong, *Command, error) {
	command := new(Command)
	parser, err := kong.New(
		command,
		kong.Name("upgrader"),
		kong.Description("Upgrade CMS projects from cells to fixed nestable elements"),
		kong.Writers(out, os.Stderr),
		kong.UsageOnError(),
	)
	return parser, command, err
}

func Run(out io.Writer, args []string) error {
	parser, command, err := New(out)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return ctx.Run(app.New(command.Verbose, out))
}

func main() {
	parser, command, err := New(os.Stdout)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(app.New(command.Verbose, os.Stdout))
	ctx.FatalIfErrorf(err)
}
