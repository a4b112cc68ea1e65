package version

import (
	"fmt"

	"go.scnd.dev/open/upgrader"
	"go.scnd.dev/open/upgrader/command/upgrader/app"
)

type Command struct{}

func (r *Command) Run(app *app.App) error {
	_, err := fmt.Fprintf(app.Output(), "upgrader %s\n", upgrader.Version)
	return err
}
