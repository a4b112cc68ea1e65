package printer

import (
	"bytes"
	"fmt"

	"github.com/ddddddO/gtree"
	"go.scnd.dev/open/upgrader/package/migrate"
	"go.scnd.dev/open/upgrader/package/project"
)

// PrintSummary renders what a run changed as a tree, one branch per step.
func PrintSummary(paths *project.Paths, summary *migrate.Summary) (string, error) {
	title := "upgrade"
	if summary.DryRun {
		title = "upgrade (dry run)"
	}
	root := gtree.NewRoot(title)

	if len(summary.Backups) > 0 {
		node := root.Add("backups")
		for _, record := range summary.Backups {
			location := record.Location
			if record.Store == "local" {
				location = paths.Relative(location)
			}
			if record.Skipped {
				location += " (kept)"
			}
			node.Add(fmt.Sprintf("%s: %s", record.Store, location))
		}
	}

	if len(summary.LayoutsChanged) > 0 {
		node := root.Add("page layouts")
		for _, name := range summary.LayoutsChanged {
			node.Add(name)
		}
	}

	if len(summary.Appended)+len(summary.Converted) > 0 {
		node := root.Add("fixed elements")
		for _, name := range summary.Appended {
			node.Add("added " + name)
		}
		for _, name := range summary.Converted {
			node.Add("kept " + name)
		}
	}

	for _, branch := range []struct {
		title string
		files []string
	}{
		{title: "cell views", files: summary.ViewsRewritten},
		{title: "call sites", files: summary.CallSitesRewritten},
	} {
		if len(branch.files) == 0 {
			continue
		}
		node := root.Add(branch.title)
		for _, file := range branch.files {
			node.Add(paths.Relative(file))
		}
	}

	if len(summary.Moved) > 0 {
		node := root.Add("moved views")
		for _, move := range summary.Moved {
			node.Add(fmt.Sprintf("%s -> %s", paths.Relative(move.From), paths.Relative(move.To)))
		}
	}

	if len(summary.Skipped) > 0 {
		node := root.Add("skipped")
		for _, skip := range summary.Skipped {
			node.Add(fmt.Sprintf("%s: %s", skip.Step, paths.Relative(skip.Path)))
		}
	}

	var buffer bytes.Buffer
	if err := gtree.OutputFromRoot(&buffer, root); err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}

	return buffer.String(), nil
}
