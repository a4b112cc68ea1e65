package migrate

import (
	"go.scnd.dev/open/upgrader/package/backup"
	"go.scnd.dev/open/upgrader/package/rewrite"
)

type Summary struct {
	DryRun             bool
	Backups            []*backup.Record
	LayoutsChanged     []string
	Appended           []string
	Converted          []string
	CellsDeleted       bool
	ViewsRewritten     []string
	CallSitesRewritten []string
	Moved              []*rewrite.Move
	Generated          bool
	Skipped            []*Skip
}

// Skip records a step that found nothing to do.
type Skip struct {
	Step string
	Path string
}

func (r *Summary) skip(step string, path string) {
	r.Skipped = append(r.Skipped, &Skip{Step: step, Path: path})
}

// Changed reports whether the run changed any file.
func (r *Summary) Changed() bool {
	return len(r.LayoutsChanged) > 0 ||
		len(r.Appended) > 0 ||
		r.CellsDeleted ||
		len(r.ViewsRewritten) > 0 ||
		len(r.CallSitesRewritten) > 0 ||
		len(r.Moved) > 0
}
