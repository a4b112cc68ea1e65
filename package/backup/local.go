package backup

import (
	"context"

	"go.scnd.dev/open/upgrader/package/workspace"
)

// Local copies a document next to itself. An existing copy is the original
// pre-upgrade document and is never replaced.
type Local struct {
	Workspace *workspace.Workspace
	Suffix    string
}

func NewLocal(ws *workspace.Workspace, suffix string) *Local {
	return &Local{
		Workspace: ws,
		Suffix:    suffix,
	}
}

func (r *Local) Name() string {
	return "local"
}

func (r *Local) Backup(ctx context.Context, source string) (*Record, error) {
	record := &Record{
		Store:    r.Name(),
		Source:   source,
		Location: source + r.Suffix,
	}

	if r.Workspace.Exists(record.Location) {
		record.Skipped = true
		return record, nil
	}

	if err := r.Workspace.Copy(source, record.Location); err != nil {
		return nil, err
	}

	return record, nil
}
