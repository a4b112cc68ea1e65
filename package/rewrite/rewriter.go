package rewrite

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.scnd.dev/open/upgrader/package/erroring"
	"go.scnd.dev/open/upgrader/package/mapper"
	"go.scnd.dev/open/upgrader/package/workspace"
)

type Rewriter struct {
	Workspace *workspace.Workspace
	Mapper    *mapper.Mapper
}

// Move records one relocated view.
type Move struct {
	From string
	To   string
}

func New(ws *workspace.Workspace, m *mapper.Mapper) *Rewriter {
	return &Rewriter{
		Workspace: ws,
		Mapper:    m,
	}
}

// RewriteFile applies rules to one file and reports whether it changed.
func (r *Rewriter) RewriteFile(path string, rules Rules) (bool, error) {
	content, err := r.Workspace.ReadFile(path)
	if err != nil {
		return false, err
	}

	return r.Workspace.WriteFile(path, rules.Apply(content))
}

func (r *Rewriter) rewriteTree(ctx context.Context, root string, rules Rules) ([]string, error) {
	files, err := r.Workspace.Files(root)
	if err != nil {
		return nil, err
	}

	rewritten := make([]string, 0)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return rewritten, err
		}

		changed, err := r.RewriteFile(file, rules)
		if erroring.IsMissing(err) {
			// * only a missing root skips the step
			return rewritten, &erroring.FileOperationError{Op: "rewrite", Source: file, Err: fs.ErrNotExist}
		}
		if err != nil {
			return rewritten, err
		}
		if changed {
			rewritten = append(rewritten, file)
		}
	}

	return rewritten, nil
}

// RewriteCellReferencesInViews turns every cell view below dir into an
// element view body. A missing dir is reported as a missing artifact.
func (r *Rewriter) RewriteCellReferencesInViews(ctx context.Context, dir string) ([]string, error) {
	return r.rewriteTree(ctx, dir, CellViewRules())
}

// RewriteLegacyCallSites replaces render_cell and from_cell calls in every
// file below root.
func (r *Rewriter) RewriteLegacyCallSites(ctx context.Context, root string) ([]string, error) {
	return r.rewriteTree(ctx, root, CallSiteRules(r.Mapper))
}

// RelocateCellViews moves every entry of source into destination under its
// view name and removes source afterwards. All destinations are checked
// before the first move, so a conflict leaves source untouched.
func (r *Rewriter) RelocateCellViews(ctx context.Context, source string, destination string) ([]*Move, error) {
	entries, err := r.Workspace.Entries(source)
	if err != nil {
		return nil, err
	}

	// * plan moves
	moves := make([]*Move, 0, len(entries))
	targets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			name = ViewName(name)
		}
		move := &Move{
			From: filepath.Join(source, entry.Name()),
			To:   filepath.Join(destination, name),
		}
		if r.Workspace.Exists(move.To) {
			return nil, &erroring.FileOperationError{Op: "move", Source: move.From, Destination: move.To, Err: fs.ErrExist}
		}
		if previous, ok := targets[move.To]; ok {
			return nil, &erroring.FileOperationError{Op: "move", Source: move.From, Destination: move.To, Err: fmt.Errorf("destination also claimed by %s", previous)}
		}
		targets[move.To] = move.From
		moves = append(moves, move)
	}

	// * perform moves
	for i, move := range moves {
		if err := ctx.Err(); err != nil {
			return moves[:i], err
		}
		if err := r.Workspace.Move(move.From, move.To); err != nil {
			return moves[:i], err
		}
	}

	if err := r.Workspace.Remove(source); err != nil {
		return moves, err
	}

	return moves, nil
}
