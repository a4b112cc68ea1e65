// Package migrate runs the cells upgrade as one fixed sequence of steps:
//
//  1. back up and convert page layouts
//  2. convert cells into fixed elements and delete the cells config
//  3. update cell view bodies
//  4. rewrite render_cell and from_cell call sites
//  5. move cell views into the elements view folder
//  6. invoke the editor partial generator
//
// Every config document is loaded and every cell name registered before the
// first write, so parse errors and name collisions leave the project as it was.
package migrate

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.scnd.dev/open/upgrader"
	"go.scnd.dev/open/upgrader/package/backup"
	"go.scnd.dev/open/upgrader/package/erroring"
	"go.scnd.dev/open/upgrader/package/generator"
	"go.scnd.dev/open/upgrader/package/layout"
	"go.scnd.dev/open/upgrader/package/mapper"
	"go.scnd.dev/open/upgrader/package/project"
	"go.scnd.dev/open/upgrader/package/rewrite"
	"go.scnd.dev/open/upgrader/package/workspace"
	"go.uber.org/zap"
)

type Migrator struct {
	Upgrader  upgrader.Upgrader
	Paths     *project.Paths
	Workspace *workspace.Workspace
	Mapper    *mapper.Mapper
	Rewriter  *rewrite.Rewriter
	Backup    backup.Stores
	Generator generator.Generator
	Output    io.Writer
	layer     upgrader.Layer
}

// Plan holds every document the run will change, loaded and checked up front.
type Plan struct {
	PageLayouts *layout.PageLayouts
	HasCells    bool
	Cells       []*layout.CellDefinition
	Pending     []*layout.FixedElementDefinition
	Converted   []*layout.FixedElementDefinition
}

func New(u upgrader.Upgrader, paths *project.Paths, ws *workspace.Workspace, m *mapper.Mapper, stores backup.Stores, g generator.Generator, out io.Writer) *Migrator {
	if out == nil {
		out = io.Discard
	}

	return &Migrator{
		Upgrader:  u,
		Paths:     paths,
		Workspace: ws,
		Mapper:    m,
		Rewriter:  rewrite.New(ws, m),
		Backup:    stores,
		Generator: g,
		Output:    out,
		layer:     u.Layer("migrate", "package"),
	}
}

func (r *Migrator) print(format string, args ...any) {
	_, _ = fmt.Fprintf(r.Output, format+"\n", args...)
}

// Run executes the upgrade. Missing artifacts skip their step; any other
// error stops the run at once.
func (r *Migrator) Run(ctx context.Context) (*Summary, error) {
	s, ctx := r.layer.With(ctx)
	defer s.End()

	summary := &Summary{
		DryRun: r.Workspace.DryRun,
	}
	if summary.DryRun {
		r.print("Dry run, no files will be changed.")
	}

	plan, err := r.Prepare(ctx)
	if err != nil {
		return summary, s.Error("failed to prepare upgrade", err)
	}

	steps := []struct {
		name string
		run  func(context.Context, *Plan, *Summary) error
	}{
		{name: "convert page layouts", run: r.ConvertPageLayouts},
		{name: "convert cells", run: r.ConvertCells},
		{name: "update cell views", run: r.UpdateCellViews},
		{name: "update call sites", run: r.UpdateCallSites},
		{name: "move cell views", run: r.MoveCellViews},
		{name: "generate editor partials", run: r.GenerateEditorPartials},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return summary, s.Error("upgrade cancelled", err)
		}
		if err := step.run(ctx, plan, summary); err != nil {
			return summary, s.Error(fmt.Sprintf("failed to %s", step.name), err)
		}
	}

	r.print("Done ✔")
	r.Upgrader.Logger().Debug("upgrade finished", zap.Duration("elapsed", time.Since(*s.Started())))
	return summary, nil
}

// Prepare loads page layouts, cells and elements and maps every cell to its
// fixed element. Nothing is written.
func (r *Migrator) Prepare(ctx context.Context) (*Plan, error) {
	s, _ := r.layer.With(ctx)
	defer s.End()

	plan := new(Plan)

	// * page layouts
	layouts, err := layout.LoadPageLayouts(r.Workspace, r.Paths.PageLayouts)
	switch {
	case erroring.IsMissing(err):
	case err != nil:
		return nil, s.Error("failed to load page layouts", err)
	default:
		plan.PageLayouts = layouts
	}

	// * cells and the elements they become
	cells, err := layout.LoadCellDefinitions(r.Workspace, r.Paths.Cells)
	if erroring.IsMissing(err) {
		return plan, nil
	}
	if err != nil {
		return nil, s.Error("failed to load cells", err)
	}
	plan.HasCells = true
	plan.Cells = cells

	elements, err := layout.LoadElementDefinitions(r.Workspace, r.Paths.Elements)
	if err != nil {
		return nil, s.Error("failed to load elements", err)
	}

	plan.Pending, plan.Converted, err = layout.FixedElementDefinitions(r.Mapper, r.Paths.Cells, cells, elements)
	if err != nil {
		return nil, s.Error("failed to map cells to elements", err)
	}
	s.Variable("pending", len(plan.Pending))
	s.Variable("converted", len(plan.Converted))

	return plan, nil
}

func (r *Migrator) ConvertPageLayouts(ctx context.Context, plan *Plan, summary *Summary) error {
	s, ctx := r.layer.With(ctx)
	defer s.End()

	if plan.PageLayouts == nil {
		summary.skip("page layouts", r.Paths.PageLayouts)
		r.print("No page layouts config found. Skipping.")
		return nil
	}
	if !plan.PageLayouts.HasCells() {
		summary.skip("page layouts", r.Paths.PageLayouts)
		r.print("No cells left in `%s`. Skipping.", r.Paths.Relative(r.Paths.PageLayouts))
		return nil
	}

	// * back up before the first change
	records, err := r.Backup.Backup(ctx, r.Paths.PageLayouts)
	if err != nil {
		return s.Error("failed to back up page layouts", err)
	}
	for _, record := range records {
		summary.Backups = append(summary.Backups, record)
		switch {
		case record.Skipped:
			r.print("-- Keeping existing backup `%s`", r.Paths.Relative(record.Location))
		case record.Store == "local":
			r.print("-- Copied existing config file to `%s` ✔", r.Paths.Relative(record.Location))
		default:
			r.print("-- Uploaded existing config file to `%s` ✔", record.Location)
		}
	}

	changed, err := layout.MergeCellsIntoLayouts(plan.PageLayouts, r.Mapper.Map)
	if err != nil {
		return s.Error("failed to merge cells into page layouts", &erroring.ConfigReadError{Path: r.Paths.PageLayouts, Err: err})
	}
	summary.LayoutsChanged = changed
	r.print("-- Moved `cells` of %d page layouts into autogenerated `elements` ✔", len(changed))

	if err := layout.WritePageLayouts(r.Workspace, r.Paths.PageLayouts, plan.PageLayouts); err != nil {
		return s.Error("failed to write page layouts", err)
	}
	r.Upgrader.Instrument().FileRewritten(ctx, "page_layouts", r.Paths.PageLayouts)
	r.print("-- Wrote new `%s` ✔", r.Paths.Relative(r.Paths.PageLayouts))

	return nil
}

func (r *Migrator) ConvertCells(ctx context.Context, plan *Plan, summary *Summary) error {
	s, ctx := r.layer.With(ctx)
	defer s.End()

	if !plan.HasCells {
		summary.skip("cells", r.Paths.Cells)
		r.print("No cells config found. Skipping.")
		return nil
	}

	r.print("-- Converting cells into unique fixed nestable elements.")
	if err := layout.AppendFixedElementDefinitions(r.Workspace, r.Paths.Elements, plan.Pending); err != nil {
		return s.Error("failed to append fixed elements", err)
	}
	for _, definition := range plan.Pending {
		summary.Appended = append(summary.Appended, definition.Name)
		r.Upgrader.Instrument().ElementAppended(ctx, definition.Name)
		r.print("   Added fixed element `%s` for cell `%s`", definition.Name, definition.Cell)
	}
	for _, definition := range plan.Converted {
		summary.Converted = append(summary.Converted, definition.Name)
		r.print("   Kept existing fixed element `%s`", definition.Name)
	}

	r.print("-- Deleting cells config file.")
	if err := layout.DeleteCellDefinitions(r.Workspace, r.Paths.Cells); err != nil {
		return s.Error("failed to delete cells config", err)
	}
	summary.CellsDeleted = true

	return nil
}

func (r *Migrator) UpdateCellViews(ctx context.Context, _ *Plan, summary *Summary) error {
	s, ctx := r.layer.With(ctx)
	defer s.End()

	rewritten, err := r.Rewriter.RewriteCellReferencesInViews(ctx, r.Paths.CellViews)
	if erroring.IsMissing(err) {
		summary.skip("cell views", r.Paths.CellViews)
		r.print("No cell views found. Skipping.")
		return nil
	}

	r.print("-- Update cell views")
	for _, path := range rewritten {
		r.Upgrader.Instrument().FileRewritten(ctx, "cell_view", path)
		r.print("   Updated %s", r.Paths.Relative(path))
	}
	summary.ViewsRewritten = append(summary.ViewsRewritten, rewritten...)
	if err != nil {
		return s.Error("failed to update cell views", err)
	}

	return nil
}

func (r *Migrator) UpdateCallSites(ctx context.Context, _ *Plan, summary *Summary) error {
	s, ctx := r.layer.With(ctx)
	defer s.End()

	rewritten, err := r.Rewriter.RewriteLegacyCallSites(ctx, r.Paths.Views)
	if erroring.IsMissing(err) {
		summary.skip("views", r.Paths.Views)
		r.print("No views found. Skipping.")
		return nil
	}

	r.print("-- Update render_cell calls")
	for _, path := range rewritten {
		r.Upgrader.Instrument().FileRewritten(ctx, "call_site", path)
		r.print("   Updated %s", r.Paths.Relative(path))
	}
	summary.CallSitesRewritten = append(summary.CallSitesRewritten, rewritten...)
	if err != nil {
		return s.Error("failed to update render_cell calls", err)
	}

	return nil
}

func (r *Migrator) MoveCellViews(ctx context.Context, _ *Plan, summary *Summary) error {
	s, ctx := r.layer.With(ctx)
	defer s.End()

	moves, err := r.Rewriter.RelocateCellViews(ctx, r.Paths.CellViews, r.Paths.ElementViews)
	if erroring.IsMissing(err) {
		summary.skip("cell views", r.Paths.CellViews)
		r.print("No cell views to move. Skipping.")
		return nil
	}

	r.print("-- Move cell views into elements view folder")
	for _, move := range moves {
		r.Upgrader.Instrument().FileMoved(ctx, move.To)
		r.print("   Moved %s to `%s`", r.Paths.Relative(move.From), r.Paths.Relative(move.To))
	}
	summary.Moved = append(summary.Moved, moves...)
	if err != nil {
		return s.Error("failed to move cell views", err)
	}

	return nil
}

// GenerateEditorPartials asks the generator for editor partials of the
// elements appended by this run. Existing partials are skipped by the generator.
func (r *Migrator) GenerateEditorPartials(ctx context.Context, _ *Plan, summary *Summary) error {
	s, ctx := r.layer.With(ctx)
	defer s.End()

	if len(summary.Appended) == 0 {
		r.print("No new fixed elements. Skipping editor partials.")
		return nil
	}

	name := *r.Upgrader.Config().Generator
	s.Variable("generator", name)
	r.print("-- Generate editor partials")
	r.Generator.Invoke(ctx, name, "--skip")
	summary.Generated = true

	return nil
}
