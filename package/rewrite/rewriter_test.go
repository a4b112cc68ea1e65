package rewrite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsthun/gut"
	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/upgrader"
	"go.scnd.dev/open/upgrader/package/erroring"
	"go.scnd.dev/open/upgrader/package/mapper"
	"go.scnd.dev/open/upgrader/package/workspace"
)

func newRewriter(dryRun bool) *Rewriter {
	ws := workspace.New(&upgrader.Config{DryRun: gut.Ptr(dryRun)}, nil)
	return New(ws, mapper.New())
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestRewriteLegacyCallSites(t *testing.T) {
	root := t.TempDir()
	page := filepath.Join(root, "pages", "show.html.erb")
	layout := filepath.Join(root, "layouts", "deep", "application.html.erb")
	untouched := filepath.Join(root, "elements", "_article_view.html.erb")
	writeFile(t, page, "<%= render_cell('test') %>\n")
	writeFile(t, layout, "<%= render_elements from_cell: :SideBar %>\n")
	writeFile(t, untouched, "<%= element.name %>\n")

	rewritten, err := newRewriter(false).RewriteLegacyCallSites(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, []string{layout, page}, rewritten)
	require.Equal(t, "<%= render_elements(only: 'test', fixed: true) %>\n", readFile(t, page))
	require.Equal(t, "<%= render_elements only: :side_bar, fixed: true %>\n", readFile(t, layout))

	// * second run has nothing left to do
	rewritten, err = newRewriter(false).RewriteLegacyCallSites(context.Background(), root)
	require.NoError(t, err)
	require.Empty(t, rewritten)
}

func TestRewriteCellReferencesInViews(t *testing.T) {
	dir := t.TempDir()
	view := filepath.Join(dir, "_sidebar.html.erb")
	writeFile(t, view, "<%= render_elements from_cell: cell %>")

	rewritten, err := newRewriter(false).RewriteCellReferencesInViews(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, []string{view}, rewritten)
	require.Equal(t, "<%= render element.nested_elements %>", readFile(t, view))
}

func TestRewriteMissingDirectory(t *testing.T) {
	_, err := newRewriter(false).RewriteCellReferencesInViews(context.Background(), filepath.Join(t.TempDir(), "cells"))
	require.True(t, erroring.IsMissing(err))
}

func TestRewriteDryRun(t *testing.T) {
	root := t.TempDir()
	page := filepath.Join(root, "show.html.erb")
	writeFile(t, page, "<%= render_cell :header %>")

	rewritten, err := newRewriter(true).RewriteLegacyCallSites(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, []string{page}, rewritten)
	require.Equal(t, "<%= render_cell :header %>", readFile(t, page))
}

func TestRelocateCellViews(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "cells")
	destination := filepath.Join(root, "elements")
	writeFile(t, filepath.Join(source, "foo_bar.html.erb"), "foo")
	writeFile(t, filepath.Join(source, "_header.html.erb"), "header")
	writeFile(t, filepath.Join(source, "_intro_view.html.erb"), "intro")

	moves, err := newRewriter(false).RelocateCellViews(context.Background(), source, destination)
	require.NoError(t, err)
	require.Equal(t, []*Move{
		{From: filepath.Join(source, "_header.html.erb"), To: filepath.Join(destination, "_header_view.html.erb")},
		{From: filepath.Join(source, "_intro_view.html.erb"), To: filepath.Join(destination, "_intro_view.html.erb")},
		{From: filepath.Join(source, "foo_bar.html.erb"), To: filepath.Join(destination, "foo_bar_view.html.erb")},
	}, moves)

	require.Equal(t, "foo", readFile(t, filepath.Join(destination, "foo_bar_view.html.erb")))
	require.NoDirExists(t, source)
}

func TestRelocateCellViewsConflict(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "cells")
	destination := filepath.Join(root, "elements")
	writeFile(t, filepath.Join(source, "_a.html.erb"), "a")
	writeFile(t, filepath.Join(source, "_header.html.erb"), "cell")
	writeFile(t, filepath.Join(destination, "_header_view.html.erb"), "element")

	_, err := newRewriter(false).RelocateCellViews(context.Background(), source, destination)
	require.Equal(t, erroring.KindFileOperation, erroring.KindOf(err))

	// * nothing moved, nothing clobbered
	require.FileExists(t, filepath.Join(source, "_a.html.erb"))
	require.NoFileExists(t, filepath.Join(destination, "_a_view.html.erb"))
	require.Equal(t, "element", readFile(t, filepath.Join(destination, "_header_view.html.erb")))
}

func TestRelocateCellViewsMissing(t *testing.T) {
	root := t.TempDir()
	_, err := newRewriter(false).RelocateCellViews(context.Background(), filepath.Join(root, "cells"), filepath.Join(root, "elements"))
	require.True(t, erroring.IsMissing(err))
}

func TestRewriteLegacyCallSitesSkipsLinkedDirectory(t *testing.T) {
	root := t.TempDir()
	shared := filepath.Join(t.TempDir(), "shared")
	page := filepath.Join(root, "pages", "show.html.erb")
	writeFile(t, filepath.Join(shared, "_nav.html.erb"), "<%= render_cell('nav') %>\n")
	writeFile(t, page, "<%= render_cell('test') %>\n")
	require.NoError(t, os.Symlink(shared, filepath.Join(root, "shared")))

	rewritten, err := newRewriter(false).RewriteLegacyCallSites(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, []string{page}, rewritten)
	require.Equal(t, "<%= render_cell('nav') %>\n", readFile(t, filepath.Join(shared, "_nav.html.erb")))
}

func TestRewriteKeepsUserTmpFiles(t *testing.T) {
	root := t.TempDir()
	page := filepath.Join(root, "pages", "show.html.erb")
	writeFile(t, page, "<%= render_cell('test') %>\n")
	writeFile(t, page+".tmp", "<%= render_cell('draft') %>\n")

	rewritten, err := newRewriter(false).RewriteLegacyCallSites(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, []string{page, page + ".tmp"}, rewritten)
	require.Equal(t, "<%= render_elements(only: 'test', fixed: true) %>\n", readFile(t, page))
	require.Equal(t, "<%= render_elements(only: 'draft', fixed: true) %>\n", readFile(t, page+".tmp"))
}
