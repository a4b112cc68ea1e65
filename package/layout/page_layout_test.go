package layout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bsthun/gut"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/upgrader"
	"go.scnd.dev/open/upgrader/package/erroring"
	"go.scnd.dev/open/upgrader/package/workspace"
	"gopkg.in/yaml.v3"
)

type decodedLayout struct {
	Name         string   `yaml:"name"`
	Elements     []string `yaml:"elements"`
	Autogenerate []string `yaml:"autogenerate"`
	Cells        []string `yaml:"cells"`
	Unique       bool     `yaml:"unique"`
}

func decode(t *testing.T, content []byte) []decodedLayout {
	t.Helper()
	var layouts []decodedLayout
	require.NoError(t, yaml.Unmarshal(content, &layouts))
	return layouts
}

func mergeAndMarshal(t *testing.T, source string) ([]string, []byte) {
	t.Helper()
	layouts, err := ParsePageLayouts("page_layouts.yml", []byte(source))
	require.NoError(t, err)

	changed, err := MergeCellsIntoLayouts(layouts, nil)
	require.NoError(t, err)

	content, err := layouts.Marshal()
	require.NoError(t, err)
	return changed, content
}

func TestMergeCellsIntoLayouts(t *testing.T) {
	changed, content := mergeAndMarshal(t, `
- name: standard
  elements: [e1]
  autogenerate: []
  cells: [c1, c2]
`)

	require.Equal(t, []string{"standard"}, changed)
	want := []decodedLayout{{
		Name:         "standard",
		Elements:     []string{"e1", "c1", "c2"},
		Autogenerate: []string{"c1", "c2"},
	}}
	if diff := cmp.Diff(want, decode(t, content)); diff != "" {
		t.Errorf("merged layouts mismatch (-want +got):\n%s", diff)
	}
	require.NotContains(t, string(content), "cells")
}

func TestMergeCellsDeduplicates(t *testing.T) {
	_, content := mergeAndMarshal(t, `
- name: standard
  elements:
    - header
    - article
  autogenerate:
    - header
  cells:
    - header
    - footer
`)

	layouts := decode(t, content)
	require.Equal(t, []string{"header", "article", "footer"}, layouts[0].Elements)
	require.Equal(t, []string{"header", "footer"}, layouts[0].Autogenerate)
}

func TestMergeCellsWithoutLists(t *testing.T) {
	_, content := mergeAndMarshal(t, `
- name: index
  unique: true
  cells: [intro]
  hide: false
`)

	layouts := decode(t, content)
	require.Equal(t, []string{"intro"}, layouts[0].Elements)
	require.Equal(t, []string{"intro"}, layouts[0].Autogenerate)
	require.True(t, layouts[0].Unique)

	// * inserted where cells used to be, other keys keep their order
	text := string(content)
	require.Less(t, strings.Index(text, "unique"), strings.Index(text, "elements"))
	require.Less(t, strings.Index(text, "autogenerate"), strings.Index(text, "hide"))
}

func TestMergeLeavesLayoutsWithoutCells(t *testing.T) {
	changed, content := mergeAndMarshal(t, `
- name: standard
  elements: [article]
- name: news
  cells: [teaser]
`)

	require.Equal(t, []string{"news"}, changed)
	layouts := decode(t, content)
	require.Equal(t, []string{"article"}, layouts[0].Elements)
	require.Nil(t, layouts[0].Autogenerate)
}

func TestMergeDropsEmptyCells(t *testing.T) {
	changed, content := mergeAndMarshal(t, `
- name: standard
  elements: [article]
  cells: []
`)

	require.Equal(t, []string{"standard"}, changed)
	layouts := decode(t, content)
	require.Equal(t, []string{"article"}, layouts[0].Elements)
	require.Nil(t, layouts[0].Autogenerate)
	require.NotContains(t, string(content), "cells")
}

func TestMergeCellsRenames(t *testing.T) {
	layouts, err := ParsePageLayouts("page_layouts.yml", []byte("- name: standard\n  elements: [side_bar]\n  cells: [SideBar, header]\n"))
	require.NoError(t, err)

	_, err = MergeCellsIntoLayouts(layouts, strings.ToLower)
	require.NoError(t, err)

	content, err := layouts.Marshal()
	require.NoError(t, err)
	decoded := decode(t, content)
	require.Equal(t, []string{"side_bar", "sidebar", "header"}, decoded[0].Elements)
	require.Equal(t, []string{"sidebar", "header"}, decoded[0].Autogenerate)
}

func TestMarshalSeparatesLayouts(t *testing.T) {
	_, content := mergeAndMarshal(t, `
- name: standard
  cells: [a]
- name: news
  elements: [b]
`)

	require.False(t, strings.HasPrefix(string(content), "---"))
	require.Contains(t, string(content), "\n\n- name: news")
}

func TestParsePageLayoutsMalformed(t *testing.T) {
	for name, source := range map[string]string{
		"not yaml":     "- name: [",
		"mapping root": "name: standard",
		"scalar item":  "- standard",
		"scalar cells": "- name: standard\n  cells: intro",
		"nested cells": "- name: standard\n  cells:\n    - {name: intro}",
	} {
		_, err := ParsePageLayouts("page_layouts.yml", []byte(source))
		require.Error(t, err, name)
		require.Equal(t, erroring.KindConfigRead, erroring.KindOf(err), name)
	}
}

func TestParsePageLayoutsEmpty(t *testing.T) {
	layouts, err := ParsePageLayouts("page_layouts.yml", []byte(""))
	require.NoError(t, err)
	require.Empty(t, layouts.Items)
	require.False(t, layouts.HasCells())
}

func TestWritePageLayouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page_layouts.yml")
	require.NoError(t, os.WriteFile(path, []byte("- name: standard\n  cells: [intro]\n"), 0600))
	ws := workspace.New(&upgrader.Config{DryRun: gut.Ptr(false)}, nil)

	layouts, err := LoadPageLayouts(ws, path)
	require.NoError(t, err)
	require.True(t, layouts.HasCells())

	_, err = MergeCellsIntoLayouts(layouts, nil)
	require.NoError(t, err)
	require.NoError(t, WritePageLayouts(ws, path, layouts))

	reloaded, err := LoadPageLayouts(ws, path)
	require.NoError(t, err)
	require.False(t, reloaded.HasCells())
}

func TestLoadPageLayoutsMissing(t *testing.T) {
	ws := workspace.New(&upgrader.Config{DryRun: gut.Ptr(false)}, nil)
	_, err := LoadPageLayouts(ws, filepath.Join(t.TempDir(), "page_layouts.yml"))

	var readErr *erroring.ConfigReadError
	require.ErrorAs(t, err, &readErr)
	require.True(t, erroring.IsMissing(err))
}

func TestDedupe(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, Dedupe([]string{"a", "b"}, []string{"b", "c", "a"}))
	require.Equal(t, []string{}, Dedupe(nil, nil))
}
