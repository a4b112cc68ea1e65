package project

import (
	"path/filepath"

	"go.scnd.dev/open/upgrader"
)

const (
	PageLayoutsFile = "page_layouts.yml"
	CellsFile       = "cells.yml"
	ElementsFile    = "elements.yml"
	BackupSuffix    = ".old"
	CellsFolder     = "cells"
	ElementsFolder  = "elements"
)

// Paths holds every location the upgrade touches, resolved against the project root.
type Paths struct {
	Root              string
	PageLayouts       string
	PageLayoutsBackup string
	Cells             string
	Elements          string
	Views             string
	CellViews         string
	ElementViews      string
}

func New(config *upgrader.Config) *Paths {
	root := filepath.Clean(*config.Root)
	configDir := filepath.Join(root, *config.ConfigDirectory, *config.Namespace)
	viewDir := filepath.Join(root, *config.ViewDirectory, *config.Namespace)

	return &Paths{
		Root:              root,
		PageLayouts:       filepath.Join(configDir, PageLayoutsFile),
		PageLayoutsBackup: filepath.Join(configDir, PageLayoutsFile+BackupSuffix),
		Cells:             filepath.Join(configDir, CellsFile),
		Elements:          filepath.Join(configDir, ElementsFile),
		Views:             viewDir,
		CellViews:         filepath.Join(viewDir, CellsFolder),
		ElementViews:      filepath.Join(viewDir, ElementsFolder),
	}
}

// Relative renders path relative to the project root for progress output.
func (r *Paths) Relative(path string) string {
	relative, err := filepath.Rel(r.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(relative)
}
