package layout

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lithammer/dedent"
	"go.scnd.dev/open/upgrader/package/erroring"
	"go.scnd.dev/open/upgrader/package/mapper"
	"go.scnd.dev/open/upgrader/package/workspace"
	"gopkg.in/yaml.v3"
)

type CellDefinition struct {
	Name     string   `yaml:"name"`
	Elements []string `yaml:"elements"`
}

// ElementDefinition is the subset of an elements.yml entry the upgrade inspects.
type ElementDefinition struct {
	Name             string   `yaml:"name"`
	Fixed            bool     `yaml:"fixed"`
	Unique           bool     `yaml:"unique"`
	NestableElements []string `yaml:"nestable_elements"`
}

type FixedElementDefinition struct {
	Cell             string
	Name             string
	NestableElements []string
}

var fixedElementTemplate = dedent.Dedent(`
	- name: %s
	  fixed: true
	  unique: true
	  nestable_elements: [%s]
`)

func (r *FixedElementDefinition) Render() string {
	return fmt.Sprintf(fixedElementTemplate, r.Name, strings.Join(r.NestableElements, ", "))
}

// Matches reports whether an existing element is exactly what this definition would append.
func (r *FixedElementDefinition) Matches(element *ElementDefinition) bool {
	return element.Name == r.Name &&
		element.Fixed &&
		element.Unique &&
		slices.Equal(normalize(element.NestableElements), normalize(r.NestableElements))
}

func normalize(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

func LoadCellDefinitions(ws *workspace.Workspace, path string) ([]*CellDefinition, error) {
	content, err := ws.ReadFile(path)
	if err != nil {
		return nil, &erroring.ConfigReadError{Path: path, Err: err}
	}

	cells := make([]*CellDefinition, 0)
	if err := yaml.Unmarshal(content, &cells); err != nil {
		return nil, &erroring.ConfigReadError{Path: path, Err: err}
	}

	// * a header-only or null document holds no cells
	if cells == nil {
		cells = make([]*CellDefinition, 0)
	}

	for i, cell := range cells {
		if cell == nil || strings.TrimSpace(cell.Name) == "" {
			return nil, &erroring.ConfigReadError{Path: path, Err: fmt.Errorf("cell #%d has no name", i+1)}
		}
	}

	return cells, nil
}

// LoadElementDefinitions reads elements.yml; a missing file holds no definitions.
func LoadElementDefinitions(ws *workspace.Workspace, path string) ([]*ElementDefinition, error) {
	if !ws.Exists(path) {
		return []*ElementDefinition{}, nil
	}

	content, err := ws.ReadFile(path)
	if err != nil {
		return nil, &erroring.ConfigReadError{Path: path, Err: err}
	}

	elements := make([]*ElementDefinition, 0)
	if err := yaml.Unmarshal(content, &elements); err != nil {
		return nil, &erroring.ConfigReadError{Path: path, Err: err}
	}

	return slices.DeleteFunc(elements, func(element *ElementDefinition) bool {
		return element == nil
	}), nil
}

// FixedElementDefinitions maps every cell to its fixed element. Cells whose
// element already exists identically are returned as converted instead of
// appended again. Any name collision is reported before anything is written.
func FixedElementDefinitions(m *mapper.Mapper, path string, cells []*CellDefinition, existing []*ElementDefinition) (pending []*FixedElementDefinition, converted []*FixedElementDefinition, err error) {
	byName := make(map[string]*ElementDefinition, len(existing))
	for _, element := range existing {
		byName[element.Name] = element
	}

	// * build candidates and separate already converted cells
	candidates := make([]*FixedElementDefinition, 0, len(cells))
	done := make(map[string]bool)
	for _, cell := range cells {
		definition := &FixedElementDefinition{
			Cell:             cell.Name,
			Name:             m.Map(cell.Name),
			NestableElements: cell.Elements,
		}
		if element, ok := byName[definition.Name]; ok && definition.Matches(element) {
			done[definition.Name] = true
		}
		candidates = append(candidates, definition)
	}

	// * every other existing element name is off limits
	for _, element := range existing {
		if !done[element.Name] {
			m.Reserve(element.Name)
		}
	}

	pending = make([]*FixedElementDefinition, 0)
	converted = make([]*FixedElementDefinition, 0)
	for _, definition := range candidates {
		if _, err := m.Register(definition.Cell); err != nil {
			if errors.Is(err, mapper.ErrEmptyName) {
				return nil, nil, &erroring.ConfigReadError{Path: path, Err: fmt.Errorf("cell %q: %w", definition.Cell, err)}
			}
			return nil, nil, err
		}
		if done[definition.Name] {
			converted = append(converted, definition)
			continue
		}
		pending = append(pending, definition)
	}

	return pending, converted, nil
}

// AppendFixedElementDefinitions adds one entry per definition to the end of
// elements.yml. Existing entries are never rewritten.
func AppendFixedElementDefinitions(ws *workspace.Workspace, path string, definitions []*FixedElementDefinition) error {
	if len(definitions) == 0 {
		return nil
	}

	var builder strings.Builder

	// * keep the previous last line intact
	if ws.Exists(path) {
		content, err := ws.ReadFile(path)
		if err != nil {
			return &erroring.ConfigWriteError{Path: path, Err: err}
		}
		if len(content) > 0 && content[len(content)-1] != '\n' {
			builder.WriteString("\n")
		}
	}

	for _, definition := range definitions {
		builder.WriteString(definition.Render())
	}

	if err := ws.AppendFile(path, []byte(builder.String())); err != nil {
		return &erroring.ConfigWriteError{Path: path, Err: err}
	}

	return nil
}

func DeleteCellDefinitions(ws *workspace.Workspace, path string) error {
	return ws.Remove(path)
}
