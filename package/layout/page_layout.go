package layout

import (
	"bytes"
	"fmt"

	"go.scnd.dev/open/upgrader/package/erroring"
	"go.scnd.dev/open/upgrader/package/workspace"
	"gopkg.in/yaml.v3"
)

const (
	KeyName         = "name"
	KeyElements     = "elements"
	KeyAutogenerate = "autogenerate"
	KeyCells        = "cells"
)

// PageLayout wraps one mapping of page_layouts.yml. Keys the upgrade does
// not know about are kept in place.
type PageLayout struct {
	Node *yaml.Node
}

type PageLayouts struct {
	Document *yaml.Node
	Items    []*PageLayout
}

func LoadPageLayouts(ws *workspace.Workspace, path string) (*PageLayouts, error) {
	content, err := ws.ReadFile(path)
	if err != nil {
		return nil, &erroring.ConfigReadError{Path: path, Err: err}
	}

	return ParsePageLayouts(path, content)
}

func ParsePageLayouts(path string, content []byte) (*PageLayouts, error) {
	document := new(yaml.Node)
	if err := yaml.Unmarshal(content, document); err != nil {
		return nil, &erroring.ConfigReadError{Path: path, Err: err}
	}

	layouts := &PageLayouts{
		Document: document,
		Items:    make([]*PageLayout, 0),
	}

	// * empty document holds no layouts
	if document.Kind == 0 || len(document.Content) == 0 {
		return layouts, nil
	}

	root := document.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return layouts, nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, &erroring.ConfigReadError{Path: path, Err: fmt.Errorf("line %d: expected a list of page layouts", root.Line)}
	}

	for _, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			return nil, &erroring.ConfigReadError{Path: path, Err: fmt.Errorf("line %d: expected a page layout mapping", item.Line)}
		}
		layout := &PageLayout{Node: item}

		// * validate list fields up front so merging cannot fail half way
		for _, key := range []string{KeyElements, KeyAutogenerate, KeyCells} {
			if _, err := layout.List(key); err != nil {
				return nil, &erroring.ConfigReadError{Path: path, Err: err}
			}
		}

		layouts.Items = append(layouts.Items, layout)
	}

	return layouts, nil
}

func (r *PageLayout) Name() string {
	_, value := r.lookup(KeyName)
	if value == nil {
		return ""
	}
	return value.Value
}

func (r *PageLayout) Has(key string) bool {
	index, _ := r.lookup(key)
	return index >= 0
}

// List reads a list of names; a missing or null key reads as empty.
func (r *PageLayout) List(key string) ([]string, error) {
	_, value := r.lookup(key)
	if value == nil {
		return nil, nil
	}

	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return nil, nil
		}
		return nil, fmt.Errorf("line %d: page layout %q key %q must be a list", value.Line, r.Name(), key)
	case yaml.SequenceNode:
		values := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: page layout %q key %q must only hold names", item.Line, r.Name(), key)
			}
			values = append(values, item.Value)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("line %d: page layout %q key %q must be a list", value.Line, r.Name(), key)
	}
}

// SetList replaces the list under key, or inserts it before the key named before.
func (r *PageLayout) SetList(key string, values []string, before string, style yaml.Style) {
	sequence := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Tag:     "!!seq",
		Style:   style,
		Content: make([]*yaml.Node, 0, len(values)),
	}
	for _, value := range values {
		sequence.Content = append(sequence.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: value,
		})
	}

	// * replace in place, keeping the existing style and comments
	if index, value := r.lookup(key); index >= 0 {
		if value.Kind == yaml.SequenceNode {
			sequence.Style = value.Style
			sequence.LineComment = value.LineComment
		}
		r.Node.Content[index+1] = sequence
		return
	}

	keyNode := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Value: key,
	}

	position := len(r.Node.Content)
	if index, _ := r.lookup(before); index >= 0 {
		position = index
	}

	content := make([]*yaml.Node, 0, len(r.Node.Content)+2)
	content = append(content, r.Node.Content[:position]...)
	content = append(content, keyNode, sequence)
	content = append(content, r.Node.Content[position:]...)
	r.Node.Content = content
}

func (r *PageLayout) Delete(key string) {
	index, _ := r.lookup(key)
	if index < 0 {
		return
	}
	r.Node.Content = append(r.Node.Content[:index], r.Node.Content[index+2:]...)
}

func (r *PageLayout) style(key string) yaml.Style {
	_, value := r.lookup(key)
	if value == nil {
		return 0
	}
	return value.Style
}

func (r *PageLayout) lookup(key string) (int, *yaml.Node) {
	for i := 0; i+1 < len(r.Node.Content); i += 2 {
		if r.Node.Content[i].Value == key {
			return i, r.Node.Content[i+1]
		}
	}
	return -1, nil
}

// MergeCellsIntoLayouts folds each layout's cells into its elements and
// autogenerate lists and drops the cells key. Cell names pass through rename
// when given. It returns the names of the layouts changed.
func MergeCellsIntoLayouts(layouts *PageLayouts, rename func(string) string) ([]string, error) {
	changed := make([]string, 0)
	for _, layout := range layouts.Items {
		if !layout.Has(KeyCells) {
			continue
		}

		cells, err := layout.List(KeyCells)
		if err != nil {
			return nil, err
		}
		elements, err := layout.List(KeyElements)
		if err != nil {
			return nil, err
		}
		autogenerate, err := layout.List(KeyAutogenerate)
		if err != nil {
			return nil, err
		}

		if rename != nil {
			for i := range cells {
				cells[i] = rename(cells[i])
			}
		}

		// * an empty cells key only needs removing
		if len(cells) > 0 {
			style := layout.style(KeyCells)
			layout.SetList(KeyElements, Dedupe(elements, cells), KeyCells, style)
			layout.SetList(KeyAutogenerate, Dedupe(autogenerate, cells), KeyCells, style)
		}
		layout.Delete(KeyCells)

		changed = append(changed, layout.Name())
	}

	return changed, nil
}

// HasCells reports whether any layout still carries a cells key.
func (r *PageLayouts) HasCells() bool {
	for _, layout := range r.Items {
		if layout.Has(KeyCells) {
			return true
		}
	}
	return false
}

func (r *PageLayouts) Marshal() ([]byte, error) {
	if len(r.Document.Content) == 0 {
		return []byte{}, nil
	}

	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(r.Document); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}

	// * one blank line between top level layouts
	content := bytes.TrimPrefix(buffer.Bytes(), []byte("---\n"))
	content = bytes.ReplaceAll(content, []byte("\n-"), []byte("\n\n-"))

	return content, nil
}

func WritePageLayouts(ws *workspace.Workspace, path string, layouts *PageLayouts) error {
	content, err := layouts.Marshal()
	if err != nil {
		return &erroring.ConfigWriteError{Path: path, Err: err}
	}

	if _, err := ws.WriteFile(path, content); err != nil {
		return &erroring.ConfigWriteError{Path: path, Err: err}
	}

	return nil
}

// Dedupe concatenates lists keeping the first occurrence of every name.
func Dedupe(lists ...[]string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)
	for _, list := range lists {
		for _, value := range list {
			if seen[value] {
				continue
			}
			seen[value] = true
			result = append(result, value)
		}
	}
	return result
}
