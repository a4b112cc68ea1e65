// Package mapper translates legacy cell names into fixed element names.
//
// Map is pure and total. Register additionally records which cell claimed a
// name so that two cells, or a cell and an unrelated element, never end up
// sharing one element name.
package mapper

import (
	"errors"
	"sort"
	"strings"

	"go.scnd.dev/open/upgrader/package/erroring"
	"go.scnd.dev/open/upgrader/utility/form"
)

var ErrEmptyName = errors.New("cell name maps to an empty element name")

// ReservedSource names the claimant of a reserved element name in collision reports.
const ReservedSource = "existing element"

type Mapper struct {
	reserved map[string]bool
	sources  map[string]string
}

func New() *Mapper {
	return &Mapper{
		reserved: make(map[string]bool),
		sources:  make(map[string]string),
	}
}

// Map returns a name that is already snake case unchanged, so `header__top`
// stays as is, and snake cases any other name, so `Header__Top` becomes
// `header_top`. Surrounding whitespace is trimmed first.
func (r *Mapper) Map(name string) string {
	name = strings.TrimSpace(name)
	if form.IsSnakeCase(name) {
		return name
	}

	return form.ToSnakeCase(name)
}

// Reserve marks element names that already exist and must not be claimed.
func (r *Mapper) Reserve(names ...string) {
	for _, name := range names {
		r.reserved[name] = true
	}
}

func (r *Mapper) Register(name string) (string, error) {
	mapped := r.Map(name)
	if mapped == "" {
		return "", ErrEmptyName
	}

	if source, ok := r.sources[mapped]; ok {
		if source == name {
			return mapped, nil
		}
		return "", &erroring.NameCollisionError{
			Name:    mapped,
			Sources: []string{source, name},
		}
	}

	if r.reserved[mapped] {
		return "", &erroring.NameCollisionError{
			Name:    mapped,
			Sources: []string{ReservedSource, name},
		}
	}

	r.sources[mapped] = name
	return mapped, nil
}

// Mapped returns cell name to element name pairs registered so far, sorted by cell name.
func (r *Mapper) Mapped() [][2]string {
	pairs := make([][2]string, 0, len(r.sources))
	for mapped, source := range r.sources {
		pairs = append(pairs, [2]string{source, mapped})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i][0] < pairs[j][0]
	})
	return pairs
}
