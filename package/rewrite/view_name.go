package rewrite

import (
	"regexp"
	"strings"
)

var viewNamePattern = regexp.MustCompile(`(_\w+)\.(\w*\.)?(erb|haml|slim)`)

// ViewName inserts a _view suffix before the template extension of a cell
// partial, so _header.html.erb becomes _header_view.html.erb. Names that do
// not look like templates or already carry the suffix are returned as is.
func ViewName(name string) string {
	index := viewNamePattern.FindStringSubmatchIndex(name)
	if index == nil {
		return name
	}
	if strings.HasSuffix(name[index[2]:index[3]], "_view") {
		return name
	}

	renamed := viewNamePattern.ExpandString(nil, "${1}_view.${2}${3}", name, index)
	return name[:index[0]] + string(renamed) + name[index[1]:]
}
