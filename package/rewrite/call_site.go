package rewrite

import (
	"regexp"

	"go.scnd.dev/open/upgrader/package/mapper"
)

var (
	// render_cell 'name' | render_cell("name", ...) | render_cell :name
	renderCellPattern = regexp.MustCompile(`\brender_cell([\s(]+)(?:'(\w+)'|"(\w+)"|:(\w+))`)

	// render_elements ..., from_cell: <name>, ...
	fromCellPattern = regexp.MustCompile(`\brender_elements([^\n]*?)from_cell[:\t =>]+([:'"])(\w+)(['"]?)`)
)

// CallSiteRules rewrite legacy cell render calls anywhere in the views into
// fixed element renders, mapping every cell name through m.
func CallSiteRules(m *mapper.Mapper) Rules {
	return Rules{
		{
			Name:    "render_cell call",
			Pattern: renderCellPattern,
			Replace: func(content []byte, index []int) []byte {
				separator := group(content, index, 1)

				// * keep the quoting of the original name
				opening, closing, name := "'", "'", group(content, index, 2)
				switch {
				case index[6] >= 0:
					opening, closing, name = `"`, `"`, group(content, index, 3)
				case index[8] >= 0:
					opening, closing, name = ":", "", group(content, index, 4)
				}

				result := make([]byte, 0, len(content[index[0]:index[1]])+32)
				result = append(result, "render_elements"...)
				result = append(result, separator...)
				result = append(result, "only: "+opening+m.Map(string(name))+closing+", fixed: true"...)
				return result
			},
		},
		{
			Name:    "from_cell argument",
			Pattern: fromCellPattern,
			Replace: func(content []byte, index []int) []byte {
				result := make([]byte, 0, len(content[index[0]:index[1]])+16)
				result = append(result, "render_elements"...)
				result = append(result, group(content, index, 1)...)
				result = append(result, "only: "...)
				result = append(result, group(content, index, 2)...)
				result = append(result, m.Map(string(group(content, index, 3)))...)
				result = append(result, group(content, index, 4)...)
				result = append(result, ", fixed: true"...)
				return result
			},
		},
	}
}
