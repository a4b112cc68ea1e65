package rewrite

// CellViewRules turn the body of a cell view into the body of a fixed element view.
func CellViewRules() Rules {
	return Rules{
		Template("published elements", `elements\.published`, `elements`),
		Template("cell elements accessor", `cell\.elements(.+)`, `element.nested_elements${1}`),
		Template("render cell elements", `render_elements[(\s]?:?from_cell:?\s?(=>)?\s?cell\)?`, `render element.nested_elements`),
		Template("cell token", `cell`, `element`),
	}
}
