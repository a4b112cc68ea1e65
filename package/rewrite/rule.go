package rewrite

import (
	"regexp"
)

// Rule substitutes every match of Pattern. Replace receives the whole content
// and the submatch index of one match and returns the replacement bytes.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace func(content []byte, index []int) []byte
}

type Rules []*Rule

// Template builds a rule whose replacement expands $1 style references.
func Template(name string, pattern string, template string) *Rule {
	compiled := regexp.MustCompile(pattern)
	return &Rule{
		Name:    name,
		Pattern: compiled,
		Replace: func(content []byte, index []int) []byte {
			return compiled.Expand(nil, []byte(template), content, index)
		},
	}
}

// Apply returns content with every match replaced. Bytes outside of matches
// are copied untouched.
func (r *Rule) Apply(content []byte) []byte {
	matches := r.Pattern.FindAllSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	result := make([]byte, 0, len(content))
	last := 0
	for _, index := range matches {
		result = append(result, content[last:index[0]]...)
		result = append(result, r.Replace(content, index)...)
		last = index[1]
	}
	result = append(result, content[last:]...)

	return result
}

// Apply runs the rules in order, each one on the output of the previous.
func (r Rules) Apply(content []byte) []byte {
	for _, rule := range r {
		content = rule.Apply(content)
	}
	return content
}

func group(content []byte, index []int, n int) []byte {
	if 2*n+1 >= len(index) || index[2*n] < 0 {
		return nil
	}
	return content[index[2*n]:index[2*n+1]]
}
