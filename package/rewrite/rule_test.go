package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/upgrader/package/mapper"
)

func TestRuleApplyKeepsSurroundingBytes(t *testing.T) {
	rule := Template("swap", `a(\d)`, `b${1}`)

	require.Equal(t, "x\r\nb1 \xffb2", string(rule.Apply([]byte("x\r\na1 \xffa2"))))
	require.Equal(t, "nothing", string(rule.Apply([]byte("nothing"))))
}

func TestCellViewRules(t *testing.T) {
	for name, tc := range map[string]struct {
		source string
		want   string
	}{
		"accessor and render": {
			source: "<%- cell.elements.each do |element| -%>\n  <%= render_element(element) %>\n<%- end -%>\n<%= render_elements from_cell: cell %>\n",
			want:   "<%- element.nested_elements.each do |element| -%>\n  <%= render_element(element) %>\n<%- end -%>\n<%= render element.nested_elements %>\n",
		},
		"published": {
			source: "<% cell.elements.published.each do |e| %>",
			want:   "<% element.nested_elements.each do |e| %>",
		},
		"parenthesized render": {
			source: "<%= render_elements(from_cell: cell) %>",
			want:   "<%= render element.nested_elements %>",
		},
		"hash rocket render": {
			source: "<%= render_elements :from_cell => cell %>",
			want:   "<%= render element.nested_elements %>",
		},
		"plain token": {
			source: "<div class=\"cell\"><%= cell.name %></div>",
			want:   "<div class=\"element\"><%= element.name %></div>",
		},
	} {
		require.Equal(t, tc.want, string(CellViewRules().Apply([]byte(tc.source))), name)
	}
}

func TestCallSiteRules(t *testing.T) {
	rules := CallSiteRules(mapper.New())
	for name, tc := range map[string]struct {
		source string
		want   string
	}{
		"parenthesized single quote": {
			source: "<%= render_cell('test') %>",
			want:   "<%= render_elements(only: 'test', fixed: true) %>",
		},
		"bare double quote with options": {
			source: `<%= render_cell "PageIntro", options: true %>`,
			want:   `<%= render_elements only: "page_intro", fixed: true, options: true %>`,
		},
		"symbol": {
			source: "<%= render_cell :header %>",
			want:   "<%= render_elements only: :header, fixed: true %>",
		},
		"from_cell first": {
			source: "<%= render_elements(from_cell: :page_intro, testing: 'blubb') %>",
			want:   "<%= render_elements(only: :page_intro, fixed: true, testing: 'blubb') %>",
		},
		"from_cell only": {
			source: "<%= render_elements from_cell: 'page_intro' %>",
			want:   "<%= render_elements only: 'page_intro', fixed: true %>",
		},
		"from_cell last": {
			source: "<%= render_elements testing: 'blubb',     from_cell: :page_intro %>",
			want:   "<%= render_elements testing: 'blubb',     only: :page_intro, fixed: true %>",
		},
		"from_cell mapped": {
			source: `<%= render_elements(testing: 'blubb', from_cell: "PageIntro") %>`,
			want:   `<%= render_elements(testing: 'blubb', only: "page_intro", fixed: true) %>`,
		},
		"line bound": {
			source: "<%= render_elements %>\n<%= link_to from_cell: 'x' %>",
			want:   "<%= render_elements %>\n<%= link_to from_cell: 'x' %>",
		},
		"other helper": {
			source: "<%= render_cells_for(page) %>",
			want:   "<%= render_cells_for(page) %>",
		},
	} {
		once := rules.Apply([]byte(tc.source))
		require.Equal(t, tc.want, string(once), name)
		require.Equal(t, string(once), string(rules.Apply(once)), name)
	}
}

func TestViewName(t *testing.T) {
	for source, want := range map[string]string{
		"foo_bar.html.erb":      "foo_bar_view.html.erb",
		"_header.html.erb":      "_header_view.html.erb",
		"_teaser.haml":          "_teaser_view.haml",
		"_sidebar.html.slim":    "_sidebar_view.html.slim",
		"_intro_view.html.erb":  "_intro_view.html.erb",
		"README.md":             "README.md",
		"_header.html.erb.orig": "_header_view.html.erb.orig",
	} {
		require.Equal(t, want, ViewName(source), source)
	}
}
