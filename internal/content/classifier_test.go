package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "balanced_pair", input: "<p>hello</p>", want: true},
		{name: "balanced_with_attributes", input: `<a href="https://example.com">link</a>`, want: true},
		{name: "balanced_across_lines", input: "<div>\nline one\nline two\n</div>", want: true},
		{name: "self_closing", input: "line<br/>break", want: true},
		{name: "self_closing_with_space", input: "line<br />break", want: true},
		{name: "named_entity", input: "a&nbsp;b", want: true},
		{name: "numeric_entity", input: "a&#160;b", want: true},
		{name: "hex_entity", input: "a&#x1F600;b", want: true},
		{name: "uppercase_pair", input: "<B>bold</B>", want: true},
		{name: "plain_text", input: "just words here", want: false},
		{name: "empty", input: "", want: false},
		{name: "java_generics", input: "List<String> names = new ArrayList<>();", want: false},
		{name: "comparison_operators", input: "if a < b && b > c { return }", want: false},
		{name: "unclosed_tag", input: "<p>never closed", want: false},
		{name: "closing_without_opening", input: "stray </div> here", want: false},
		{name: "mismatched_pair", input: "<p>text</div>", want: false},
		{name: "ampersand_in_code", input: "a && b; x & y;", want: false},
		{name: "arrow_function", input: "const f = (x) => x * 2;", want: false},
		{name: "shell_redirect", input: "cat <file >out", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasHTML(tt.input))
		})
	}
}

func TestIsMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "atx_header", input: "# Title\n\nbody", want: true},
		{name: "six_hash_header", input: "###### notes here", want: true},
		{name: "seven_hashes_is_not_a_header", input: "####### too deep", want: false},
		{name: "fenced_code", input: "```go\nfunc main() {}\n```", want: true},
		{name: "inline_code", input: "run `make test` locally", want: true},
		{name: "strong", input: "this is **important** stuff", want: true},
		{name: "strong_underscore", input: "this is __important__ stuff", want: true},
		{name: "emphasis", input: "an *emphasized* word", want: true},
		{name: "emphasis_underscore", input: "an _emphasized_ word", want: true},
		{name: "link", input: "see [the docs](https://example.com) for more", want: true},
		{name: "bullet_list", input: "- first\n- second", want: true},
		{name: "star_bullet", input: "* first\n* second", want: true},
		{name: "blockquote", input: "> quoted line", want: true},
		{name: "horizontal_rule", input: "above\n\n---\n\nbelow", want: true},
		{name: "plain_prose", input: "Nothing special about this sentence.", want: false},
		{name: "empty", input: "", want: false},
		{name: "snake_case_identifiers", input: "set the env_var_name and retry", want: false},
		{name: "multiplication", input: "total = price * quantity * 2", want: false},
		{name: "hash_comment_without_space_body", input: "#!/bin/bash", want: false},
		{name: "html_paragraph", input: "<p>already html</p>", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarkdown(tt.input))
		})
	}
}
