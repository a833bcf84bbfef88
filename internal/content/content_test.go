package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		contains []string
	}{
		{
			name:  "plain_text_wrapped",
			input: "just a sentence",
			want:  "<p>just a sentence</p>",
		},
		{
			name:  "plain_text_trimmed_before_wrap",
			input: "  padded  ",
			want:  "<p>padded</p>",
		},
		{
			name:  "html_passes_through",
			input: "<p>already html</p>",
			want:  "<p>already html</p>",
		},
		{
			name:  "empty_stays_empty",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace_stays_empty",
			input: "   \n ",
			want:  "",
		},
		{
			name:     "markdown_header_converted",
			input:    "# Title\n\nsome body",
			contains: []string{"<h1>Title</h1>", "<p>some body</p>"},
		},
		{
			name:     "markdown_list_converted",
			input:    "- one\n- two",
			contains: []string{"<ul>", "<li>one</li>", "<li>two</li>"},
		},
		{
			name:     "markdown_emphasis_converted",
			input:    "really **bold** claim",
			contains: []string{"<strong>bold</strong>"},
		},
		{
			name:     "markdown_link_converted",
			input:    "see [docs](https://example.com)",
			contains: []string{`<a href="https://example.com">docs</a>`},
		},
		{
			name:     "markdown_with_inline_html_kept",
			input:    "# Head\n\n<em>kept</em>",
			contains: []string{"<h1>Head</h1>", "<em>kept</em>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Prepare(KindText, tt.input)
			require.NoError(t, err)
			if tt.contains == nil {
				assert.Equal(t, tt.want, got)
				return
			}
			for _, fragment := range tt.contains {
				assert.Contains(t, got, fragment)
			}
		})
	}
}

func TestPrepareCodeKinds(t *testing.T) {
	for _, kind := range []Kind{KindCode, KindMermaid} {
		t.Run(string(kind), func(t *testing.T) {
			src := "func main() {\n\tfmt.Println(\"hi\")\n}"
			got, err := Prepare(kind, src)
			require.NoError(t, err)
			assert.Equal(t, src, got, "plain source passes through untouched")

			generics := "Map<String, List<Integer>> index;"
			got, err = Prepare(kind, generics)
			require.NoError(t, err)
			assert.Equal(t, generics, got)

			_, err = Prepare(kind, "<p>not code</p>")
			require.Error(t, err)
			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, kind, shapeErr.Kind)
			assert.Contains(t, err.Error(), "plain text")
		})
	}
}

func TestPrepareRenderKinds(t *testing.T) {
	for _, kind := range []Kind{KindRender, KindWebView} {
		t.Run(string(kind), func(t *testing.T) {
			got, err := Prepare(kind, "")
			require.NoError(t, err)
			assert.Empty(t, got)

			got, err = Prepare(kind, "<div>widget</div>")
			require.NoError(t, err)
			assert.Equal(t, "<div>widget</div>", got)

			_, err = Prepare(kind, "not html at all")
			require.Error(t, err)
			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, kind, shapeErr.Kind)
		})
	}
}

func TestPrepareContainerKinds(t *testing.T) {
	for _, kind := range []Kind{KindBook, KindSearch, KindRelationMap, KindNoteMap} {
		t.Run(string(kind), func(t *testing.T) {
			got, err := Prepare(kind, "")
			require.NoError(t, err)
			assert.Empty(t, got)

			got, err = Prepare(kind, "anything goes")
			require.NoError(t, err)
			assert.Equal(t, "anything goes", got)
		})
	}
}

func TestPrepareUnknownKind(t *testing.T) {
	_, err := Prepare(Kind("image"), "raw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown note kind")
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		addition string
		want     string
	}{
		{name: "empty_existing", existing: "", addition: "<p>new</p>", want: "<p>new</p>"},
		{name: "empty_addition", existing: "<p>old</p>", addition: "", want: "<p>old</p>"},
		{name: "inserts_newline", existing: "<p>old</p>", addition: "<p>new</p>", want: "<p>old</p>\n<p>new</p>"},
		{name: "keeps_existing_newline", existing: "line one\n", addition: "line two", want: "line one\nline two"},
		{name: "code_lines", existing: "a = 1", addition: "b = 2", want: "a = 1\nb = 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.existing, tt.addition))
		})
	}
}

func TestToHTMLFallbackNeverPanics(t *testing.T) {
	// Pathological inputs should still produce something sensible.
	inputs := []string{
		"",
		"~~~",
		"[unclosed link(",
		"** lone stars",
		"\x00binary\x01ish",
	}
	for _, input := range inputs {
		out, err := ToHTML(input)
		require.NoError(t, err)
		_ = out
	}
}

func TestWritableKinds(t *testing.T) {
	kinds := WritableKinds()
	assert.Len(t, kinds, 9)
	for _, k := range kinds {
		assert.True(t, Kind(k).Valid(), k)
	}
	assert.False(t, Kind("file").Valid())
	assert.False(t, Kind("image").Valid())
	assert.False(t, Kind("canvas").Valid())
}
