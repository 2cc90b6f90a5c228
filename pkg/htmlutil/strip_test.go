package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"plain text", "A novel of the far future.", "A novel of the far future."},
		{"paragraphs", "<p>First paragraph</p><p>Second paragraph</p>", "First paragraph\nSecond paragraph"},
		{"nested inline tags", "<p><strong>Bold</strong> and <em>italic</em></p>", "Bold and italic"},
		{"br variants", "One<br>Two<br/>Three<br />Four", "One\nTwo\nThree\nFour"},
		{"uppercase tags", "<P>Loud</P><DIV>Louder</DIV>", "Loud\nLouder"},
		{"attributes", `<p class="description" style="x">Styled</p>`, "Styled"},
		{"list items", "<ul><li>Item one</li><li>Item two</li></ul>", "Item one\nItem two"},
		{"named entities", "Tom &amp; Jerry &mdash; the classic", "Tom & Jerry — the classic"},
		{"numeric entities", "&#60;tag&#62; &#8220;quoted&#8221;", "<tag> “quoted”"},
		{"nbsp", "Hello&nbsp;world", "Hello world"},
		{"whitespace collapsed", "Too    many \t spaces\n\n\nhere", "Too many spaces\nhere"},
		{"self-closing image", "Text <img src='cover.jpg'/> more text", "Text more text"},
		{"script dropped", "<p>Keep</p><script>alert('x')</script><style>p{}</style><p>This</p>", "Keep\nThis"},
		{"unclosed tag", "<p>Trailing <em>text", "Trailing text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, StripTags(tt.input))
		})
	}
}
