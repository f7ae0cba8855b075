package richtext_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/htmlstream"
	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/richtext"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:        "script removed",
			input:       `<p>hi</p><script>alert(1)</script>`,
			contains:    []string{"<p>hi</p>"},
			notContains: []string{"<script", "alert"},
		},
		{
			name:        "event handler removed",
			input:       `<a href="https://example.com" onclick="steal()">x</a>`,
			contains:    []string{`href="https://example.com"`, "nofollow"},
			notContains: []string{"onclick"},
		},
		{
			name:        "javascript url removed",
			input:       `<a href="javascript:alert(1)">x</a>`,
			notContains: []string{"javascript:"},
		},
		{
			name:     "formatting kept",
			input:    `<em>a</em> <strong>b</strong>`,
			contains: []string{"<em>a</em>", "<strong>b</strong>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(richtext.Sanitize(tt.input))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}

	assert.Empty(t, richtext.Sanitize("   "))
}

func TestMarkdown(t *testing.T) {
	got, err := richtext.Markdown("# Title\n\nSome *text* with <script>x()</script> and ~~old~~.\n")
	require.NoError(t, err)

	assert.Contains(t, string(got), "<h1")
	assert.Contains(t, string(got), "<em>text</em>")
	assert.Contains(t, string(got), "<del>old</del>")
	assert.NotContains(t, string(got), "<script")
}

func TestMarkdownValue_NotReescaped(t *testing.T) {
	seq := htmlstream.MustHTML("<section>${}</section>", richtext.MarkdownValue("**bold** & more"))
	out, err := htmlstream.Collect(context.Background(), seq)
	require.NoError(t, err)

	assert.Equal(t, "<section><p><strong>bold</strong> &amp; more</p></section>", out)
}

func TestCode(t *testing.T) {
	got, err := richtext.Code("package main\n\nfunc main() { println(\"<hi>\") }\n", "go")
	require.NoError(t, err)

	out := string(got)
	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "&lt;hi&gt;")
	assert.NotContains(t, out, "<hi>")

	plain, err := richtext.Code("<b>not code</b>", "no-such-language")
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "<b>")
}
