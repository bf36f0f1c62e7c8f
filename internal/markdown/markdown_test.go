package markdown

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r *Renderer, src string) Rendered {
	t.Helper()
	out, err := r.Render([]byte(src))
	require.NoError(t, err)
	return out
}

func TestRender_Heading(t *testing.T) {
	out := render(t, New(Options{}), "# Hi\n\nWorld")
	require.Equal(t, "<h1>Hi</h1>\n<p>World</p>\n", out.HTML)
	require.Equal(t, "Hi World", out.Excerpt)
}

func TestRender_Constructs(t *testing.T) {
	src := strings.Join([]string{
		"*em* **strong** [link](https://example.com) ![alt](img.png) `code`",
		"",
		"1. one",
		"2. two",
		"",
		"- a",
		"- b",
		"",
		"> quoted",
		"",
		"```go",
		"fmt.Println(\"<x>\")",
		"```",
		"",
		"| h1 | h2 |",
		"|----|----|",
		"| c1 | c2 |",
	}, "\n")
	out := render(t, New(Options{}), src)

	for _, want := range []string{
		"<em>em</em>",
		"<strong>strong</strong>",
		`<a href="https://example.com">link</a>`,
		`<img src="img.png" alt="alt">`,
		"<code>code</code>",
		"<ol>", "<ul>",
		"<blockquote>",
		`<pre><code class="language-go">`,
		"&lt;x&gt;",
		"<table>", "<th>h1</th>", "<td>c2</td>",
	} {
		require.Contains(t, out.HTML, want)
	}
}

func TestRender_RawHTMLEscapedByDefault(t *testing.T) {
	out := render(t, New(Options{}), "<div class=\"x\">hi</div>\n\ninline <b>bold</b> text\n")
	require.NotContains(t, out.HTML, "<div")
	require.NotContains(t, out.HTML, "<b>")
	require.Contains(t, out.HTML, "&lt;div class=&quot;x&quot;&gt;hi&lt;/div&gt;")
	require.Contains(t, out.HTML, "inline &lt;b&gt;bold&lt;/b&gt; text")
}

func TestRender_RawHTMLAllowed(t *testing.T) {
	out := render(t, New(Options{AllowHTML: true}), "<div class=\"x\">hi</div>\n\ninline <b>bold</b> text\n")
	require.Contains(t, out.HTML, "<div class=\"x\">hi</div>")
	require.Contains(t, out.HTML, "<b>bold</b>")
}

func TestRender_UnterminatedFenceDegrades(t *testing.T) {
	out := render(t, New(Options{}), "before\n\n```\nstill code\nmore")
	require.Contains(t, out.HTML, "<p>before</p>")
	require.Contains(t, out.HTML, "<pre><code>still code\nmore")
}

func TestRender_DeterministicAndConcurrent(t *testing.T) {
	r := New(Options{})
	src := "# Title\n\nSome *text* with a [link](x).\n\n- one\n- two\n"
	want := render(t, r, src).HTML

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Render([]byte(src))
			if err == nil {
				results[i] = out.HTML
			}
		}()
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestNew_DefaultExcerptLength(t *testing.T) {
	require.Equal(t, DefaultExcerptLength, New(Options{}).Options().ExcerptLength)
	require.Equal(t, -1, New(Options{ExcerptLength: -1}).Options().ExcerptLength)
}
