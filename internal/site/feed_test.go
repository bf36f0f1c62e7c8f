package site

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderFeed(t *testing.T) {
	a := entry(t, "a.md", "---\ntitle: First\ndate: 2024-01-01\ntags: [go]\n---\n# Hi\n\nWorld")
	b := entry(t, "b.md", "---\ntitle: Second & more\ndate: 2024-01-02\n---\nAgain")
	settings := Settings{Title: "Blog", BaseURL: "https://example.com/", Language: "en", Author: "Ann"}

	s, _, err := Build(settings, []Entry{a, b}, Options{Feed: true, FeedLimit: 1})
	require.NoError(t, err)

	out, err := RenderFeed(s)
	require.NoError(t, err)
	text := string(out)
	require.True(t, strings.HasPrefix(text, xml.Header))
	require.Contains(t, text, `<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="en">`)
	require.Contains(t, text, "<updated>2024-01-02T00:00:00Z</updated>")
	require.Contains(t, text, "<title>Second &amp; more</title>")
	require.Contains(t, text, `<link href="https://example.com/feed.xml" rel="self"></link>`)
	require.NotContains(t, text, "First", "limit keeps only the newest entry")

	var parsed struct {
		Entries []struct {
			ID string `xml:"id"`
		} `xml:"entry"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))
	require.Len(t, parsed.Entries, 1)
	require.Equal(t, "https://example.com/"+string(s.Posts[0].Permalink)+"/", parsed.Entries[0].ID)

	again, err := RenderFeed(s)
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestRenderFeed_Disabled(t *testing.T) {
	s, _, err := Build(Settings{}, nil, Options{})
	require.NoError(t, err)
	out, err := RenderFeed(s)
	require.NoError(t, err)
	require.Nil(t, out)
}
