package htmlstream_test

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-htmlstream/pkg/htmlstream"
)

type post struct {
	Title string
	Body  string
	Tags  []string
}

func layout(title string, body any) *htmlstream.Sequence {
	return htmlstream.MustHTML(`<!doctype html>
<html>
<head><title>${}</title></head>
<body>
${}
<footer>${} posts</footer>
</body>
</html>
`, title, body, htmlstream.Async(func(context.Context) (any, error) { return 2, nil }))
}

func card(p post) any {
	return htmlstream.MustHTML(`<article>
  <h2>${}</h2>
  <p>${}</p>
  <ul>${}</ul>
</article>
`, p.Title, p.Body, htmlstream.Map(p.Tags, func(tag string) any {
		return htmlstream.MustHTML("<li>${}</li>", tag)
	}))
}

func TestGolden_BlogPage(t *testing.T) {
	posts := []post{
		{Title: "Fish & Chips", Body: "Served <hot>", Tags: []string{"food", "uk"}},
		{Title: `"Quotes"`, Body: "It's fine"},
	}

	out, err := htmlstream.Collect(context.Background(), layout("Blog <draft>", htmlstream.Map(posts, card)))
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "blog_page", []byte(out))
}
