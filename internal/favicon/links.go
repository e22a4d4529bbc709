package favicon

import (
	"io"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// iconRels lists the <link rel> values we look for, most wanted first.
var iconRels = []string{"icon", "shortcut icon", "apple-touch-icon", "apple-touch-icon-precomposed"}

type iconLink struct {
	rel  string
	href string
	size int
}

// iconCandidates returns absolute icon URLs declared in an HTML page,
// grouped by rel preference and largest declared size first.
func iconCandidates(body io.Reader, base *url.URL) ([]string, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return nil, err
	}

	var links []iconLink
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			rel := strings.ToLower(strings.TrimSpace(attr(n, "rel")))
			href := strings.TrimSpace(attr(n, "href"))
			if rel != "" && href != "" {
				links = append(links, iconLink{rel: rel, href: href, size: parseSizes(attr(n, "sizes"))})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var (
		out  []string
		seen = map[string]bool{}
	)
	for _, want := range iconRels {
		var group []iconLink
		for _, l := range links {
			if strings.Contains(l.rel, want) {
				group = append(group, l)
			}
		}
		slices.SortStableFunc(group, func(a, b iconLink) int { return b.size - a.size })

		for _, l := range group {
			ref, err := url.Parse(l.href)
			if err != nil {
				continue
			}
			abs := base.ResolveReference(ref).String()
			if !seen[abs] {
				seen[abs] = true
				out = append(out, abs)
			}
		}
	}
	return out, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// parseSizes returns the largest width in a sizes attribute such as
// "16x16 32x32". "any" and garbage count as 0.
func parseSizes(v string) int {
	largest := 0
	for _, f := range strings.Fields(strings.ToLower(v)) {
		w, _, ok := strings.Cut(f, "x")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(w); err == nil && n > largest {
			largest = n
		}
	}
	return largest
}
