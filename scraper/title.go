package scraper

import (
	"net/url"
	"sort"
	"strings"
)

const (
	titleMinLength = 10
	titleMaxLength = 70
	titleIdealMin  = 30
	titleIdealMax  = 60
)

type titleCandidate struct {
	text   string
	weight int
}

// ResolveTitle picks the best human-readable title for the page. It never
// returns an empty string: when no candidate survives, the site name is
// derived from the page's domain.
func ResolveTitle(doc *Document, pageURL string) string {
	candidates := []titleCandidate{}
	add := func(text string, weight int) {
		if text = collapse(text); text != "" {
			candidates = append(candidates, titleCandidate{text: text, weight: weight})
		}
	}

	add(doc.Title, 10)
	add(doc.Meta.OGTitle, 9)
	add(doc.Meta.TwitterTitle, 8)
	for i, h1 := range doc.Headings.H1 {
		if i == 0 {
			add(h1, 7)
		} else {
			add(h1, 6)
		}
	}
	if len(doc.Headings.H2) > 0 {
		add(doc.Headings.H2[0], 5)
	}

	if len(candidates) == 0 {
		return siteNameFromURL(pageURL)
	}

	// Prefer candidates of readable length, but never filter down to nothing.
	filtered := candidates[:0:0]
	for _, c := range candidates {
		if n := len(c.text); n >= titleMinLength && n <= titleMaxLength {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) > 0 {
		candidates = filtered
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		aIdeal, bIdeal := idealLength(a.text), idealLength(b.text)
		if aIdeal != bIdeal {
			return aIdeal
		}
		return len(a.text) < len(b.text)
	})

	return candidates[0].text
}

func idealLength(s string) bool {
	return len(s) >= titleIdealMin && len(s) <= titleIdealMax
}

// siteNameFromURL derives a display name from the domain: strip www., take the
// first label, capitalize.
func siteNameFromURL(pageURL string) string {
	host := ""
	if u, err := url.Parse(pageURL); err == nil {
		host = u.Hostname()
	}
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "Website"
	}
	name := host
	if i := strings.Index(host, "."); i > 0 {
		name = host[:i]
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
