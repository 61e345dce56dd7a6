package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extract builds a Document from raw HTML. It never fails: malformed or
// partial markup degrades to empty fields, never to an error. The parser
// handles entity decoding; collapse takes care of whitespace.
func Extract(html, baseURL string, technical TechnicalInfo) *Document {
	doc := &Document{
		Headings: Headings{H1: []string{}, H2: []string{}, H3: []string{}},
		Links:    Links{Internal: []string{}, External: []string{}},
		Images:   []Image{},
		Scripts:  []string{},
		Styles:   []string{},
		Content: Content{
			Paragraphs: []string{},
		},
		Technical: technical,
	}

	q, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return doc
	}

	doc.Title = collapse(q.Find("title").First().Text())
	doc.Meta = extractMeta(q)
	doc.Headings = extractHeadings(q)

	base, baseErr := url.Parse(baseURL)
	if baseErr == nil {
		doc.Links = extractLinks(q, base)
		doc.Images = extractImages(q, base)
		doc.Scripts = extractResources(q, base, "script[src]", "src")
		doc.Styles = extractStylesheets(q, base)
	}

	doc.Content = extractContent(q)
	return doc
}

// collapse folds all whitespace runs into single spaces and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func extractMeta(q *goquery.Document) MetaTags {
	var meta MetaTags
	// Later tags overwrite earlier ones for the same key (document order).
	q.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content := collapse(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		key := strings.ToLower(s.AttrOr("property", ""))
		if key == "" {
			key = strings.ToLower(s.AttrOr("name", ""))
		}
		switch key {
		case "description":
			meta.Description = content
		case "keywords":
			meta.Keywords = content
		case "author":
			meta.Author = content
		case "robots":
			meta.Robots = content
		case "viewport":
			meta.Viewport = content
		case "og:title":
			meta.OGTitle = content
		case "og:description":
			meta.OGDescription = content
		case "og:image":
			meta.OGImage = content
		case "twitter:title":
			meta.TwitterTitle = content
		case "twitter:description":
			meta.TwitterDescription = content
		case "twitter:image":
			meta.TwitterImage = content
		}
	})
	return meta
}

func extractHeadings(q *goquery.Document) Headings {
	h := Headings{H1: []string{}, H2: []string{}, H3: []string{}}
	capture := func(selector string, into *[]string) {
		q.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if text := collapse(s.Text()); text != "" {
				*into = append(*into, text)
			}
		})
	}
	capture("h1", &h.H1)
	capture("h2", &h.H2)
	capture("h3", &h.H3)
	return h
}

func extractLinks(q *goquery.Document, base *url.URL) Links {
	links := Links{Internal: []string{}, External: []string{}}
	seen := make(map[string]bool)

	q.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") || strings.HasPrefix(lower, "javascript:") {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil || resolved.Hostname() == "" {
			return
		}
		resolved.Fragment = ""
		abs := resolved.String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		if resolved.Hostname() == base.Hostname() {
			links.Internal = append(links.Internal, abs)
		} else {
			links.External = append(links.External, abs)
		}
	})
	return links
}

func extractImages(q *goquery.Document, base *url.URL) []Image {
	images := []Image{}
	q.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return
		}
		resolved, err := base.Parse(src)
		if err != nil {
			return
		}
		images = append(images, Image{
			Src:   resolved.String(),
			Alt:   collapse(s.AttrOr("alt", "")),
			Title: collapse(s.AttrOr("title", "")),
		})
	})
	return images
}

func extractResources(q *goquery.Document, base *url.URL, selector, attr string) []string {
	out := []string{}
	seen := make(map[string]bool)
	q.Find(selector).Each(func(_ int, s *goquery.Selection) {
		ref := strings.TrimSpace(s.AttrOr(attr, ""))
		if ref == "" {
			return
		}
		resolved, err := base.Parse(ref)
		if err != nil {
			return
		}
		abs := resolved.String()
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
	})
	return out
}

func extractStylesheets(q *goquery.Document, base *url.URL) []string {
	out := []string{}
	seen := make(map[string]bool)
	q.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		rel := strings.ToLower(s.AttrOr("rel", ""))
		if !strings.Contains(rel, "stylesheet") {
			return
		}
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		abs := resolved.String()
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
	})
	return out
}

func extractContent(q *goquery.Document) Content {
	body := q.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	text := collapse(body.Text())

	paragraphs := []string{}
	q.Find("p").Each(func(_ int, s *goquery.Selection) {
		if p := collapse(s.Text()); len(p) > 20 {
			paragraphs = append(paragraphs, p)
		}
	})

	return Content{
		TextContent: text,
		WordCount:   len(strings.Fields(text)),
		Paragraphs:  paragraphs,
	}
}
