package scraper

import (
	"reflect"
	"testing"
)

func TestExtractBasicDocument(t *testing.T) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
<title>  Testing &amp; Quality  </title>
<meta name="description" content="First description">
<meta name="description" content="Second   description">
<meta name="keywords" content="go, testing">
<meta property="og:title" content="OG Title Here">
<meta name="twitter:title" content="Twitter Title">
<meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
<h1>Main <b>Heading</b></h1>
<h1>Second Heading</h1>
<h2>Sub Heading</h2>
<h3></h3>
<p>Short.</p>
<p>This paragraph is long enough to be captured by the extractor.</p>
</body>
</html>`

	doc := Extract(html, "https://example.com/page", TechnicalInfo{})

	if doc.Title != "Testing & Quality" {
		t.Errorf("Title = %q, want entity-decoded collapsed title", doc.Title)
	}
	if doc.Meta.Description != "Second description" {
		t.Errorf("Description = %q, want last-seen tag to win with collapsed whitespace", doc.Meta.Description)
	}
	if doc.Meta.Keywords != "go, testing" {
		t.Errorf("Keywords = %q", doc.Meta.Keywords)
	}
	if doc.Meta.OGTitle != "OG Title Here" {
		t.Errorf("OGTitle = %q", doc.Meta.OGTitle)
	}
	if doc.Meta.TwitterTitle != "Twitter Title" {
		t.Errorf("TwitterTitle = %q", doc.Meta.TwitterTitle)
	}
	if doc.Meta.Viewport == "" {
		t.Error("Viewport should be extracted")
	}

	wantH1 := []string{"Main Heading", "Second Heading"}
	if !reflect.DeepEqual(doc.Headings.H1, wantH1) {
		t.Errorf("H1 = %v, want %v (inner tags stripped, order kept)", doc.Headings.H1, wantH1)
	}
	if !reflect.DeepEqual(doc.Headings.H2, []string{"Sub Heading"}) {
		t.Errorf("H2 = %v", doc.Headings.H2)
	}
	if len(doc.Headings.H3) != 0 {
		t.Errorf("empty H3 should be skipped, got %v", doc.Headings.H3)
	}

	if len(doc.Content.Paragraphs) != 1 {
		t.Fatalf("Paragraphs = %v, want only the one longer than 20 chars", doc.Content.Paragraphs)
	}
	if doc.Content.WordCount == 0 {
		t.Error("WordCount should be non-zero")
	}
}

func TestExtractLinkPartitioning(t *testing.T) {
	html := `<body>
<a href="/about">About</a>
<a href="https://example.com/contact">Contact</a>
<a href="https://other.com/x">Other</a>
<a href="mailto:a@b.com">Mail</a>
<a href="tel:+123">Call</a>
<a href="#top">Top</a>
<a href="/about">About again</a>
</body>`

	doc := Extract(html, "https://example.com/page", TechnicalInfo{})

	wantInternal := []string{"https://example.com/about", "https://example.com/contact"}
	if !reflect.DeepEqual(doc.Links.Internal, wantInternal) {
		t.Errorf("Internal = %v, want %v", doc.Links.Internal, wantInternal)
	}
	wantExternal := []string{"https://other.com/x"}
	if !reflect.DeepEqual(doc.Links.External, wantExternal) {
		t.Errorf("External = %v, want %v", doc.Links.External, wantExternal)
	}
}

func TestExtractImagesAndResources(t *testing.T) {
	html := `<head>
<link rel="stylesheet" href="/css/site.css">
<link rel="icon" href="/favicon.ico">
</head>
<body>
<img src="/img/a.png" alt="A picture">
<img src="https://cdn.example.com/b.jpg">
<img alt="no source">
<script src="/js/app.js"></script>
<script src="/js/app.js"></script>
<script>console.log("inline")</script>
</body>`

	doc := Extract(html, "https://example.com/", TechnicalInfo{})

	if len(doc.Images) != 2 {
		t.Fatalf("Images = %d, want 2 (missing src dropped)", len(doc.Images))
	}
	if doc.Images[0].Src != "https://example.com/img/a.png" {
		t.Errorf("image src not resolved: %q", doc.Images[0].Src)
	}
	if doc.Images[0].Alt != "A picture" {
		t.Errorf("Alt = %q", doc.Images[0].Alt)
	}
	if doc.Images[1].Alt != "" {
		t.Errorf("absent alt should default to empty, got %q", doc.Images[1].Alt)
	}

	if !reflect.DeepEqual(doc.Scripts, []string{"https://example.com/js/app.js"}) {
		t.Errorf("Scripts = %v, want external deduplicated only", doc.Scripts)
	}
	if !reflect.DeepEqual(doc.Styles, []string{"https://example.com/css/site.css"}) {
		t.Errorf("Styles = %v, want stylesheet links only", doc.Styles)
	}
}

func TestExtractContentStripsScriptsAndStyles(t *testing.T) {
	html := `<body>
<script>var hidden = "should not appear";</script>
<style>.x { color: red }</style>
<p>Visible words only in the text content result.</p>
</body>`

	doc := Extract(html, "https://example.com/", TechnicalInfo{})

	if doc.Content.TextContent != "Visible words only in the text content result." {
		t.Errorf("TextContent = %q", doc.Content.TextContent)
	}
	if doc.Content.WordCount != 8 {
		t.Errorf("WordCount = %d, want 8", doc.Content.WordCount)
	}
}

func TestExtractMalformedHTML(t *testing.T) {
	cases := []string{
		"",
		"<html><head><title>Broken",
		"<<<>>>",
		"<body><h1>Unclosed heading<p>text",
	}
	for _, html := range cases {
		doc := Extract(html, "https://example.com/", TechnicalInfo{})
		if doc == nil {
			t.Fatalf("Extract returned nil for %q", html)
		}
		if doc.Links.Internal == nil || doc.Images == nil || doc.Scripts == nil {
			t.Errorf("Extract should return empty slices, not nil, for %q", html)
		}
	}
}
