package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/webinsight/backend/detect"
	"github.com/webinsight/backend/scraper"
)

func TestAssemble(t *testing.T) {
	html := `<html><head>
<title>Example Site With A Readable Title</title>
<meta name="description" content="A concise description of the example site's purpose.">
<meta name="keywords" content="go, analysis, example">
</head><body>
<h1>Main Point</h1><h2>Supporting Point</h2>
<img src="/a.png" alt="a">
<a href="/internal">in</a><a href="https://elsewhere.org/">out</a>
<p>This paragraph carries the substantive body text of the page.</p>
</body></html>`
	technical := scraper.TechnicalInfo{
		HasSSL:        true,
		StatusCode:    200,
		ContentType:   "text/html; charset=utf-8",
		Charset:       "utf-8",
		PageSize:      len(html),
		ServerHeaders: map[string]string{"server": "nginx"},
	}
	doc := scraper.Extract(html, "https://example.com/", technical)
	sig := detect.New().Detect("https://example.com/", html, doc.Scripts, technical.ServerHeaders)

	result := Assemble("https://example.com/", doc, "Example Site With A Readable Title", sig, Scores{}, []string{"fix this"})

	if result.ID == "" {
		t.Error("ID should be generated")
	}
	if result.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if result.Summary != "A concise description of the example site's purpose." {
		t.Errorf("Summary = %q, want the meta description", result.Summary)
	}
	if want := []string{"Main Point", "Supporting Point"}; !reflect.DeepEqual(result.KeyPoints, want) {
		t.Errorf("KeyPoints = %v, want %v", result.KeyPoints, want)
	}
	if want := []string{"go", "analysis", "example"}; !reflect.DeepEqual(result.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", result.Keywords, want)
	}
	if !reflect.DeepEqual(result.Improvements, []string{"fix this"}) {
		t.Errorf("Improvements = %v", result.Improvements)
	}

	cs := result.ContentStats
	if cs.ImageCount != 1 || cs.InternalLinks != 1 || cs.ExternalLinks != 1 || cs.ParagraphCount != 1 {
		t.Errorf("ContentStats = %+v", cs)
	}
	if result.Metadata.Server != "nginx" || !result.Metadata.HasSSL || result.Metadata.StatusCode != 200 {
		t.Errorf("Metadata = %+v", result.Metadata)
	}
}

func TestDeriveSummary(t *testing.T) {
	t.Run("og description when meta missing", func(t *testing.T) {
		doc := &scraper.Document{}
		doc.Meta.OGDescription = "From the open graph tags."
		if got := deriveSummary(doc, "Title"); got != "From the open graph tags." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("long first paragraph is cut at a word boundary", func(t *testing.T) {
		doc := &scraper.Document{}
		doc.Content.Paragraphs = []string{strings.Repeat("lengthy ", 40)}
		got := deriveSummary(doc, "Title")
		if len(got) > 210 {
			t.Errorf("summary too long: %d chars", len(got))
		}
		if !strings.HasSuffix(got, "…") {
			t.Errorf("got %q, want ellipsis suffix", got)
		}
		if strings.HasSuffix(strings.TrimSuffix(got, "…"), "lengt") {
			t.Errorf("got %q, cut mid-word", got)
		}
	})

	t.Run("fallback names the title", func(t *testing.T) {
		if got := deriveSummary(&scraper.Document{}, "Bare Page"); got != "Analysis of Bare Page" {
			t.Errorf("got %q", got)
		}
	})
}

func TestDeriveKeyPoints(t *testing.T) {
	doc := &scraper.Document{}
	doc.Headings.H1 = []string{"One", "Two", "One"}
	doc.Headings.H2 = []string{"Three", "Four", "Five", "Six"}
	got := deriveKeyPoints(doc)
	want := []string{"One", "Two", "Three", "Four", "Five"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v (deduped, capped at five)", got, want)
	}
}

func TestDeriveKeywords(t *testing.T) {
	t.Run("frequency ranking with stopwords removed", func(t *testing.T) {
		doc := &scraper.Document{}
		doc.Content.TextContent = "Boats and boats and harbors. The harbors hold boats; anchors rest. Anchors. zephyr"
		got := deriveKeywords(doc)
		// boats x3, anchors x2, harbors x2 (alpha tie), then the rest.
		if len(got) < 4 || got[0] != "boats" || got[1] != "anchors" || got[2] != "harbors" {
			t.Errorf("got %v", got)
		}
		for _, k := range got {
			if stopwords[k] {
				t.Errorf("stopword %q leaked into keywords", k)
			}
			if len(k) < 4 {
				t.Errorf("short token %q leaked into keywords", k)
			}
		}
	})

	t.Run("meta keywords capped at eight", func(t *testing.T) {
		doc := &scraper.Document{}
		doc.Meta.Keywords = "a, b, c, d, e, f, g, h, i, j"
		if got := deriveKeywords(doc); len(got) != 8 {
			t.Errorf("got %d keywords, want 8", len(got))
		}
	})
}
