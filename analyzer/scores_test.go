package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/webinsight/backend/detect"
	"github.com/webinsight/backend/scraper"
)

func featuresFor(t *testing.T, html string, headers map[string]string, hasSSL bool, pageSize int) *pageFeatures {
	t.Helper()
	technical := scraper.TechnicalInfo{
		HasSSL:        hasSSL,
		PageSize:      pageSize,
		ServerHeaders: headers,
	}
	doc := scraper.Extract(html, "https://example.com/", technical)
	sig := detect.New().Detect("https://example.com/", html, doc.Scripts, headers)
	return newPageFeatures(doc, sig, html, headers, hasSSL)
}

// hostilePage piles up every penalty at once: no metadata, heavy markup, many
// scripts, images without alt text, no transport hygiene.
func hostilePage(t *testing.T) *pageFeatures {
	t.Helper()
	var b strings.Builder
	b.WriteString("<html><head>")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, `<link rel="stylesheet" href="/css/s%d.css">`, i)
	}
	b.WriteString("</head><body>")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, `<script src="https://cdn.example.com/s%d.js"></script>`, i)
	}
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, `<img src="/img/%d.png">`, i)
	}
	b.WriteString(`<input type="text"><h3>Skipped level</h3></body></html>`)
	return featuresFor(t, b.String(), nil, false, 3*1024*1024)
}

func cleanPage(t *testing.T) *pageFeatures {
	t.Helper()
	desc := strings.Repeat("A thorough description of the page content. ", 3)
	html := `<html lang="en"><head>
<title>A Well Formed Page Title Of Good Length</title>
<meta name="description" content="` + strings.TrimSpace(desc) + `">
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="canonical" href="https://example.com/">
<script type="application/ld+json">{"@type":"WebPage"}</script>
<style>@media (max-width: 600px) { body { font-size: 14px } }</style>
</head><body aria-label="main">
<h1>The Only Heading</h1>
<img src="/img/a.png" alt="Described">
<p>` + strings.Repeat("Substantive words fill out this paragraph nicely. ", 70) + `</p>
</body></html>`
	headers := map[string]string{
		"content-encoding":          "gzip",
		"cache-control":             "max-age=3600",
		"strict-transport-security": "max-age=63072000",
		"content-security-policy":   "default-src 'self'",
		"x-frame-options":           "DENY",
		"x-content-type-options":    "nosniff",
		"referrer-policy":           "no-referrer",
	}
	return featuresFor(t, html, headers, true, 40*1024)
}

func forEachDimension(s Scores, fn func(name string, d DimensionScore)) {
	fn("performance", s.Performance)
	fn("sustainability", s.Sustainability)
	fn("security", s.Security)
	fn("contentQuality", s.ContentQuality)
	fn("scriptOptimization", s.ScriptOptimization)
	fn("seo", s.SEO)
	fn("accessibility", s.Accessibility)
	fn("mobile", s.Mobile)
}

func TestScoresStayInRange(t *testing.T) {
	for _, f := range []*pageFeatures{hostilePage(t), cleanPage(t)} {
		forEachDimension(scoreAll(f), func(name string, d DimensionScore) {
			if d.Score < 0 || d.Score > 100 {
				t.Errorf("%s score = %d, want within [0,100]", name, d.Score)
			}
		})
	}
}

func TestRecommendationsNeverEmpty(t *testing.T) {
	for _, f := range []*pageFeatures{hostilePage(t), cleanPage(t)} {
		forEachDimension(scoreAll(f), func(name string, d DimensionScore) {
			if len(d.Recommendations) == 0 {
				t.Errorf("%s has no recommendations", name)
			}
		})
	}
}

func TestHostileAndCleanOrdering(t *testing.T) {
	bad := scoreAll(hostilePage(t))
	good := scoreAll(cleanPage(t))
	forEachDimension(bad, func(name string, d DimensionScore) {
		if len(d.Issues) == 0 {
			t.Errorf("%s should report issues for the hostile page", name)
		}
	})
	pairs := []struct {
		name      string
		bad, good int
	}{
		{"performance", bad.Performance.Score, good.Performance.Score},
		{"security", bad.Security.Score, good.Security.Score},
		{"seo", bad.SEO.Score, good.SEO.Score},
		{"accessibility", bad.Accessibility.Score, good.Accessibility.Score},
		{"mobile", bad.Mobile.Score, good.Mobile.Score},
		{"sustainability", bad.Sustainability.Score, good.Sustainability.Score},
		{"contentQuality", bad.ContentQuality.Score, good.ContentQuality.Score},
		{"scriptOptimization", bad.ScriptOptimization.Score, good.ScriptOptimization.Score},
	}
	for _, p := range pairs {
		if p.bad >= p.good {
			t.Errorf("%s: hostile %d should score below clean %d", p.name, p.bad, p.good)
		}
	}
}

func TestScoreSecurity(t *testing.T) {
	t.Run("plain http with no headers", func(t *testing.T) {
		f := featuresFor(t, "<html></html>", nil, false, 1024)
		d := scoreSecurity(f)
		if d.Score != 20 {
			t.Errorf("score = %d, want 20", d.Score)
		}
		if len(d.Issues) != 6 {
			t.Errorf("issues = %v, want HTTPS plus five missing core headers", d.Issues)
		}
		if d.Issues[0] != "Page is not served over HTTPS" {
			t.Errorf("first issue = %q", d.Issues[0])
		}
	})

	t.Run("https with core headers", func(t *testing.T) {
		headers := map[string]string{
			"strict-transport-security": "max-age=63072000",
			"content-security-policy":   "default-src 'self'",
			"x-frame-options":           "DENY",
			"x-content-type-options":    "nosniff",
			"referrer-policy":           "no-referrer",
		}
		f := featuresFor(t, "<html></html>", headers, true, 1024)
		d := scoreSecurity(f)
		if d.Score != 75 {
			t.Errorf("score = %d, want 75", d.Score)
		}
		if len(d.Issues) != 0 {
			t.Errorf("issues = %v, want none", d.Issues)
		}
	})

	t.Run("missing core header is named", func(t *testing.T) {
		headers := map[string]string{
			"strict-transport-security": "max-age=63072000",
		}
		f := featuresFor(t, "<html></html>", headers, true, 1024)
		d := scoreSecurity(f)
		found := false
		for _, issue := range d.Issues {
			if issue == "Missing Content-Security-Policy header" {
				found = true
			}
		}
		if !found {
			t.Errorf("issues = %v, want the missing CSP header named", d.Issues)
		}
	})

	t.Run("hardening extras add silently", func(t *testing.T) {
		core := map[string]string{
			"strict-transport-security": "a",
			"content-security-policy":   "a",
			"x-frame-options":           "a",
			"x-content-type-options":    "a",
			"referrer-policy":           "a",
		}
		base := scoreSecurity(featuresFor(t, "<html></html>", core, true, 1024))

		extra := map[string]string{"permissions-policy": "camera=()"}
		for k, v := range core {
			extra[k] = v
		}
		hardened := scoreSecurity(featuresFor(t, "<html></html>", extra, true, 1024))

		if hardened.Score != base.Score+securityHeaderPoints {
			t.Errorf("hardened = %d, base = %d, want +%d", hardened.Score, base.Score, securityHeaderPoints)
		}
		if len(hardened.Issues) != len(base.Issues) {
			t.Errorf("extra headers must not change issues: %v vs %v", hardened.Issues, base.Issues)
		}
	})
}

func TestAltTextSharedMessage(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&b, `<img src="/img/ok%d.png" alt="described">`, i)
	}
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, `<img src="/img/bad%d.png">`, i)
	}
	b.WriteString("</body></html>")
	f := featuresFor(t, b.String(), nil, true, 1024)

	want := "3 images are missing alt text"
	for _, d := range []DimensionScore{scoreSEO(f), scoreAccessibility(f)} {
		found := false
		for _, issue := range d.Issues {
			if issue == want {
				found = true
			}
		}
		if !found {
			t.Errorf("issues = %v, want %q", d.Issues, want)
		}
	}
}

func TestScoreMobile(t *testing.T) {
	t.Run("viewport and media query", func(t *testing.T) {
		html := `<html><head>
<meta name="viewport" content="width=device-width">
<style>@media (max-width: 600px) {}</style>
</head></html>`
		d := scoreMobile(featuresFor(t, html, nil, true, 10*1024))
		if d.Score != 100 {
			t.Errorf("score = %d, want 100", d.Score)
		}
		if len(d.Issues) != 0 {
			t.Errorf("issues = %v", d.Issues)
		}
	})

	t.Run("no viewport", func(t *testing.T) {
		d := scoreMobile(featuresFor(t, "<html></html>", nil, true, 10*1024))
		if d.Score != 40 {
			t.Errorf("score = %d, want 40", d.Score)
		}
		if len(d.Issues) != 1 || d.Issues[0] != "Page has no viewport meta tag" {
			t.Errorf("issues = %v", d.Issues)
		}
	})
}

func TestScoreContentQualityHeadingSkip(t *testing.T) {
	html := `<html><body><h1>Top</h1><h3>Deep without middle</h3></body></html>`
	d := scoreContentQuality(featuresFor(t, html, nil, true, 1024))
	found := false
	for _, issue := range d.Issues {
		if issue == "Heading hierarchy skips from H1 to H3" {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want the hierarchy skip reported", d.Issues)
	}
}

func TestScoreScriptOptimization(t *testing.T) {
	t.Run("no scripts at all", func(t *testing.T) {
		d := scoreScriptOptimization(featuresFor(t, "<html></html>", nil, true, 1024))
		if d.Score != 80 {
			t.Errorf("score = %d, want 80", d.Score)
		}
	})

	t.Run("fully deferred with integrity", func(t *testing.T) {
		html := `<html><body>
<script src="/a.js" defer integrity="sha384-aaa"></script>
<script src="/b.js" async integrity="sha384-bbb"></script>
</body></html>`
		d := scoreScriptOptimization(featuresFor(t, html, nil, true, 1024))
		if d.Score != 95 {
			t.Errorf("score = %d, want 95", d.Score)
		}
		if len(d.Issues) != 0 {
			t.Errorf("issues = %v", d.Issues)
		}
	})

	t.Run("analytics trackers pile up", func(t *testing.T) {
		html := `<html><head>
<script src="https://www.google-analytics.com/analytics.js"></script>
<script src="https://www.googletagmanager.com/gtm.js?id=GTM-X"></script>
<script src="https://static.hotjar.com/c/hotjar-1.js"></script>
<script>fbq('init', '123');</script>
</head></html>`
		d := scoreScriptOptimization(featuresFor(t, html, nil, true, 1024))
		found := false
		for _, issue := range d.Issues {
			if issue == "Page loads 4 analytics trackers, consolidate them" {
				found = true
			}
		}
		if !found {
			t.Errorf("issues = %v, want the tracker count reported", d.Issues)
		}
	})

	t.Run("a couple of trackers pass silently", func(t *testing.T) {
		html := `<html><head>
<script src="https://www.google-analytics.com/analytics.js"></script>
<script src="https://static.hotjar.com/c/hotjar-1.js"></script>
</head></html>`
		d := scoreScriptOptimization(featuresFor(t, html, nil, true, 1024))
		for _, issue := range d.Issues {
			if strings.Contains(issue, "analytics trackers") {
				t.Errorf("issues = %v, two trackers should not be flagged", d.Issues)
			}
		}
	})

	t.Run("many synchronous scripts", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 6; i++ {
			fmt.Fprintf(&b, `<script src="/s%d.js"></script>`, i)
		}
		d := scoreScriptOptimization(featuresFor(t, b.String(), nil, true, 1024))
		found := false
		for _, issue := range d.Issues {
			if issue == "No external script uses async or defer loading" {
				found = true
			}
		}
		if !found {
			t.Errorf("issues = %v", d.Issues)
		}
	})
}

func TestScorePerformanceWeight(t *testing.T) {
	lean := scorePerformance(featuresFor(t, "<html></html>", map[string]string{
		"cache-control":    "max-age=3600",
		"content-encoding": "gzip",
	}, true, 50*1024))
	if lean.Score != 100 {
		t.Errorf("lean score = %d, want 100", lean.Score)
	}

	heavy := scorePerformance(featuresFor(t, "<html></html>", nil, true, 3*1024*1024))
	if heavy.Score >= lean.Score {
		t.Errorf("heavy %d should score below lean %d", heavy.Score, lean.Score)
	}
	found := false
	for _, issue := range heavy.Issues {
		if strings.Contains(issue, "very large") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want the oversized document reported", heavy.Issues)
	}
}
