package analyzer

import (
	"fmt"
)

// The scorers below start from a documented baseline and apply additive
// deltas per rule. Direction is the contract: a bad signal only ever
// subtracts, a good one only ever adds, and the result is clamped to [0,100]
// by the builder.

// securityHeaders are the response headers the security scorer rewards, in
// reporting order. Only the first five produce issues when absent; the rest
// are hardening extras that add points silently.
var securityHeaders = []struct {
	name    string
	display string
	core    bool
}{
	{"strict-transport-security", "Strict-Transport-Security (HSTS)", true},
	{"content-security-policy", "Content-Security-Policy", true},
	{"x-frame-options", "X-Frame-Options", true},
	{"x-content-type-options", "X-Content-Type-Options", true},
	{"referrer-policy", "Referrer-Policy", true},
	{"permissions-policy", "Permissions-Policy", false},
	{"x-xss-protection", "X-XSS-Protection", false},
	{"expect-ct", "Expect-CT", false},
}

const securityHeaderPoints = 6

// scoreAll runs every dimension scorer over the same feature set.
func scoreAll(f *pageFeatures) Scores {
	return Scores{
		Performance:        scorePerformance(f),
		Sustainability:     scoreSustainability(f),
		Security:           scoreSecurity(f),
		ContentQuality:     scoreContentQuality(f),
		ScriptOptimization: scoreScriptOptimization(f),
		SEO:                scoreSEO(f),
		Accessibility:      scoreAccessibility(f),
		Mobile:             scoreMobile(f),
	}
}

// scorePerformance: baseline 60. Resource counts, page weight, caching and
// compression headers, script loading strategy.
func scorePerformance(f *pageFeatures) DimensionScore {
	b := newScore(60)

	totalScripts := f.externalScripts + f.inlineScripts
	switch {
	case totalScripts <= 5:
		b.add(10)
	case totalScripts > 20:
		b.issue(15, fmt.Sprintf("Page loads %d scripts, which delays rendering", totalScripts))
		b.recommend("Bundle or remove scripts to get below 20 per page")
	case totalScripts > 10:
		b.add(-5)
		b.recommend("Consider bundling scripts to reduce request count")
	}

	if styles := len(f.doc.Styles); styles <= 3 {
		b.add(5)
	} else if styles > 10 {
		b.issue(5, fmt.Sprintf("Page references %d external stylesheets", styles))
	}

	switch {
	case f.pageSizeKB < 100:
		b.add(15)
	case f.pageSizeKB <= 512:
		b.add(5)
	case f.pageSizeKB > 2048:
		b.issue(25, fmt.Sprintf("HTML document is very large (%d KB)", f.pageSizeKB))
		b.recommend("Reduce document size by removing inline payloads and unused markup")
	case f.pageSizeKB > 1024:
		b.issue(15, fmt.Sprintf("HTML document is large (%d KB)", f.pageSizeKB))
	}

	if _, ok := f.header("cache-control"); ok {
		b.add(5)
	} else {
		b.issue(5, "No Cache-Control header, responses are not cacheable")
	}

	if f.compressed() {
		b.add(5)
	} else {
		b.issue(5, "Response is not compressed, enable gzip or brotli")
	}

	if f.externalScripts > 0 && f.deferredScripts > 0 {
		b.add(5)
	}
	if f.externalScripts > 5 && f.deferredScripts == 0 {
		b.issue(5, "External scripts load synchronously, use async or defer")
	}

	return b.build("Page loads a lean set of resources, keep it that way")
}

// scoreSEO: baseline 50. Title and description quality, heading structure,
// alt coverage, canonical and structured data presence.
func scoreSEO(f *pageFeatures) DimensionScore {
	b := newScore(50)

	titleLen := len(f.doc.Title)
	switch {
	case titleLen == 0:
		b.issue(10, "Page has no title tag")
		b.recommend("Add a descriptive title of 30-60 characters")
	case titleLen >= 30 && titleLen <= 60:
		b.add(15)
	case titleLen < 30:
		b.issue(0, fmt.Sprintf("Title is short (%d characters, aim for 30-60)", titleLen))
	default:
		b.issue(0, fmt.Sprintf("Title is long (%d characters, aim for 30-60)", titleLen))
	}

	descLen := len(f.doc.Meta.Description)
	switch {
	case descLen == 0:
		b.issue(10, "Page has no meta description")
		b.recommend("Add a meta description of 120-160 characters")
	case descLen >= 120 && descLen <= 160:
		b.add(15)
	default:
		b.add(8)
	}

	switch h1s := len(f.doc.Headings.H1); {
	case h1s == 1:
		b.add(10)
	case h1s == 0:
		b.issue(10, "Page has no H1 heading")
	default:
		b.issue(5, fmt.Sprintf("Page has %d H1 headings, use exactly one", h1s))
	}

	if f.hasCanonical {
		b.add(5)
	} else {
		b.recommend("Add a canonical link to avoid duplicate-content signals")
	}
	if f.hasJSONLD {
		b.add(5)
	} else {
		b.recommend("Add JSON-LD structured data for richer search results")
	}

	if total, missing := f.altCoverage(); total > 0 {
		if missing == 0 {
			b.add(10)
		} else {
			penalty := missing * 2
			if penalty > 15 {
				penalty = 15
			}
			b.issue(penalty, fmt.Sprintf("%d images are missing alt text", missing))
		}
	}

	return b.build("Core SEO signals look solid")
}

// scoreSecurity: baseline 30. HTTPS plus each recognized hardening header.
func scoreSecurity(f *pageFeatures) DimensionScore {
	b := newScore(30)

	if f.hasSSL {
		b.add(15)
	} else {
		b.issue(10, "Page is not served over HTTPS")
		b.recommend("Serve the site over HTTPS with a valid certificate")
	}

	for _, h := range securityHeaders {
		if _, ok := f.header(h.name); ok {
			b.add(securityHeaderPoints)
		} else if h.core {
			b.issue(0, fmt.Sprintf("Missing %s header", h.display))
		}
	}

	if f.externalScripts > 0 {
		if f.scriptsWithSRI == f.externalScripts {
			b.add(5)
		} else {
			b.recommend("Add subresource integrity attributes to externally loaded scripts")
		}
	}

	return b.build("Transport security and response headers are in good shape")
}

// scoreAccessibility: baseline 40. Alt coverage, lang attribute, ARIA usage,
// form labels.
func scoreAccessibility(f *pageFeatures) DimensionScore {
	b := newScore(40)

	if total, missing := f.altCoverage(); total > 0 {
		if missing == 0 {
			b.add(15)
		} else {
			penalty := missing * 3
			if penalty > 20 {
				penalty = 20
			}
			b.issue(penalty, fmt.Sprintf("%d images are missing alt text", missing))
		}
	}

	if f.hasLang {
		b.add(15)
	} else {
		b.issue(10, "The html element has no lang attribute")
	}

	if f.ariaAttributes > 0 {
		b.add(10)
	} else {
		b.recommend("Use ARIA attributes where semantics are not conveyed by markup alone")
	}

	if f.inputCount > 0 {
		if f.labelCount > 0 {
			b.add(10)
		} else {
			b.issue(5, "Form inputs have no label elements")
		}
	}

	return b.build("Accessibility basics are covered")
}

// scoreMobile: baseline 50. Viewport meta, responsive hints, page weight.
func scoreMobile(f *pageFeatures) DimensionScore {
	b := newScore(50)

	if f.doc.Meta.Viewport != "" {
		b.add(25)
	} else {
		b.issue(20, "Page has no viewport meta tag")
		b.recommend("Add <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
	}

	if f.hasMediaQuery {
		b.add(15)
	} else {
		b.recommend("Use responsive media queries so layout adapts to small screens")
	}

	if f.pageSizeKB <= 512 {
		b.add(10)
	} else if f.pageSizeKB > 2048 {
		b.issue(10, "Document weight will be slow on mobile connections")
	}

	return b.build("Page is set up well for mobile devices")
}

// scoreSustainability: baseline 50. Page weight, image count, compression and
// HTTPS as energy-efficiency proxies.
func scoreSustainability(f *pageFeatures) DimensionScore {
	b := newScore(50)

	switch {
	case f.pageSizeKB < 500:
		b.add(15)
	case f.pageSizeKB > 2000:
		b.issue(15, fmt.Sprintf("Page weight of %d KB wastes transfer energy", f.pageSizeKB))
		b.recommend("Trim page weight below 2 MB, ideally below 500 KB")
	}

	switch images := len(f.doc.Images); {
	case images <= 10:
		b.add(10)
	case images > 50:
		b.issue(10, fmt.Sprintf("Page embeds %d images, lazy-load or remove some", images))
	}

	if f.compressed() {
		b.add(10)
	} else {
		b.issue(5, "Enable compression to cut transferred bytes")
	}

	if f.hasSSL {
		b.add(5)
	}

	return b.build("Page is lightweight and efficient to serve")
}

// scoreContentQuality: baseline 40. Well-formed title and description,
// heading hierarchy, word count, alt coverage.
func scoreContentQuality(f *pageFeatures) DimensionScore {
	b := newScore(40)

	if n := len(f.doc.Title); n >= 10 && n <= 70 {
		b.add(10)
	} else if n == 0 {
		b.issue(5, "Page has no title to anchor its content")
	}

	if n := len(f.doc.Meta.Description); n >= 50 && n <= 160 {
		b.add(10)
	} else if n == 0 {
		b.issue(5, "Page has no meta description summarizing its content")
	}

	switch h1s := len(f.doc.Headings.H1); {
	case h1s == 1:
		b.add(10)
	case h1s == 0:
		b.issue(5, "Content has no top-level heading")
	default:
		b.issue(5, fmt.Sprintf("Content has %d top-level headings, use exactly one", h1s))
	}

	if len(f.doc.Headings.H3) > 0 && len(f.doc.Headings.H2) == 0 {
		b.issue(5, "Heading hierarchy skips from H1 to H3")
	}

	words := f.doc.Content.WordCount
	switch {
	case words > 1000:
		b.add(20)
	case words > 300:
		b.add(10)
	case words < 100:
		b.issue(10, fmt.Sprintf("Page has thin content (%d words)", words))
		b.recommend("Expand the page to at least 300 words of substantive text")
	}

	if total, missing := f.altCoverage(); total > 0 && missing == 0 {
		b.add(5)
	}

	return b.build("Content structure and depth read well")
}

// scoreScriptOptimization: baseline 50. Script counts, loading attributes,
// integrity coverage, detected tracker load.
func scoreScriptOptimization(f *pageFeatures) DimensionScore {
	b := newScore(50)

	switch {
	case f.externalScripts <= 10:
		b.add(10)
	case f.externalScripts > 20:
		b.issue(15, fmt.Sprintf("Page loads %d external scripts", f.externalScripts))
	}

	switch {
	case f.inlineScripts <= 5:
		b.add(10)
	case f.inlineScripts > 15:
		b.issue(10, fmt.Sprintf("Page embeds %d inline scripts", f.inlineScripts))
	}

	if f.externalScripts > 0 {
		if f.deferredScripts == f.externalScripts {
			b.add(15)
		} else if f.deferredScripts == 0 && f.externalScripts > 3 {
			b.issue(10, "No external script uses async or defer loading")
		}
		if f.scriptsWithSRI == f.externalScripts {
			b.add(10)
		} else {
			b.recommend("Add integrity hashes so tampered scripts are rejected")
		}
	} else {
		b.add(10)
	}

	if trackers := f.analyticsTrackers(); trackers > 2 {
		b.issue(5, fmt.Sprintf("Page loads %d analytics trackers, consolidate them", trackers))
	}

	return b.build("Script delivery is already well optimized")
}
