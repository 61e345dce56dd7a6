package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/webinsight/backend/detect"
	"github.com/webinsight/backend/scraper"
)

// newPageFeatures derives the scorer inputs from the extracted document plus
// a re-scan of the raw markup. The extractor only keeps external resources,
// so inline script counts, loading attributes and accessibility markup come
// from this second pass.
func newPageFeatures(doc *scraper.Document, sig *detect.Signature, rawHTML string, headers map[string]string, hasSSL bool) *pageFeatures {
	f := &pageFeatures{
		doc:        doc,
		sig:        sig,
		hasSSL:     hasSSL,
		headers:    headers,
		pageSizeKB: doc.Technical.PageSize / 1024,
	}

	q, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return f
	}

	q.Find("script").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			// Skip structured data blocks, they are content not behavior.
			if strings.Contains(strings.ToLower(s.AttrOr("type", "")), "ld+json") {
				f.hasJSONLD = true
				return
			}
			f.inlineScripts++
			return
		}
		f.externalScripts++
		if _, ok := s.Attr("async"); ok {
			f.deferredScripts++
		} else if _, ok := s.Attr("defer"); ok {
			f.deferredScripts++
		}
		if strings.TrimSpace(s.AttrOr("integrity", "")) != "" {
			f.scriptsWithSRI++
		}
	})

	if lang, ok := q.Find("html").First().Attr("lang"); ok && strings.TrimSpace(lang) != "" {
		f.hasLang = true
	}
	if href, ok := q.Find("link[rel='canonical']").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		f.hasCanonical = true
	}

	f.labelCount = q.Find("label").Length()
	f.inputCount = q.Find("input, select, textarea").Length()
	f.ariaAttributes = strings.Count(strings.ToLower(rawHTML), "aria-")

	// Responsive hint: an @media rule in inline styles or a media attribute on
	// a stylesheet link.
	lower := strings.ToLower(rawHTML)
	if strings.Contains(lower, "@media") {
		f.hasMediaQuery = true
	} else {
		q.Find("link[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			rel := strings.ToLower(s.AttrOr("rel", ""))
			media := strings.TrimSpace(s.AttrOr("media", ""))
			if strings.Contains(rel, "stylesheet") && media != "" && media != "all" {
				f.hasMediaQuery = true
				return false
			}
			return true
		})
	}

	return f
}

// header reports whether a response header is present, case-insensitively.
// Scraper headers are already lowercased; this guards direct callers.
func (f *pageFeatures) header(name string) (string, bool) {
	if f.headers == nil {
		return "", false
	}
	v, ok := f.headers[strings.ToLower(name)]
	return v, ok
}

// compressed reports whether the response body was gzip or brotli encoded.
func (f *pageFeatures) compressed() bool {
	enc, _ := f.header("content-encoding")
	enc = strings.ToLower(enc)
	return strings.Contains(enc, "gzip") || strings.Contains(enc, "br")
}

// analyticsTrackers counts the detected Analytics-category technologies.
func (f *pageFeatures) analyticsTrackers() int {
	if f.sig == nil {
		return 0
	}
	n := 0
	for _, tech := range f.sig.Technologies {
		if tech.Category == "Analytics" {
			n++
		}
	}
	return n
}

// altCoverage returns the total image count and how many lack alt text.
func (f *pageFeatures) altCoverage() (total, missing int) {
	total = len(f.doc.Images)
	for _, img := range f.doc.Images {
		if img.Alt == "" {
			missing++
		}
	}
	return total, missing
}
