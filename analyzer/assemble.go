package analyzer

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/webinsight/backend/detect"
	"github.com/webinsight/backend/scraper"
)

// stopwords excluded from derived keywords.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "has": true,
	"have": true, "this": true, "that": true, "with": true, "from": true,
	"they": true, "will": true, "your": true, "more": true, "about": true,
	"their": true, "what": true, "when": true, "which": true, "there": true,
	"were": true, "been": true, "into": true, "than": true, "them": true,
	"some": true, "other": true, "only": true, "also": true, "its": true,
}

// Assemble combines every pipeline output into the final immutable result.
// The generated ID and timestamp are the only non-deterministic fields.
func Assemble(pageURL string, doc *scraper.Document, title string, sig *detect.Signature, scores Scores, improvements []string) *AnalysisResult {
	return &AnalysisResult{
		ID:        uuid.NewString(),
		URL:       pageURL,
		CreatedAt: time.Now().UTC(),

		Title:     title,
		Summary:   deriveSummary(doc, title),
		KeyPoints: deriveKeyPoints(doc),
		Keywords:  deriveKeywords(doc),

		Scores:       scores,
		Improvements: improvements,

		Technologies: sig.Technologies,
		Hosting:      sig.Hosting,
		ContentStats: ContentStats{
			WordCount:      doc.Content.WordCount,
			ParagraphCount: len(doc.Content.Paragraphs),
			ImageCount:     len(doc.Images),
			InternalLinks:  len(doc.Links.Internal),
			ExternalLinks:  len(doc.Links.External),
			ScriptCount:    len(doc.Scripts),
			StyleCount:     len(doc.Styles),
		},
		Metadata: Metadata{
			StatusCode:   doc.Technical.StatusCode,
			ContentType:  doc.Technical.ContentType,
			Charset:      doc.Technical.Charset,
			ResponseTime: doc.Technical.ResponseTime,
			PageSize:     doc.Technical.PageSize,
			HasSSL:       doc.Technical.HasSSL,
			Server:       doc.Technical.ServerHeaders["server"],
		},
	}
}

// deriveSummary prefers the page's own description, then its first paragraph,
// then a generic line naming the site.
func deriveSummary(doc *scraper.Document, title string) string {
	if doc.Meta.Description != "" {
		return doc.Meta.Description
	}
	if doc.Meta.OGDescription != "" {
		return doc.Meta.OGDescription
	}
	if len(doc.Content.Paragraphs) > 0 {
		summary := doc.Content.Paragraphs[0]
		if len(summary) > 200 {
			if cut := strings.LastIndex(summary[:200], " "); cut > 0 {
				summary = summary[:cut]
			} else {
				summary = summary[:200]
			}
			summary += "…"
		}
		return summary
	}
	return "Analysis of " + title
}

// deriveKeyPoints takes the leading headings as the page's talking points.
func deriveKeyPoints(doc *scraper.Document) []string {
	points := []string{}
	seen := make(map[string]bool)
	add := func(h string) {
		if len(points) < 5 && !seen[h] {
			seen[h] = true
			points = append(points, h)
		}
	}
	for _, h := range doc.Headings.H1 {
		add(h)
	}
	for _, h := range doc.Headings.H2 {
		add(h)
	}
	return points
}

// deriveKeywords splits the keywords meta tag when present, otherwise ranks
// the most frequent non-stopword content terms.
func deriveKeywords(doc *scraper.Document) []string {
	if doc.Meta.Keywords != "" {
		keywords := []string{}
		for _, k := range strings.Split(doc.Meta.Keywords, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) > 8 {
			keywords = keywords[:8]
		}
		return keywords
	}

	freq := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(doc.Content.TextContent)) {
		word = strings.Trim(word, ".,:;!?\"'()[]{}")
		if len(word) < 4 || stopwords[word] {
			continue
		}
		freq[word]++
	}

	terms := make([]string, 0, len(freq))
	for word := range freq {
		terms = append(terms, word)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > 8 {
		terms = terms[:8]
	}
	return terms
}
