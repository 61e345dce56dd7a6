package analyzer

import (
	"time"

	"github.com/webinsight/backend/detect"
	"github.com/webinsight/backend/scraper"
)

// DimensionScore is the outcome of one scoring dimension. Score is always in
// [0,100]. Issues are present only for conditions that actually occurred;
// Recommendations always contain at least one entry.
type DimensionScore struct {
	Score           int      `json:"score"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// Scores groups every scored dimension of a page.
type Scores struct {
	Performance        DimensionScore `json:"performance"`
	Sustainability     DimensionScore `json:"sustainability"`
	Security           DimensionScore `json:"security"`
	ContentQuality     DimensionScore `json:"contentQuality"`
	ScriptOptimization DimensionScore `json:"scriptOptimization"`
	SEO                DimensionScore `json:"seo"`
	Accessibility      DimensionScore `json:"accessibility"`
	Mobile             DimensionScore `json:"mobile"`
}

// ContentStats summarizes the extracted page structure.
type ContentStats struct {
	WordCount      int `json:"wordCount"`
	ParagraphCount int `json:"paragraphCount"`
	ImageCount     int `json:"imageCount"`
	InternalLinks  int `json:"internalLinks"`
	ExternalLinks  int `json:"externalLinks"`
	ScriptCount    int `json:"scriptCount"`
	StyleCount     int `json:"styleCount"`
}

// Metadata carries the transport facts of the analyzed fetch.
type Metadata struct {
	StatusCode   int    `json:"statusCode"`
	ContentType  string `json:"contentType"`
	Charset      string `json:"charset"`
	ResponseTime int64  `json:"responseTime"`
	PageSize     int    `json:"pageSize"`
	HasSSL       bool   `json:"hasSSL"`
	Server       string `json:"server,omitempty"`
}

// AnalysisResult is the root aggregate for one analysis request. It is
// assembled once and never mutated; a re-analysis produces a new result with
// a new ID.
type AnalysisResult struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`

	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Keywords  []string `json:"keywords"`

	Scores       Scores   `json:"scores"`
	Improvements []string `json:"improvements"`

	Technologies []detect.Technology `json:"technologies"`
	Hosting      detect.HostingInfo  `json:"hosting"`
	ContentStats ContentStats        `json:"contentStats"`
	Metadata     Metadata            `json:"metadata"`
}

// scoreBuilder accumulates point deltas for one dimension and clamps the
// final value into [0,100].
type scoreBuilder struct {
	score  int
	issues []string
	recs   []string
}

func newScore(baseline int) *scoreBuilder {
	return &scoreBuilder{score: baseline, issues: []string{}, recs: []string{}}
}

func (b *scoreBuilder) add(delta int) {
	b.score += delta
}

// issue records a violated condition together with its penalty.
func (b *scoreBuilder) issue(penalty int, msg string) {
	b.score -= penalty
	b.issues = append(b.issues, msg)
}

func (b *scoreBuilder) recommend(msg string) {
	b.recs = append(b.recs, msg)
}

// build clamps the score and guarantees at least one recommendation: clean or
// high-scoring dimensions lead with the positive reinforcement message.
func (b *scoreBuilder) build(positive string) DimensionScore {
	if b.score > 100 {
		b.score = 100
	}
	if b.score < 0 {
		b.score = 0
	}
	if len(b.issues) == 0 || b.score >= 85 {
		b.recs = append([]string{positive}, b.recs...)
	}
	if len(b.recs) == 0 {
		b.recs = append(b.recs, positive)
	}
	return DimensionScore{Score: b.score, Issues: b.issues, Recommendations: b.recs}
}

// pageFeatures is the precomputed input every scorer reads. Raw-markup
// signals (inline scripts, SRI attributes, lang, ARIA) are derived once here
// so the scorers stay pure over plain values.
type pageFeatures struct {
	doc    *scraper.Document
	sig    *detect.Signature
	hasSSL bool

	headers map[string]string

	pageSizeKB      int
	inlineScripts   int
	externalScripts int
	deferredScripts int
	scriptsWithSRI  int
	hasLang         bool
	ariaAttributes  int
	labelCount      int
	inputCount      int
	hasCanonical    bool
	hasJSONLD       bool
	hasMediaQuery   bool
}
