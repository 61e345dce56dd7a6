// Package content turns a finished analysis into a structured prompt and
// hands it to a text generation backend.
package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/webinsight/backend/analyzer"
)

// Payload is the structured prompt input: the subset of an analysis the
// generator needs, plus the caller's framing of the requested text.
type Payload struct {
	Title        string         `json:"title"`
	URL          string         `json:"url"`
	Summary      string         `json:"summary"`
	Scores       map[string]int `json:"scores"`
	Improvements []string       `json:"improvements"`
	Keywords     []string       `json:"keywords"`

	ContentType        string `json:"contentType"` // e.g. "blog post", "social post", "report"
	Tone               string `json:"tone"`        // e.g. "professional", "casual"
	CustomInstructions string `json:"customInstructions,omitempty"`
}

// Generator produces text from a payload. Implementations decide the model
// and transport; the analysis core only supplies structured input.
type Generator interface {
	Generate(ctx context.Context, payload Payload) (string, error)
}

// BuildPayload extracts the prompt-relevant subset of an analysis.
func BuildPayload(result *analyzer.AnalysisResult, contentType, tone, instructions string) Payload {
	if contentType == "" {
		contentType = "report"
	}
	if tone == "" {
		tone = "professional"
	}
	return Payload{
		Title:   result.Title,
		URL:     result.URL,
		Summary: result.Summary,
		Scores: map[string]int{
			"performance":        result.Scores.Performance.Score,
			"sustainability":     result.Scores.Sustainability.Score,
			"security":           result.Scores.Security.Score,
			"contentQuality":     result.Scores.ContentQuality.Score,
			"scriptOptimization": result.Scores.ScriptOptimization.Score,
			"seo":                result.Scores.SEO.Score,
			"accessibility":      result.Scores.Accessibility.Score,
			"mobile":             result.Scores.Mobile.Score,
		},
		Improvements:       result.Improvements,
		Keywords:           result.Keywords,
		ContentType:        contentType,
		Tone:               tone,
		CustomInstructions: instructions,
	}
}

// renderPrompt flattens a payload into the instruction text sent to the model.
func renderPrompt(p Payload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s in a %s tone about the website %q (%s).\n\n", p.ContentType, p.Tone, p.Title, p.URL)
	fmt.Fprintf(&b, "Site summary: %s\n\n", p.Summary)

	b.WriteString("Analysis scores (0-100):\n")
	for _, dim := range []string{"performance", "seo", "security", "accessibility", "mobile", "sustainability", "contentQuality", "scriptOptimization"} {
		fmt.Fprintf(&b, "- %s: %d\n", dim, p.Scores[dim])
	}

	if len(p.Improvements) > 0 {
		b.WriteString("\nSuggested improvements:\n")
		for _, imp := range p.Improvements {
			fmt.Fprintf(&b, "- %s\n", imp)
		}
	}
	if len(p.Keywords) > 0 {
		fmt.Fprintf(&b, "\nWork in these keywords naturally: %s\n", strings.Join(p.Keywords, ", "))
	}
	if p.CustomInstructions != "" {
		fmt.Fprintf(&b, "\nAdditional instructions: %s\n", p.CustomInstructions)
	}
	return b.String()
}
