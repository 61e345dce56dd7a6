// Package detect identifies technologies and the hosting provider of a page
// from its markup, script URLs and response headers.
package detect

import (
	"net/url"
	"strings"
)

const (
	confidenceExact     = 100 // exact server header equality
	confidenceSubstring = 90  // generic substring match
)

// Technology is one detected product with a confidence score.
type Technology struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Version     string `json:"version,omitempty"`
	Confidence  int    `json:"confidence"`
	Description string `json:"description,omitempty"`
}

// HostingInfo is the best-guess hosting attribution. Empty fields mean the
// signal was not present.
type HostingInfo struct {
	Provider   string `json:"provider,omitempty"`
	Location   string `json:"location,omitempty"`
	ServerType string `json:"serverType,omitempty"`
}

// Signature is the full detection result for one page.
type Signature struct {
	Technologies []Technology `json:"technologies"`
	Hosting      HostingInfo  `json:"hosting"`
}

// Detector evaluates the built-in catalog. The catalog is read-only after
// construction, so one Detector is safe for concurrent use.
type Detector struct {
	catalog  []pattern
	servers  []serverSignature
	hostings []hostingPattern
}

// New creates a Detector over the built-in signature tables.
func New() *Detector {
	return &Detector{
		catalog:  catalog,
		servers:  serverSignatures,
		hostings: hostingPatterns,
	}
}

// Detect runs every catalog check against the page. A page can match many
// unrelated technologies, but each technology name appears at most once.
// Header names are expected lowercase (as the scraper delivers them).
func (d *Detector) Detect(pageURL, html string, scripts []string, headers map[string]string) *Signature {
	sig := &Signature{Technologies: []Technology{}}

	lowerHTML := strings.ToLower(html)
	lowerScripts := strings.ToLower(strings.Join(scripts, "\n"))
	seen := make(map[string]bool)

	appendTech := func(t Technology) {
		if !seen[t.Name] {
			seen[t.Name] = true
			sig.Technologies = append(sig.Technologies, t)
		}
	}

	for _, p := range d.catalog {
		if d.matches(p, lowerHTML, lowerScripts, headers) {
			appendTech(Technology{
				Name:        p.name,
				Category:    p.category,
				Confidence:  confidenceSubstring,
				Description: p.description,
			})
		}
	}

	// The server header independently identifies the web server or CDN, even
	// when no hosting pattern fires.
	server := strings.ToLower(strings.TrimSpace(headers["server"]))
	if server != "" {
		for _, s := range d.servers {
			if strings.Contains(server, s.substring) {
				confidence := confidenceSubstring
				if server == s.substring {
					confidence = confidenceExact
				}
				appendTech(Technology{
					Name:        s.name,
					Category:    s.category,
					Confidence:  confidence,
					Description: "Identified from the server response header",
				})
				break
			}
		}
	}

	sig.Hosting = d.resolveHosting(pageURL, headers)
	sig.Hosting.ServerType = headers["server"]
	return sig
}

func (d *Detector) matches(p pattern, lowerHTML, lowerScripts string, headers map[string]string) bool {
	for _, sub := range p.html {
		if strings.Contains(lowerHTML, sub) {
			return true
		}
	}
	for _, sub := range p.scripts {
		if strings.Contains(lowerScripts, sub) {
			return true
		}
	}
	if p.header != "" {
		if value, ok := headers[p.header]; ok {
			return p.headerValue == "" || strings.Contains(strings.ToLower(value), p.headerValue)
		}
	}
	return false
}

// resolveHosting scans the hosting table in order and stops at the first
// matching pattern.
func (d *Detector) resolveHosting(pageURL string, headers map[string]string) HostingInfo {
	hostname := ""
	if u, err := url.Parse(pageURL); err == nil {
		hostname = strings.ToLower(u.Hostname())
	}

	for _, h := range d.hostings {
		if h.header != "" {
			if _, ok := headers[h.header]; ok {
				return HostingInfo{Provider: h.provider}
			}
			continue
		}
		if strings.Contains(hostname, h.substring) {
			return HostingInfo{Provider: h.provider}
		}
		for _, value := range headers {
			if strings.Contains(strings.ToLower(value), h.substring) {
				return HostingInfo{Provider: h.provider}
			}
		}
	}
	return HostingInfo{}
}
