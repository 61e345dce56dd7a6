// Package logging collects aggregate request statistics for the API.
package logging

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// Environment variable that unlocks the full statistics payload.
const EnvDevMode = "DEV_MODE"

// Statistics aggregates visitor and analysis activity. It is persisted as a
// JSON snapshot so restarts do not reset the counters.
type Statistics struct {
	UniqueVisitors  map[string]time.Time `json:"uniqueVisitors"` // IP -> last visit
	AnalyzedSites   map[string]int       `json:"analyzedSites"`  // cleaned URL -> count
	AnalysisCount   int                  `json:"analysisCount"`
	GenerationCount int                  `json:"generationCount"`
	ErrorCount      int                  `json:"errorCount"`
	AverageDuration float64              `json:"averageDuration"` // milliseconds
	TotalDuration   float64              `json:"-"`
	RequestCount    int                  `json:"-"`
	LastPersisted   time.Time            `json:"lastPersisted"`

	filePath string
	mutex    sync.RWMutex
}

var (
	instance *Statistics
	once     sync.Once
)

// New creates an independent statistics instance backed by
// dataDir/requests.json, restoring any previous snapshot.
func New(dataDir string) *Statistics {
	s := &Statistics{
		UniqueVisitors: make(map[string]time.Time),
		AnalyzedSites:  make(map[string]int),
		LastPersisted:  time.Now(),
		filePath:       dataDir + "/requests.json",
	}
	if err := s.Load(); err != nil {
		fmt.Printf("Could not load existing statistics: %v\n", err)
	}
	return s
}

// Initialize creates (or returns) the process-wide statistics instance.
func Initialize(dataDir string) *Statistics {
	once.Do(func() {
		instance = New(dataDir)
	})
	return instance
}

// TrackVisitor records activity from an IP address.
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UniqueVisitors[ip] = time.Now()
}

// cleanSite reduces an analyzed URL to scheme://host/path for aggregation,
// discarding localhost and this API's own routes.
func cleanSite(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}
	clean := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		clean += u.Path
	}
	return strings.TrimSuffix(clean, "/")
}

// TrackAnalysis records one analysis request and its duration.
func (s *Statistics) TrackAnalysis(site string, duration float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisCount++
	if cleaned := cleanSite(site); cleaned != "" {
		s.AnalyzedSites[cleaned]++
	}
	if hasError {
		s.ErrorCount++
	}

	s.TotalDuration += duration
	s.RequestCount++
	s.AverageDuration = s.TotalDuration / float64(s.RequestCount)
}

// TrackGeneration records one content generation request.
func (s *Statistics) TrackGeneration(hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.GenerationCount++
	if hasError {
		s.ErrorCount++
	}
}

// UniqueVisitorsLast24h counts visitors seen within the last day.
func (s *Statistics) UniqueVisitorsLast24h() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// TopSites returns up to n analyzed sites with their counts.
func (s *Statistics) TopSites(n int) map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make(map[string]int, n)
	for site, freq := range s.AnalyzedSites {
		if len(result) >= n {
			break
		}
		result[site] = freq
	}
	return result
}

// ErrorRate returns the error percentage over all tracked requests.
func (s *Statistics) ErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := s.AnalysisCount + s.GenerationCount
	if total == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(total) * 100
}

// Save writes a JSON snapshot to disk.
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()
	file, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("could not create statistics file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(s); err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}
	return nil
}

// Load restores a previous snapshot, if any.
func (s *Statistics) Load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}
	return nil
}

// Snapshot returns the statistics payload for the API. Production mode hides
// the per-site breakdown.
func (s *Statistics) Snapshot() map[string]interface{} {
	out := map[string]interface{}{
		"uniqueVisitors24h": s.UniqueVisitorsLast24h(),
		"totalAnalyses":     s.totalAnalyses(),
		"totalGenerations":  s.totalGenerations(),
		"errorRate":         s.ErrorRate(),
		"averageDuration":   s.averageDuration(),
	}
	if os.Getenv(EnvDevMode) == "true" {
		out["topSites"] = s.TopSites(5)
	}
	return out
}

func (s *Statistics) totalAnalyses() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.AnalysisCount
}

func (s *Statistics) totalGenerations() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.GenerationCount
}

func (s *Statistics) averageDuration() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.AverageDuration
}
