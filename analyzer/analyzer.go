// Package analyzer runs the full analysis pipeline: fetch, extract, detect,
// score, aggregate and assemble.
package analyzer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/webinsight/backend/detect"
	"github.com/webinsight/backend/scraper"
	"github.com/webinsight/backend/stats"
)

// Saver persists finished results. Persistence is best-effort: the analysis
// response never depends on it.
type Saver interface {
	Save(ctx context.Context, result *AnalysisResult) error
}

type cacheEntry struct {
	result    *AnalysisResult
	timestamp time.Time
}

// Service owns the pipeline collaborators and a TTL-bounded result cache.
// All shared state is either read-only (detector catalog) or mutex-guarded
// (cache), so one Service handles concurrent requests.
type Service struct {
	client   *scraper.Client
	detector *detect.Detector
	saver    Saver
	metrics  *stats.Storage

	cache           map[string]cacheEntry
	cacheMutex      sync.RWMutex
	cacheTTL        time.Duration
	maxCacheSize    int
	cleanupInterval time.Duration
	done            chan struct{}
}

// NewService wires the pipeline together. saver and metrics may be nil.
func NewService(client *scraper.Client, detector *detect.Detector, saver Saver, metrics *stats.Storage) *Service {
	s := &Service{
		client:          client,
		detector:        detector,
		saver:           saver,
		metrics:         metrics,
		cache:           make(map[string]cacheEntry),
		cacheTTL:        30 * time.Minute,
		maxCacheSize:    1000,
		cleanupInterval: 5 * time.Minute,
		done:            make(chan struct{}),
	}
	go s.periodicCleanup()
	return s
}

// Analyze runs the whole pipeline for one URL. It returns scraper.ErrInvalidURL
// for malformed input, a *scraper.FetchError when the page cannot be
// retrieved, and a complete result otherwise.
func (s *Service) Analyze(ctx context.Context, rawURL string) (*AnalysisResult, error) {
	pageURL, err := scraper.Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	key := cacheKey(pageURL)
	if cached := s.cached(key); cached != nil {
		if s.metrics != nil {
			s.metrics.RecordCacheHit()
		}
		return cached, nil
	}
	if s.metrics != nil {
		s.metrics.RecordCacheMiss()
	}

	page, err := s.client.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc := scraper.Extract(page.HTML, page.URL, page.Technical)
	title := scraper.ResolveTitle(doc, page.URL)
	sig := s.detector.Detect(page.URL, page.HTML, doc.Scripts, page.Technical.ServerHeaders)

	features := newPageFeatures(doc, sig, page.HTML, page.Technical.ServerHeaders, page.Technical.HasSSL)
	scores := scoreAll(features)
	improvements := AggregateImprovements(&scores)

	result := Assemble(page.URL, doc, title, sig, scores, improvements)
	if s.metrics != nil {
		s.metrics.RecordAnalysis()
	}

	s.store(key, result)
	s.persist(result)

	return result, nil
}

// persist hands the result to the saver without blocking or failing the
// response. Failures are logged and counted.
func (s *Service) persist(result *AnalysisResult) {
	if s.saver == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.saver.Save(ctx, result); err != nil {
			log.Printf("failed to persist analysis %s: %v", result.ID, err)
			if s.metrics != nil {
				s.metrics.RecordStoreFailure()
			}
		}
	}()
}

func cacheKey(url string) string {
	hash := md5.Sum([]byte(url))
	return hex.EncodeToString(hash[:])
}

func (s *Service) cached(key string) *AnalysisResult {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()
	if entry, found := s.cache[key]; found && time.Since(entry.timestamp) < s.cacheTTL {
		return entry.result
	}
	return nil
}

func (s *Service) store(key string, result *AnalysisResult) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.cache[key] = cacheEntry{result: result, timestamp: time.Now()}
	if len(s.cache) > s.maxCacheSize {
		s.evictOldestLocked()
	}
}

// evictOldestLocked drops the oldest entries until the cache fits again.
// Callers must hold the write lock.
func (s *Service) evictOldestLocked() {
	type aged struct {
		key       string
		timestamp time.Time
	}
	entries := make([]aged, 0, len(s.cache))
	for key, entry := range s.cache {
		entries = append(entries, aged{key, entry.timestamp})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].timestamp.Before(entries[j].timestamp)
	})
	for i := 0; i < len(entries)-s.maxCacheSize; i++ {
		delete(s.cache, entries[i].key)
	}
}

func (s *Service) periodicCleanup() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

// cleanup removes expired cache entries.
func (s *Service) cleanup() {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	now := time.Now()
	for key, entry := range s.cache {
		if now.Sub(entry.timestamp) > s.cacheTTL {
			delete(s.cache, key)
		}
	}
}

// IsCached reports whether a fresh result for the URL is cached. Input goes
// through the same normalization as Analyze.
func (s *Service) IsCached(rawURL string) bool {
	pageURL, err := scraper.Normalize(rawURL)
	if err != nil {
		return false
	}
	return s.cached(cacheKey(pageURL)) != nil
}

// SetCacheTTL adjusts how long results are served from cache.
func (s *Service) SetCacheTTL(ttl time.Duration) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.cacheTTL = ttl
}

// ClearCache drops all cached results.
func (s *Service) ClearCache() {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.cache = make(map[string]cacheEntry)
}

// CacheSize returns the number of cached results.
func (s *Service) CacheSize() int {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()
	return len(s.cache)
}

// Shutdown stops the cleanup goroutine and flushes metrics.
func (s *Service) Shutdown() error {
	close(s.done)
	if s.metrics != nil {
		return s.metrics.Close()
	}
	return nil
}
