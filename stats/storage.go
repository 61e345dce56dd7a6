// Package stats persists monthly operational counters for the analysis
// service.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MonthlyStats are the counters kept per calendar month.
type MonthlyStats struct {
	Analyses      int       `json:"analyses"`
	CacheHits     int       `json:"cache_hits"`
	CacheMisses   int       `json:"cache_misses"`
	StoreFailures int       `json:"store_failures"`
	Generations   int       `json:"generations"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Storage keeps counters in memory and writes them to a JSON file in the
// background, atomically via a temp file rename.
type Storage struct {
	mutex       sync.RWMutex
	months      map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
}

// NewStorage creates the storage under dataDir, loading any previous file.
func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		months:      make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()
	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return json.Unmarshal(data, &s.months)
}

func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.months)
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

func (s *Storage) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.writeBuffer:
			s.save()
		case <-ticker.C:
			s.save()
		case <-s.done:
			return
		}
	}
}

func currentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite schedules a disk write unless one is already pending.
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
	}
}

// bump applies a mutation to the current month's counters.
func (s *Storage) bump(fn func(*MonthlyStats)) {
	month := currentMonth()

	s.mutex.Lock()
	m, exists := s.months[month]
	if !exists {
		m = &MonthlyStats{}
		s.months[month] = m
	}
	fn(m)
	m.LastUpdated = time.Now()
	write := time.Since(s.lastWrite) > time.Minute
	if write {
		s.lastWrite = time.Now()
	}
	s.mutex.Unlock()

	if write {
		s.requestWrite()
	}
}

// RecordAnalysis counts one completed analysis.
func (s *Storage) RecordAnalysis() { s.bump(func(m *MonthlyStats) { m.Analyses++ }) }

// RecordCacheHit counts an analysis served from cache.
func (s *Storage) RecordCacheHit() { s.bump(func(m *MonthlyStats) { m.CacheHits++ }) }

// RecordCacheMiss counts an analysis that had to run the pipeline.
func (s *Storage) RecordCacheMiss() { s.bump(func(m *MonthlyStats) { m.CacheMisses++ }) }

// RecordStoreFailure counts a swallowed persistence error.
func (s *Storage) RecordStoreFailure() { s.bump(func(m *MonthlyStats) { m.StoreFailures++ }) }

// RecordGeneration counts one content generation request.
func (s *Storage) RecordGeneration() { s.bump(func(m *MonthlyStats) { m.Generations++ }) }

// GetCurrentStats returns a copy of this month's counters.
func (s *Storage) GetCurrentStats() MonthlyStats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if m, exists := s.months[currentMonth()]; exists {
		return *m
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns the counters for a specific "YYYY-MM" month.
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if m, exists := s.months[yearMonth]; exists {
		return *m, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths lists the recorded months, newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	months := make([]string, 0, len(s.months))
	for month := range s.months {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Cleanup keeps only the current and previous month.
func (s *Storage) Cleanup() {
	now := time.Now()
	keep := make(map[string]bool, 2)
	keep[now.Format("2006-01")] = true
	keep[now.AddDate(0, -1, 0).Format("2006-01")] = true

	s.mutex.Lock()
	for month := range s.months {
		if !keep[month] {
			delete(s.months, month)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()
}

// Close stops the background writer and flushes to disk.
func (s *Storage) Close() error {
	close(s.done)
	return s.save()
}
