package tracker

import (
	"sync"
	"sync/atomic"
)

// Tracker tracks usage statistics per provider plus pipeline totals.
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*ProviderStats

	resequences     int64
	rangeViolations int64
}

// ProviderStats holds metrics for a specific provider.
// Fields are accessed atomically.
type ProviderStats struct {
	CacheHits   int64
	CacheMisses int64
	APISuccess  int64
	APIFailures int64
	Malformed   int64
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*ProviderStats),
	}
}

// getStats returns the stats object for a provider, creating it if needed.
func (t *Tracker) getStats(provider string) *ProviderStats {
	t.mu.RLock()
	s, ok := t.stats[provider]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.stats[provider]; ok {
		return s
	}
	s = &ProviderStats{}
	t.stats[provider] = s
	return s
}

// TrackCacheHit increments the cache hit counter.
func (t *Tracker) TrackCacheHit(provider string) {
	atomic.AddInt64(&t.getStats(provider).CacheHits, 1)
}

func (t *Tracker) TrackCacheMiss(provider string) {
	atomic.AddInt64(&t.getStats(provider).CacheMisses, 1)
}

func (t *Tracker) TrackAPISuccess(provider string) {
	atomic.AddInt64(&t.getStats(provider).APISuccess, 1)
}

func (t *Tracker) TrackAPIFailure(provider string) {
	atomic.AddInt64(&t.getStats(provider).APIFailures, 1)
}

// TrackMalformed counts oracle responses that failed schema validation.
func (t *Tracker) TrackMalformed(provider string) {
	atomic.AddInt64(&t.getStats(provider).Malformed, 1)
}

// TrackResequence counts storyboards whose scene order had to be repaired.
func (t *Tracker) TrackResequence() {
	atomic.AddInt64(&t.resequences, 1)
}

// TrackRangeViolation counts storyboards whose scene count fell outside the
// requested cut-length range.
func (t *Tracker) TrackRangeViolation() {
	atomic.AddInt64(&t.rangeViolations, 1)
}

// Totals holds pipeline-wide counters.
type Totals struct {
	Resequences     int64
	RangeViolations int64
}

// TotalsSnapshot returns a copy of the pipeline counters.
func (t *Tracker) TotalsSnapshot() Totals {
	return Totals{
		Resequences:     atomic.LoadInt64(&t.resequences),
		RangeViolations: atomic.LoadInt64(&t.rangeViolations),
	}
}

// Snapshot returns a copy of the current per-provider stats.
func (t *Tracker) Snapshot() map[string]ProviderStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]ProviderStats)
	for k, v := range t.stats {
		result[k] = ProviderStats{
			CacheHits:   atomic.LoadInt64(&v.CacheHits),
			CacheMisses: atomic.LoadInt64(&v.CacheMisses),
			APISuccess:  atomic.LoadInt64(&v.APISuccess),
			APIFailures: atomic.LoadInt64(&v.APIFailures),
			Malformed:   atomic.LoadInt64(&v.Malformed),
		}
	}
	return result
}
