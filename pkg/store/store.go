package store

import (
	"sort"
	"sync"
	"time"

	"github.com/matchvision/match-analyzer/pkg/analysis"
)

//Analysis status values
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

//Analysis is one analysis run and its results. Results live in memory only;
//persistence to disk is an external collaborator's concern.
type Analysis struct {
	ID        string                `json:"id"`
	VideoName string                `json:"video_name"`
	Status    string                `json:"status"`
	Stage     string                `json:"stage"`
	Frame     int                   `json:"frame"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Summary   *analysis.ClipSummary `json:"summary,omitempty"`
	Error     string                `json:"error,omitempty"`
}

//Store holds analysis runs for the API layer
type Store interface {
	Put(a *Analysis)
	Get(id string) (*Analysis, bool)
	List() []*Analysis
	Update(id string, fn func(a *Analysis))
	Close()
}

//MemoryStore is an in-memory Store with TTL-based cleanup of old entries
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]*Analysis
	ttl     time.Duration
	cleanup *time.Ticker
	stopCh  chan struct{}
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		items:  make(map[string]*Analysis),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}

	s.cleanup = time.NewTicker(1 * time.Minute)
	go s.cleanupExpired()

	return s
}

func (s *MemoryStore) Put(a *Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.items[a.ID] = a
}

func (s *MemoryStore) Get(id string) (*Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[id]
	if !ok {
		return nil, false
	}
	cp := *a
	return &cp, true
}

func (s *MemoryStore) List() []*Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Analysis, 0, len(s.items))
	for _, a := range s.items {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *MemoryStore) Update(id string, fn func(a *Analysis)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return
	}
	fn(a)
	a.UpdatedAt = time.Now()
}

func (s *MemoryStore) Close() {
	close(s.stopCh)
	s.cleanup.Stop()
}

func (s *MemoryStore) cleanupExpired() {
	for {
		select {
		case <-s.cleanup.C:
			if s.ttl <= 0 {
				continue
			}
			s.mu.Lock()
			for id, a := range s.items {
				//keep running analyses alive regardless of age
				if a.Status != StatusProcessing && time.Since(a.UpdatedAt) > s.ttl {
					delete(s.items, id)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}
