package search

import (
	"github.com/poiesic/pitchfinder/core"
)

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query *core.SearchQuery)
	AfterWebSearch(hits []core.RawHit)
	AfterIngest(events []*core.CanonicalEvent)
	AfterQueryEmbedding(degraded bool)
	AfterRetrieval(candidates []core.Candidate)
	Finish(results []core.RankedEvent)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.SearchQuery)            {}
func (n *noopMonitor) AfterWebSearch(_ []core.RawHit)       {}
func (n *noopMonitor) AfterIngest(_ []*core.CanonicalEvent) {}
func (n *noopMonitor) AfterQueryEmbedding(_ bool)           {}
func (n *noopMonitor) AfterRetrieval(_ []core.Candidate)    {}
func (n *noopMonitor) Finish(_ []core.RankedEvent)          {}
