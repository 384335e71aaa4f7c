package proving

import (
	"sort"
	"sync"
	"time"

	"github.com/raulk/clock"
	"github.com/samber/lo"
	"github.com/zyedidia/generic/queue"
)

// ReliabilityTracker keeps per-node challenge statistics and classifies
// nodes as reliable or not. Records live for the lifetime of the process.
type ReliabilityTracker struct {
	clock         clock.Clock
	threshold     uint64
	reliableScore float64
	historySize   int
	events        *eventBus

	lk    sync.Mutex
	nodes map[string]*nodeState
}

type nodeState struct {
	rel NodeReliability

	history    *queue.Queue[HistoryRecord]
	historyLen int

	// unreliableNotified is set once nodeUnreliable was emitted and cleared
	// when the node is reliable again.
	unreliableNotified bool
}

// NewReliabilityTracker creates a standalone tracker. The coordinator
// creates its own, sharing the coordinator's subscribers.
func NewReliabilityTracker(cfg Config, clk clock.Clock) *ReliabilityTracker {
	return newReliabilityTracker(cfg, clk, newEventBus())
}

func newReliabilityTracker(cfg Config, clk clock.Clock, events *eventBus) *ReliabilityTracker {
	return &ReliabilityTracker{
		clock:         clk,
		threshold:     cfg.FailureThreshold,
		reliableScore: cfg.ReliableScore,
		historySize:   cfg.HistorySize,
		events:        events,
		nodes:         map[string]*nodeState{},
	}
}

// Subscribe registers fn for reliabilityUpdated and nodeUnreliable events.
func (t *ReliabilityTracker) Subscribe(fn func(Event)) (unsubscribe func()) {
	return t.events.subscribe(fn)
}

// RecordOutcome counts one challenge outcome against the node and returns
// the updated record.
func (t *ReliabilityTracker) RecordOutcome(nodeID, peerID string, success bool, responseTime time.Duration) NodeReliability {
	rel, _ := t.recordOutcome(nodeID, peerID, success, responseTime)
	return rel
}

// recordOutcome also reports whether this outcome made the node unreliable
// for the first time since it was last reliable.
func (t *ReliabilityTracker) recordOutcome(nodeID, peerID string, success bool, responseTime time.Duration) (NodeReliability, bool) {
	now := t.clock.Now()

	t.lk.Lock()
	st, ok := t.nodes[nodeID]
	if !ok {
		st = &nodeState{
			rel: NodeReliability{
				NodeID:           nodeID,
				ReliabilityScore: 1.0,
				IsReliable:       true,
			},
			history: queue.New[HistoryRecord](),
		}
		t.nodes[nodeID] = st
	}

	rel := &st.rel
	if peerID != "" {
		rel.PeerID = peerID
	}

	rel.TotalChallenges++
	if success {
		rel.SuccessfulChallenges++
	} else {
		rel.FailedChallenges++
	}

	n := float64(rel.TotalChallenges)
	sample := float64(responseTime) / float64(time.Millisecond)
	rel.AverageResponseTime = (rel.AverageResponseTime*(n-1) + sample) / n

	rel.ReliabilityScore = float64(rel.SuccessfulChallenges) / n
	rel.IsReliable = rel.ReliabilityScore >= t.reliableScore && rel.FailedChallenges < t.threshold
	rel.LastChallenge = now

	st.history.Enqueue(HistoryRecord{
		Timestamp:        now,
		Success:          success,
		ResponseTime:     responseTime,
		ReliabilityScore: rel.ReliabilityScore,
	})
	st.historyLen++
	for st.historyLen > t.historySize {
		st.history.Dequeue()
		st.historyLen--
	}

	var becameUnreliable bool
	switch {
	case rel.IsReliable:
		st.unreliableNotified = false
	case rel.TotalChallenges >= t.threshold && !st.unreliableNotified:
		st.unreliableNotified = true
		becameUnreliable = true
	}

	out := *rel
	t.lk.Unlock()

	t.events.publish(Event{Type: EvtReliabilityUpdated, Time: now, Payload: out})
	if becameUnreliable {
		log.Warnw("node became unreliable",
			"node", nodeID,
			"score", out.ReliabilityScore,
			"failed", out.FailedChallenges,
			"total", out.TotalChallenges)
		t.events.publish(Event{Type: EvtNodeUnreliable, Time: now, Payload: out})
	}

	return out, becameUnreliable
}

func (t *ReliabilityTracker) Get(nodeID string) (NodeReliability, bool) {
	t.lk.Lock()
	defer t.lk.Unlock()

	st, ok := t.nodes[nodeID]
	if !ok {
		return NodeReliability{}, false
	}
	return st.rel, true
}

// ListAll returns every known node ordered by node id.
func (t *ReliabilityTracker) ListAll() []NodeReliability {
	t.lk.Lock()
	out := make([]NodeReliability, 0, len(t.nodes))
	for _, st := range t.nodes {
		out = append(out, st.rel)
	}
	t.lk.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].NodeID < out[j].NodeID
	})
	return out
}

// ListReliable returns reliable nodes, best score first.
func (t *ReliabilityTracker) ListReliable() []NodeReliability {
	out := lo.Filter(t.ListAll(), func(r NodeReliability, _ int) bool {
		return r.IsReliable
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReliabilityScore > out[j].ReliabilityScore
	})
	return out
}

func (t *ReliabilityTracker) ListUnreliable() []NodeReliability {
	return lo.Filter(t.ListAll(), func(r NodeReliability, _ int) bool {
		return !r.IsReliable
	})
}

// History returns the retained records of a node, oldest first.
func (t *ReliabilityTracker) History(nodeID string) []HistoryRecord {
	t.lk.Lock()
	defer t.lk.Unlock()

	st, ok := t.nodes[nodeID]
	if !ok {
		return nil
	}

	out := make([]HistoryRecord, 0, st.historyLen)
	st.history.Each(func(r HistoryRecord) {
		out = append(out, r)
	})
	return out
}
