package proving

import (
	"sort"

	"github.com/raulk/clock"
	"go.opencensus.io/stats"

	"github.com/filecoin-project/shardproof/metrics"
)

func (c *Coordinator) cleanupLoop(ticker *clock.Ticker) {
	defer c.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupExpiredChallenges()
		case <-c.ctx.Done():
			return
		}
	}
}

// CleanupExpiredChallenges force-fails active challenges that outlived their
// timeout. Each one counts as a timeout failure against its node.
func (c *Coordinator) CleanupExpiredChallenges() {
	now := c.clock.Now()

	c.lk.Lock()
	var expired []*Challenge
	for id, ch := range c.active {
		if now.After(ch.Deadline()) {
			expired = append(expired, ch)
			delete(c.active, id)
		}
	}
	nActive := len(c.active)
	c.lk.Unlock()

	if len(expired) == 0 {
		return
	}
	stats.Record(c.ctx, metrics.ActiveChallenges.M(int64(nActive)))

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].Start.Before(expired[j].Start)
	})

	for _, ch := range expired {
		age := now.Sub(ch.Start)
		log.Warnw("challenge expired", "challenge", ch.ID, "shard", ch.ShardID, "node", ch.NodeID, "age", age)

		c.recordResult(OutcomeExpired, age)
		rel, becameUnreliable := c.tracker.recordOutcome(ch.NodeID, ch.PeerID, false, age)
		c.recordScore(rel)

		c.emit(EvtChallengeExpired, ChallengeExpiredEvt{
			ChallengeID: ch.ID,
			ShardID:     ch.ShardID,
			NodeID:      ch.NodeID,
			Age:         age,
			Timeout:     ch.Timeout,
		})
		if becameUnreliable {
			c.signalRepair(ch.ShardID, rel)
		}
	}
}
