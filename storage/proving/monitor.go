package proving

import (
	"context"
	"errors"
	"sort"

	"github.com/raulk/clock"
	"go.opencensus.io/stats"

	"github.com/filecoin-project/shardproof/metrics"
)

const (
	sourcePeriodic = "periodic"
	sourceManual   = "manual"
	sourceBatch    = "batch"
)

type shardMonitor struct {
	info   ShardInfo
	cancel context.CancelFunc
	done   chan struct{}
}

// stop cancels the trigger and waits for the loop to exit. A cycle started
// by the loop keeps running.
func (m *shardMonitor) stop() {
	m.cancel()
	<-m.done
}

// StartMonitoring verifies the shard every ChallengeInterval until stopped.
// Starting an already monitored shard replaces its trigger and shard info.
func (c *Coordinator) StartMonitoring(info ShardInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	c.lk.Lock()
	if c.closed {
		c.lk.Unlock()
		return ErrShutdown
	}

	prev := c.monitors[info.ShardID]

	ctx, cancel := context.WithCancel(c.ctx)
	m := &shardMonitor{
		info:   info,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	ticker := c.clock.Ticker(c.cfg.ChallengeInterval)
	c.monitors[info.ShardID] = m
	nMonitored := len(c.monitors)

	c.wg.Add(1)
	c.lk.Unlock()

	if prev != nil {
		prev.stop()
	}

	go c.monitorLoop(ctx, m, ticker)

	stats.Record(c.ctx, metrics.MonitoredShards.M(int64(nMonitored)))
	log.Infow("monitoring shard", "shard", info.ShardID, "node", info.NodeID, "interval", c.cfg.ChallengeInterval, "replaced", prev != nil)

	c.emit(EvtMonitoringStarted, MonitoringStartedEvt{
		ShardID:  info.ShardID,
		NodeID:   info.NodeID,
		PeerID:   info.PeerID,
		Interval: c.cfg.ChallengeInterval,
		Replaced: prev != nil,
	})
	return nil
}

// StopMonitoring cancels the shard's trigger. It is a no-op for shards that
// aren't monitored.
func (c *Coordinator) StopMonitoring(shardID string) {
	c.lk.Lock()
	m, ok := c.monitors[shardID]
	if ok {
		delete(c.monitors, shardID)
	}
	nMonitored := len(c.monitors)
	c.lk.Unlock()

	if !ok {
		return
	}

	m.stop()

	stats.Record(c.ctx, metrics.MonitoredShards.M(int64(nMonitored)))
	log.Infow("stopped monitoring shard", "shard", shardID, "node", m.info.NodeID)

	c.emit(EvtMonitoringStopped, MonitoringStoppedEvt{
		ShardID: shardID,
		NodeID:  m.info.NodeID,
	})
}

// MonitoredShards returns the shards currently under monitoring, ordered by
// shard id.
func (c *Coordinator) MonitoredShards() []ShardInfo {
	c.lk.Lock()
	out := make([]ShardInfo, 0, len(c.monitors))
	for _, m := range c.monitors {
		out = append(out, m.info)
	}
	c.lk.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].ShardID < out[j].ShardID
	})
	return out
}

func (c *Coordinator) monitorLoop(ctx context.Context, m *shardMonitor, ticker *clock.Ticker) {
	defer c.wg.Done()
	defer close(m.done)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// the loop holds a wg count, so adding here can't race Wait
			c.wg.Add(1)
			go func() {
				defer c.wg.Done()
				c.runCycle(m.info)
			}()
		case <-ctx.Done():
			return
		}
	}
}

func (c *Coordinator) runCycle(info ShardInfo) {
	res, err := c.verify(c.ctx, info, sourcePeriodic)
	switch {
	case errors.Is(err, ErrVerificationInProgress):
		log.Warnw("previous verification still running, skipping tick", "shard", info.ShardID)
	case errors.Is(err, ErrShutdown):
	case err != nil:
		log.Errorw("verification cycle failed", "shard", info.ShardID, "error", err)
	default:
		log.Debugw("verification cycle done", "shard", info.ShardID, "outcome", res.Outcome)
	}
}
