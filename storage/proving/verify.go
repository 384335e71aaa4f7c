package proving

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jpillora/backoff"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/lib/retry"
	"github.com/filecoin-project/shardproof/metrics"
)

var (
	retryMinBackoff = 200 * time.Millisecond
	retryMaxBackoff = 5 * time.Second
)

// VerifyOnce runs a single verification cycle for the shard. Network
// failures and bad responses are reported in the result and counted against
// the node. An error is returned only for invalid shard info, after
// shutdown, or when a cycle for the same shard is already in flight.
func (c *Coordinator) VerifyOnce(ctx context.Context, info ShardInfo) (*VerificationResult, error) {
	return c.verify(ctx, info, sourceManual)
}

func (c *Coordinator) verify(ctx context.Context, info ShardInfo, source string) (*VerificationResult, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	ch := c.gen.NewChallenge(info, c.cfg.ChallengeTimeout)
	if err := c.beginCycle(ch); err != nil {
		return nil, err
	}
	defer c.endCycle(ch)

	if sctx, err := tag.New(ctx, tag.Upsert(metrics.Source, source)); err == nil {
		stats.Record(sctx, metrics.ChallengesIssued.M(1))
	}
	log.Debugw("dispatching challenge", "challenge", ch.ID, "shard", ch.ShardID, "node", ch.NodeID, "offset", ch.Spec.Offset, "length", ch.Spec.Length)

	resp, err := c.dispatch(ctx, ch)
	return c.settle(ch, info, resp, err), nil
}

func (c *Coordinator) beginCycle(ch *Challenge) error {
	c.lk.Lock()
	defer c.lk.Unlock()

	if c.closed {
		return ErrShutdown
	}
	if _, busy := c.inflight[ch.ShardID]; busy {
		return xerrors.Errorf("shard %s: %w", ch.ShardID, ErrVerificationInProgress)
	}

	ch.Start = c.clock.Now()
	c.active[ch.ID] = ch
	c.inflight[ch.ShardID] = struct{}{}

	stats.Record(c.ctx, metrics.ActiveChallenges.M(int64(len(c.active))))
	return nil
}

// endCycle releases the challenge on every path out of verify.
func (c *Coordinator) endCycle(ch *Challenge) {
	c.lk.Lock()
	defer c.lk.Unlock()

	delete(c.active, ch.ID)
	delete(c.inflight, ch.ShardID)

	stats.Record(c.ctx, metrics.ActiveChallenges.M(int64(len(c.active))))
}

// dispatch races the transport against the challenge timeout. Transport
// errors are retried within that same timeout.
func (c *Coordinator) dispatch(ctx context.Context, ch *Challenge) (*ChallengeResponse, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	timer := c.clock.Timer(ch.Timeout)
	defer timer.Stop()

	req := ChallengeRequest{
		ChallengeID: ch.ID,
		ShardID:     ch.ShardID,
		Spec:        ch.Spec,
	}
	bo := &backoff.Backoff{
		Min:    retryMinBackoff,
		Max:    retryMaxBackoff,
		Factor: 2,
	}

	type result struct {
		resp *ChallengeResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("challenge transport panicked", "challenge", ch.ID, "peer", ch.PeerID, "panic", r)
				done <- result{err: xerrors.Errorf("transport panicked: %v", r)}
			}
		}()
		resp, err := retry.Do(ctx, c.clock, bo, c.cfg.RetryAttempts, isRetryable, func() (*ChallengeResponse, error) {
			return c.transport.SendChallenge(ctx, ch.PeerID, req)
		})
		done <- result{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil {
			return nil, errAborted
		}
		return r.resp, r.err
	case <-timer.C:
		return nil, ErrChallengeTimeout
	case <-ctx.Done():
		return nil, errAborted
	}
}

var isRefusal = retry.OnTypes(new(RefusedError))

func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !isRefusal(err)
}

// settle turns the dispatch outcome into a counted result. The cycle only
// counts the outcome while it still owns the challenge; cleanup or shutdown
// may have taken it already.
func (c *Coordinator) settle(ch *Challenge, info ShardInfo, resp *ChallengeResponse, err error) *VerificationResult {
	elapsed := c.clock.Since(ch.Start)
	res := &VerificationResult{
		ChallengeID:  ch.ID,
		ShardID:      ch.ShardID,
		NodeID:       ch.NodeID,
		PeerID:       ch.PeerID,
		ResponseTime: elapsed,
	}

	c.lk.Lock()
	_, owned := c.active[ch.ID]
	delete(c.active, ch.ID)
	closed := c.closed
	c.lk.Unlock()

	if !owned || errors.Is(err, errAborted) {
		res.Outcome = OutcomeAborted
		res.Reason = "verification aborted"
		if !owned && !closed {
			res.Outcome = OutcomeExpired
			res.Reason = ReasonChallengeExpired
		}
		log.Debugw("challenge settled elsewhere", "challenge", ch.ID, "shard", ch.ShardID, "outcome", res.Outcome)
		return res
	}

	evt := VerificationEvt{
		ChallengeID:  ch.ID,
		ShardID:      ch.ShardID,
		NodeID:       ch.NodeID,
		ResponseTime: elapsed,
	}

	var evtType EventType
	switch {
	case err == nil:
		vr := c.verifier.Verify(ch, resp, info.Hash)
		res.Success = vr.Success
		res.Reason = vr.Reason
		res.Details = vr.Details
		evt.Reason, evt.Details = vr.Reason, vr.Details

		if vr.Success {
			res.Outcome = OutcomeVerified
			evtType = EvtVerificationSuccess
		} else {
			res.Outcome = OutcomeFailed
			if vr.Reason == ReasonResponseTimeout {
				res.Outcome = OutcomeTimedOut
			}
			evtType = EvtVerificationFailure
		}
	case errors.Is(err, ErrChallengeTimeout):
		res.Outcome = OutcomeTimedOut
		res.Reason = ReasonResponseTimeout
		res.Details = VerifyDetails{ResponseTime: elapsed, Allowed: ch.Timeout}
		evt.Reason, evt.Details = res.Reason, res.Details
		evtType = EvtVerificationFailure
	default:
		res.Outcome = OutcomeError
		res.Reason = ReasonTransportError
		res.Error = err.Error()
		evt.Reason, evt.Error = res.Reason, res.Error
		evtType = EvtVerificationError
	}

	c.recordResult(res.Outcome, elapsed)

	rel, becameUnreliable := c.tracker.recordOutcome(ch.NodeID, ch.PeerID, res.Success, elapsed)
	res.Reliability = &rel
	c.recordScore(rel)

	if res.Success {
		log.Debugw("shard verified", "shard", ch.ShardID, "node", ch.NodeID, "elapsed", elapsed)
	} else {
		log.Warnw("shard verification failed", "shard", ch.ShardID, "node", ch.NodeID, "outcome", res.Outcome, "reason", res.Reason, "error", res.Error)
	}

	c.emit(evtType, evt)
	if !res.Success {
		c.emit(EvtShardVerificationFailed, ShardVerificationFailedEvt{
			ChallengeID: ch.ID,
			ShardID:     ch.ShardID,
			NodeID:      ch.NodeID,
			Reason:      res.Reason,
		})
	}
	if becameUnreliable {
		c.signalRepair(ch.ShardID, rel)
	}

	return res
}

func (c *Coordinator) recordResult(outcome Outcome, elapsed time.Duration) {
	ctx, err := tag.New(c.ctx, tag.Upsert(metrics.Outcome, string(outcome)))
	if err != nil {
		return
	}
	stats.Record(ctx,
		metrics.ChallengeResults.M(1),
		metrics.ChallengeResponseDuration.M(float64(elapsed.Milliseconds())))
}

func (c *Coordinator) recordScore(rel NodeReliability) {
	ctx, err := tag.New(c.ctx, tag.Upsert(metrics.NodeID, rel.NodeID))
	if err != nil {
		return
	}
	stats.Record(ctx, metrics.NodeReliabilityScore.M(rel.ReliabilityScore))
}

// signalRepair emits shardRepairNeeded for the shard that tipped the node
// over and for every other monitored shard held by the node.
func (c *Coordinator) signalRepair(shardID string, rel NodeReliability) {
	reason := fmt.Sprintf("node %s unreliable: score %.2f with %d of %d challenges failed",
		rel.NodeID, rel.ReliabilityScore, rel.FailedChallenges, rel.TotalChallenges)

	var others []string
	c.lk.Lock()
	for id, m := range c.monitors {
		if id != shardID && m.info.NodeID == rel.NodeID {
			others = append(others, id)
		}
	}
	c.lk.Unlock()
	sort.Strings(others)
	shards := append([]string{shardID}, others...)

	for _, id := range shards {
		stats.Record(c.ctx, metrics.RepairSignals.M(1))
		log.Warnw("shard needs repair", "shard", id, "node", rel.NodeID, "reason", reason)
		c.emit(EvtShardRepairNeeded, ShardRepairNeededEvt{
			ShardID:          id,
			UnreliableNodeID: rel.NodeID,
			Reason:           reason,
		})
	}
}
