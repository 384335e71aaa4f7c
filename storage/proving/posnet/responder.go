package posnet

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/libp2p/go-libp2p/core/host"
	inet "github.com/libp2p/go-libp2p/core/network"
	"github.com/raulk/clock"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/build"
	"github.com/filecoin-project/shardproof/metrics"
	"github.com/filecoin-project/shardproof/storage/proving"
)

// Responder answers challenges on behalf of a storage node, reading shard
// bytes from a SegmentSource.
type Responder struct {
	h     host.Host
	src   proving.SegmentSource
	clock clock.Clock

	// challenge ids answered recently; a repeated id is refused
	seen *lru.Cache[string, struct{}]
}

func NewResponder(h host.Host, src proving.SegmentSource, replayCacheSize int) (*Responder, error) {
	seen, err := lru.New[string, struct{}](replayCacheSize)
	if err != nil {
		return nil, xerrors.Errorf("creating replay cache: %w", err)
	}

	return &Responder{
		h:     h,
		src:   src,
		clock: build.Clock,
		seen:  seen,
	}, nil
}

func (r *Responder) Start() {
	r.h.SetStreamHandler(ProtocolID, r.HandleStream)
	log.Infow("answering storage challenges", "peer", r.h.ID(), "protocol", ProtocolID)
}

func (r *Responder) Stop() {
	r.h.RemoveStreamHandler(ProtocolID)
}

func (r *Responder) HandleStream(s inet.Stream) {
	defer s.Close() //nolint:errcheck

	_ = s.SetReadDeadline(time.Now().Add(streamReadDeadline))
	var msg ChallengeMsg
	if err := readMsg(s, &msg); err != nil {
		_ = s.SetReadDeadline(time.Time{})
		log.Warnw("failed to read challenge", "peer", s.Conn().RemotePeer(), "error", err)
		return
	}
	_ = s.SetReadDeadline(time.Time{})

	log.Debugw("challenge received",
		"peer", s.Conn().RemotePeer(),
		"challenge", msg.ChallengeID,
		"shard", msg.ShardID,
		"offset", msg.Offset,
		"length", msg.Length)

	resp := r.answer(msg.request())

	_ = s.SetDeadline(time.Now().Add(writeResDeadline))
	if err := writeMsg(s, resp); err != nil {
		_ = s.SetDeadline(time.Time{})
		log.Warnw("failed to write back challenge response",
			"err", err, "peer", s.Conn().RemotePeer())
		return
	}
	_ = s.SetDeadline(time.Time{})
}

func (r *Responder) answer(req proving.ChallengeRequest) *ResponseMsg {
	start := time.Now()
	resp, err := r.prove(req)

	result := "ok"
	if err != nil {
		result = "refused"
		log.Warnw("refusing challenge", "challenge", req.ChallengeID, "shard", req.ShardID, "error", err)
		resp = &ResponseMsg{ChallengeID: req.ChallengeID, Error: err.Error()}
	}

	if ctx, terr := tag.New(context.Background(), tag.Upsert(metrics.ResponderResult, result)); terr == nil {
		stats.Record(ctx, metrics.ResponderChallenges.M(1), metrics.ResponderDuration.M(metrics.SinceInMilliseconds(start)))
	}
	return resp
}

func (r *Responder) prove(req proving.ChallengeRequest) (*ResponseMsg, error) {
	if req.Spec.Type != proving.SegmentHash {
		return nil, xerrors.Errorf("unsupported challenge type %q", req.Spec.Type)
	}
	if req.Spec.Offset < 0 || req.Spec.Length < 0 || req.Spec.Length > maxSegmentLength {
		return nil, xerrors.Errorf("segment out of bounds: offset %d, length %d", req.Spec.Offset, req.Spec.Length)
	}
	// claim the id before proving so concurrent streams can't both answer
	if seen, _ := r.seen.ContainsOrAdd(req.ChallengeID, struct{}{}); seen {
		return nil, xerrors.Errorf("challenge %s already answered", req.ChallengeID)
	}

	seg, err := r.src.ReadSegment(req.ShardID, req.Spec.Offset, req.Spec.Length)
	if err != nil {
		r.seen.Remove(req.ChallengeID)
		return nil, xerrors.Errorf("reading segment: %w", err)
	}

	proof, err := proving.ComputeProof(seg, req.Spec.Nonce)
	if err != nil {
		r.seen.Remove(req.ChallengeID)
		return nil, err
	}

	return &ResponseMsg{
		ChallengeID: req.ChallengeID,
		Proof:       proof,
		Timestamp:   r.clock.Now().UTC().Format(time.RFC3339Nano),
		SegmentSize: int64(len(seg)),
	}, nil
}
