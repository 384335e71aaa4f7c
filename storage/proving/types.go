package proving

import (
	"context"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

// ShardInfo identifies a shard and the node that claims to store it.
type ShardInfo struct {
	ShardID string
	NodeID  string
	// PeerID is the transport address of the node, opaque to this package.
	PeerID string
	Size   int64
	// Hash is the expected content hash of the whole shard.
	Hash string
}

func (si ShardInfo) Validate() error {
	var missing []string
	if si.ShardID == "" {
		missing = append(missing, "shard id")
	}
	if si.NodeID == "" {
		missing = append(missing, "node id")
	}
	if si.PeerID == "" {
		missing = append(missing, "peer id")
	}
	if len(missing) > 0 {
		return xerrors.Errorf("missing %s: %w", strings.Join(missing, ", "), ErrInvalidShardInfo)
	}
	if si.Size < 0 {
		return xerrors.Errorf("shard %s has negative size %d: %w", si.ShardID, si.Size, ErrInvalidShardInfo)
	}
	return nil
}

// SegmentHash is the only challenge type: the node hashes the selected
// segment followed by the nonce.
const SegmentHash = "segment_hash"

type ChallengeSpec struct {
	Type   string
	Offset int64
	Length int64
	// Nonce is hex encoded.
	Nonce string
	// Timestamp is the RFC 3339 creation time.
	Timestamp string
}

// Challenge is a single verification attempt, owned by the coordinator from
// dispatch until it settles.
type Challenge struct {
	ID      string
	ShardID string
	NodeID  string
	PeerID  string
	Spec    ChallengeSpec

	Start   time.Time
	Timeout time.Duration
}

func (c *Challenge) Deadline() time.Time {
	return c.Start.Add(c.Timeout)
}

// ChallengeRequest is what gets sent to the storage node.
type ChallengeRequest struct {
	ChallengeID string
	ShardID     string
	Spec        ChallengeSpec
}

type ChallengeResponse struct {
	ChallengeID string
	Proof       string
	Timestamp   string
	SegmentSize int64
}

// Transport delivers a challenge to a peer and waits for its answer.
// Implementations should respect ctx; the coordinator applies its own
// deadline regardless.
type Transport interface {
	SendChallenge(ctx context.Context, peerID string, req ChallengeRequest) (*ChallengeResponse, error)
}

// ShardRegistry lists the shards that should be under monitoring.
type ShardRegistry interface {
	ListShards(ctx context.Context) ([]ShardInfo, error)
}

type VerifyDetails struct {
	// ResponseTime is the delta between challenge and response timestamps.
	ResponseTime time.Duration
	Allowed      time.Duration `json:",omitempty"`
	ProofLength  int           `json:",omitempty"`
	SegmentSize  int64         `json:",omitempty"`
}

type VerifyResult struct {
	Success bool
	Reason  string
	Details VerifyDetails
}

type Outcome string

const (
	OutcomeVerified Outcome = "verified"
	OutcomeFailed   Outcome = "failed"
	OutcomeTimedOut Outcome = "timed_out"
	OutcomeError    Outcome = "error"
	// OutcomeExpired means cleanup settled the challenge first.
	OutcomeExpired Outcome = "expired"
	// OutcomeAborted cycles are not counted against the node.
	OutcomeAborted Outcome = "aborted"
)

// VerificationResult is the settled outcome of one challenge.
type VerificationResult struct {
	ChallengeID string
	ShardID     string
	NodeID      string
	PeerID      string

	Outcome Outcome
	Success bool
	Reason  string `json:",omitempty"`
	Error   string `json:",omitempty"`

	// ResponseTime is measured on the coordinator clock from dispatch.
	ResponseTime time.Duration
	Details      VerifyDetails

	// Reliability is the node record after this outcome was counted, nil if
	// the outcome was not counted.
	Reliability *NodeReliability `json:",omitempty"`
}

type NodeReliability struct {
	NodeID string
	PeerID string

	TotalChallenges      uint64
	SuccessfulChallenges uint64
	FailedChallenges     uint64

	// AverageResponseTime is in milliseconds.
	AverageResponseTime float64
	ReliabilityScore    float64
	IsReliable          bool
	LastChallenge       time.Time
}

type HistoryRecord struct {
	Timestamp        time.Time
	Success          bool
	ResponseTime     time.Duration
	ReliabilityScore float64
}

type Statistics struct {
	TotalNodes      int
	ReliableNodes   int
	UnreliableNodes int

	TotalChallenges      uint64
	SuccessfulChallenges uint64
	FailedChallenges     uint64
	OverallSuccessRate   float64
	// AverageResponseTime is in milliseconds, weighted by challenge count.
	AverageResponseTime float64

	ActiveChallenges int
	MonitoredShards  int
}

type BatchResult struct {
	ShardID string
	NodeID  string
	Success bool
	Result  *VerificationResult `json:",omitempty"`
	Error   string              `json:",omitempty"`
}
