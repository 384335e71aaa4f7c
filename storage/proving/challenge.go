package proving

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"time"

	"github.com/raulk/clock"
)

const (
	challengeIDBytes = 16
	nonceBytes       = 32
)

// Generator produces randomized segment challenges. It has no state besides
// its configuration and is safe for concurrent use.
type Generator struct {
	maxSegment int64
	clock      clock.Clock
}

func NewGenerator(maxSegment int64, clk clock.Clock) *Generator {
	return &Generator{maxSegment: maxSegment, clock: clk}
}

// Generate picks a random segment of a shard of the given size. Shards no
// larger than the max segment are challenged whole.
func (g *Generator) Generate(size int64) ChallengeSpec {
	if size < 0 {
		size = 0
	}

	var offset int64
	if span := size - g.maxSegment; span > 0 {
		offset = randInt63n(span)
	}

	return ChallengeSpec{
		Type:      SegmentHash,
		Offset:    offset,
		Length:    min(g.maxSegment, size-offset),
		Nonce:     randHex(nonceBytes),
		Timestamp: g.clock.Now().UTC().Format(time.RFC3339Nano),
	}
}

// NewChallenge builds a challenge for the shard. Start is set when the
// challenge is dispatched.
func (g *Generator) NewChallenge(info ShardInfo, timeout time.Duration) *Challenge {
	return &Challenge{
		ID:      randHex(challengeIDBytes),
		ShardID: info.ShardID,
		NodeID:  info.NodeID,
		PeerID:  info.PeerID,
		Spec:    g.Generate(info.Size),
		Timeout: timeout,
	}
}

func randHex(n int) string {
	b := make([]byte, n)
	// crypto/rand.Read never returns an error
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func randInt63n(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		panic(err)
	}
	return v.Int64()
}
