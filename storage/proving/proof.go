package proving

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/minio/sha256-simd"
	"golang.org/x/xerrors"
)

// ComputeProof returns the hex SHA-256 of segment followed by the decoded
// nonce. This is what a storage node answers a segment_hash challenge with.
func ComputeProof(segment []byte, nonce string) (string, error) {
	nb, err := hex.DecodeString(nonce)
	if err != nil {
		return "", xerrors.Errorf("decoding challenge nonce: %w", err)
	}

	h := sha256.New()
	_, _ = h.Write(segment)
	_, _ = h.Write(nb)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ProofValidator checks a well-formed proof against something the
// coordinator trusts. Without one, verification only covers shape and
// freshness of the response.
type ProofValidator interface {
	ValidateProof(ch *Challenge, resp *ChallengeResponse, expectedHash string) error
}

// SegmentSource gives access to shard bytes.
type SegmentSource interface {
	ReadSegment(shardID string, offset, length int64) ([]byte, error)
}

// SegmentHashValidator recomputes the proof from a trusted replica of the
// shard.
type SegmentHashValidator struct {
	Source SegmentSource
}

var _ ProofValidator = (*SegmentHashValidator)(nil)

func (v *SegmentHashValidator) ValidateProof(ch *Challenge, resp *ChallengeResponse, _ string) error {
	seg, err := v.Source.ReadSegment(ch.ShardID, ch.Spec.Offset, ch.Spec.Length)
	if err != nil {
		return xerrors.Errorf("reading reference segment of shard %s: %w", ch.ShardID, err)
	}

	want, err := ComputeProof(seg, ch.Spec.Nonce)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(resp.Proof))) != 1 {
		return ErrProofMismatch
	}
	return nil
}
