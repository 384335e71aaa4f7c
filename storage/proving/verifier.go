package proving

import (
	"regexp"
	"time"
)

const (
	ReasonInvalidStructure  = "Invalid response structure"
	ReasonChallengeMismatch = "Challenge ID mismatch"
	ReasonResponseTimeout   = "Response timeout"
	ReasonInvalidFormat     = "Invalid proof format"
	ReasonProofMismatch     = "Proof mismatch"
	ReasonTransportError    = "Transport error"
	ReasonChallengeExpired  = "Challenge expired"
)

var proofFormat = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Verifier checks challenge responses. Checks run in order: structure,
// challenge id, timing, proof format, then the optional proof validator.
type Verifier struct {
	validator ProofValidator
}

func NewVerifier(validator ProofValidator) *Verifier {
	return &Verifier{validator: validator}
}

func (v *Verifier) Verify(ch *Challenge, resp *ChallengeResponse, expectedHash string) VerifyResult {
	if resp == nil || resp.Proof == "" || resp.Timestamp == "" {
		return VerifyResult{Reason: ReasonInvalidStructure}
	}

	respTime, err := time.Parse(time.RFC3339Nano, resp.Timestamp)
	if err != nil {
		return VerifyResult{Reason: ReasonInvalidStructure}
	}
	chTime, err := time.Parse(time.RFC3339Nano, ch.Spec.Timestamp)
	if err != nil {
		log.Errorw("challenge carries unparseable timestamp", "challenge", ch.ID, "timestamp", ch.Spec.Timestamp)
		return VerifyResult{Reason: ReasonInvalidStructure}
	}

	if resp.ChallengeID != "" && resp.ChallengeID != ch.ID {
		return VerifyResult{Reason: ReasonChallengeMismatch}
	}

	delta := respTime.Sub(chTime)
	if delta > ch.Timeout {
		return VerifyResult{
			Reason: ReasonResponseTimeout,
			Details: VerifyDetails{
				ResponseTime: delta,
				Allowed:      ch.Timeout,
			},
		}
	}

	if !proofFormat.MatchString(resp.Proof) {
		return VerifyResult{Reason: ReasonInvalidFormat}
	}

	details := VerifyDetails{
		ResponseTime: delta,
		ProofLength:  len(resp.Proof),
		SegmentSize:  resp.SegmentSize,
	}

	if v.validator != nil {
		if err := v.validator.ValidateProof(ch, resp, expectedHash); err != nil {
			log.Warnw("proof validation failed", "challenge", ch.ID, "shard", ch.ShardID, "node", ch.NodeID, "error", err)
			return VerifyResult{Reason: ReasonProofMismatch, Details: details}
		}
	}

	return VerifyResult{Success: true, Details: details}
}
