package proving

import (
	"strings"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"
)

func testChallenge(mock *clock.Mock) *Challenge {
	g := NewGenerator(4096, mock)
	ch := g.NewChallenge(ShardInfo{ShardID: "s1", NodeID: "n1", PeerID: "p1", Size: 8192}, 30*time.Second)
	ch.Start = mock.Now()
	return ch
}

func responseAt(ch *Challenge, ts time.Time, proof string) *ChallengeResponse {
	return &ChallengeResponse{
		ChallengeID: ch.ID,
		Proof:       proof,
		Timestamp:   ts.UTC().Format(time.RFC3339Nano),
		SegmentSize: ch.Spec.Length,
	}
}

func TestVerifyWellFormed(t *testing.T) {
	mock := clock.NewMock()
	ch := testChallenge(mock)
	v := NewVerifier(nil)

	proof := strings.Repeat("a1", 32)
	res := v.Verify(ch, responseAt(ch, mock.Now().Add(120*time.Millisecond), proof), "hash")
	require.True(t, res.Success)
	require.Empty(t, res.Reason)
	require.Equal(t, 120*time.Millisecond, res.Details.ResponseTime)
	require.Equal(t, 64, res.Details.ProofLength)
	require.Equal(t, int64(4096), res.Details.SegmentSize)

	// case-insensitive
	res = v.Verify(ch, responseAt(ch, mock.Now(), strings.ToUpper(proof)), "hash")
	require.True(t, res.Success)

	// exactly at the timeout is still in time
	res = v.Verify(ch, responseAt(ch, mock.Now().Add(30*time.Second), proof), "hash")
	require.True(t, res.Success)

	// responses that don't echo the id are accepted
	resp := responseAt(ch, mock.Now(), proof)
	resp.ChallengeID = ""
	require.True(t, v.Verify(ch, resp, "hash").Success)
}

func TestVerifyRejects(t *testing.T) {
	mock := clock.NewMock()
	ch := testChallenge(mock)
	v := NewVerifier(nil)
	now := mock.Now()
	good := strings.Repeat("0f", 32)

	tcs := []struct {
		name   string
		resp   *ChallengeResponse
		reason string
	}{
		{"nil response", nil, ReasonInvalidStructure},
		{"missing proof", responseAt(ch, now, ""), ReasonInvalidStructure},
		{"missing timestamp", &ChallengeResponse{ChallengeID: ch.ID, Proof: good}, ReasonInvalidStructure},
		{"bad timestamp", &ChallengeResponse{ChallengeID: ch.ID, Proof: good, Timestamp: "yesterday"}, ReasonInvalidStructure},
		{"other challenge", &ChallengeResponse{ChallengeID: "nope", Proof: good, Timestamp: now.Format(time.RFC3339Nano)}, ReasonChallengeMismatch},
		{"late", responseAt(ch, now.Add(30*time.Second+time.Millisecond), good), ReasonResponseTimeout},
		{"short proof", responseAt(ch, now, good[:63]), ReasonInvalidFormat},
		{"long proof", responseAt(ch, now, good+"0"), ReasonInvalidFormat},
		{"non hex proof", responseAt(ch, now, strings.Repeat("g", 64)), ReasonInvalidFormat},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			res := v.Verify(ch, tc.resp, "hash")
			require.False(t, res.Success)
			require.Equal(t, tc.reason, res.Reason)
		})
	}
}

func TestVerifyTimeoutDetails(t *testing.T) {
	mock := clock.NewMock()
	ch := testChallenge(mock)

	res := NewVerifier(nil).Verify(ch, responseAt(ch, mock.Now().Add(45*time.Second), strings.Repeat("a", 64)), "")
	require.Equal(t, ReasonResponseTimeout, res.Reason)
	require.Equal(t, 45*time.Second, res.Details.ResponseTime)
	require.Equal(t, 30*time.Second, res.Details.Allowed)
}

func TestVerifyWithValidator(t *testing.T) {
	mock := clock.NewMock()
	ch := testChallenge(mock)
	ch.Spec.Offset, ch.Spec.Length = 0, 4096

	data := make([]byte, 8192)
	v := NewVerifier(&SegmentHashValidator{Source: memSource{"s1": data}})

	proof, err := ComputeProof(data[:4096], ch.Spec.Nonce)
	require.NoError(t, err)

	require.True(t, v.Verify(ch, responseAt(ch, mock.Now(), proof), "").Success)

	res := v.Verify(ch, responseAt(ch, mock.Now(), strings.Repeat("0", 64)), "")
	require.False(t, res.Success)
	require.Equal(t, ReasonProofMismatch, res.Reason)
}
