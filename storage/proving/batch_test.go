package proving

import (
	"context"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestBatchVerifyIsolatesEntries(t *testing.T) {
	cfg := testConfig()
	cfg.BatchParallelism = 2

	c, _, _, _ := newTestCoordinator(t, cfg, func(ctx context.Context, mock *clock.Mock, req ChallengeRequest) (*ChallengeResponse, error) {
		switch req.ShardID {
		case "down":
			return nil, xerrors.New("dial backoff")
		case "boom":
			panic("transport bug")
		}
		return respondAfter(0)(ctx, mock, req)
	})

	infos := []ShardInfo{
		{ShardID: "ok-1", NodeID: "n1", PeerID: "p1", Size: 100},
		{ShardID: "bad", Size: 100},
		{ShardID: "down", NodeID: "n2", PeerID: "p2", Size: 100},
		{ShardID: "ok-2", NodeID: "n1", PeerID: "p1", Size: 5000},
		{ShardID: "boom", NodeID: "n3", PeerID: "p3", Size: 100},
	}

	res := c.BatchVerify(context.Background(), infos)
	require.Len(t, res, len(infos))
	for i, r := range res {
		require.Equal(t, infos[i].ShardID, r.ShardID)
	}

	require.True(t, res[0].Success)
	require.NotNil(t, res[0].Result)

	require.False(t, res[1].Success)
	require.Contains(t, res[1].Error, "invalid shard info")
	require.Nil(t, res[1].Result)

	require.False(t, res[2].Success)
	require.Equal(t, OutcomeError, res[2].Result.Outcome)
	require.Equal(t, "n2", res[2].NodeID)

	require.True(t, res[3].Success)

	require.False(t, res[4].Success)
	require.Equal(t, OutcomeError, res[4].Result.Outcome)
	require.Contains(t, res[4].Result.Error, "transport panicked")

	rel, _ := c.Tracker().Get("n1")
	require.Equal(t, uint64(2), rel.SuccessfulChallenges)

	// every cycle released its shard
	require.Equal(t, 0, c.Statistics().ActiveChallenges)
	_, err := c.VerifyOnce(context.Background(), infos[4])
	require.NoError(t, err)
}

func TestBatchVerifyEmpty(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t, testConfig(), respondAfter(time.Millisecond))
	require.Empty(t, c.BatchVerify(context.Background(), nil))
}
