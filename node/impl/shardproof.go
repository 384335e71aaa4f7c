package impl

import (
	"context"
	"errors"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/build"
	"github.com/filecoin-project/shardproof/journal/alerting"
	"github.com/filecoin-project/shardproof/storage/proving"
)

var log = logging.Logger("node")

type ShardProofAPI struct {
	fx.In

	Coordinator *proving.Coordinator
	Alerting    *alerting.Alerting
}

var _ api.ShardProof = &ShardProofAPI{}

// rpcError converts coordinator sentinels into errors registered with the
// RPC layer so that clients can match on them.
func rpcError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, proving.ErrInvalidShardInfo):
		return &api.ErrInvalidShardInfo{Message: err.Error()}
	case errors.Is(err, proving.ErrShutdown):
		return api.ErrShuttingDown
	case errors.Is(err, proving.ErrVerificationInProgress):
		return api.ErrVerificationInProgress
	}
	return err
}

func (a *ShardProofAPI) Version(context.Context) (api.Version, error) {
	return api.Version{
		Version:    build.UserVersion(),
		APIVersion: build.APIVersion,
	}, nil
}

func (a *ShardProofAPI) Statistics(context.Context) (proving.Statistics, error) {
	return a.Coordinator.Statistics(), nil
}

func (a *ShardProofAPI) NodeReliability(_ context.Context, nodeID string) (*proving.NodeReliability, error) {
	rel, ok := a.Coordinator.Tracker().Get(nodeID)
	if !ok {
		return nil, api.ErrNodeNotFound
	}
	return &rel, nil
}

func (a *ShardProofAPI) NodeList(_ context.Context, filter api.NodeFilter) ([]proving.NodeReliability, error) {
	t := a.Coordinator.Tracker()
	switch filter {
	case "", api.NodesAll:
		return t.ListAll(), nil
	case api.NodesReliable:
		return t.ListReliable(), nil
	case api.NodesUnreliable:
		return t.ListUnreliable(), nil
	}
	return nil, xerrors.Errorf("unknown node filter %q", filter)
}

func (a *ShardProofAPI) NodeHistory(_ context.Context, nodeID string) ([]proving.HistoryRecord, error) {
	if _, ok := a.Coordinator.Tracker().Get(nodeID); !ok {
		return nil, api.ErrNodeNotFound
	}
	return a.Coordinator.Tracker().History(nodeID), nil
}

func (a *ShardProofAPI) MonitoredShards(context.Context) ([]proving.ShardInfo, error) {
	return a.Coordinator.MonitoredShards(), nil
}

func (a *ShardProofAPI) StartMonitoring(_ context.Context, info proving.ShardInfo) error {
	if err := a.Coordinator.StartMonitoring(info); err != nil {
		return rpcError(err)
	}
	log.Infow("monitoring started via api", "shard", info.ShardID, "node", info.NodeID)
	return nil
}

func (a *ShardProofAPI) StopMonitoring(_ context.Context, shardID string) error {
	a.Coordinator.StopMonitoring(shardID)
	return nil
}

func (a *ShardProofAPI) VerifyShard(ctx context.Context, info proving.ShardInfo) (*proving.VerificationResult, error) {
	res, err := a.Coordinator.VerifyOnce(ctx, info)
	return res, rpcError(err)
}

func (a *ShardProofAPI) VerifyAll(ctx context.Context) ([]proving.BatchResult, error) {
	return a.Coordinator.BatchVerify(ctx, a.Coordinator.MonitoredShards()), nil
}

func (a *ShardProofAPI) CleanupExpired(context.Context) error {
	a.Coordinator.CleanupExpiredChallenges()
	return nil
}

func (a *ShardProofAPI) Alerts(context.Context) ([]alerting.Alert, error) {
	return a.Alerting.GetAlerts(), nil
}
