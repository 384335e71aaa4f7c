package apistruct

import (
	"context"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/journal/alerting"
	"github.com/filecoin-project/shardproof/storage/proving"
)

// ShardProofStruct implements api.ShardProof passing calls to user-provided
// function values.
type ShardProofStruct struct {
	Internal struct {
		Version func(context.Context) (api.Version, error) `perm:"read"`

		Statistics      func(context.Context) (proving.Statistics, error)                       `perm:"read"`
		NodeReliability func(context.Context, string) (*proving.NodeReliability, error)         `perm:"read"`
		NodeList        func(context.Context, api.NodeFilter) ([]proving.NodeReliability, error) `perm:"read"`
		NodeHistory     func(context.Context, string) ([]proving.HistoryRecord, error)          `perm:"read"`

		MonitoredShards func(context.Context) ([]proving.ShardInfo, error) `perm:"read"`
		StartMonitoring func(context.Context, proving.ShardInfo) error     `perm:"write"`
		StopMonitoring  func(context.Context, string) error                `perm:"write"`

		VerifyShard    func(context.Context, proving.ShardInfo) (*proving.VerificationResult, error) `perm:"write"`
		VerifyAll      func(context.Context) ([]proving.BatchResult, error)                          `perm:"write"`
		CleanupExpired func(context.Context) error                                                   `perm:"write"`

		Alerts func(context.Context) ([]alerting.Alert, error) `perm:"read"`
	}
}

func (s *ShardProofStruct) Version(ctx context.Context) (api.Version, error) {
	return s.Internal.Version(ctx)
}

func (s *ShardProofStruct) Statistics(ctx context.Context) (proving.Statistics, error) {
	return s.Internal.Statistics(ctx)
}

func (s *ShardProofStruct) NodeReliability(ctx context.Context, nodeID string) (*proving.NodeReliability, error) {
	return s.Internal.NodeReliability(ctx, nodeID)
}

func (s *ShardProofStruct) NodeList(ctx context.Context, filter api.NodeFilter) ([]proving.NodeReliability, error) {
	return s.Internal.NodeList(ctx, filter)
}

func (s *ShardProofStruct) NodeHistory(ctx context.Context, nodeID string) ([]proving.HistoryRecord, error) {
	return s.Internal.NodeHistory(ctx, nodeID)
}

func (s *ShardProofStruct) MonitoredShards(ctx context.Context) ([]proving.ShardInfo, error) {
	return s.Internal.MonitoredShards(ctx)
}

func (s *ShardProofStruct) StartMonitoring(ctx context.Context, info proving.ShardInfo) error {
	return s.Internal.StartMonitoring(ctx, info)
}

func (s *ShardProofStruct) StopMonitoring(ctx context.Context, shardID string) error {
	return s.Internal.StopMonitoring(ctx, shardID)
}

func (s *ShardProofStruct) VerifyShard(ctx context.Context, info proving.ShardInfo) (*proving.VerificationResult, error) {
	return s.Internal.VerifyShard(ctx, info)
}

func (s *ShardProofStruct) VerifyAll(ctx context.Context) ([]proving.BatchResult, error) {
	return s.Internal.VerifyAll(ctx)
}

func (s *ShardProofStruct) CleanupExpired(ctx context.Context) error {
	return s.Internal.CleanupExpired(ctx)
}

func (s *ShardProofStruct) Alerts(ctx context.Context) ([]alerting.Alert, error) {
	return s.Internal.Alerts(ctx)
}

var _ api.ShardProof = &ShardProofStruct{}
