package api

import (
	"context"

	"github.com/filecoin-project/shardproof/build"
	"github.com/filecoin-project/shardproof/journal/alerting"
	"github.com/filecoin-project/shardproof/storage/proving"
)

//go:generate go run github.com/golang/mock/mockgen -destination=mocks/mock_shardproof.go -package=mocks . ShardProof

// Version provides various build-time information
type Version struct {
	Version string

	// APIVersion is a binary encoded semver version of the remote implementing
	// this api
	APIVersion build.Version
}

// NodeFilter selects which reliability records NodeList returns.
type NodeFilter string

const (
	NodesAll        NodeFilter = "all"
	NodesReliable   NodeFilter = "reliable"
	NodesUnreliable NodeFilter = "unreliable"
)

// ShardProof is the JSON-RPC surface of the proving daemon.
type ShardProof interface {
	// Version returns the daemon version.
	Version(context.Context) (Version, error)

	// Statistics returns the aggregate view over all tracked nodes.
	Statistics(context.Context) (proving.Statistics, error)

	// NodeReliability returns the record of a single node. It returns
	// ErrNodeNotFound if the node was never challenged.
	NodeReliability(ctx context.Context, nodeID string) (*proving.NodeReliability, error)
	NodeList(ctx context.Context, filter NodeFilter) ([]proving.NodeReliability, error)
	NodeHistory(ctx context.Context, nodeID string) ([]proving.HistoryRecord, error)

	MonitoredShards(context.Context) ([]proving.ShardInfo, error)
	StartMonitoring(ctx context.Context, info proving.ShardInfo) error
	StopMonitoring(ctx context.Context, shardID string) error

	// VerifyShard runs a single challenge and waits for it to settle.
	VerifyShard(ctx context.Context, info proving.ShardInfo) (*proving.VerificationResult, error)
	// VerifyAll challenges every monitored shard once.
	VerifyAll(context.Context) ([]proving.BatchResult, error)

	// CleanupExpired settles challenges that outlived their deadline.
	CleanupExpired(context.Context) error

	// Alerts lists active and resolved alerts.
	Alerts(context.Context) ([]alerting.Alert, error)
}
