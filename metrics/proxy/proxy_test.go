package proxy

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats/view"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/api/mocks"
	"github.com/filecoin-project/shardproof/metrics"
	"github.com/filecoin-project/shardproof/storage/proving"
)

func TestMetricedAPIForwardsCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockShardProof(ctrl)

	require.NoError(t, view.Register(metrics.APIRequestDurationView))
	defer view.Unregister(metrics.APIRequestDurationView)

	info := proving.ShardInfo{ShardID: "s1", NodeID: "n1", PeerID: "p1"}
	m.EXPECT().StartMonitoring(gomock.Any(), info).Return(nil)
	m.EXPECT().NodeList(gomock.Any(), api.NodesReliable).Return([]proving.NodeReliability{{NodeID: "n1"}}, nil)

	a := MetricedShardProofAPI(m)
	ctx := context.Background()

	require.NoError(t, a.StartMonitoring(ctx, info))

	nodes, err := a.NodeList(ctx, api.NodesReliable)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	rows, err := view.RetrieveData(metrics.APIRequestDurationView.Name)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
