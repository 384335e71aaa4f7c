package client

import (
	"context"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/api/apistruct"
)

// NewShardProofRPC creates a new http jsonrpc client.
func NewShardProofRPC(ctx context.Context, addr string, requestHeader http.Header, opts ...jsonrpc.Option) (api.ShardProof, jsonrpc.ClientCloser, error) {
	var res apistruct.ShardProofStruct
	closer, err := jsonrpc.NewMergeClient(ctx, addr, "ShardProof",
		[]interface{}{
			&res.Internal,
		},
		requestHeader,
		append([]jsonrpc.Option{jsonrpc.WithErrors(api.RPCErrors)}, opts...)...,
	)

	return &res, closer, err
}
