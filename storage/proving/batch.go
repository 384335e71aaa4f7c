package proving

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BatchVerify runs VerifyOnce over infos with bounded parallelism. One
// entry failing never affects the others; results keep the input order.
func (c *Coordinator) BatchVerify(ctx context.Context, infos []ShardInfo) []BatchResult {
	out := make([]BatchResult, len(infos))

	var eg errgroup.Group
	eg.SetLimit(c.cfg.BatchParallelism)

	for i, info := range infos {
		eg.Go(func() error {
			out[i] = BatchResult{ShardID: info.ShardID, NodeID: info.NodeID}
			defer func() {
				if r := recover(); r != nil {
					log.Errorw("batch verification panicked", "shard", info.ShardID, "panic", r)
					out[i].Success = false
					out[i].Error = fmt.Sprintf("panic: %v", r)
				}
			}()

			res, err := c.verify(ctx, info, sourceBatch)
			if err != nil {
				out[i].Error = err.Error()
				return nil
			}
			out[i].Success = res.Success
			out[i].Result = res
			return nil
		})
	}
	_ = eg.Wait()

	return out
}
