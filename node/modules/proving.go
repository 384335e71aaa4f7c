package modules

import (
	"context"

	"github.com/raulk/clock"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/journal"
	"github.com/filecoin-project/shardproof/node/config"
	"github.com/filecoin-project/shardproof/storage/proving"
	"github.com/filecoin-project/shardproof/storage/proving/posnet"
)

func ProvingCoordinator(lc fx.Lifecycle, cfg config.Proving, clk clock.Clock, tr proving.Transport) (*proving.Coordinator, error) {
	opts := []proving.Option{proving.WithClock(clk)}

	if cfg.ReferenceShardDir != "" {
		src, err := posnet.NewDirSource(cfg.ReferenceShardDir)
		if err != nil {
			return nil, xerrors.Errorf("opening reference shards: %w", err)
		}
		opts = append(opts, proving.WithProofValidator(&proving.SegmentHashValidator{Source: src}))
		log.Infow("recomputing proofs from reference shards", "dir", cfg.ReferenceShardDir)
	}

	c, err := proving.NewCoordinator(cfg.ToProvingConfig(), tr, opts...)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			c.Shutdown()
			return nil
		},
	})

	return c, nil
}

// JournalProvingEvents records coordinator events until the node stops.
func JournalProvingEvents(lc fx.Lifecycle, c *proving.Coordinator, j journal.Journal) {
	detach := proving.JournalEvents(c, j)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			detach()
			return nil
		},
	})
}
