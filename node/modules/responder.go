package modules

import (
	"context"

	"github.com/libp2p/go-libp2p/core/host"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/node/config"
	"github.com/filecoin-project/shardproof/storage/proving/posnet"
)

// RunResponder answers challenges for shards stored under cfg.ShardDir.
func RunResponder(lc fx.Lifecycle, h host.Host, cfg config.Responder) error {
	if !cfg.Enable {
		return nil
	}

	src, err := posnet.NewDirSource(cfg.ShardDir)
	if err != nil {
		return xerrors.Errorf("opening shard dir: %w", err)
	}
	r, err := posnet.NewResponder(h, src, cfg.ReplayCacheSize)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			r.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			r.Stop()
			return nil
		},
	})
	return nil
}
