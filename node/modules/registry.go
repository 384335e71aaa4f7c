package modules

import (
	"context"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p/core/host"
	"github.com/raulk/clock"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/node/config"
	"github.com/filecoin-project/shardproof/node/modules/helpers"
	"github.com/filecoin-project/shardproof/registry"
	"github.com/filecoin-project/shardproof/storage/proving"
	"github.com/filecoin-project/shardproof/storage/proving/posnet"
)

func ShardRegistry(cfg config.Registry) (*registry.FileRegistry, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	return registry.NewFileRegistry(cfg.Path)
}

// ReconcileRegistry keeps the monitored shard set in line with the registry
// file, on start, on every file change and every ResyncInterval.
func ReconcileRegistry(mctx helpers.MetricsCtx, lc fx.Lifecycle, cfg config.Registry, clk clock.Clock, c *proving.Coordinator, reg *registry.FileRegistry, h host.Host) {
	if reg == nil {
		return
	}

	ctx := helpers.LifecycleCtx(mctx, lc)

	var lk sync.Mutex
	resync := func(why string) {
		lk.Lock()
		defer lk.Unlock()

		if err := syncRegistry(ctx, c, reg, h); err != nil {
			log.Errorw("registry sync failed", "trigger", why, "error", err)
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			resync("startup")

			if err := reg.Watch(ctx, func() { resync("file change") }); err != nil {
				log.Warnw("not watching registry file, relying on periodic resync", "error", err)
			}

			if cfg.ResyncInterval <= 0 {
				return nil
			}
			ticker := clk.Ticker(time.Duration(cfg.ResyncInterval))
			go func() {
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						resync("resync")
					case <-ctx.Done():
						return
					}
				}
			}()
			return nil
		},
	})
}

func syncRegistry(ctx context.Context, c *proving.Coordinator, reg *registry.FileRegistry, h host.Host) error {
	// load peers first so that started monitors can dial right away
	if err := reg.Load(); err != nil {
		return err
	}
	for _, p := range reg.Peers() {
		if err := posnet.AddPeerAddrs(h, p.ID, p.Addrs); err != nil {
			log.Warnw("skipping registry peer", "peer", p.ID, "error", err)
		}
	}

	res, err := c.Reconcile(ctx, reg)
	if len(res.Started)+len(res.Restarted)+len(res.Stopped) > 0 {
		log.Infow("reconciled monitored shards", "started", res.Started, "restarted", res.Restarted, "stopped", res.Stopped)
	}
	if err != nil {
		return xerrors.Errorf("reconciling: %w", err)
	}
	return nil
}
