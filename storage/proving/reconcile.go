package proving

import (
	"context"

	"go.uber.org/multierr"
	"golang.org/x/xerrors"
)

type ReconcileResult struct {
	Started   []string
	Restarted []string
	Stopped   []string
}

// Reconcile makes the monitored set match the registry: new shards are
// started, shards whose info changed are restarted and shards missing from
// the registry are stopped. Invalid registry entries are skipped and
// reported in the returned error.
func (c *Coordinator) Reconcile(ctx context.Context, reg ShardRegistry) (ReconcileResult, error) {
	var res ReconcileResult

	shards, err := reg.ListShards(ctx)
	if err != nil {
		return res, xerrors.Errorf("listing shards: %w", err)
	}

	current := map[string]ShardInfo{}
	for _, si := range c.MonitoredShards() {
		current[si.ShardID] = si
	}

	var errs error
	want := map[string]struct{}{}
	for _, si := range shards {
		if err := si.Validate(); err != nil {
			errs = multierr.Append(errs, xerrors.Errorf("registry entry %q: %w", si.ShardID, err))
			continue
		}
		want[si.ShardID] = struct{}{}

		prev, ok := current[si.ShardID]
		if ok && prev == si {
			continue
		}
		if err := c.StartMonitoring(si); err != nil {
			errs = multierr.Append(errs, xerrors.Errorf("start monitoring %s: %w", si.ShardID, err))
			continue
		}
		if ok {
			res.Restarted = append(res.Restarted, si.ShardID)
		} else {
			res.Started = append(res.Started, si.ShardID)
		}
	}

	for id := range current {
		if _, ok := want[id]; ok {
			continue
		}
		c.StopMonitoring(id)
		res.Stopped = append(res.Stopped, id)
	}

	if len(res.Started)+len(res.Restarted)+len(res.Stopped) > 0 {
		log.Infow("reconciled monitored shards", "started", len(res.Started), "restarted", len(res.Restarted), "stopped", len(res.Stopped))
	}

	return res, errs
}
