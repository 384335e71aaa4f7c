package modules

import (
	"context"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/journal"
	"github.com/filecoin-project/shardproof/journal/fsjournal"
	"github.com/filecoin-project/shardproof/node/config"
)

var log = logging.Logger("modules")

// JournalDisabledEvents prefers the config value over the environment.
func JournalDisabledEvents(cfg config.Journal) (journal.DisabledEvents, error) {
	if cfg.DisabledEvents == "" {
		return journal.EnvDisabledEvents(), nil
	}
	evts, err := journal.ParseDisabledEvents(cfg.DisabledEvents)
	if err != nil {
		return nil, xerrors.Errorf("parsing [Journal] DisabledEvents: %w", err)
	}
	return evts, nil
}

func OpenFilesystemJournal(cfg config.Journal, lc fx.Lifecycle, disabled journal.DisabledEvents) (journal.Journal, error) {
	if cfg.Path == "" {
		log.Info("journal path not set, journaling disabled")
		return journal.NilJournal(), nil
	}

	jrnl, err := fsjournal.OpenFSJournalPath(cfg.Path, disabled)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error { return jrnl.Close() },
	})

	return jrnl, err
}
