package node

import (
	"context"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	"github.com/raulk/clock"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/build"
	"github.com/filecoin-project/shardproof/journal"
	"github.com/filecoin-project/shardproof/journal/alerting"
	"github.com/filecoin-project/shardproof/node/config"
	"github.com/filecoin-project/shardproof/node/impl"
	"github.com/filecoin-project/shardproof/node/modules"
	"github.com/filecoin-project/shardproof/node/modules/helpers"
	"github.com/filecoin-project/shardproof/node/modules/lp2p"
	"github.com/filecoin-project/shardproof/registry"
	"github.com/filecoin-project/shardproof/storage/proving"
	"github.com/filecoin-project/shardproof/storage/proving/posnet"
)

var log = logging.Logger("builder")

type invoke int

// Invokes are called in the order they are defined.
//
//nolint:golint
const (
	// RecordProvingEventsKey goes first so that the journal sees every event
	// emitted by the components started after it.
	RecordProvingEventsKey = invoke(iota)
	ReliabilityAlertsKey

	RunResponderKey
	ReconcileRegistryKey

	ExtractApiKey

	_nInvokes // keep this last
)

type Settings struct {
	// modules is a map of constructors for DI
	//
	// In most cases the index will be a reflect.Type of element returned by
	// the constructor
	modules map[interface{}]fx.Option

	// invokes are separate from modules as they can't be referenced by return
	// type, and must be applied in correct order
	invokes []fx.Option

	Config bool // Config option applied
}

func defaults() []Option {
	return []Option{
		Override(new(helpers.MetricsCtx), context.Background),
		Override(new(clock.Clock), build.Clock),

		Override(new(journal.DisabledEvents), modules.JournalDisabledEvents),
		Override(new(journal.Journal), modules.OpenFilesystemJournal),
		Override(new(*alerting.Alerting), alerting.NewAlertingSystem),

		Override(new(crypto.PrivKey), lp2p.Identity),
		Override(new(host.Host), lp2p.Host),

		Override(new(proving.Transport), posnet.NewTransport),
		Override(new(*proving.Coordinator), modules.ProvingCoordinator),
		Override(new(*registry.FileRegistry), modules.ShardRegistry),

		Override(RecordProvingEventsKey, modules.JournalProvingEvents),
		Override(ReliabilityAlertsKey, modules.WatchReliabilityAlerts),
		Override(RunResponderKey, modules.RunResponder),
		Override(ReconcileRegistryKey, modules.ReconcileRegistry),
	}
}

// Config applies the daemon configuration. It must be given exactly once.
func Config(cfg *config.Config) Option {
	return Options(
		func(s *Settings) error {
			if s.Config {
				return xerrors.New("config already applied")
			}
			s.Config = true
			return nil
		},

		Override(new(*config.Config), cfg),
		Override(new(config.Libp2p), cfg.Libp2p),
		Override(new(config.Proving), cfg.Proving),
		Override(new(config.Responder), cfg.Responder),
		Override(new(config.Registry), cfg.Registry),
		Override(new(config.Journal), cfg.Journal),
	)
}

// ShardProofAPI populates out with the api implementation once the node is
// constructed.
func ShardProofAPI(out *api.ShardProof) Option {
	return Override(ExtractApiKey, func(a impl.ShardProofAPI) {
		*out = &a
	})
}

// MockHost replaces the libp2p host with a peer on mn.
func MockHost(mn mocknet.Mocknet) Option {
	return Options(
		Override(new(mocknet.Mocknet), mn),
		Override(new(host.Host), lp2p.MockHost),
	)
}

type StopFunc func(context.Context) error

// New builds and starts a new shardproof node
func New(ctx context.Context, opts ...Option) (StopFunc, error) {
	settings := Settings{
		modules: map[interface{}]fx.Option{},
		invokes: make([]fx.Option, _nInvokes),
	}

	// apply module options in the right order
	if err := Options(Options(defaults()...), Options(opts...))(&settings); err != nil {
		return nil, xerrors.Errorf("applying node options failed: %w", err)
	}
	if !settings.Config {
		return nil, xerrors.New("node config not set")
	}

	// gather constructors for fx.Options
	ctors := make([]fx.Option, 0, len(settings.modules))
	for _, opt := range settings.modules {
		ctors = append(ctors, opt)
	}

	// fill holes in invokes for use in fx.Options
	for i, opt := range settings.invokes {
		if opt == nil {
			settings.invokes[i] = fx.Options()
		}
	}

	app := fx.New(
		fx.Options(ctors...),
		fx.Options(settings.invokes...),

		fx.NopLogger,
	)

	if err := app.Start(ctx); err != nil {
		// comment fx.NopLogger few lines above for easier debugging
		return nil, xerrors.Errorf("starting node: %w", err)
	}

	log.Infow("shardproof node started", "version", build.UserVersion())
	return app.Stop, nil
}
