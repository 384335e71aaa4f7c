package proving

import (
	"context"
	"sync"

	logging "github.com/ipfs/go-log/v2"
	"github.com/raulk/clock"
	"go.opencensus.io/stats"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/build"
	"github.com/filecoin-project/shardproof/metrics"
)

var log = logging.Logger("proving")

// Coordinator periodically challenges storage nodes for the shards they
// hold, tracks node reliability and signals when shards need repair.
//
// All state is owned by the instance; Shutdown releases every timer and
// goroutine it started.
type Coordinator struct {
	cfg       Config
	clock     clock.Clock
	transport Transport
	validator ProofValidator

	gen      *Generator
	verifier *Verifier
	tracker  *ReliabilityTracker
	events   *eventBus

	// ctx is cancelled on shutdown and aborts in-flight dispatches.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	lk       sync.Mutex
	monitors map[string]*shardMonitor
	active   map[string]*Challenge // by challenge id
	inflight map[string]struct{}   // by shard id
	closed   bool

	shutdownOnce sync.Once
}

type Option func(*Coordinator)

func WithClock(clk clock.Clock) Option {
	return func(c *Coordinator) {
		c.clock = clk
	}
}

// WithProofValidator enables cryptographic proof checking on top of the
// shape and freshness checks.
func WithProofValidator(v ProofValidator) Option {
	return func(c *Coordinator) {
		c.validator = v
	}
}

func NewCoordinator(cfg Config, transport Transport, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, xerrors.Errorf("invalid proving config: %w", err)
	}
	if transport == nil {
		return nil, xerrors.Errorf("no challenge transport")
	}

	c := &Coordinator{
		cfg:       cfg,
		clock:     build.Clock,
		transport: transport,
		events:    newEventBus(),
		monitors:  map[string]*shardMonitor{},
		active:    map[string]*Challenge{},
		inflight:  map[string]struct{}{},
	}
	for _, o := range opts {
		o(c)
	}

	c.gen = NewGenerator(cfg.MaxChallengeSize, c.clock)
	c.verifier = NewVerifier(c.validator)
	c.tracker = newReliabilityTracker(cfg, c.clock, c.events)
	c.ctx, c.cancel = context.WithCancel(context.Background())

	// create the ticker before returning so mock clocks see it right away
	ticker := c.clock.Ticker(cfg.CleanupInterval)
	c.wg.Add(1)
	go c.cleanupLoop(ticker)

	return c, nil
}

// Subscribe registers fn for every coordinator event. fn runs on the
// emitting goroutine and may be called concurrently.
func (c *Coordinator) Subscribe(fn func(Event)) (unsubscribe func()) {
	return c.events.subscribe(fn)
}

func (c *Coordinator) Tracker() *ReliabilityTracker {
	return c.tracker
}

func (c *Coordinator) Config() Config {
	return c.cfg
}

func (c *Coordinator) emit(typ EventType, payload interface{}) {
	c.events.publish(Event{Type: typ, Time: c.clock.Now(), Payload: payload})
}

// Shutdown stops every monitor and the cleanup loop, aborts in-flight
// dispatches and waits for background goroutines. Safe to call more than
// once.
func (c *Coordinator) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.lk.Lock()
		c.closed = true
		monitors := c.monitors
		c.monitors = map[string]*shardMonitor{}
		nActive := len(c.active)
		c.active = map[string]*Challenge{}
		c.lk.Unlock()

		for _, m := range monitors {
			m.cancel()
		}
		c.cancel()
		c.wg.Wait()

		stats.Record(c.ctx, metrics.MonitoredShards.M(0), metrics.ActiveChallenges.M(0))

		log.Infow("proof of storage coordinator shut down", "monitored", len(monitors), "active", nActive)
		c.emit(EvtShutdown, ShutdownEvt{
			MonitoredShards:  len(monitors),
			ActiveChallenges: nActive,
		})
	})
}
