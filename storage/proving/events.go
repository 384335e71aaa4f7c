package proving

import (
	"time"

	"github.com/hannahhoward/go-pubsub"
	"golang.org/x/xerrors"
)

type EventType string

const (
	EvtMonitoringStarted       EventType = "monitoringStarted"
	EvtMonitoringStopped       EventType = "monitoringStopped"
	EvtVerificationSuccess     EventType = "verificationSuccess"
	EvtVerificationFailure     EventType = "verificationFailure"
	EvtVerificationError       EventType = "verificationError"
	EvtReliabilityUpdated      EventType = "reliabilityUpdated"
	EvtNodeUnreliable          EventType = "nodeUnreliable"
	EvtShardVerificationFailed EventType = "shardVerificationFailed"
	EvtShardRepairNeeded       EventType = "shardRepairNeeded"
	EvtChallengeExpired        EventType = "challengeExpired"
	EvtShutdown                EventType = "shutdown"
)

// AllEventTypes lists every event the coordinator emits.
var AllEventTypes = []EventType{
	EvtMonitoringStarted,
	EvtMonitoringStopped,
	EvtVerificationSuccess,
	EvtVerificationFailure,
	EvtVerificationError,
	EvtReliabilityUpdated,
	EvtNodeUnreliable,
	EvtShardVerificationFailed,
	EvtShardRepairNeeded,
	EvtChallengeExpired,
	EvtShutdown,
}

// Event is delivered to subscribers. Payload holds one of the *Evt types
// below, or a NodeReliability for reliabilityUpdated and nodeUnreliable.
type Event struct {
	Type    EventType
	Time    time.Time
	Payload interface{}
}

type MonitoringStartedEvt struct {
	ShardID  string
	NodeID   string
	PeerID   string
	Interval time.Duration
	// Replaced is set when an earlier monitor for the shard was swapped out.
	Replaced bool
}

type MonitoringStoppedEvt struct {
	ShardID string
	NodeID  string
}

// VerificationEvt is the payload of verificationSuccess, verificationFailure
// and verificationError.
type VerificationEvt struct {
	ChallengeID  string
	ShardID      string
	NodeID       string
	ResponseTime time.Duration
	Reason       string `json:",omitempty"`
	Error        string `json:",omitempty"`
	Details      VerifyDetails
}

type ShardVerificationFailedEvt struct {
	ChallengeID string
	ShardID     string
	NodeID      string
	Reason      string
}

type ShardRepairNeededEvt struct {
	ShardID          string
	UnreliableNodeID string
	Reason           string
}

type ChallengeExpiredEvt struct {
	ChallengeID string
	ShardID     string
	NodeID      string
	Age         time.Duration
	Timeout     time.Duration
}

type ShutdownEvt struct {
	MonitoredShards  int
	ActiveChallenges int
}

type subscriberFn func(Event)

// eventBus fans events out to subscribers synchronously on the publishing
// goroutine. Subscribers may be called concurrently and must not subscribe
// or unsubscribe from within the callback.
type eventBus struct {
	ps *pubsub.PubSub
}

func newEventBus() *eventBus {
	ps := pubsub.New(func(event pubsub.Event, subFn pubsub.SubscriberFn) (err error) {
		evt, ok := event.(Event)
		if !ok {
			return xerrors.Errorf("wrong type of event")
		}
		sub, ok := subFn.(subscriberFn)
		if !ok {
			return xerrors.Errorf("wrong type of subscriber")
		}
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("event subscriber panicked", "event", evt.Type, "panic", r)
			}
		}()
		sub(evt)
		return nil
	})
	return &eventBus{ps: ps}
}

func (b *eventBus) subscribe(fn func(Event)) func() {
	return b.ps.Subscribe(subscriberFn(fn))
}

func (b *eventBus) publish(evt Event) {
	if err := b.ps.Publish(evt); err != nil {
		// In theory we shouldn't ever get an error here
		log.Errorf("unexpected error publishing %s event: %s", evt.Type, err)
	}
}
