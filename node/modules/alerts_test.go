package modules

import (
	"context"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/journal"
	"github.com/filecoin-project/shardproof/journal/alerting"
	"github.com/filecoin-project/shardproof/node/config"
	"github.com/filecoin-project/shardproof/storage/proving"
)

type downTransport struct{}

func (downTransport) SendChallenge(context.Context, string, proving.ChallengeRequest) (*proving.ChallengeResponse, error) {
	return nil, xerrors.New("unreachable")
}

func TestReliabilityAlerts(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	cfg := config.Default().Proving
	cfg.FailureThreshold = 4
	c, err := ProvingCoordinator(lc, cfg, clock.NewMock(), downTransport{})
	require.NoError(t, err)

	al := alerting.NewAlertingSystem(journal.NilJournal())
	WatchReliabilityAlerts(lc, c, al)
	lc.RequireStart()
	defer lc.RequireStop()

	at := alerting.AlertType{System: unreliableNodeAlertSystem, Subsystem: "n1"}
	tr := c.Tracker()

	tr.RecordOutcome("n1", "p1", false, time.Second)
	for i := 0; i < 3; i++ {
		tr.RecordOutcome("n1", "p1", true, time.Second)
	}
	require.True(t, al.IsRaised(at))

	// 4/5 successful reaches the default reliable score
	tr.RecordOutcome("n1", "p1", true, time.Second)
	require.False(t, al.IsRaised(at))

	alerts := al.GetAlerts()
	require.Len(t, alerts, 1)
	require.NotNil(t, alerts[0].LastResolved)
}

func TestProvingCoordinatorStopsWithLifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	c, err := ProvingCoordinator(lc, config.Default().Proving, clock.NewMock(), downTransport{})
	require.NoError(t, err)

	lc.RequireStart()
	lc.RequireStop()

	err = c.StartMonitoring(proving.ShardInfo{ShardID: "s1", NodeID: "n1", PeerID: "p1"})
	require.ErrorIs(t, err, proving.ErrShutdown)
}

func TestJournalDisabledEvents(t *testing.T) {
	evts, err := JournalDisabledEvents(config.Journal{})
	require.NoError(t, err)
	require.Equal(t, journal.EnvDisabledEvents(), evts)

	evts, err = JournalDisabledEvents(config.Journal{DisabledEvents: "proving:shutdown"})
	require.NoError(t, err)
	require.Equal(t, journal.DisabledEvents{{System: "proving", Event: "shutdown"}}, evts)

	_, err = JournalDisabledEvents(config.Journal{DisabledEvents: "bogus"})
	require.Error(t, err)
}

func TestNilJournalWithoutPath(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	j, err := OpenFilesystemJournal(config.Journal{}, lc, nil)
	require.NoError(t, err)
	require.Equal(t, journal.NilJournal(), j)
}
