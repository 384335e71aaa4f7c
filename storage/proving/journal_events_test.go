package proving

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/shardproof/journal"
	"github.com/filecoin-project/shardproof/journal/mockjournal"
)

func TestJournalEvents(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	j := mockjournal.NewMockJournal(mockCtrl)

	c, _, _, _ := newTestCoordinator(t, testConfig(), respondAfter(0))

	j.EXPECT().RegisterEventType("proving", gomock.Any()).Times(len(AllEventTypes)).DoAndReturn(func(system, event string) journal.EventType {
		return journal.EventType{System: system, Event: event}
	})
	detach := JournalEvents(c, j)

	var recorded []interface{}
	record := func(et journal.EventType, supplier func() interface{}) {
		recorded = append(recorded, supplier())
	}

	j.EXPECT().RecordEvent(journal.EventType{System: "proving", Event: "monitoringStarted"}, gomock.Any()).Do(record)
	require.NoError(t, c.StartMonitoring(s1))

	j.EXPECT().RecordEvent(journal.EventType{System: "proving", Event: "reliabilityUpdated"}, gomock.Any()).Do(record)
	j.EXPECT().RecordEvent(journal.EventType{System: "proving", Event: "verificationSuccess"}, gomock.Any()).Do(record)
	_, err := c.VerifyOnce(context.Background(), s1)
	require.NoError(t, err)

	require.Len(t, recorded, 3)
	require.Equal(t, "s1", recorded[0].(MonitoringStartedEvt).ShardID)
	require.Equal(t, "n1", recorded[1].(NodeReliability).NodeID)
	require.Equal(t, "s1", recorded[2].(VerificationEvt).ShardID)

	// nothing recorded once detached
	detach()
	c.StopMonitoring("s1")
}
