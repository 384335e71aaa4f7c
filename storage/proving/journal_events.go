package proving

import "github.com/filecoin-project/shardproof/journal"

const journalSystem = "proving"

// JournalEvents records every coordinator event in j under the "proving"
// system. The returned function detaches the journal.
func JournalEvents(c *Coordinator, j journal.Journal) (detach func()) {
	evtTypes := make(map[EventType]journal.EventType, len(AllEventTypes))
	for _, et := range AllEventTypes {
		evtTypes[et] = j.RegisterEventType(journalSystem, string(et))
	}

	return c.Subscribe(func(evt Event) {
		et, ok := evtTypes[evt.Type]
		if !ok {
			return
		}
		j.RecordEvent(et, func() interface{} {
			return evt.Payload
		})
	})
}
