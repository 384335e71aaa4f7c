package modules

import (
	"context"

	"go.uber.org/fx"

	"github.com/filecoin-project/shardproof/journal/alerting"
	"github.com/filecoin-project/shardproof/storage/proving"
)

const unreliableNodeAlertSystem = "node-unreliable"

// WatchReliabilityAlerts keeps one alert per node raised for as long as the
// node is considered unreliable.
func WatchReliabilityAlerts(lc fx.Lifecycle, c *proving.Coordinator, al *alerting.Alerting) {
	unsub := c.Subscribe(func(evt proving.Event) {
		rel, ok := evt.Payload.(proving.NodeReliability)
		if !ok {
			return
		}

		switch evt.Type {
		case proving.EvtNodeUnreliable:
			at := al.AddAlertType(unreliableNodeAlertSystem, rel.NodeID)
			al.Raise(at, map[string]interface{}{
				"message": "storage node failed too many challenges",
				"peer":    rel.PeerID,
				"score":   rel.ReliabilityScore,
				"failed":  rel.FailedChallenges,
				"total":   rel.TotalChallenges,
			})
		case proving.EvtReliabilityUpdated:
			if !rel.IsReliable {
				return
			}
			at := alerting.AlertType{System: unreliableNodeAlertSystem, Subsystem: rel.NodeID}
			if al.IsRaised(at) {
				al.Resolve(at, map[string]interface{}{
					"message": "storage node is reliable again",
					"score":   rel.ReliabilityScore,
				})
			}
		}
	})

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			unsub()
			return nil
		},
	})
}
