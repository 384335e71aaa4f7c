package metrics

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	rpcmetrics "github.com/filecoin-project/go-jsonrpc/metrics"
)

// Distributions
var defaultMillisecondsDistribution = view.Distribution(
	1, 2, 5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100, // 10 ms intervals up to 100 ms
	150, 200, 250, 300, 350, 400, 450, 500, // 50 ms intervals from 100 to 500 ms
	600, 700, 800, 900, 1000, // 100 ms intervals from 500 to 1000 ms
	1500, 2000, 3000, 4000, 5000, 8000, 10000, 15000, 20000, 30000, 45000, 60000,
)

var scoreDistribution = view.Distribution(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1)

// Tags
var (
	// common
	Version, _      = tag.NewKey("version")
	Commit, _       = tag.NewKey("commit")
	Endpoint, _     = tag.NewKey("endpoint")
	APIInterface, _ = tag.NewKey("api")

	// proving
	Outcome, _ = tag.NewKey("outcome")
	NodeID, _  = tag.NewKey("node_id")
	Source, _  = tag.NewKey("source")

	// responder
	ResponderResult, _ = tag.NewKey("result")
)

// Measures
var (
	// common
	ShardproofInfo     = stats.Int64("info", "Arbitrary counter to tag shardproof info to", stats.UnitDimensionless)
	APIRequestDuration = stats.Float64("api/request_duration_ms", "Duration of API requests", stats.UnitMilliseconds)

	// proving
	ChallengesIssued          = stats.Int64("proving/challenges_issued", "Counter for challenges sent to storage nodes", stats.UnitDimensionless)
	ChallengeResults          = stats.Int64("proving/challenge_results", "Counter for settled challenges, tagged by outcome", stats.UnitDimensionless)
	ChallengeResponseDuration = stats.Float64("proving/response_duration_ms", "Round trip time of challenge responses", stats.UnitMilliseconds)
	ActiveChallenges          = stats.Int64("proving/active_challenges", "Number of challenges awaiting a response", stats.UnitDimensionless)
	MonitoredShards           = stats.Int64("proving/monitored_shards", "Number of shards under periodic verification", stats.UnitDimensionless)
	NodeReliabilityScore      = stats.Float64("proving/node_reliability_score", "Reliability score of a storage node", stats.UnitDimensionless)
	RepairSignals             = stats.Int64("proving/repair_signals", "Counter for shard repair signals emitted", stats.UnitDimensionless)

	// responder
	ResponderChallenges = stats.Int64("responder/challenges", "Counter for challenges answered by the local responder", stats.UnitDimensionless)
	ResponderDuration   = stats.Float64("responder/duration_ms", "Time spent reading and hashing a challenged segment", stats.UnitMilliseconds)
)

var (
	InfoView = &view.View{
		Name:        "info",
		Description: "Shardproof node information",
		Measure:     ShardproofInfo,
		Aggregation: view.LastValue(),
		TagKeys:     []tag.Key{Version, Commit},
	}
	APIRequestDurationView = &view.View{
		Measure:     APIRequestDuration,
		Aggregation: defaultMillisecondsDistribution,
		TagKeys:     []tag.Key{APIInterface, Endpoint},
	}

	ChallengesIssuedView = &view.View{
		Measure:     ChallengesIssued,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{Source},
	}
	ChallengeResultsView = &view.View{
		Measure:     ChallengeResults,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{Outcome},
	}
	ChallengeResponseDurationView = &view.View{
		Measure:     ChallengeResponseDuration,
		Aggregation: defaultMillisecondsDistribution,
		TagKeys:     []tag.Key{Outcome},
	}
	ActiveChallengesView = &view.View{
		Measure:     ActiveChallenges,
		Aggregation: view.LastValue(),
	}
	MonitoredShardsView = &view.View{
		Measure:     MonitoredShards,
		Aggregation: view.LastValue(),
	}
	NodeReliabilityScoreView = &view.View{
		Measure:     NodeReliabilityScore,
		Aggregation: view.LastValue(),
		TagKeys:     []tag.Key{NodeID},
	}
	NodeReliabilityScoreDistView = &view.View{
		Name:        "proving/node_reliability_score_dist",
		Measure:     NodeReliabilityScore,
		Aggregation: scoreDistribution,
	}
	RepairSignalsView = &view.View{
		Measure:     RepairSignals,
		Aggregation: view.Count(),
	}

	ResponderChallengesView = &view.View{
		Measure:     ResponderChallenges,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{ResponderResult},
	}
	ResponderDurationView = &view.View{
		Measure:     ResponderDuration,
		Aggregation: defaultMillisecondsDistribution,
	}
)

// DefaultViews is an array of OpenCensus views for metric gathering purposes
var DefaultViews = func() []*view.View {
	views := []*view.View{
		InfoView,
		APIRequestDurationView,
	}
	return views
}()

// ProvingViews are the views exported by a coordinator daemon, in
// addition to DefaultViews.
var ProvingViews = []*view.View{
	ChallengesIssuedView,
	ChallengeResultsView,
	ChallengeResponseDurationView,
	ActiveChallengesView,
	MonitoredShardsView,
	NodeReliabilityScoreView,
	NodeReliabilityScoreDistView,
	RepairSignalsView,
	ResponderChallengesView,
	ResponderDurationView,
}

func RegisterViews(v ...*view.View) {
	DefaultViews = append(DefaultViews, v...)
}

func init() {
	RegisterViews(rpcmetrics.DefaultViews...)
}

// SinceInMilliseconds returns the duration of time since the provide time as a float64.
func SinceInMilliseconds(startTime time.Time) float64 {
	return float64(time.Since(startTime).Milliseconds())
}

// Timer is a function stopwatch, calling it starts the timer,
// calling the returned function will record the duration.
func Timer(ctx context.Context, m *stats.Float64Measure) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		stats.Record(ctx, m.M(SinceInMilliseconds(start)))
		return time.Since(start)
	}
}
