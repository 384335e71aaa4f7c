package proving

import "github.com/samber/lo"

// Statistics aggregates tracker state with the coordinator's own counts.
func (c *Coordinator) Statistics() Statistics {
	st := summarize(c.tracker.ListAll())

	c.lk.Lock()
	st.ActiveChallenges = len(c.active)
	st.MonitoredShards = len(c.monitors)
	c.lk.Unlock()

	return st
}

func summarize(nodes []NodeReliability) Statistics {
	st := Statistics{
		TotalNodes:    len(nodes),
		ReliableNodes: lo.CountBy(nodes, func(r NodeReliability) bool { return r.IsReliable }),
	}
	st.UnreliableNodes = st.TotalNodes - st.ReliableNodes

	var weighted float64
	for _, n := range nodes {
		st.TotalChallenges += n.TotalChallenges
		st.SuccessfulChallenges += n.SuccessfulChallenges
		st.FailedChallenges += n.FailedChallenges
		weighted += n.AverageResponseTime * float64(n.TotalChallenges)
	}

	if st.TotalChallenges > 0 {
		st.OverallSuccessRate = float64(st.SuccessfulChallenges) / float64(st.TotalChallenges)
		st.AverageResponseTime = weighted / float64(st.TotalChallenges)
	}
	return st
}
