package metrics

import "time"

// SlowTraversalThreshold is the traversal duration above which a run counts as slow.
const SlowTraversalThreshold = time.Second

// RecordBuild records a graph build and, on success, the size of the graph.
func (r *Registry) RecordBuild(status string, duration time.Duration, pools, relations, subsystems int) {
	r.BuildsTotal.WithLabelValues(status).Inc()
	r.BuildDuration.Observe(duration.Seconds())
	if status != "success" {
		return
	}
	r.GraphPoolsTotal.Set(float64(pools))
	r.GraphRelationsTotal.Set(float64(relations))
	r.GraphSubsystems.Set(float64(subsystems))
}

// RecordProjection records a filtered view projection for a matcher
func (r *Registry) RecordProjection(matcher string, duration time.Duration, pools, relations int) {
	r.ProjectionDuration.WithLabelValues(matcher).Observe(duration.Seconds())
	r.ViewPools.WithLabelValues(matcher).Set(float64(pools))
	r.ViewRelations.WithLabelValues(matcher).Set(float64(relations))
}

// TraversalStarted marks a traversal as in flight. Pair with RecordTraversal.
func (r *Registry) TraversalStarted() {
	r.TraversalsInFlight.Inc()
}

// RecordTraversal records a finished traversal
func (r *Registry) RecordTraversal(matcher, status string, duration time.Duration, visited int) {
	r.TraversalsInFlight.Dec()
	r.TraversalsTotal.WithLabelValues(matcher, status).Inc()
	r.TraversalDuration.WithLabelValues(matcher).Observe(duration.Seconds())
	r.TraversalVisited.WithLabelValues(matcher).Observe(float64(visited))

	if duration > SlowTraversalThreshold {
		r.SlowTraversals.WithLabelValues(matcher).Inc()
	}
}
