package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_realtime_events_total",
		Help: "Change events received, by table and type.",
	}, []string{"table", "type"})

	invalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_cache_invalidations_total",
		Help: "Cache namespace invalidations triggered by change events.",
	}, []string{"namespace"})
)
