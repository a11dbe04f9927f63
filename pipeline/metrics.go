package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statementsSplit = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dumpsift",
		Subsystem: "explode",
		Name:      "statements_split",
		Help:      "Number of statements routed into a working file or the skeleton.",
	}, []string{"destination"})

	rowsKept = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dumpsift",
		Subsystem: "pass",
		Name:      "rows_kept",
		Help:      "Number of INSERT rows that survived filtering, per table.",
	}, []string{"table"})

	rowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dumpsift",
		Subsystem: "pass",
		Name:      "rows_dropped",
		Help:      "Number of INSERT rows rejected by a filter check, per table.",
	}, []string{"table"})

	valuesTracked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dumpsift",
		Subsystem: "pass",
		Name:      "values_tracked",
		Help:      "Number of distinct values captured for lookup targets, per table.",
	}, []string{"table"})
)
