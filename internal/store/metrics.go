package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	versionBumps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contexthub_version_bumps_total",
		Help: "Content-changing updates that appended a version snapshot, by entity.",
	}, []string{"entity"})

	cascadeDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contexthub_cascade_deleted_total",
		Help: "Child records removed by project cascade deletes, by entity.",
	}, []string{"entity"})
)
