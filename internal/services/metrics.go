package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// petsCreated counts committed add submissions by species.
	petsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pets_created_total",
			Help: "Total number of pets added.",
		},
		[]string{"species"},
	)

	// petsUpdated counts committed edit submissions.
	petsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pets_updated_total",
			Help: "Total number of pet edits.",
		},
	)
)

func init() {
	prometheus.MustRegister(petsCreated, petsUpdated)
}
