package handlers

import "github.com/prometheus/client_golang/prometheus"

// formRejections counts failing fields of rejected submissions, by form
// ("add", "edit") and field name.
var formRejections = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pet_form_rejections_total",
		Help: "Fields that failed validation on form submissions.",
	},
	[]string{"form", "field"},
)

func init() {
	prometheus.MustRegister(formRejections)
}
