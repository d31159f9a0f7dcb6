// internal/uploads/metrics.go
package uploads

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "nexora_uploads_total",
	Help: "Total successful media uploads",
}, []string{"kind"})

func recordUpload(kind string) {
	uploadsTotal.WithLabelValues(kind).Inc()
}
