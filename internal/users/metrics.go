// internal/users/metrics.go
package users

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var followTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "nexora_follow_operations_total",
	Help: "Total follow and unfollow operations",
}, []string{"action"})

func recordFollow(action string) {
	followTotal.WithLabelValues(action).Inc()
}
