// internal/messaging/metrics.go
package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messagesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "nexora_messages_sent_total",
	Help: "Total messages sent",
})

func recordMessageSent() {
	messagesSentTotal.Inc()
}
