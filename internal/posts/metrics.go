package posts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	postsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nexora_posts_created_total",
			Help: "Total number of posts created",
		},
	)

	reactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexora_post_reactions_total",
			Help: "Total number of reaction toggles",
		},
		[]string{"action"},
	)

	commentsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nexora_comments_created_total",
			Help: "Total number of comments created",
		},
	)

	feedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexora_feed_requests_total",
			Help: "Total number of feed requests",
		},
		[]string{"viewer"},
	)
)

func recordReaction(liked bool) {
	if liked {
		reactionsTotal.WithLabelValues("like").Inc()
	} else {
		reactionsTotal.WithLabelValues("unlike").Inc()
	}
}

func recordFeedRequest(authenticated bool) {
	if authenticated {
		feedRequestsTotal.WithLabelValues("authenticated").Inc()
	} else {
		feedRequestsTotal.WithLabelValues("anonymous").Inc()
	}
}
