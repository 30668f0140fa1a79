package simulation

import "github.com/prometheus/client_golang/prometheus"

var (
	sessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shopsim_sessions_started_total",
		Help: "Sessions created or reset.",
	})

	stepsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopsim_steps_total",
		Help: "Steps applied to sessions, by action verb.",
	}, []string{"verb"})

	invalidActions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shopsim_invalid_actions_total",
		Help: "Actions rejected as malformed or not clickable on the current page.",
	})

	purchasesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shopsim_purchases_total",
		Help: "Completed purchases.",
	})

	rewardObserved = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopsim_purchase_reward",
		Help:    "Reward distribution of completed purchases.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	searchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopsim_search_duration_seconds",
		Help:    "Latency of search actions, index and selector searches alike.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		sessionsStarted,
		stepsTotal,
		invalidActions,
		purchasesTotal,
		rewardObserved,
		searchDuration,
	)
}
