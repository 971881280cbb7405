package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// http
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	GaugeRequests              prometheus.Gauge
	GaugeLifeSignal            prometheus.Gauge
	HistogramRequestDuration   *prometheus.HistogramVec

	// gamification
	CounterWorkoutsLogged      prometheus.Counter
	CounterPointsAwarded       prometheus.Counter
	CounterBadgesAwarded       *prometheus.CounterVec
	CounterLevelUps            prometheus.Counter
	CounterStreakResets        prometheus.Counter
	CounterChallengesJoined    prometheus.Counter
	CounterChallengesCompleted prometheus.Counter
	CounterRewardsRedeemed     prometheus.Counter

	// accounts
	CounterSignups prometheus.Counter
	CounterLogins  *prometheus.CounterVec

	// store
	CounterStoreWriteFailures *prometheus.CounterVec
}

func NewTestManager() *Manager {
	return NewManager("fitgam", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitgam", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterHandleRequestPanic:  counter("handle_request_panic", "The total number of serve request panics"),
		CounterRateLimitedRequests: counter("rate_limited_requests", "The total number of rate limited requests"),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		GaugeLifeSignal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "life_signal",
			Help:      "Shows whether the service is alive",
		}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status_code"}),

		CounterWorkoutsLogged: counter("workouts_logged", "The total number of logged workouts"),
		CounterPointsAwarded:  counter("points_awarded", "The total number of points awarded for workouts and challenges"),
		CounterBadgesAwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "badges_awarded",
			Help:      "The total number of awarded badges",
		}, []string{"badge"}),
		CounterLevelUps:            counter("level_ups", "The total number of level ups"),
		CounterStreakResets:        counter("streak_resets", "The total number of reset workout streaks"),
		CounterChallengesJoined:    counter("challenges_joined", "The total number of challenge joins"),
		CounterChallengesCompleted: counter("challenges_completed", "The total number of completed challenges"),
		CounterRewardsRedeemed:     counter("rewards_redeemed", "The total number of redeemed rewards"),

		CounterSignups: counter("signups", "The total number of signups"),
		CounterLogins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "logins",
			Help:      "The total number of login attempts",
		}, []string{"result"}),

		CounterStoreWriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_write_failures",
			Help:      "The total number of failed store writes",
		}, []string{"key"}),
	}
}
