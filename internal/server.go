package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitgam/internal/auth"
	"github.com/2beens/fitgam/internal/challenges"
	"github.com/2beens/fitgam/internal/config"
	"github.com/2beens/fitgam/internal/events"
	"github.com/2beens/fitgam/internal/forms"
	"github.com/2beens/fitgam/internal/leaderboard"
	"github.com/2beens/fitgam/internal/middleware"
	"github.com/2beens/fitgam/internal/notifications"
	"github.com/2beens/fitgam/internal/rewards"
	"github.com/2beens/fitgam/internal/store"
	"github.com/2beens/fitgam/internal/telemetry/metrics"
	"github.com/2beens/fitgam/internal/telemetry/tracing"
	"github.com/2beens/fitgam/internal/workouts"
	"github.com/2beens/fitgam/pkg"
)

const sessionsCleanEvery = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	storage     *storage
	redisClient *redis.Client
	store       *store.Store
	publisher   events.Publisher

	sessionService *auth.SessionService
	loginChecker   *auth.LoginChecker
	accounts       *auth.Accounts
	challenges     *challenges.Service
	workouts       *workouts.Service
	rewards        *rewards.Service
	notifications  *notifications.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config        *config.Config
	RedisPassword string
	// DemoPassword is set as the seeded demo user's password, the demo user can't log in without it
	DemoPassword string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	rdb := newRedisClient(ctx, cfg, params.RedisPassword)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombTracingEnabled, "fitgam-backend", rdb)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	s := &Server{
		config:       cfg,
		redisClient:  rdb,
		otelShutdown: otelShutdown,
	}

	s.storage, err = openStorage(ctx, cfg, rdb)
	if err != nil {
		s.closeStorage()
		return nil, err
	}

	s.promRegistry = metrics.SetupPrometheus(s.storage.collectors...)
	s.metricsManager = metrics.NewManager("fitgam", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	s.store = store.New(s.storage.kv, s.metricsManager)
	s.publisher = newPublisher(cfg)

	if cfg.SeedDemoData {
		s.seed(ctx, auth.BcryptVerifier{Cost: cfg.BcryptCost}, params.DemoPassword)
	}
	s.setupServices(location)

	go s.cleanSessionsPeriodically(ctx)

	return s, nil
}

func (s *Server) setupServices(location *time.Location) {
	s.sessionService = auth.NewSessionService(s.config.SessionTTL(), s.redisClient)
	s.loginChecker = auth.NewLoginChecker(s.config.SessionTTL(), s.redisClient)
	s.accounts = auth.NewAccounts(auth.NewAccountsParams{
		Store:     s.store,
		Verifier:  auth.BcryptVerifier{Cost: s.config.BcryptCost},
		Sessions:  s.sessionService,
		Publisher: s.publisher,
		Metrics:   s.metricsManager,
		Delay:     s.config.AuthDelay(),
	})
	s.challenges = challenges.NewService(challenges.NewServiceParams{
		Store:     s.store,
		Publisher: s.publisher,
		Metrics:   s.metricsManager,
	})
	s.workouts = workouts.NewService(workouts.NewServiceParams{
		Store:     s.store,
		Syncer:    s.challenges,
		Publisher: s.publisher,
		Metrics:   s.metricsManager,
		Location:  location,
	})
	s.rewards = rewards.NewService(rewards.NewServiceParams{
		Store:     s.store,
		Publisher: s.publisher,
		Metrics:   s.metricsManager,
	})
	s.notifications = notifications.NewService(s.store)
}

func newPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		log.Debugln("kafka disabled, domain events are only logged")
		return events.NoopPublisher{}
	}
	log.Infof("publishing domain events to kafka %v, topic prefix [%s]", cfg.KafkaBrokers, cfg.KafkaTopic)
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func (s *Server) seed(ctx context.Context, verifier auth.CredentialVerifier, demoPassword string) {
	var demoPasswordHash string
	if demoPassword == "" {
		log.Warnln("demo password not set, the demo user will not be able to log in")
	} else {
		hash, err := verifier.Hash(demoPassword)
		if err != nil {
			log.Errorf("hash demo password: %s", err)
		}
		demoPasswordHash = hash
	}

	if err := s.store.Seed(ctx, store.SeedParams{
		Now:              time.Now(),
		DemoPasswordHash: demoPasswordHash,
	}); err != nil {
		log.Errorf("seed store: %s", err)
	}
}

func (s *Server) cleanSessionsPeriodically(ctx context.Context) {
	ticker := time.NewTicker(sessionsCleanEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sessionService.ScanAndClean(ctx)
		}
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", handleLiveness).Methods("GET", "OPTIONS").Name("liveness")

	authHandler := auth.NewHandler(s.accounts)
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	authRouter := r.PathPrefix("/a").Subrouter()
	authRouter.HandleFunc("/signup", authHandler.HandleSignup).Methods("POST", "OPTIONS").Name("signup")
	authRouter.HandleFunc("/login", authHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/logout", authHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")
	authRouter.Use(middleware.RateLimit(reqRateLimiter, "auth", s.config.LoginRateLimitAllowedPerMin, s.metricsManager))

	r.HandleFunc("/me", authHandler.HandleMe).Methods("GET", "OPTIONS").Name("me")
	r.HandleFunc("/me", authHandler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")
	r.HandleFunc("/me/motivation", authHandler.HandleMotivation).Methods("GET", "OPTIONS").Name("motivation")

	workoutsHandler := workouts.NewHandler(s.workouts)
	r.HandleFunc("/workouts", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts", workoutsHandler.HandleLog).Methods("POST", "OPTIONS").Name("log-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/dashboard", workoutsHandler.HandleDashboard).Methods("GET", "OPTIONS").Name("dashboard")

	challengesHandler := challenges.NewHandler(s.challenges)
	r.HandleFunc("/challenges", challengesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-challenges")
	r.HandleFunc("/challenges", challengesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-challenge")
	r.HandleFunc("/challenges/{id}/join", challengesHandler.HandleJoin).Methods("POST", "OPTIONS").Name("join-challenge")
	r.HandleFunc("/challenges/{id}/progress", challengesHandler.HandleProgress).Methods("GET", "OPTIONS").Name("challenge-progress")

	leaderboardHandler := leaderboard.NewHandler(s.store)
	r.HandleFunc("/leaderboard", leaderboardHandler.HandleAll).Methods("GET", "OPTIONS").Name("leaderboard")
	r.HandleFunc("/leaderboard/{metric}", leaderboardHandler.HandleMetric).Methods("GET", "OPTIONS").Name("leaderboard-metric")

	rewardsHandler := rewards.NewHandler(s.rewards)
	r.HandleFunc("/rewards", rewardsHandler.HandleCatalog).Methods("GET", "OPTIONS").Name("rewards-catalog")
	r.HandleFunc("/rewards/mine", rewardsHandler.HandleMine).Methods("GET", "OPTIONS").Name("my-rewards")
	r.HandleFunc("/rewards/{id}/redeem", rewardsHandler.HandleRedeem).Methods("POST", "OPTIONS").Name("redeem-reward")

	notificationsHandler := notifications.NewHandler(s.notifications)
	r.HandleFunc("/notifications", notificationsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-notifications")
	r.HandleFunc("/notifications/{id}/read", notificationsHandler.HandleMarkRead).Methods("POST", "OPTIONS").Name("read-notification")

	r.HandleFunc("/schemas/{form}", forms.HandleSchema).Methods("GET", "OPTIONS").Name("form-schema")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(middleware.DefaultMaxBodyBytes))

	return r
}

func handleLiveness(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.Errorf("failed to close events publisher: %s", err)
		}
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	s.closeStorage()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) closeStorage() {
	if s.storage != nil {
		s.storage.close()
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}
}

