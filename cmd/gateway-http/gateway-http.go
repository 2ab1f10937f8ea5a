package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pureorigins/partyd/core"
	handler "github.com/pureorigins/partyd/handler/http"
	"github.com/pureorigins/partyd/platform/config"
	"github.com/pureorigins/partyd/platform/metrics"
	"github.com/pureorigins/partyd/platform/schedule"
	"github.com/pureorigins/partyd/service/notify"
	"github.com/pureorigins/partyd/service/party"
	"github.com/pureorigins/partyd/service/user"
)

// Logging and telemetry identifiers.
const (
	component        = "gateway-http"
	namespaceService = "service"
	storeService     = "mem"
)

// Versions.
const (
	versionCurrent = "0.1"
)

// Timeouts.
const (
	defaultReadTimeout     = 2 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultWriteTimeout    = 3 * time.Second
)

// Buildtime vars.
var (
	revision = "0000000-dev"
)

func main() {
	var (
		begin = time.Now()

		configFile    = flag.String("config.file", "", "Path to the TOML config file")
		listenAddr    = flag.String("listen.addr", "", "HTTP bind address for main API, overrides config")
		telemetryAddr = flag.String("telemetry.addr", "", "HTTP bind address where prometheus telemetry is exposed, overrides config")
	)
	flag.Parse()

	// Setup logging.
	logger := log.With(
		log.NewJSONLogger(os.Stdout),
		"caller", log.Caller(3),
		"component", component,
		"revision", revision,
	)

	hostname, err := os.Hostname()
	if err != nil {
		logger.Log("err", err, "lifecycle", "abort")
		os.Exit(1)
	}

	logger = log.With(logger, "host", hostname)

	// Setup config.
	cfg := config.Default()

	if *configFile != "" {
		cfg, err = config.Load(*configFile)
		if err != nil {
			logger.Log("err", err, "lifecycle", "abort")
			os.Exit(1)
		}
	}

	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	if *telemetryAddr != "" {
		cfg.TelemetryAddr = *telemetryAddr
	}

	// Setup instrumentation.
	go func(addr string) {
		logger.Log(
			"duration", time.Since(begin).Nanoseconds(),
			"lifecycle", "start",
			"listen", addr,
			"sub", "telemetry",
		)

		http.Handle("/metrics", promhttp.Handler())

		err := http.ListenAndServe(addr, nil)
		if err != nil {
			logger.Log("err", err, "lifecycle", "abort", "sub", "telemetry")
			os.Exit(1)
		}
	}(cfg.TelemetryAddr)

	serviceErrCount, serviceOpCount, serviceOpLatency := metrics.KeyMetrics(
		namespaceService,
		metrics.FieldComponent,
		metrics.FieldMethod,
		metrics.FieldService,
		metrics.FieldStore,
	)

	// Setup services.
	var notifications notify.Service
	notifications = notify.MemService(cfg.Notify.QueueSize)
	notifications = notify.LogMiddleware(logger, storeService)(notifications)

	var parties party.Service
	parties = party.MemService()
	parties = party.InstrumentServiceMiddleware(
		component,
		storeService,
		serviceErrCount,
		serviceOpCount,
		serviceOpLatency,
	)(parties)
	parties = party.LogMiddleware(logger, storeService)(parties)

	var users user.Service
	users = user.MemService()
	users = user.InstrumentServiceMiddleware(
		component,
		storeService,
		serviceErrCount,
		serviceOpCount,
		serviceOpLatency,
	)(users)
	users = user.LogMiddleware(logger, storeService)(users)

	// Setup expiration scheduling.
	var (
		expires    = core.NewExpirations()
		scheduler  = schedule.TimerScheduler()
		expiration = cfg.Party.Expiration()
	)

	// Setup middlewares.
	var (
		withBase = handler.Chain(
			handler.CtxPrepare(versionCurrent),
			handler.Log(logger),
			handler.Instrument(component),
			handler.SecureHeaders(),
			handler.CORS(),
			handler.HasUserAgent(),
			handler.ValidateContent(),
		)
		withUser = handler.Chain(
			withBase,
			handler.CtxUser(users),
		)
	)

	// Setup Router.
	router := mux.NewRouter().StrictSlash(true)

	router.Methods("GET").Path("/health").Name("healthcheck").HandlerFunc(
		handler.Wrap(
			handler.CtxPrepare(versionCurrent),
			handler.Health(begin),
		),
	)

	current := router.PathPrefix("/" + versionCurrent).Subrouter()

	// User routes.
	current.Methods("POST").Path("/users").Name("userConnect").HandlerFunc(
		handler.Wrap(
			withBase,
			handler.UserConnect(
				core.UserConnect(users),
			),
		),
	)

	current.Methods("DELETE").Path("/me").Name("userDisconnect").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.UserDisconnect(
				core.UserDisconnect(parties, users, notifications, expires, cfg.Messages),
			),
		),
	)

	current.Methods("GET").Path("/users/suggest").Name("userSuggest").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.UserSearch(
				core.UserSearch(users),
			),
		),
	)

	// Notification routes.
	current.Methods("GET").Path("/me/notifications").Name("notificationList").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.NotificationList(
				core.NotificationList(notifications),
			),
		),
	)

	// Party routes.
	current.Methods("POST").Path("/me/party/invites").Name("partyInvite").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.PartyInvite(
				core.PartyInvite(parties, users, notifications, scheduler, expires, cfg.Messages, expiration),
			),
		),
	)

	current.Methods("POST").Path("/me/party/accept").Name("partyAccept").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.PartyAccept(
				core.PartyAccept(parties, users, notifications, expires, cfg.Messages),
			),
		),
	)

	current.Methods("DELETE").Path("/me/party").Name("partyLeave").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.PartyLeave(
				core.PartyLeave(parties, users, notifications, expires, cfg.Messages),
			),
		),
	)

	current.Methods("DELETE").Path(`/me/party/members/{username}`).Name("partyKick").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.PartyKick(
				core.PartyKick(parties, users, notifications, expires, cfg.Messages),
			),
		),
	)

	current.Methods("GET").Path("/me/party").Name("partyInfo").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.PartyInfo(
				core.PartyInfo(parties, users),
			),
		),
	)

	// Message routes.
	current.Methods("POST").Path("/me/party/messages").Name("partyMessage").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.PartyMessage(
				core.PartyMessage(parties, users, notifications),
			),
		),
	)

	current.Methods("POST").Path(`/me/messages/{username}`).Name("messageSend").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.MessageSend(
				core.MessageSend(users, notifications),
			),
		),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log(
			"duration", time.Since(begin).Nanoseconds(),
			"lifecycle", "start",
			"listen", cfg.ListenAddr,
			"sub", "api",
		)

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Log("err", err, "lifecycle", "abort", "sub", "api")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	logger.Log("lifecycle", "stop", "sub", "api")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log("err", err, "lifecycle", "abort", "sub", "api")
		os.Exit(1)
	}
}
