package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"appointment-booking-api/internal/auth"
	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/bookingpb"
	"appointment-booking-api/internal/confcode"
	"appointment-booking-api/internal/config"
	"appointment-booking-api/internal/grpcweb"
	"appointment-booking-api/internal/handler"
	"appointment-booking-api/internal/logging"
	"appointment-booking-api/internal/middleware"
	"appointment-booking-api/internal/retry"
	"appointment-booking-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// database
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := store.Migrate(ctx, pool); err != nil {
		return err
	}
	st := store.New(pool)
	seedAdmins(ctx, st, cfg.AdminEmails)

	clock := clockwork.NewRealClock()
	engine := booking.NewEngine(confcode.New(), clock)
	svc := booking.NewService(engine, st, st, retry.Policy{
		MaxAttempts: cfg.RetryMaxAttempts,
		Backoff:     retry.Linear(cfg.RetryBaseDelay),
		Retryable:   store.IsSerializationFailure,
		Clock:       clock,
	}, slog.Default())

	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, clock)
	h := handler.New(svc, st, tokens, cfg.RefreshTokenTTL, clock)

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, clock)
	interceptors := []grpc.UnaryServerInterceptor{
		middleware.Logging(),
		middleware.RateLimit(rl),
		middleware.Auth(tokens),
	}

	// grpc server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	bookingpb.RegisterBookingServiceServer(srv, h)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(bookingpb.ServiceName, healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return err
	}

	// grpc-web, metrics and health over HTTP/1.1
	r := mux.NewRouter()
	r.Handle("/"+bookingpb.ServiceName+"/{method}", grpcweb.New(h, interceptors...).Handler()).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodPost, http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Grpc-Web", "X-User-Agent", "X-Request-Id"}),
		handlers.ExposedHeaders([]string{"Grpc-Status", "Grpc-Message", "Grpc-Status-Details-Bin"}),
		handlers.MaxAge(86400),
	)
	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           handlers.ProxyHeaders(cors(r)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rl.Run(gctx)
		return nil
	})
	g.Go(func() error {
		slog.Info("grpc listening", "port", cfg.Port)
		return srv.Serve(lis)
	})
	g.Go(func() error {
		slog.Info("grpc-web listening", "port", cfg.WebPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		hs.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpSrv.Shutdown(shutdownCtx)
		srv.GracefulStop()
		return err
	})
	return g.Wait()
}

// seedAdmins grants the admin role to configured emails. Unregistered
// addresses are skipped and picked up on a later start.
func seedAdmins(ctx context.Context, st *store.Store, emails []string) {
	for _, email := range emails {
		err := st.GrantRoleByEmail(ctx, email, store.RoleAdmin)
		switch {
		case errors.Is(err, store.ErrNotFound):
			slog.Warn("admin email not registered yet", "email", email)
		case err != nil:
			slog.Error("grant admin role", "email", email, "error", err)
		default:
			slog.Info("admin role granted", "email", email)
		}
	}
}
