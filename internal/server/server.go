package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	auditapp "github.com/resyne/site-api/internal/audit/application"
	bookingapp "github.com/resyne/site-api/internal/booking/application"
	"github.com/resyne/site-api/internal/config"
	mongodoc "github.com/resyne/site-api/internal/infrastructure/mongo"
	"github.com/resyne/site-api/internal/infrastructure/openai"
	"github.com/resyne/site-api/internal/infrastructure/pdf"
	"github.com/resyne/site-api/internal/infrastructure/resend"
	adminhttp "github.com/resyne/site-api/internal/interfaces/http/admin"
	commonhttp "github.com/resyne/site-api/internal/interfaces/http/common"
	publichttp "github.com/resyne/site-api/internal/interfaces/http/public"
	sitehttp "github.com/resyne/site-api/internal/interfaces/http/site"
	"github.com/resyne/site-api/internal/metrics"
	"github.com/resyne/site-api/internal/notification"
)

const corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

type pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Server owns the HTTP lifecycle and is the composition root of the API.
type Server struct {
	logger         *log.Logger
	client         *mongo.Client
	db             pinger
	registry       *prometheus.Registry
	reports        *auditapp.ReportService
	bookings       *bookingapp.Service
	adminJWT       config.JWTConfig
	staticDir      string
	addr           string
	allowedOrigins []string
}

// dependencies are the adapters New builds from Mongo and the provider config.
type dependencies struct {
	db       pinger
	audits   auditapp.AuditRepository
	bookings bookingapp.BookingRepository
	failures bookingapp.FailureStore
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server listening on http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// Router assembles middleware and the public, admin and site routes.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:   s.logger,
		Reports:  s.reports,
		Bookings: s.bookings,
	})
	router.Route("/functions/v1", publicHandler.Register)
	router.Route("/api", publicHandler.Register)

	if s.adminJWT.Enabled() {
		adminHandler := adminhttp.NewHandler(adminhttp.Config{
			Logger:   s.logger,
			Reports:  s.reports,
			Bookings: s.bookings,
		})
		router.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware)
			adminHandler.Register(r)
		})
	} else {
		s.logger.Printf("ADMIN_JWT_SECRET is not set; admin endpoints are disabled")
	}

	if s.staticDir != "" {
		sitehttp.NewHandler(sitehttp.Config{
			Logger: s.logger,
			Files:  os.DirFS(s.staticDir),
		}).Register(router)
	}

	return router
}

// withCORS answers preflight requests and adds CORS headers for allowed
// origins. A "*" entry allows every origin.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && originAllowed(origin, allowed):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			default:
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports MongoDB reachability only.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware verifies the admin bearer token and stores the admin in the
// request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteMessage(s.logger, w, http.StatusUnauthorized, "header Authorization mancante")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteMessage(s.logger, w, http.StatusUnauthorized, "specificare un token Bearer")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteMessage(s.logger, w, http.StatusUnauthorized, "token di accesso vuoto")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteMessage(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		ctx := commonhttp.ContextWithAdmin(r.Context(), commonhttp.AuthenticatedAdmin{
			Subject: claims.Subject,
			Name:    claims.Name,
			Email:   claims.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type adminClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (s *Server) parseAuthToken(tokenString string) (*adminClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(30 * time.Second),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if s.adminJWT.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.adminJWT.Issuer))
	}
	if s.adminJWT.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.adminJWT.Audience))
	}

	claims := &adminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.adminJWT.Secret, nil
	}, opts...)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("token di accesso non valido")
	}
	return claims, nil
}

func (s *Server) shutdown(ctx context.Context) {
	if s.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB disconnect failed: %v", err)
	}
}

// waitForShutdown blocks until ListenAndServe fails or a signal arrives, then
// drains in-flight requests and closes MongoDB.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("HTTP shutdown failed: %v", err)
		}
	}

	srv.shutdown(context.Background())
	return runErr
}

// New builds the provider adapters, repositories and services from cfg and
// returns a Server ready to Run.
func New(cfg config.Config, client *mongo.Client) (*Server, error) {
	database := client.Database(cfg.MongoDatabase)
	srv, err := build(cfg, dependencies{
		db:       client,
		audits:   mongodoc.NewAuditRepository(database, cfg.AuditCollection),
		bookings: mongodoc.NewBookingRepository(database, cfg.BookingCollection),
		failures: mongodoc.NewFailedNotificationRepository(database, cfg.FailedNotificationCollection),
	})
	if err != nil {
		return nil, err
	}
	srv.client = client

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := mongodoc.EnsureIndexes(ctx, database, mongodoc.Collections{
		Audits:              cfg.AuditCollection,
		Bookings:            cfg.BookingCollection,
		FailedNotifications: cfg.FailedNotificationCollection,
	}); err != nil {
		srv.logger.Printf("failed to ensure indexes: %v", err)
	}
	return srv, nil
}

func build(cfg config.Config, deps dependencies) (*Server, error) {
	logger := cfg.ServerLog
	if logger == nil {
		logger = log.New(os.Stdout, "[resyne-api] ", log.LstdFlags|log.Lshortfile)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("CET", 60*60)
		logger.Printf("failed to load timezone %s: %v, falling back to CET", cfg.Timezone, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collectorSet := metrics.New(registry)

	sender, err := resend.NewClient(resend.Config{
		APIKey:  cfg.Email.APIKey,
		BaseURL: cfg.Email.BaseURL,
		Timeout: cfg.Email.Timeout,
	})
	if err != nil {
		return nil, err
	}
	mailer, err := notification.NewMailer(notification.Config{
		Sender:      sender,
		From:        cfg.Email.From,
		BookingFrom: cfg.Email.BookingFrom,
		TeamAddress: cfg.Email.TeamAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	reports := auditapp.NewReportService(auditapp.Config{
		Generator: openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
			Timeout:     cfg.OpenAI.Timeout,
		}),
		Renderer:   pdf.NewRenderer(loc),
		Mailer:     mailer,
		Repository: deps.audits,
		Metrics:    collectorSet,
		Logger:     logger,
	})

	bookings := bookingapp.NewService(bookingapp.Config{
		Mailer:        mailer,
		Repository:    deps.bookings,
		Failures:      deps.failures,
		Metrics:       collectorSet,
		Logger:        logger,
		Location:      loc,
		RetryAttempts: cfg.Email.RetryAttempts,
		RetryDelay:    cfg.Email.RetryDelay,
	})

	return &Server{
		logger:         logger,
		db:             deps.db,
		registry:       registry,
		reports:        reports,
		bookings:       bookings,
		adminJWT:       cfg.AdminJWT,
		staticDir:      cfg.StaticDir,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}, nil
}
