package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nextglide-backend/internal/auth"
	"nextglide-backend/internal/cache"
	"nextglide-backend/internal/catalog"
	"nextglide-backend/internal/config"
	"nextglide-backend/internal/contacts"
	"nextglide-backend/internal/db"
	"nextglide-backend/internal/handlers"
	"nextglide-backend/internal/inquiries"
	"nextglide-backend/internal/jobs"
	"nextglide-backend/internal/middleware"
	"nextglide-backend/internal/notifications"
	"nextglide-backend/internal/offerings"
	"nextglide-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err == nil {
			err = redisCache.Ping(ctx)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisCache.Close()
		logger.Info("redis connected")
		cacheStore = redisCache
	} else if cfg.CacheTTLSeconds > 0 {
		logger.Info("using in-process cache")
		cacheStore = cache.NewMemory()
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "nextglide-backend",
		}
	}

	mailer := notifications.NewBrevoClient(notifications.Options{
		APIKey:      cfg.BrevoAPIKey,
		SenderEmail: cfg.BrevoSenderEmail,
		SenderName:  cfg.BrevoSenderName,
		Sandbox:     cfg.BrevoSandbox,
		AdminEmail:  cfg.AdminNotifyEmail,
	})
	var (
		inquiryNotifier inquiries.Notifier
		contactNotifier contacts.Notifier
	)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
		inquiryNotifier = mailer
		contactNotifier = mailer
	}

	val := validation.New()

	solutionsService := offerings.NewService(offerings.KindSolution, offerings.NewRepository(cols.Solutions), cfg.Timezone)
	servicesService := offerings.NewService(offerings.KindService, offerings.NewRepository(cols.Services), cfg.Timezone)
	solutionsHandler := offerings.NewHandler(solutionsService, val, logger, cacheStore, cfg.CacheTTL())
	servicesHandler := offerings.NewHandler(servicesService, val, logger, cacheStore, cfg.CacheTTL())

	solutionInquiries := inquiries.NewHandler(
		inquiries.NewService(offerings.KindSolution, inquiries.NewRepository(cols.SolutionInquiries), solutionsService, inquiryNotifier, cfg.Timezone),
		val, logger,
	)
	serviceInquiries := inquiries.NewHandler(
		inquiries.NewService(offerings.KindService, inquiries.NewRepository(cols.ServiceInquiries), servicesService, inquiryNotifier, cfg.Timezone),
		val, logger,
	)

	contactsHandler := contacts.NewHandler(contacts.NewService(contacts.NewRepository(cols.Contacts), contactNotifier, cfg.Timezone), val, logger)
	jobsHandler := jobs.NewHandler(jobs.NewService(jobs.NewRepository(cols.Jobs, cols.ApplicationForms), cfg.Timezone), val, logger)
	catalogHandler := catalog.NewHandler(catalog.NewService(servicesService, solutionsService), logger, cacheStore, cfg.CacheTTL())

	server := &handlers.Server{
		Cfg:  cfg,
		Auth: jwtManager,
		Val:  val,
		Log:  logger,
		DB:   db.ClientPinger{Client: client},
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))

	var reg *prometheus.Registry
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		r.Use(middleware.NewMetrics(reg).Handler)
	}
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	formsLimiter := middleware.NewRateLimiter(cfg.RateLimitForms, cfg.RateLimitWindow())
	adminOnly := middleware.AdminAuth(cfg.AdminAPIKey, jwtManager)

	registerOfferings := func(api chi.Router, kind offerings.Kind, h *offerings.Handler, inq *inquiries.Handler) {
		api.Route("/"+kind.Plural(), func(or chi.Router) {
			// Static segments are matched before {slug}.
			or.With(formsLimiter.Middleware).Post("/inquiry", inq.Create)
			or.Group(func(protected chi.Router) {
				protected.Use(adminOnly)
				protected.Get("/inquiries/all", inq.AdminList)
				protected.Get("/inquiries/{id}", inq.AdminGetByID)
				protected.Delete("/inquiries/{id}", inq.AdminDelete)
				protected.Post("/inquiries/{id}/resend", inq.AdminResend)
				protected.Post("/", h.AdminCreate)
				protected.Put("/{id}", h.AdminUpdate)
				protected.Delete("/{id}", h.AdminDelete)
			})
			or.Get("/", h.PublicList)
			or.Get("/{slug}", h.PublicGetBySlug)
			or.Get("/{slug}/sections", h.PublicSections)
		})
	}

	r.Get("/healthz", server.Health)
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		registerOfferings(api, offerings.KindSolution, solutionsHandler, solutionInquiries)
		registerOfferings(api, offerings.KindService, servicesHandler, serviceInquiries)

		api.Get("/catalog", catalogHandler.Get)

		api.Route("/contacts", func(cr chi.Router) {
			cr.With(formsLimiter.Middleware).Post("/", contactsHandler.Create)
			cr.Group(func(protected chi.Router) {
				protected.Use(adminOnly)
				protected.Get("/", contactsHandler.AdminList)
				protected.Delete("/{id}", contactsHandler.AdminDelete)
				protected.Post("/resend-welcome/{id}", contactsHandler.AdminResendWelcome)
				protected.Post("/custom-email", contactsHandler.AdminCustomEmail)
			})
		})

		api.Get("/jobs", jobsHandler.PublicList)
		api.Get("/forms/{jobId}", jobsHandler.PublicGetForm)
		api.Group(func(protected chi.Router) {
			protected.Use(adminOnly)
			protected.Post("/jobs", jobsHandler.AdminCreate)
			protected.Put("/jobs/{id}", jobsHandler.AdminUpdate)
			protected.Delete("/jobs/{id}", jobsHandler.AdminDelete)
			protected.Post("/forms", jobsHandler.AdminSaveForm)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.With(formsLimiter.Middleware).Post("/login", server.AdminLogin)
			admin.Post("/refresh", server.AdminRefresh)
			admin.Post("/logout", server.AdminLogout)
			admin.With(adminOnly).Get("/me", server.AdminMe)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	// Let in-flight notification emails finish before the process exits.
	solutionInquiries.Wait()
	serviceInquiries.Wait()
	contactsHandler.Wait()
	logger.Info("server stopped")
}
