package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/etc-team/bestellung/pkg/auth"
	"github.com/etc-team/bestellung/pkg/common"
	"github.com/etc-team/bestellung/pkg/config"
	"github.com/etc-team/bestellung/pkg/credentials"
	"github.com/etc-team/bestellung/pkg/crm"
	"github.com/etc-team/bestellung/pkg/middleware"
	"github.com/etc-team/bestellung/pkg/odoo"
	"github.com/etc-team/bestellung/pkg/pages"
	"github.com/etc-team/bestellung/pkg/product"
	"github.com/etc-team/bestellung/pkg/session"
)

// Paths served without a session besides the login page and auth API.
var publicPrefixes = []string{"/favicon.ico", "/images/", "/signing/"}

type app struct {
	handler http.Handler
	metrics http.Handler
	gate    *middleware.Auth
}

func newApp(cfg *config.Config, log *zap.SugaredLogger, reg *prometheus.Registry) (*app, error) {
	metrics := middleware.NewMetrics(reg)
	cookie := session.CookieOptions{Name: cfg.SessionCookieName, Secure: cfg.SecureCookies}

	var (
		gateSM middleware.ISessionManager
		minter auth.IMinter
	)
	if cfg.AuthEnabled() {
		sm, err := session.NewManager(cfg.SessionSecret)
		if err != nil {
			return nil, &config.ConfigurationError{Field: "ETC_SESSION_SECRET", Reason: err.Error()}
		}
		gateSM, minter = sm, sm
	}

	verifier := credentials.NewVerifier(cfg.LoginUsername, cfg.LoginPassword,
		credentials.WithPasswordHash(cfg.LoginPasswordHash),
		credentials.WithSecondFactor(cfg.TOTPSecret),
	)
	authHandler := auth.NewHandler(auth.NewService(verifier, minter), cookie, metrics)

	odooClient := odoo.NewClient(odoo.Config{
		BaseURL:  cfg.OdooBaseURL,
		APIKey:   cfg.OdooAPIKey,
		Database: cfg.OdooDatabase,
		Timeout:  cfg.OdooTimeout,
	})
	crmHandler := crm.NewHandler(crm.NewService(odooClient))
	productHandler := product.NewHandler(product.NewService(odooClient))

	pageHandler, err := pages.NewHandler()
	if err != nil {
		return nil, fmt.Errorf("main: can't load pages, %w", err)
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		common.WriteError(w, req, "not found", http.StatusNotFound)
	})

	// Pages
	r.HandleFunc("/", pageHandler.Index).Methods(http.MethodGet)
	r.HandleFunc("/login", pageHandler.Login).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// Odoo
	api.HandleFunc("/crm/opportunities", crmHandler.Opportunities).Methods(http.MethodGet)
	api.HandleFunc("/odoo/crm", crmHandler.Leads).Methods(http.MethodGet)
	api.HandleFunc("/products", productHandler.List).Methods(http.MethodGet)

	gate := middleware.NewAuthMiddleware(gateSM,
		middleware.WithCookie(cookie),
		middleware.WithPublicPrefixes(publicPrefixes...),
		middleware.WithGateObserver(metrics),
	)
	logMiddleware := middleware.NewLoggingMiddleware(log)

	// Wrapped outside the router so the gate also sees requests no route matches.
	var handler http.Handler = r
	for _, mw := range []mux.MiddlewareFunc{
		gate.Middleware,
		metrics.Instrument,
		logMiddleware.AccessLog,
		logMiddleware.SetupLogging,
		logMiddleware.SetupTracing,
	} {
		handler = mw(handler)
	}

	return &app{
		handler: handler,
		metrics: metricsHandler(reg),
		gate:    gate,
	}, nil
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		common.WriteRespJSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}
