// Package api exposes the backend gateway over HTTP.
//
//	GET    /api/v1/health
//	GET    /api/v1/vault/exists
//	POST   /api/v1/vault                       create
//	POST   /api/v1/vault/unlock
//	POST   /api/v1/vault/lock
//	GET    /api/v1/vault
//	PUT    /api/v1/vault/settings
//	PUT    /api/v1/vault/password
//	GET    /api/v1/service-types/defaults
//	POST   /api/v1/service-types
//	PUT    /api/v1/service-types/{id}
//	DELETE /api/v1/service-types/{id}
//	POST   /api/v1/services
//	POST   /api/v1/services/batch
//	POST   /api/v1/services/delete
//	PUT    /api/v1/services/{id}
//	DELETE /api/v1/services/{id}
//	POST   /api/v1/accounts
//	POST   /api/v1/accounts/bulk
//	PUT    /api/v1/accounts/{id}
//	DELETE /api/v1/accounts/{id}
//	POST   /api/v1/accounts/{id}/services
//	GET    /metrics
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	accountAPI "credvault/internal/app/server/api/http/account"
	healthAPI "credvault/internal/app/server/api/http/health"
	"credvault/internal/app/server/api/http/middleware/auth"
	"credvault/internal/app/server/api/http/middleware/logger"
	metricsMW "credvault/internal/app/server/api/http/middleware/metrics"
	serviceAPI "credvault/internal/app/server/api/http/service"
	serviceTypeAPI "credvault/internal/app/server/api/http/servicetype"
	vaultAPI "credvault/internal/app/server/api/http/vault"
	"credvault/internal/domain/catalog"
	"credvault/internal/metrics"
)

const Version = "1.0.0"

type Options struct {
	// Token enables bearer authentication on every route except health and metrics.
	Token   string
	Metrics *metrics.Metrics
	Pinger  healthAPI.Pinger
}

// New builds a router with every operation registered through huma.
func New(gateway catalog.Gateway, log *slog.Logger, opts Options) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("credvault API", Version)
	var security []map[string][]string
	if opts.Token != "" {
		config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
			"bearer": {Type: "http", Scheme: "bearer"},
		}
		security = []map[string][]string{{"bearer": {}}}
	}

	api := humachi.New(mux, config)

	common := huma.Middlewares{logger.New(log).Middleware()}
	if opts.Metrics != nil {
		common = append(common, metricsMW.Middleware(opts.Metrics))
	}
	protected := append(huma.Middlewares{}, common...)
	if opts.Token != "" {
		protected = append(protected, auth.New(opts.Token, log).Middleware())
	}

	healthAPI.NewHandler(log, common, opts.Pinger).SetupRoutes(api)
	vaultAPI.NewHandler(gateway, log, protected, security).SetupRoutes(api)
	serviceTypeAPI.NewHandler(gateway, log, protected, security).SetupRoutes(api)
	serviceAPI.NewHandler(gateway, log, protected, security).SetupRoutes(api)
	accountAPI.NewHandler(gateway, log, protected, security).SetupRoutes(api)

	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics.Handler())
	}

	return mux
}
