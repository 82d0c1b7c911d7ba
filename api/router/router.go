package router

import (
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"

	config "github.com/tbeaudouin05/efi-proxy/api/config"
	efiapp "github.com/tbeaudouin05/efi-proxy/api/services/efi/app"
)

const (
	ProxyPath       = "/api/efi"
	LegacyProxyPath = "/api/api_efi"
	HealthPath      = "/api/health"
)

// NewRouter returns the central HTTP router for the API.
// Every route is wrapped by request logging and CORS; only the proxy
// routes require the shared API key.
func NewRouter(cfg *config.Config, svc efiapp.Service, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := runtime.NewServeMux()
	p := &proxy{apiKey: cfg.ProxyAPIKey, svc: svc, logger: logger}

	routes := []struct {
		method string
		path   string
		h      runtime.HandlerFunc
	}{
		{http.MethodPost, ProxyPath, p.handle},
		{http.MethodPost, LegacyProxyPath, p.handle},
		{http.MethodGet, HealthPath, healthHandler(cfg)},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.path, rt.h); err != nil {
			logger.Error("failed to register route", zap.String("path", rt.path), zap.Error(err))
		}
	}

	return withRequestLog(logger, withCORS(mux))
}
