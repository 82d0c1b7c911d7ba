package router

import (
	"net/http"
	"time"

	config "github.com/tbeaudouin05/efi-proxy/api/config"
)

// Version is reported by the health endpoint; overridden at build time with -ldflags.
var Version = "dev"

type healthEnvironment struct {
	HasClientID     bool   `json:"hasClientId"`
	HasClientSecret bool   `json:"hasClientSecret"`
	HasCertificate  bool   `json:"hasCertificate"`
	HasProxyKey     bool   `json:"hasProxyKey"`
	HasPixKey       bool   `json:"hasEfiChavePix"`
	Ambiente        string `json:"ambiente"`
}

type healthResponse struct {
	Status      string            `json:"status"`
	Message     string            `json:"message"`
	Timestamp   string            `json:"timestamp"`
	Version     string            `json:"version"`
	Environment healthEnvironment `json:"environment"`
}

// healthHandler reports which credentials are configured, never their values.
func healthHandler(cfg *config.Config) func(http.ResponseWriter, *http.Request, map[string]string) {
	return func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			Message:   "proxy server running",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Version:   Version,
			Environment: healthEnvironment{
				HasClientID:     cfg.EfiClientID != "",
				HasClientSecret: cfg.EfiClientSecret != "",
				HasCertificate:  cfg.EfiCertificateBase64 != "",
				HasProxyKey:     cfg.ProxyAPIKey != "",
				HasPixKey:       cfg.EfiChavePix != "",
				Ambiente:        cfg.EnvironmentLabel(),
			},
		})
	}
}
