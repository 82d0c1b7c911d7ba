package config

import (
	"log"
)

const (
	EnvProduction = "production"
	EnvSandbox    = "sandbox"

	subscriptionsHostProduction = "cobrancas.api.efipay.com.br"
	subscriptionsHostSandbox    = "cobrancas-h.api.efipay.com.br"
	pixHostProduction           = "pix.api.efipay.com.br"
	pixHostSandbox              = "pix-h.api.efipay.com.br"
)

// SubscriptionsHost returns the plans/subscriptions API host for env.
func SubscriptionsHost(env string) string {
	if env == EnvProduction {
		return subscriptionsHostProduction
	}
	return subscriptionsHostSandbox
}

// PixHost returns the PIX API host for env.
func PixHost(env string) string {
	if env == EnvProduction {
		return pixHostProduction
	}
	return pixHostSandbox
}

// CheckNotProduction aborts immediately if the configured gateway environment is production.
// This should be called at the start of any test that talks to the real gateway.
func CheckNotProduction() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Environment() == EnvProduction {
		log.Fatalf("Tests aborted: EFI_AMBIENTE points at the production gateway")
	}
}
