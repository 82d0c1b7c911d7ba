package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	config "github.com/tbeaudouin05/efi-proxy/api/config"
	database "github.com/tbeaudouin05/efi-proxy/api/database"
	efiapp "github.com/tbeaudouin05/efi-proxy/api/services/efi/app"
	efidb "github.com/tbeaudouin05/efi-proxy/api/services/efi/db"
	efigw "github.com/tbeaudouin05/efi-proxy/api/services/efi/gateway/efi"
)

var efiService efiapp.Service
var ledgerDB *sql.DB
var initOnce sync.Once
var initErr error

// Init wires the gateway client, the optional ledger and the app service from cfg.
func Init(cfg *config.Config, logger *zap.Logger) error {
	config.AppConfig = cfg
	// If a service has already been injected (e.g., tests), do not override or init heavy deps.
	if efiService != nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var cert *tls.Certificate
	if cfg.EfiCertificateBase64 != "" {
		c, err := efigw.LoadCertificate(cfg.EfiCertificateBase64)
		if err != nil {
			// The proxy still serves plans and subscriptions; PIX calls report the missing certificate.
			logger.Error("failed to load EFI_CERTIFICATE_BASE64", zap.Error(err))
		} else {
			cert = &c
		}
	}

	var ledger efiapp.Ledger
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return err
		}
		ledgerDB = db
		ledger = efidb.NewLedger(db, cfg.Environment())
	}

	gateway := efigw.New(efigw.Options{
		SubscriptionsBaseURL: cfg.SubscriptionsBaseURL,
		PixBaseURL:           cfg.PixBaseURL,
		ClientID:             cfg.EfiClientID,
		ClientSecret:         cfg.EfiClientSecret,
		Certificate:          cert,
		Logger:               logger.Named("efi"),
	})

	efiService = efiapp.NewService(gateway, efiapp.Options{
		Environment: cfg.Environment(),
		PixKey:      cfg.EfiChavePix,
		Ledger:      ledger,
		Logger:      logger.Named("app"),
	})
	logger.Info("efi proxy wired",
		zap.String("environment", cfg.Environment()),
		zap.Bool("pix_certificate", cert != nil),
		zap.Bool("ledger", ledger != nil))
	return nil
}

func GetEfiService() efiapp.Service { return efiService }

// SetEfiService allows tests to inject a stub implementation.
func SetEfiService(s efiapp.Service) { efiService = s }

// Ensure runs Init() once per process and returns any initialization error.
func Ensure(cfg *config.Config, logger *zap.Logger) error {
	initOnce.Do(func() {
		initErr = Init(cfg, logger)
	})
	return initErr
}

// Close releases the ledger connection, if any.
func Close() error {
	if ledgerDB == nil {
		return nil
	}
	return ledgerDB.Close()
}
