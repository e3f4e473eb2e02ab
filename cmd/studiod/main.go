package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/verticali/booking/internal/httpserver"
	"github.com/verticali/booking/internal/sheetsink"
	"github.com/verticali/booking/internal/store/gormstore"
	"github.com/verticali/booking/pkg/studio"
)

const (
	flagDatabaseURL     = "database-url"
	flagListenAddr      = "listen-addr"
	flagAllowedOrigins  = "allowed-origins"
	flagSessionKey      = "session-signing-key"
	flagSessionIssuer   = "session-issuer"
	flagSessionCookie   = "session-cookie-name"
	flagSheetWebhookURL = "sheet-webhook-url"

	configKeyDatabaseURL     = "database_url"
	configKeyListenAddr      = "listen_addr"
	configKeyAllowedOrigins  = "allowed_origins"
	configKeySessionKey      = "session_signing_key"
	configKeySessionIssuer   = "session_issuer"
	configKeySessionCookie   = "session_cookie_name"
	configKeySheetWebhookURL = "sheet_webhook_url"

	defaultDatabaseURL = "sqlite:///tmp/studio.db"
	defaultListenAddr  = ":9090"
)

type runtimeConfig struct {
	DatabaseURL       string
	ListenAddr        string
	AllowedOrigins    string
	SessionSigningKey string
	SessionIssuer     string
	SessionCookieName string
	SheetWebhookURL   string
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "studiod: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &runtimeConfig{}
	cmd := &cobra.Command{
		Use:           "studiod",
		Short:         "Studio booking and billing server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().String(flagDatabaseURL, defaultDatabaseURL, "PostgreSQL or sqlite connection string")
	cmd.Flags().String(flagListenAddr, defaultListenAddr, "HTTP listen address")
	cmd.Flags().String(flagAllowedOrigins, "", "comma-delimited CORS origins")
	cmd.Flags().String(flagSessionKey, "", "session cookie signing key")
	cmd.Flags().String(flagSessionIssuer, "", "session token issuer")
	cmd.Flags().String(flagSessionCookie, "", "session cookie name")
	cmd.Flags().String(flagSheetWebhookURL, "", "spreadsheet webhook endpoint (optional)")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *runtimeConfig) error {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	bindings := map[string]string{
		configKeyDatabaseURL:     "DATABASE_URL",
		configKeyListenAddr:      "LISTEN_ADDR",
		configKeyAllowedOrigins:  "ALLOWED_ORIGINS",
		configKeySessionKey:      "SESSION_SIGNING_KEY",
		configKeySessionIssuer:   "SESSION_ISSUER",
		configKeySessionCookie:   "SESSION_COOKIE_NAME",
		configKeySheetWebhookURL: "SHEET_WEBHOOK_URL",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}

	flags := map[string]string{
		configKeyDatabaseURL:     flagDatabaseURL,
		configKeyListenAddr:      flagListenAddr,
		configKeyAllowedOrigins:  flagAllowedOrigins,
		configKeySessionKey:      flagSessionKey,
		configKeySessionIssuer:   flagSessionIssuer,
		configKeySessionCookie:   flagSessionCookie,
		configKeySheetWebhookURL: flagSheetWebhookURL,
	}
	for key, flag := range flags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	cfg.DatabaseURL = viper.GetString(configKeyDatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	cfg.ListenAddr = viper.GetString(configKeyListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	cfg.AllowedOrigins = viper.GetString(configKeyAllowedOrigins)
	cfg.SessionSigningKey = viper.GetString(configKeySessionKey)
	cfg.SessionIssuer = viper.GetString(configKeySessionIssuer)
	cfg.SessionCookieName = viper.GetString(configKeySessionCookie)
	cfg.SheetWebhookURL = viper.GetString(configKeySheetWebhookURL)

	if cfg.SessionSigningKey == "" {
		return fmt.Errorf("session signing key is required")
	}
	return nil
}

func runServer(ctx context.Context, cfg *runtimeConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, cleanup, driver, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer func() { _ = cleanup() }()

	if err := prepareSchema(gormDB, driver); err != nil {
		return err
	}

	store := gormstore.New(gormDB)
	clock := func() int64 { return time.Now().UTC().Unix() }

	serviceOptions := []studio.ServiceOption{
		studio.WithOperationLogger(newZapOperationLogger(logger)),
	}
	if cfg.SheetWebhookURL != "" {
		sink, sinkErr := sheetsink.NewWebhookSink(cfg.SheetWebhookURL, logger)
		if sinkErr != nil {
			return fmt.Errorf("sheet sink init: %w", sinkErr)
		}
		serviceOptions = append(serviceOptions, studio.WithNotifier(sink))
	}

	service, err := studio.NewService(store, clock, serviceOptions...)
	if err != nil {
		return fmt.Errorf("studio service init: %w", err)
	}

	serverCfg := httpserver.Config{
		ListenAddr:        cfg.ListenAddr,
		AllowedOrigins:    httpserver.ParseAllowedOrigins(cfg.AllowedOrigins),
		SessionSigningKey: cfg.SessionSigningKey,
		SessionIssuer:     cfg.SessionIssuer,
		SessionCookieName: cfg.SessionCookieName,
	}
	return httpserver.Run(ctx, serverCfg, service, logger)
}

func openDatabase(ctx context.Context, dsn string) (*gorm.DB, func() error, string, error) {
	driver, sqlitePath, err := resolveDriver(dsn)
	if err != nil {
		return nil, nil, "", err
	}

	var db *gorm.DB
	cfg := &gorm.Config{}
	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(sqlitePath), cfg)
	default:
		return nil, nil, "", fmt.Errorf("unsupported database scheme %q", driver)
	}
	if err != nil {
		return nil, nil, "", err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, "", err
	}
	cleanup := func() error { return sqlDB.Close() }
	return db.WithContext(ctx), cleanup, driver, nil
}

func resolveDriver(dsn string) (string, string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres", "", nil
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", "", fmt.Errorf("parse sqlite url: %w", err)
		}
		path := u.Path
		if path == "" {
			path = u.Host
		}
		if path == "" || path == "/" {
			path = "studio.db"
		}
		sqlitePath, err := normalizeSQLitePath(path)
		return "sqlite", sqlitePath, err
	}
	// Treat everything else as a direct sqlite path.
	sqlitePath, err := normalizeSQLitePath(dsn)
	return "sqlite", sqlitePath, err
}

func normalizeSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "/") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	abs := filepath.Join(".", path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	return abs, nil
}

func prepareSchema(db *gorm.DB, driver string) error {
	if driver != "sqlite" {
		return nil
	}
	if err := db.AutoMigrate(gormstore.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

type zapOperationLogger struct {
	logger *zap.Logger
}

func newZapOperationLogger(logger *zap.Logger) studio.OperationLogger {
	return &zapOperationLogger{logger: logger}
}

func (operationLogger *zapOperationLogger) LogOperation(ctx context.Context, entry studio.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
	}
	if entry.UserID.String() != "" {
		fields = append(fields, zap.String("user_id", entry.UserID.String()))
	}
	if entry.ClassID.String() != "" {
		fields = append(fields, zap.String("class_id", entry.ClassID.String()))
	}
	if entry.BookingID.String() != "" {
		fields = append(fields, zap.String("booking_id", entry.BookingID.String()))
	}
	if entry.Method != "" {
		fields = append(fields, zap.String("method", entry.Method.String()))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		operationLogger.logger.Warn("operation failed", fields...)
		return
	}
	operationLogger.logger.Info("operation completed", fields...)
}
