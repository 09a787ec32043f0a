// Somweb-bridge connects a SOMMER SOMweb garage door controller to
// Home Assistant over MQTT.
//
// It authenticates against the SOMweb portal, discovers the attached doors,
// announces each one as a cover entity via MQTT discovery, polls door status
// periodically and executes OPEN/CLOSE commands arriving on the command topics.
//
// Usage:
//
//	somweb-bridge --config /etc/somweb-bridge/config.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"somweb-bridge/internal/adapters/output/mqtt"
	"somweb-bridge/internal/adapters/output/persistence"
	"somweb-bridge/internal/adapters/output/somweb"
	"somweb-bridge/internal/domain/service"
	"somweb-bridge/internal/logging"
	"somweb-bridge/internal/version"
)

const defaultConfigPath = "/etc/somweb-bridge/config.yaml"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "somweb-bridge",
	Short: "SOMweb garage door to Home Assistant MQTT bridge",
	Long: `Exposes the doors of a SOMMER SOMweb controller to Home Assistant.

Doors are announced via MQTT discovery as garage covers, door status is
polled on a fixed interval, and OPEN/CLOSE commands are accepted on the
per-door command topics. Credentials and broker settings come from a YAML
config file, overridable via SOMWEB_UDI, SOMWEB_USERNAME, SOMWEB_PASSWORD
and MQTT_BROKER.`,
	Version:      version.Version,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to the config file (default $CONFIG_PATH or "+defaultConfigPath+")")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "",
		"override the configured log level (debug|info|warn|error)")
}

func run(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configRepo := persistence.NewYAMLConfigRepository(path)
	cfg, err := configRepo.Get(ctx)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := somweb.NewClient(cfg.Somweb, logger)
	publisher, err := mqtt.Connect(cfg.MQTT, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	bridge := service.NewBridgeService(client, publisher, cfg.Somweb.UDI, logger)
	if err := bridge.Setup(ctx); err != nil {
		logger.Error("setup failed", zap.Error(err))
		return err
	}

	// Initial state before the first tick.
	bridge.UpdateAll(ctx)

	logger.Info("bridge running",
		zap.String("udi", cfg.Somweb.UDI),
		zap.Duration("poll_interval", cfg.PollInterval()))

	ticker := time.NewTicker(cfg.PollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			bridge.UpdateAll(ctx)
		}
	}
}
