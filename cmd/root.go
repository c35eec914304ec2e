package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/config"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/observability"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "r2v-to-plan2scene",
	Short:   "Convert raster-to-vector floorplan detections into 3D scene files.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "r2v-to-plan2scene"})
			return err
		}
		if err := cfg.Validate(); err != nil {
			observability.InitializeLogger(cfg.Logger)
			return err
		}

		observability.InitializeLogger(cfg.Logger)
		logger := observability.GetLogger()
		logger.Debug("configuration loaded", zap.String("version", Version))

		setRunConfig(cfg)
		return nil
	},
}

// Execute runs the root command. It accepts a context passed from main.go
// for graceful shutdown.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			// Context cancellation is an orderly shutdown, not a failure.
			if ctx.Err() == nil {
				logger.Error("Command execution failed", zap.Error(err))
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)
}

// runConfig holds the validated configuration for the invoked command.
// Cobra runs commands one at a time, so a package variable is sufficient;
// conversion workers receive the config explicitly.
var runConfig *config.Config

func setRunConfig(cfg *config.Config) { runConfig = cfg }

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("R2V")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars carry the run.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
