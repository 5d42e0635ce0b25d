package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "timesheet-tracker",
	Short: "Timesheet Tracker",
	Long:  `For logging daily project hours, verifying them and sending weekly reminders.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// containerized deployments are configured through the environment only.
func containerized() bool {
	return os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true"
}

// loadConfig reads, validates and applies the logging section of the config.
func loadConfig(dir string) (*internal.Config, error) {
	source := "config file"
	var (
		cfg *internal.Config
		err error
	)
	if containerized() {
		source = "environment"
		cfg = internal.LoadConfigFromEnv()
	} else if cfg, err = readConfigFile(dir); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config from %s: %w", source, err)
	}
	logger.Init(cfg.Logging.Format, cfg.Logging.Level)
	return cfg, nil
}

// readConfigFile loads <dir>/config.yml. ENV_ prefixed variables override
// file keys, so ENV_DATABASE_SOURCE replaces database.source.
func readConfigFile(dir string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

func init() {
	// hours travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yml")

	rootCmd.AddCommand(httpServerCmd, migrateCmd, seedCmd, schedulerCmd)
}
