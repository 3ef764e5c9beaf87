package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cloudapps "github.com/cd1zz/defender-for-cloud-apps-api-client"
)

var (
	cfgFile string
	cfg     config
	logger  zerolog.Logger
	client  *cloudapps.Client
)

type config struct {
	BaseURL      string `mapstructure:"base_url"`
	APIToken     string `mapstructure:"api_token"`
	TenantID     string `mapstructure:"tenant_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`

	RateLimitSeconds float64 `mapstructure:"rate_limit_seconds"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"`
	MaxRetries       int     `mapstructure:"max_retries"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
}

var rootCmd = &cobra.Command{
	Use:   "cloudappsctl",
	Short: "Query Microsoft Defender for Cloud Apps",
	Long: `cloudappsctl queries the Defender for Cloud Apps API: security alerts,
activity records, file exposure, cloud discovery, and IP subnet
enrichment data.

Configuration is read from config.yaml (or --config) and may be
overridden with CLOUDAPPS_* environment variables, e.g.
CLOUDAPPS_API_TOKEN.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			client.Close()
		}
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(subnetsCmd)
}

func initializeApp(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logger = setupLogger()

	opts := []cloudapps.ClientOption{
		cloudapps.WithBaseURL(cfg.BaseURL),
		cloudapps.WithLogger(logger),
	}
	if cfg.APIToken != "" {
		opts = append(opts, cloudapps.WithAPIToken(cfg.APIToken))
	}
	if cfg.TenantID != "" || cfg.ClientID != "" || cfg.ClientSecret != "" {
		opts = append(opts, cloudapps.WithOAuth2(cfg.TenantID, cfg.ClientID, cfg.ClientSecret))
	}
	if cfg.RateLimitSeconds > 0 {
		opts = append(opts, cloudapps.WithRateLimitInterval(time.Duration(cfg.RateLimitSeconds*float64(time.Second))))
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, cloudapps.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, cloudapps.WithMaxRetries(cfg.MaxRetries))
	}

	var err error
	client, err = cloudapps.NewClient(opts...)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	return nil
}

func loadConfig() error {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.cloudappsctl")
		}
		v.AddConfigPath("/etc/cloudappsctl/")
	}

	v.SetEnvPrefix("CLOUDAPPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional when the environment carries the
		// credentials.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	// AutomaticEnv does not surface env-only keys through Unmarshal, so
	// bind the ones the client needs explicitly.
	for _, key := range []string{
		"base_url", "api_token", "tenant_id", "client_id", "client_secret",
		"rate_limit_seconds", "timeout_seconds", "max_retries",
	} {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.BaseURL == "" {
		return fmt.Errorf("base_url is required (config file or CLOUDAPPS_BASE_URL)")
	}

	return nil
}

func setupLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}
